package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"relaybot/internal/domain"
)

// LoadRoutingTable parses the raw routing blob. Malformed JSON degrades
// to an empty table: the failure is logged and owner-reported but never
// aborts request processing.
func LoadRoutingTable(ctx context.Context, raw string, reporter domain.Reporter, logger *slog.Logger, errMsg string) []domain.RoutingRule {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var table []domain.RoutingRule
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		logger.Error("invalid webhook config", "err", err)
		reporter.Report(ctx, errMsg)
		return nil
	}
	return table
}

// LoadEmbedStyle parses the raw embed style blob with the same
// degrade-to-default contract as LoadRoutingTable.
func LoadEmbedStyle(ctx context.Context, raw string, reporter domain.Reporter, logger *slog.Logger, errMsg string) domain.EmbedStyle {
	if strings.TrimSpace(raw) == "" {
		return domain.EmbedStyle{}
	}
	var style domain.EmbedStyle
	if err := json.Unmarshal([]byte(raw), &style); err != nil {
		logger.Error("invalid embed config", "err", err)
		reporter.Report(ctx, errMsg)
		return domain.EmbedStyle{}
	}
	return style
}
