package main

import (
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"relaybot/internal/domain"
	"relaybot/internal/lang"
)

// checkCmd validates the effective configuration: it parses the routing
// and embed blobs strictly (the server itself degrades them silently),
// verifies the language table, and optionally probes the bot token.
func checkCmd() *cobra.Command {
	var probeToken bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg := loadConfig()
			problems := 0

			var table []domain.RoutingRule
			if err := json.Unmarshal([]byte(cfg.Relay.WebhookConfig), &table); err != nil {
				logger.Error("webhook config does not parse", "err", err)
				problems++
			} else {
				hasDefault := false
				for _, rule := range table {
					if rule.Name == domain.RuleDefault && rule.Webhook != "" {
						hasDefault = true
					}
				}
				logger.Info("webhook config", "rules", len(table), "default_webhook", hasDefault)
				if !hasDefault {
					logger.Warn("no usable Default rule: unmatched posts will be dropped and reported")
				}
			}

			var style domain.EmbedStyle
			if err := json.Unmarshal([]byte(cfg.Relay.EmbedConfig), &style); err != nil {
				logger.Error("embed config does not parse", "err", err)
				problems++
			}

			if _, err := lang.ParseOverride(cfg.Lang.Languages); err != nil {
				logger.Error("LANGUAGES override does not parse", "err", err)
				problems++
			}
			logger.Info("language", "locale", cfg.Lang.Default)

			if cfg.Telegram.Token == "" {
				logger.Warn("telegram token not configured")
			} else if probeToken {
				bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
				if err != nil {
					logger.Error("telegram token rejected", "err", err)
					problems++
				} else {
					logger.Info("telegram token accepted", "username", bot.Self.UserName)
				}
			}

			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			logger.Info("configuration looks good")
			return nil
		},
	}

	cmd.Flags().BoolVar(&probeToken, "probe-token", false, "verify the Telegram token against the live API")
	return cmd
}
