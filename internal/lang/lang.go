// Package lang holds the localized operator-facing message table used
// for owner notifications and inline error markers.
package lang

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is the fallback locale when the requested one is missing.
const DefaultLocale = "ENG"

// Messages is one locale's set of operator messages.
type Messages struct {
	InvalidWebhookConfig string `json:"invalidWebhookConfig" yaml:"invalidWebhookConfig"`
	InvalidEmbedConfig   string `json:"invalidEmbedConfig" yaml:"invalidEmbedConfig"`
	NoWebhookDefault     string `json:"noWebhookDefault" yaml:"noWebhookDefault"`
	CriticalError        string `json:"criticalError" yaml:"criticalError"`
}

// Table maps an uppercased locale code to its messages.
type Table map[string]Messages

// Builtin returns the compiled-in table. Only ENG ships by default.
func Builtin() Table {
	return Table{
		DefaultLocale: {
			InvalidWebhookConfig: "Invalid WEBHOOK_CONFIG JSON, routing table disabled",
			InvalidEmbedConfig:   "Invalid EMBED_CONFIG JSON, using default embed style",
			NoWebhookDefault:     "No Default webhook configured, post dropped",
			CriticalError:        "Critical error:",
		},
	}
}

// LoadDir loads per-locale YAML files from dir. The file name (without
// extension, uppercased) is the locale code. A missing directory is not
// an error; unreadable or malformed files are skipped with a warning.
func LoadDir(dir string, logger *slog.Logger) (Table, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Debug("language directory does not exist, skipping", "dir", dir)
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read language dir: %w", err)
	}

	table := Table{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("cannot read language file", "path", path, "err", err)
			continue
		}

		var msgs Messages
		if err := yaml.Unmarshal(data, &msgs); err != nil {
			logger.Warn("cannot parse language file", "path", path, "err", err)
			continue
		}

		locale := strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name)))
		table[locale] = msgs
		logger.Info("loaded language pack", "locale", locale, "path", path)
	}

	return table, nil
}

// ParseOverride parses the LANGUAGES env blob, a JSON map of locale to
// messages.
func ParseOverride(raw string) (Table, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var table Table
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, fmt.Errorf("parse LANGUAGES: %w", err)
	}
	upper := Table{}
	for locale, msgs := range table {
		upper[strings.ToUpper(locale)] = msgs
	}
	return upper, nil
}

// Merge overlays src onto dst and returns dst. Locales present in src
// replace dst's wholesale.
func Merge(dst, src Table) Table {
	if dst == nil {
		dst = Table{}
	}
	for locale, msgs := range src {
		dst[locale] = msgs
	}
	return dst
}

// Select picks the message set for locale (case-insensitive), falling
// back to ENG. Empty fields are filled from the built-in ENG set so a
// sparse pack never yields blank operator messages.
func (t Table) Select(locale string) Messages {
	msgs, ok := t[strings.ToUpper(locale)]
	if !ok {
		msgs = t[DefaultLocale]
	}

	base := Builtin()[DefaultLocale]
	if msgs.InvalidWebhookConfig == "" {
		msgs.InvalidWebhookConfig = base.InvalidWebhookConfig
	}
	if msgs.InvalidEmbedConfig == "" {
		msgs.InvalidEmbedConfig = base.InvalidEmbedConfig
	}
	if msgs.NoWebhookDefault == "" {
		msgs.NoWebhookDefault = base.NoWebhookDefault
	}
	if msgs.CriticalError == "" {
		msgs.CriticalError = base.CriticalError
	}
	return msgs
}
