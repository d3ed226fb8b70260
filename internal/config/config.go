package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config is the root configuration for the relay.
type Config struct {
	General  GeneralConfig  `json:"general"`
	Server   ServerConfig   `json:"server"`
	Telegram TelegramConfig `json:"telegram"`
	Relay    RelayConfig    `json:"relay"`
	Store    StoreConfig    `json:"store"`
	Lang     LangConfig     `json:"lang"`
	Metrics  MetricsConfig  `json:"metrics"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel"`
}

// ServerConfig configures the inbound webhook listener.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	Path string `json:"path"`
	// SecretToken, when set, must match the X-Telegram-Bot-Api-Secret-Token
	// header of every inbound request.
	SecretToken string `json:"secretToken,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token"`
}

// RelayConfig carries the routing surface of the relay. WebhookConfig and
// EmbedConfig are kept as raw JSON blobs: they are re-parsed on every
// request so that a malformed table degrades to an empty default instead
// of taking the whole service down.
type RelayConfig struct {
	RoleID        string `json:"roleId,omitempty"`
	UseEveryone   string `json:"useEveryone,omitempty"` // "true" or "1" is truthy
	WebhookConfig string `json:"webhookConfig,omitempty"`
	EmbedConfig   string `json:"embedConfig,omitempty"`
}

type StoreConfig struct {
	DBPath string `json:"dbPath"`
}

// LangConfig selects the localized operator message table. Dir points at
// a directory of per-locale YAML files; Languages is an optional raw JSON
// override in the LANGUAGES env format.
type LangConfig struct {
	Dir       string `json:"dir,omitempty"`
	Languages string `json:"languages,omitempty"`
	Default   string `json:"default"`
}

type MetricsConfig struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
}

// DefaultConfigDir returns the default config directory (~/.relaybot).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".relaybot"
	}
	return filepath.Join(home, ".relaybot")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.Store.DBPath = ExpandPath(cfg.Store.DBPath)
	cfg.Lang.Dir = ExpandPath(cfg.Lang.Dir)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // Keep original if no env var and no default
		}
		return val
	})
}

// FromEnv overlays the flat environment variable surface onto cfg. Set
// variables win over config-file values, so the relay can run entirely
// config-file-less.
func FromEnv(cfg *Config) {
	overlay := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	overlay(&cfg.Telegram.Token, "TG_BOT_TOKEN")
	overlay(&cfg.Relay.WebhookConfig, "WEBHOOK_CONFIG")
	overlay(&cfg.Relay.EmbedConfig, "EMBED_CONFIG")
	overlay(&cfg.Relay.RoleID, "ROLE_ID")
	overlay(&cfg.Relay.UseEveryone, "USE_EVERYONE")
	overlay(&cfg.Lang.Languages, "LANGUAGES")
	overlay(&cfg.Lang.Default, "MSG_LANG")
	overlay(&cfg.Server.SecretToken, "TG_WEBHOOK_SECRET")
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}
	if cfg.Server.Path != "" && !strings.HasPrefix(cfg.Server.Path, "/") {
		errs = append(errs, "server.path must start with /")
	}
	switch strings.ToLower(cfg.General.LogLevel) {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}
	if cfg.Lang.Default == "" {
		errs = append(errs, "lang.default must not be empty")
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Endpoint, "/") {
		errs = append(errs, "metrics.endpoint must start with /")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
