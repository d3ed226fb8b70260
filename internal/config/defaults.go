package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Path: "/webhook",
		},
		Relay: RelayConfig{
			WebhookConfig: "[]",
			EmbedConfig:   "{}",
		},
		Store: StoreConfig{
			DBPath: "~/.relaybot/relaybot.db",
		},
		Lang: LangConfig{
			Default: "ENG",
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Endpoint: "/metrics",
		},
	}
}
