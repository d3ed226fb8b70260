package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"relaybot/internal/config"
	"relaybot/internal/discord"
	"relaybot/internal/lang"
	"relaybot/internal/relay"
	"relaybot/internal/server"
	"relaybot/internal/store"
	"relaybot/internal/telegram"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = newLogger("info")

	root := &cobra.Command{
		Use:     "relaybot",
		Short:   "relaybot: Telegram channel to Discord webhook relay",
		Long:    "relaybot receives Telegram channel posts over a webhook and forwards them to Discord webhooks selected by tag-matching rules.",
		Version: version,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.relaybot/config.json)")

	root.AddCommand(serveCmd())
	root.AddCommand(initCmd())
	root.AddCommand(ownerCmd())
	root.AddCommand(checkCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the config file, falling back to defaults when it is
// missing, then overlays the flat env surface. The relay can run from
// env vars alone.
func loadConfig() *config.Config {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		cfg = config.Defaults()
	}
	config.FromEnv(cfg)
	return cfg
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook relay server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg := loadConfig()
	logger = newLogger(cfg.General.LogLevel)

	if cfg.Telegram.Token == "" {
		return errors.New("telegram token is required (telegram.token or TG_BOT_TOKEN)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := store.NewSQLiteStore(cfg.Store.DBPath, logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return err
	}
	logger.Info("telegram bot connected", "username", bot.Self.UserName, "id", bot.Self.ID)

	msgs := loadMessages(cfg)

	reporter := telegram.NewNotifier(telegram.NotifierConfig{
		Bot:    bot,
		Store:  kv,
		Logger: logger,
	})
	fetcher := telegram.NewFiles(telegram.FilesConfig{
		Resolver: bot,
		Token:    cfg.Telegram.Token,
		Logger:   logger,
	})
	dispatcher := discord.NewDispatcher(discord.DispatcherConfig{Logger: logger})

	pipeline := relay.NewPipeline(relay.PipelineConfig{
		Relay:      cfg.Relay,
		Messages:   msgs,
		Fetcher:    fetcher,
		Dispatcher: dispatcher,
		Reporter:   reporter,
		Logger:     logger,
	})

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Endpoint
	}
	srv := server.New(server.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Path:        cfg.Server.Path,
		SecretToken: cfg.Server.SecretToken,
		Handler:     pipeline,
		Reporter:    reporter,
		CriticalMsg: msgs.CriticalError,
		MetricsPath: metricsPath,
		Logger:      logger,
	})

	return srv.Start(ctx)
}

// loadMessages assembles the localized message table: built-in defaults,
// then YAML packs from disk, then the LANGUAGES JSON override.
func loadMessages(cfg *config.Config) lang.Messages {
	table := lang.Builtin()

	dirTable, err := lang.LoadDir(cfg.Lang.Dir, logger)
	if err != nil {
		logger.Warn("cannot load language packs", "dir", cfg.Lang.Dir, "err", err)
	} else {
		table = lang.Merge(table, dirTable)
	}

	override, err := lang.ParseOverride(cfg.Lang.Languages)
	if err != nil {
		logger.Error("invalid LANGUAGES JSON, keeping defaults", "err", err)
	} else {
		table = lang.Merge(table, override)
	}

	return table.Select(cfg.Lang.Default)
}
