// Package server is the HTTP entry point: it accepts Telegram webhook
// updates and hands channel posts to the relay pipeline.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"relaybot/internal/domain"
	"relaybot/internal/metrics"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateHandler processes one decoded Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update) error
}

// Server accepts Telegram webhook POSTs. Non-POST requests and updates
// without a channel post answer 200 OK without side effects; any
// processing failure answers a generic 500 after owner notification.
type Server struct {
	host        string
	port        int
	path        string
	secret      string
	handler     UpdateHandler
	reporter    domain.Reporter
	criticalMsg string
	metricsPath string
	logger      *slog.Logger
	srv         *http.Server
}

type Config struct {
	Host        string
	Port        int
	Path        string // webhook URL path (default: /webhook)
	SecretToken string // expected X-Telegram-Bot-Api-Secret-Token value
	Handler     UpdateHandler
	Reporter    domain.Reporter
	CriticalMsg string // localized prefix for owner error reports
	MetricsPath string // empty disables the metrics endpoint
	Logger      *slog.Logger
}

func New(cfg Config) *Server {
	if cfg.Path == "" {
		cfg.Path = "/webhook"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Reporter == nil {
		cfg.Reporter = domain.NopReporter{}
	}
	return &Server{
		host:        cfg.Host,
		port:        cfg.Port,
		path:        cfg.Path,
		secret:      cfg.SecretToken,
		handler:     cfg.Handler,
		reporter:    cfg.Reporter,
		criticalMsg: cfg.CriticalMsg,
		metricsPath: cfg.MetricsPath,
		logger:      cfg.Logger,
	}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleUpdate)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.metricsPath != "" {
		mux.HandleFunc(s.metricsPath, metrics.Collector.Handler())
	}

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("webhook server starting", "addr", s.srv.Addr, "path", s.path)

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	}
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		fmt.Fprint(w, "OK")
		return
	}

	if s.secret != "" {
		got := r.Header.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) != 1 {
			s.logger.Warn("secret token mismatch, rejecting update")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	metrics.UpdatesTotal.Inc()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB max
	if err != nil {
		s.fail(w, r.Context(), fmt.Errorf("read body: %w", err))
		return
	}
	defer r.Body.Close()

	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		s.fail(w, r.Context(), fmt.Errorf("decode update: %w", err))
		return
	}

	if update.ChannelPost == nil {
		fmt.Fprint(w, "OK")
		return
	}

	if err := s.handler.HandleUpdate(r.Context(), &update); err != nil {
		s.fail(w, r.Context(), err)
		return
	}
	fmt.Fprint(w, "OK")
}

// fail is the top-level catch: log, notify the owner, answer a generic
// 500 body.
func (s *Server) fail(w http.ResponseWriter, ctx context.Context, err error) {
	s.logger.Error("update processing failed", "err", err)
	s.reporter.Report(ctx, fmt.Sprintf("%s %v", s.criticalMsg, err))
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
