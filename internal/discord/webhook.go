// Package discord delivers assembled messages to Discord webhook URLs.
// Payloads reuse discordgo's wire types; transport is plain HTTP because
// the relay posts to arbitrary pre-registered webhook URLs rather than
// through a gateway session.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"time"

	"github.com/bwmarrin/discordgo"

	"relaybot/internal/domain"
)

// Dispatcher performs exactly one POST per delivery: JSON for text-only
// posts, multipart (payload_json + file) when an attachment is present.
type Dispatcher struct {
	client *http.Client
	logger *slog.Logger
}

type DispatcherConfig struct {
	Client *http.Client
	Logger *slog.Logger
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Client == nil {
		cfg.Client = newHTTPClient(30 * time.Second)
	}
	return &Dispatcher{
		client: cfg.Client,
		logger: cfg.Logger,
	}
}

// Execute posts params as an application/json body.
func (d *Dispatcher) Execute(ctx context.Context, webhookURL string, params *discordgo.WebhookParams) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return d.do(req)
}

// ExecuteWithFile posts params as multipart form data: a payload_json
// part carrying the JSON-encodable fields and a single file part
// carrying the attachment bytes.
func (d *Dispatcher) ExecuteWithFile(ctx context.Context, webhookURL string, params *discordgo.WebhookParams, att *domain.Attachment) error {
	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("payload_json", string(payload)); err != nil {
		return fmt.Errorf("write payload_json part: %w", err)
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, att.Filename))
	header.Set("Content-Type", att.MIME)
	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(att.Data); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, &buf)
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return d.do(req)
}

func (d *Dispatcher) do(req *http.Request) error {
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		// Discord error bodies are short JSON; keep a bounded excerpt.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	d.logger.Debug("webhook delivered", "status", resp.StatusCode)
	return nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
