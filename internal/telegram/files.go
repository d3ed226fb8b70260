// Package telegram wraps the pieces of the Telegram Bot API the relay
// needs: resolving and downloading photo attachments, and notifying the
// bot owner over a direct message.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"relaybot/internal/domain"
)

// ErrFileInfoUnavailable means getFile failed or returned no file path.
var ErrFileInfoUnavailable = errors.New("telegram: file info unavailable")

const (
	attachmentFilename = "image.jpg"
	attachmentMIME     = "image/jpeg"

	maxAttachmentBytes = 8 << 20 // Discord webhook upload cap
)

// FileResolver is the subset of the bot API used to resolve file
// metadata. *tgbotapi.BotAPI satisfies it.
type FileResolver interface {
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

// Files downloads photo attachments via the two-step getFile protocol:
// resolve the file path, then fetch the bytes from the file endpoint.
type Files struct {
	resolver     FileResolver
	token        string
	fileEndpoint string
	client       *http.Client
	logger       *slog.Logger
}

type FilesConfig struct {
	Resolver FileResolver
	Token    string
	// FileEndpoint is a format string taking token and file path
	// (default: tgbotapi.FileEndpoint).
	FileEndpoint string
	Client       *http.Client
	Logger       *slog.Logger
}

func NewFiles(cfg FilesConfig) *Files {
	if cfg.FileEndpoint == "" {
		cfg.FileEndpoint = tgbotapi.FileEndpoint
	}
	if cfg.Client == nil {
		cfg.Client = newHTTPClient(30 * time.Second)
	}
	return &Files{
		resolver:     cfg.Resolver,
		token:        cfg.Token,
		fileEndpoint: cfg.FileEndpoint,
		client:       cfg.Client,
		logger:       cfg.Logger,
	}
}

// FetchLargestPhoto resolves and downloads the largest variant of a
// photo set. Telegram orders photo sizes smallest to largest, so only
// the last element is ever fetched.
func (f *Files) FetchLargestPhoto(ctx context.Context, photos []tgbotapi.PhotoSize) (*domain.Attachment, error) {
	if len(photos) == 0 {
		return nil, errors.New("telegram: empty photo set")
	}
	largest := photos[len(photos)-1]

	file, err := f.resolver.GetFile(tgbotapi.FileConfig{FileID: largest.FileID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileInfoUnavailable, err)
	}
	if file.FilePath == "" {
		return nil, ErrFileInfoUnavailable
	}

	url := fmt.Sprintf(f.fileEndpoint, f.token, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentBytes))
	if err != nil {
		return nil, fmt.Errorf("read file body: %w", err)
	}

	f.logger.Debug("photo downloaded",
		"file_id", largest.FileID,
		"bytes", len(data),
	)

	return &domain.Attachment{
		Data:     data,
		Filename: attachmentFilename,
		MIME:     attachmentMIME,
	}, nil
}

// newHTTPClient returns an HTTP client with connection pooling tuned for
// the handful of sequential calls a single request makes.
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
