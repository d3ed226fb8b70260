package discord

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"relaybot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func testParams() *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content: "@everyone\nhello",
		Embeds: []*discordgo.MessageEmbed{{
			Title: "Click to read in Telegram",
			URL:   "https://t.me/chan/7",
			Color: 0x007BFF,
		}},
	}
}

func TestExecute_PostsJSON(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDispatcher(DispatcherConfig{Logger: testLogger()})
	if err := d.Execute(context.Background(), srv.URL, testParams()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotContentType != "application/json" {
		t.Fatalf("expected application/json, got %q", gotContentType)
	}
	var decoded struct {
		Content string `json:"content"`
		Embeds  []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
			Color int    `json:"color"`
		} `json:"embeds"`
	}
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if decoded.Content != "@everyone\nhello" {
		t.Fatalf("unexpected content %q", decoded.Content)
	}
	if len(decoded.Embeds) != 1 || decoded.Embeds[0].URL != "https://t.me/chan/7" || decoded.Embeds[0].Color != 0x007BFF {
		t.Fatalf("unexpected embeds: %+v", decoded.Embeds)
	}
}

func TestExecuteWithFile_PostsMultipart(t *testing.T) {
	type part struct {
		name     string
		filename string
		mimeType string
		body     []byte
	}
	var parts []part
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, mtParams, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("expected multipart/form-data, got %q", r.Header.Get("Content-Type"))
			return
		}
		mr := multipart.NewReader(r.Body, mtParams["boundary"])
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Errorf("read part: %v", err)
				return
			}
			body, _ := io.ReadAll(p)
			parts = append(parts, part{
				name:     p.FormName(),
				filename: p.FileName(),
				mimeType: p.Header.Get("Content-Type"),
				body:     body,
			})
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	att := &domain.Attachment{Data: []byte("jpegbytes"), Filename: "image.jpg", MIME: "image/jpeg"}
	d := NewDispatcher(DispatcherConfig{Logger: testLogger()})
	if err := d.ExecuteWithFile(context.Background(), srv.URL, testParams(), att); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(parts) != 2 {
		t.Fatalf("expected exactly 2 parts, got %d", len(parts))
	}
	if parts[0].name != "payload_json" {
		t.Fatalf("first part should be payload_json, got %q", parts[0].name)
	}
	var payload discordgo.WebhookParams
	if err := json.Unmarshal(parts[0].body, &payload); err != nil {
		t.Fatalf("payload_json is not valid JSON: %v", err)
	}
	if payload.Content != "@everyone\nhello" {
		t.Fatalf("unexpected payload content %q", payload.Content)
	}
	if parts[1].name != "file" || parts[1].filename != "image.jpg" {
		t.Fatalf("unexpected file part: name=%q filename=%q", parts[1].name, parts[1].filename)
	}
	if parts[1].mimeType != "image/jpeg" {
		t.Fatalf("unexpected file part content type %q", parts[1].mimeType)
	}
	if string(parts[1].body) != "jpegbytes" {
		t.Fatal("attachment bytes not forwarded verbatim")
	}
}

func TestDispatcher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unknown Webhook","code":10015}`, http.StatusNotFound)
	}))
	defer srv.Close()

	d := NewDispatcher(DispatcherConfig{Logger: testLogger()})
	err := d.Execute(context.Background(), srv.URL, testParams())
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "Unknown Webhook") {
		t.Fatalf("error should carry status and body excerpt, got %v", err)
	}
}

func TestDispatcher_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // deliberately closed

	d := NewDispatcher(DispatcherConfig{Logger: testLogger()})
	if err := d.Execute(context.Background(), srv.URL, testParams()); err == nil {
		t.Fatal("expected an error when the endpoint is unreachable")
	}
}
