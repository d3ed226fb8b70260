// Package relay implements the routing and message-assembly pipeline:
// parse the externally supplied routing configuration, pick a
// destination webhook, assemble the Discord payload, and deliver it.
// Each update is handled end to end with no shared state between
// requests; re-delivering the same update posts a duplicate.
package relay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"relaybot/internal/config"
	"relaybot/internal/domain"
	"relaybot/internal/lang"
	"relaybot/internal/metrics"
)

// Fetcher resolves a Telegram photo set to raw bytes.
type Fetcher interface {
	FetchLargestPhoto(ctx context.Context, photos []tgbotapi.PhotoSize) (*domain.Attachment, error)
}

// Dispatcher delivers an assembled payload to a Discord webhook.
type Dispatcher interface {
	Execute(ctx context.Context, webhookURL string, params *discordgo.WebhookParams) error
	ExecuteWithFile(ctx context.Context, webhookURL string, params *discordgo.WebhookParams, att *domain.Attachment) error
}

// Pipeline processes one Telegram update end to end.
type Pipeline struct {
	relayCfg   config.RelayConfig
	msgs       lang.Messages
	fetcher    Fetcher
	dispatcher Dispatcher
	reporter   domain.Reporter
	logger     *slog.Logger
}

type PipelineConfig struct {
	Relay      config.RelayConfig
	Messages   lang.Messages
	Fetcher    Fetcher
	Dispatcher Dispatcher
	Reporter   domain.Reporter
	Logger     *slog.Logger
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Reporter == nil {
		cfg.Reporter = domain.NopReporter{}
	}
	return &Pipeline{
		relayCfg:   cfg.Relay,
		msgs:       cfg.Messages,
		fetcher:    cfg.Fetcher,
		dispatcher: cfg.Dispatcher,
		reporter:   cfg.Reporter,
		logger:     cfg.Logger,
	}
}

// HandleUpdate routes and delivers a single channel post. Updates
// without a channel post are a no-op. Configuration problems degrade
// (empty routing table, default embed style) and are owner-reported; a
// failed photo fetch degrades to text-only delivery with a visible
// error marker. Only a delivery failure is returned to the caller.
func (p *Pipeline) HandleUpdate(ctx context.Context, update *tgbotapi.Update) error {
	post := update.ChannelPost
	if post == nil {
		return nil
	}

	postText := post.Text
	if postText == "" {
		postText = post.Caption
	}

	// The routing surface is re-parsed on every request: external edits
	// to the blobs take effect immediately and a malformed table only
	// degrades this one request.
	table := LoadRoutingTable(ctx, p.relayCfg.WebhookConfig, p.reporter, p.logger, p.msgs.InvalidWebhookConfig)
	style := LoadEmbedStyle(ctx, p.relayCfg.EmbedConfig, p.reporter, p.logger, p.msgs.InvalidEmbedConfig)

	decision := SelectWebhook(postText, table)
	if decision.Drop {
		metrics.PostsDropped.Inc()
		if decision.NoDefault {
			p.logger.Error("no default webhook configured, dropping post")
			p.reporter.Report(ctx, p.msgs.NoWebhookDefault)
		} else {
			p.logger.Info("suppression tag matched, skipping post", "message_id", post.MessageID)
		}
		return nil
	}

	chatUsername := ""
	if post.Chat != nil {
		chatUsername = post.Chat.UserName
	}
	embed := BuildEmbed(post.Video != nil, style, SourceURL(chatUsername, post.MessageID))
	mention := BuildMention(p.relayCfg.RoleID, p.relayCfg.UseEveryone)

	content := mention + "\n" + postText
	if len(post.Photo) > 0 {
		content += "\n"

		att, err := p.fetcher.FetchLargestPhoto(ctx, post.Photo)
		if err != nil {
			// Degrade to text-only delivery with a visible marker.
			metrics.FetchFailures.Inc()
			p.logger.Error("photo fetch failed", "err", err)
			notice := p.msgs.CriticalError + " Failed to get image from Telegram"
			content += "\n❌ " + notice
			p.reporter.Report(ctx, notice)
		} else {
			params := &discordgo.WebhookParams{
				Content: content,
				Embeds:  []*discordgo.MessageEmbed{embed},
			}
			if err := p.dispatcher.ExecuteWithFile(ctx, decision.Webhook, params, att); err != nil {
				metrics.DeliveryFailures.Inc()
				return fmt.Errorf("deliver photo post: %w", err)
			}
			metrics.PostsDelivered.Inc()
			p.logger.Info("photo post delivered", "message_id", post.MessageID)
			return nil
		}
	}

	params := &discordgo.WebhookParams{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
	if err := p.dispatcher.Execute(ctx, decision.Webhook, params); err != nil {
		metrics.DeliveryFailures.Inc()
		return fmt.Errorf("deliver post: %w", err)
	}
	metrics.PostsDelivered.Inc()
	p.logger.Info("post delivered", "message_id", post.MessageID)
	return nil
}
