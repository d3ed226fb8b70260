package telegram

import (
	"context"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"relaybot/internal/domain"
	"relaybot/internal/metrics"
)

// Sender is the subset of the bot API used to send messages.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier implements domain.Reporter: it looks up the stored owner chat
// ID and sends the text as a direct message. Every failure here is
// logged and swallowed: a broken side channel must never replace the
// error it is reporting.
type Notifier struct {
	bot    Sender
	store  domain.KVStore
	logger *slog.Logger
}

type NotifierConfig struct {
	Bot    Sender
	Store  domain.KVStore
	Logger *slog.Logger
}

func NewNotifier(cfg NotifierConfig) *Notifier {
	return &Notifier{
		bot:    cfg.Bot,
		store:  cfg.Store,
		logger: cfg.Logger,
	}
}

func (n *Notifier) Report(ctx context.Context, text string) {
	ownerID, err := n.store.Get(ctx, domain.OwnerChatIDKey)
	if err != nil {
		n.logger.Error("owner lookup failed", "err", err)
		metrics.ReportFailures.Inc()
		return
	}
	if ownerID == "" {
		// No owner registered: nothing to do.
		return
	}

	chatID, err := strconv.ParseInt(ownerID, 10, 64)
	if err != nil {
		n.logger.Error("stored owner chat ID is not numeric", "value", ownerID, "err", err)
		metrics.ReportFailures.Inc()
		return
	}

	if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		n.logger.Error("owner notification failed", "err", err)
		metrics.ReportFailures.Inc()
		return
	}
	n.logger.Info("critical error sent to owner", "chat_id", chatID)
}
