package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/patrickmn/go-cache"

	"amazon_offers/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	resendGuardTTL  = time.Hour
	cleanupInterval = 10 * time.Minute
)

// TelegramBot delivers notifications to one chat. Identical message bodies
// within the guard TTL are dropped: search pages repeat sponsored listings,
// and a history reset would otherwise flood the chat with re-sends.
type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
	recent *cache.Cache
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
		recent: cache.New(resendGuardTTL, cleanupInterval),
	}, nil
}

// SendText sends an HTML-formatted text message.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	if b.recentlySent("text:" + text) {
		logger(ctx).Debug("duplicate text notification suppressed")
		return nil
	}

	msg := tu.Message(tu.ID(b.chatID), text).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	b.markSent("text:" + text)

	return nil
}

// SendPhoto sends a photo by URL with an HTML caption; Telegram fetches the
// image itself.
func (b *TelegramBot) SendPhoto(ctx context.Context, photoURL, caption string) error {
	key := "photo:" + photoURL + ":" + caption
	if b.recentlySent(key) {
		logger(ctx).Debug("duplicate photo notification suppressed")
		return nil
	}

	msg := tu.Photo(tu.ID(b.chatID), tu.FileFromURL(photoURL)).
		WithCaption(caption).
		WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendPhoto(ctx, msg); err != nil {
		return fmt.Errorf("send photo: %w", err)
	}

	b.markSent(key)

	return nil
}

func (b *TelegramBot) recentlySent(key string) bool {
	_, found := b.recent.Get(key)
	return found
}

func (b *TelegramBot) markSent(key string) {
	b.recent.SetDefault(key, struct{}{})
}
