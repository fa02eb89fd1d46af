package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"TaigiBot/internal/domain"
	"TaigiBot/internal/ports"
)

// clientSlack keeps the HTTP timeout above the long-poll timeout.
const clientSlack = 10 * time.Second

// Gateway receives messages by long polling getUpdates.
type Gateway struct {
	api    *bot.Bot
	logger *slog.Logger
}

var _ ports.Gateway = (*Gateway)(nil)

// NewGateway prepares a Bot API client without calling the API.
func NewGateway(apiURL, botToken string, pollTimeout time.Duration, logger *slog.Logger) (*Gateway, error) {
	g := &Gateway{logger: logger}

	opts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(pollTimeout, &http.Client{Timeout: pollTimeout + clientSlack}),
		bot.WithAllowedUpdates(bot.AllowedUpdates{"message"}),
		// Handlers run inline so Run can track the goroutine it starts per update.
		bot.WithNotAsyncHandlers(),
		bot.WithDefaultHandler(func(context.Context, *bot.Bot, *models.Update) {}),
		bot.WithErrorsHandler(g.onError),
	}
	if apiURL != "" {
		opts = append(opts, bot.WithServerURL(strings.TrimRight(apiURL, "/")))
	}

	api, err := bot.New(botToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	g.api = api
	return g, nil
}

// Run polls until ctx is done. Each message is handled on its own goroutine;
// Run waits for in-flight handlers before returning.
func (g *Gateway) Run(ctx context.Context, handle ports.MessageHandler) error {
	out := NewResponder(g.api)

	var wg sync.WaitGroup
	id := g.api.RegisterHandlerMatchFunc(
		func(u *models.Update) bool { return u.Message != nil },
		func(ctx context.Context, _ *bot.Bot, u *models.Update) {
			msg := toMessage(u.Message)
			wg.Add(1)
			go func() {
				defer wg.Done()
				handle(ctx, msg, out)
			}()
		},
	)
	defer g.api.UnregisterHandler(id)

	g.api.Start(ctx)
	wg.Wait()
	return nil
}

func toMessage(m *models.Message) domain.Message {
	return domain.Message{
		ID:          strconv.Itoa(m.ID),
		ChannelID:   strconv.FormatInt(m.Chat.ID, 10),
		AuthorIsBot: m.From == nil || m.From.IsBot,
		Content:     m.Text,
	}
}

func (g *Gateway) onError(err error) {
	if g.logger != nil {
		g.logger.Warn("telegram api error", "error", err)
	}
}
