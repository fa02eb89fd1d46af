package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"TaigiBot/internal/domain"
	"TaigiBot/internal/ports"
)

const intents = discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// Gateway connects to Discord over the websocket gateway and dispatches
// MESSAGE_CREATE events.
type Gateway struct {
	session *discordgo.Session
	logger  *slog.Logger
}

var _ ports.Gateway = (*Gateway)(nil)

// NewGateway prepares a session for the bot token without connecting.
func NewGateway(token string, logger *slog.Logger) (*Gateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = intents
	session.LogLevel = discordgo.LogWarning

	return &Gateway{session: session, logger: logger}, nil
}

// Run opens the connection and blocks until ctx is done. discordgo invokes
// every handler on its own goroutine, so one slow lookup never delays another.
// Handlers already running are waited for before the session closes.
func (g *Gateway) Run(ctx context.Context, handle ports.MessageHandler) error {
	if g.logger != nil {
		discordgo.Logger = slogBridge(g.logger)
	}

	var inflight tracker

	removeReady := g.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		if r.User != nil {
			g.info(ctx, "connected", "user", r.User.Username)
		}
	})
	defer removeReady()

	removeMessage := g.session.AddHandler(onMessage(ctx, handle, NewResponder(g.session), &inflight))
	defer removeMessage()

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}

	<-ctx.Done()
	inflight.drain()

	if err := g.session.Close(); err != nil {
		return fmt.Errorf("close discord gateway: %w", err)
	}
	return nil
}

func onMessage(ctx context.Context, handle ports.MessageHandler, out ports.Responder, inflight *tracker) func(*discordgo.Session, *discordgo.MessageCreate) {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		msg, ok := toMessage(m)
		if !ok || !inflight.start() {
			return
		}
		defer inflight.done()
		handle(ctx, msg, out)
	}
}

// tracker counts running handlers. After drain, start refuses new ones.
type tracker struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped bool
}

func (t *tracker) start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	t.wg.Add(1)
	return true
}

func (t *tracker) done() { t.wg.Done() }

func (t *tracker) drain() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	t.wg.Wait()
}

func toMessage(m *discordgo.MessageCreate) (domain.Message, bool) {
	if m == nil || m.Message == nil {
		return domain.Message{}, false
	}
	return domain.Message{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		AuthorIsBot: m.Author == nil || m.Author.Bot,
		Content:     m.Content,
	}, true
}

func (g *Gateway) info(ctx context.Context, msg string, args ...any) {
	if g.logger != nil {
		g.logger.InfoContext(ctx, msg, args...)
	}
}

// slogBridge routes discordgo's internal log lines into slog.
func slogBridge(logger *slog.Logger) func(msgL, caller int, format string, a ...any) {
	return func(msgL, _ int, format string, a ...any) {
		level := slog.LevelDebug
		switch msgL {
		case discordgo.LogError:
			level = slog.LevelError
		case discordgo.LogWarning:
			level = slog.LevelWarn
		case discordgo.LogInformational:
			level = slog.LevelInfo
		}
		logger.Log(context.Background(), level, fmt.Sprintf(format, a...), "source", "discordgo")
	}
}
