package usecase

import (
	"context"
	"log/slog"
	"strings"

	"TaigiBot/internal/domain"
	"TaigiBot/internal/ports"
)

// BotDeps wires the lookup workflow to its collaborators.
type BotDeps struct {
	ChannelID  string
	Aggregator *Aggregator
	Formatter  Formatter
	Logger     *slog.Logger
}

// Bot answers keyword messages posted in a single channel.
type Bot struct {
	channelID  string
	aggregator *Aggregator
	formatter  Formatter
	logger     *slog.Logger
}

// NewBot constructs the message handling component.
func NewBot(deps BotDeps) *Bot {
	return &Bot{
		channelID:  deps.ChannelID,
		aggregator: deps.Aggregator,
		formatter:  deps.Formatter,
		logger:     deps.Logger,
	}
}

// HandleMessage looks up the message content and replies through out.
// It matches ports.MessageHandler.
func (b *Bot) HandleMessage(ctx context.Context, msg domain.Message, out ports.Responder) {
	if msg.AuthorIsBot || msg.ChannelID != b.channelID {
		return
	}

	keyword := strings.TrimSpace(msg.Content)
	if keyword == "" {
		b.deliver(ctx, msg, out, b.formatter.PromptReply())
		return
	}

	b.debug(ctx, "lookup", "keyword", keyword, "message_id", msg.ID)

	var outcome domain.Outcome
	if b.aggregator != nil {
		outcome = b.aggregator.Collect(ctx, keyword)
	}

	b.debug(ctx, "lookup done", "keyword", keyword, "results", len(outcome.Results), "errors", len(outcome.Errors))
	b.deliver(ctx, msg, out, b.formatter.Compose(keyword, outcome))
}

func (b *Bot) deliver(ctx context.Context, msg domain.Message, out ports.Responder, reply Reply) {
	switch reply.Kind {
	case ReplyReaction:
		if err := out.React(ctx, msg.ChannelID, msg.ID, reply.Text); err != nil {
			b.logError(ctx, "add reaction", "message_id", msg.ID, "error", err)
		}
	default:
		if err := out.SendText(ctx, msg.ChannelID, reply.Text); err != nil {
			b.logError(ctx, "send message", "channel_id", msg.ChannelID, "error", err)
		}
	}
}

func (b *Bot) debug(ctx context.Context, msg string, args ...any) {
	if b.logger != nil {
		b.logger.DebugContext(ctx, msg, args...)
	}
}

func (b *Bot) logError(ctx context.Context, msg string, args ...any) {
	if b.logger != nil {
		b.logger.ErrorContext(ctx, msg, args...)
	}
}
