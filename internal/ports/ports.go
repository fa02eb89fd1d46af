package ports

import (
	"context"

	"TaigiBot/internal/domain"
)

// Source looks a keyword up in one external dictionary.
type Source interface {
	Name() string
	Search(ctx context.Context, keyword string) ([]string, error)
}

// Responder delivers replies back to the chat platform.
type Responder interface {
	SendText(ctx context.Context, channelID, text string) error
	React(ctx context.Context, channelID, messageID, emoji string) error
}

// MessageHandler processes a single inbound message.
type MessageHandler func(ctx context.Context, msg domain.Message, out Responder)

// Gateway connects to a chat platform and dispatches inbound messages until ctx is done.
type Gateway interface {
	Run(ctx context.Context, handle MessageHandler) error
}
