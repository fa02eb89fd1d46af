package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"TaigiBot/internal/ports"
)

// sender is the subset of *bot.Bot used to reply.
type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SetMessageReaction(ctx context.Context, params *bot.SetMessageReactionParams) (bool, error)
}

// Responder replies to chats through sendMessage and setMessageReaction.
type Responder struct {
	api sender
}

var _ ports.Responder = (*Responder)(nil)

// NewResponder wraps a bot (or any compatible client).
func NewResponder(api sender) *Responder {
	return &Responder{api: api}
}

// SendText posts plain text (no parse mode) to the chat.
func (r *Responder) SendText(ctx context.Context, chatID, text string) error {
	_, err := r.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// React sets a single emoji reaction on the message. Telegram only accepts
// emoji from its fixed reaction list.
func (r *Responder) React(ctx context.Context, chatID, messageID, emoji string) error {
	id, err := strconv.Atoi(messageID)
	if err != nil {
		return fmt.Errorf("telegram message id %q: %w", messageID, err)
	}

	_, err = r.api.SetMessageReaction(ctx, &bot.SetMessageReactionParams{
		ChatID:    chatID,
		MessageID: id,
		Reaction: []models.ReactionType{{
			Type:              models.ReactionTypeTypeEmoji,
			ReactionTypeEmoji: &models.ReactionTypeEmoji{Emoji: emoji},
		}},
	})
	if err != nil {
		return fmt.Errorf("set telegram reaction: %w", err)
	}
	return nil
}
