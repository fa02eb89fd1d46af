package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"TaigiBot/internal/ports"
)

// messenger is the subset of *discordgo.Session used to reply.
type messenger interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
}

// Responder sends replies through the Discord REST API.
type Responder struct {
	api messenger
}

var _ ports.Responder = (*Responder)(nil)

// NewResponder wraps a session (or any compatible client).
func NewResponder(api messenger) *Responder {
	return &Responder{api: api}
}

// SendText posts a plain message to the channel.
func (r *Responder) SendText(ctx context.Context, channelID, text string) error {
	if _, err := r.api.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

// React adds a unicode emoji reaction to the message.
func (r *Responder) React(ctx context.Context, channelID, messageID, emoji string) error {
	if err := r.api.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add discord reaction: %w", err)
	}
	return nil
}
