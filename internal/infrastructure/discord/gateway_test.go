package discord

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TaigiBot/internal/domain"
	"TaigiBot/internal/ports"
)

type sent struct {
	channelID string
	content   string
	messageID string
	emoji     string
}

type fakeMessenger struct {
	calls []sent
	err   error
}

func (f *fakeMessenger) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.calls = append(f.calls, sent{channelID: channelID, content: content})
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (f *fakeMessenger) MessageReactionAdd(channelID, messageID, emojiID string, _ ...discordgo.RequestOption) error {
	f.calls = append(f.calls, sent{channelID: channelID, messageID: messageID, emoji: emojiID})
	return f.err
}

func TestToMessage(t *testing.T) {
	t.Parallel()

	msg, ok := toMessage(&discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "111",
		ChannelID: "1372944023026794576",
		Content:   " 食飯 ",
		Author:    &discordgo.User{ID: "7", Bot: false},
	}})
	require.True(t, ok)
	assert.Equal(t, domain.Message{ID: "111", ChannelID: "1372944023026794576", Content: " 食飯 "}, msg)

	fromBot, ok := toMessage(&discordgo.MessageCreate{Message: &discordgo.Message{
		ID:     "112",
		Author: &discordgo.User{ID: "8", Bot: true},
	}})
	require.True(t, ok)
	assert.True(t, fromBot.AuthorIsBot)

	noAuthor, ok := toMessage(&discordgo.MessageCreate{Message: &discordgo.Message{ID: "113"}})
	require.True(t, ok)
	assert.True(t, noAuthor.AuthorIsBot)

	_, ok = toMessage(&discordgo.MessageCreate{})
	assert.False(t, ok)
}

func TestResponder(t *testing.T) {
	t.Parallel()

	api := &fakeMessenger{}
	r := NewResponder(api)

	require.NoError(t, r.SendText(context.Background(), "c1", "Found 1 result"))
	require.NoError(t, r.React(context.Background(), "c1", "m1", "❌"))

	assert.Equal(t, []sent{
		{channelID: "c1", content: "Found 1 result"},
		{channelID: "c1", messageID: "m1", emoji: "❌"},
	}, api.calls)
}

func TestResponderWrapsErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("HTTP 403 Forbidden")
	r := NewResponder(&fakeMessenger{err: cause})

	err := r.SendText(context.Background(), "c1", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	err = r.React(context.Background(), "c1", "m1", "❌")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestSlogBridge(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	bridge := slogBridge(logger)

	bridge(discordgo.LogDebug, 1, "heartbeat %d", 1)
	bridge(discordgo.LogError, 1, "websocket closed: %s", "1006")

	out := buf.String()
	assert.NotContains(t, out, "heartbeat")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "websocket closed: 1006")
}

func TestNewGatewayLeavesPackageLogger(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	for range 2 {
		gw, err := NewGateway("token", logger)
		require.NoError(t, err)
		require.NotNil(t, gw.session)
	}
	assert.Nil(t, discordgo.Logger)
}

func TestDrainWaitsForRunningHandlers(t *testing.T) {
	t.Parallel()

	var inflight tracker
	release := make(chan struct{})
	started := make(chan struct{})
	var finished atomic.Bool

	handler := onMessage(context.Background(), func(_ context.Context, _ domain.Message, _ ports.Responder) {
		close(started)
		<-release
		finished.Store(true)
	}, NewResponder(&fakeMessenger{}), &inflight)

	go handler(nil, &discordgo.MessageCreate{Message: &discordgo.Message{ID: "1", Author: &discordgo.User{}}})
	<-started

	drained := make(chan struct{})
	go func() {
		inflight.drain()
		close(drained)
	}()

	select {
	case <-drained:
		t.Fatal("drain returned while a handler was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-drained
	assert.True(t, finished.Load())
}

func TestHandlersAfterDrainAreDropped(t *testing.T) {
	t.Parallel()

	var inflight tracker
	inflight.drain()

	var calls atomic.Int32
	handler := onMessage(context.Background(), func(context.Context, domain.Message, ports.Responder) {
		calls.Add(1)
	}, NewResponder(&fakeMessenger{}), &inflight)

	handler(nil, &discordgo.MessageCreate{Message: &discordgo.Message{ID: "2", Author: &discordgo.User{}}})
	handler(nil, &discordgo.MessageCreate{})
	assert.Zero(t, calls.Load())
}
