package usecase

import (
	"fmt"
	"strings"

	"TaigiBot/internal/domain"
)

const (
	DefaultPrompt           = "Please provide a keyword to search for."
	DefaultNoResultReaction = "❌"
)

// ReplyKind tells the gateway how to answer a message.
type ReplyKind int

const (
	ReplyText ReplyKind = iota
	ReplyReaction
)

// Reply is the single answer produced for one inbound message.
type Reply struct {
	Kind ReplyKind
	Text string
}

// Formatter turns an outcome into a reply.
type Formatter struct {
	Prompt           string
	NoResultReaction string
}

// PromptReply is sent when the message carries no keyword.
func (f Formatter) PromptReply() Reply {
	return Reply{Kind: ReplyText, Text: orDefault(f.Prompt, DefaultPrompt)}
}

// Compose selects the reply for a finished lookup.
func (f Formatter) Compose(keyword string, outcome domain.Outcome) Reply {
	n := len(outcome.Results)

	switch {
	case n > 0:
		noun := "results"
		if n == 1 {
			noun = "result"
		}
		text := fmt.Sprintf("Found %d %s for \"%s\":\n%s", n, noun, keyword, strings.Join(outcome.Results, "\n"))
		if len(outcome.Errors) > 0 {
			text += "\n\n⚠️ Some sources had issues: " + joinErrors(outcome.Errors)
		}
		return Reply{Kind: ReplyText, Text: text}

	case len(outcome.Errors) > 0:
		return Reply{Kind: ReplyText, Text: "Could not search any sources. Errors: " + joinErrors(outcome.Errors)}

	default:
		return Reply{Kind: ReplyReaction, Text: orDefault(f.NoResultReaction, DefaultNoResultReaction)}
	}
}

func joinErrors(errs []domain.SourceError) string {
	entries := make([]string, len(errs))
	for i := range errs {
		entries[i] = errs[i].Entry()
	}
	return strings.Join(entries, ", ")
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
