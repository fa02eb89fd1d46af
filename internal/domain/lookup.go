package domain

import "fmt"

// Message is an inbound chat event delivered by a gateway.
type Message struct {
	ID          string
	ChannelID   string
	AuthorIsBot bool
	Content     string
}

// Phase enumerates where a source lookup failed.
type Phase int

const (
	FetchFailure Phase = iota
	ReadFailure
	ParseFailure
)

func (p Phase) String() string {
	switch p {
	case FetchFailure:
		return "fetch"
	case ReadFailure:
		return "read"
	case ParseFailure:
		return "parse"
	default:
		return "unknown"
	}
}

// SourceError is the failure outcome of a single source lookup. Message is
// the user-facing phrase; Err keeps the underlying cause for logs only.
type SourceError struct {
	Source  string
	Phase   Phase
	Message string
	Err     error
}

// NewSourceError builds a SourceError for the given source and phase.
func NewSourceError(source string, phase Phase, message string, cause error) *SourceError {
	return &SourceError{Source: source, Phase: phase, Message: message, Err: cause}
}

func (e *SourceError) Error() string {
	return e.Message
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Entry renders the error as "source: message" for replies.
func (e *SourceError) Entry() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// Outcome is the merged result of one lookup across all sources, in source order.
type Outcome struct {
	Results []string
	Errors  []SourceError
}
