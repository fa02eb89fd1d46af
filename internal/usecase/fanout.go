package usecase

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"TaigiBot/internal/domain"
	"TaigiBot/internal/ports"
)

// Aggregator queries every source concurrently and merges their outcomes.
type Aggregator struct {
	sources []ports.Source
	logger  *slog.Logger
}

// NewAggregator keeps sources in the order their results are merged in.
func NewAggregator(sources []ports.Source, logger *slog.Logger) *Aggregator {
	return &Aggregator{sources: sources, logger: logger}
}

type branch struct {
	results []string
	err     error
}

// Collect waits for every source to settle. A failing source never cancels
// the others; its error is recorded in source order next to the results.
func (a *Aggregator) Collect(ctx context.Context, keyword string) domain.Outcome {
	branches := make([]branch, len(a.sources))

	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			results, err := src.Search(ctx, keyword)
			branches[i] = branch{results: results, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var outcome domain.Outcome
	for i, b := range branches {
		name := a.sources[i].Name()
		if b.err != nil {
			srcErr := asSourceError(name, b.err)
			a.warn(ctx, "source failed", "source", name, "phase", srcErr.Phase.String(), "error", b.err)
			outcome.Errors = append(outcome.Errors, *srcErr)
			continue
		}
		a.debug(ctx, "source produced results", "source", name, "count", len(b.results))
		outcome.Results = append(outcome.Results, b.results...)
	}

	return outcome
}

func asSourceError(name string, err error) *domain.SourceError {
	var srcErr *domain.SourceError
	if errors.As(err, &srcErr) {
		return srcErr
	}
	return domain.NewSourceError(name, domain.FetchFailure, err.Error(), err)
}

func (a *Aggregator) debug(ctx context.Context, msg string, args ...any) {
	if a.logger != nil {
		a.logger.DebugContext(ctx, msg, args...)
	}
}

func (a *Aggregator) warn(ctx context.Context, msg string, args ...any) {
	if a.logger != nil {
		a.logger.WarnContext(ctx, msg, args...)
	}
}
