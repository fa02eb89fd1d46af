package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"TaigiBot/internal/domain"
)

// fetcher performs the plain GET every source starts with and maps failures
// to the fetch and read phases.
type fetcher struct {
	source string
	client *http.Client
	logger *slog.Logger
}

func newFetcher(source string, client *http.Client, logger *slog.Logger) fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return fetcher{source: source, client: client, logger: logger}
}

func (f fetcher) get(ctx context.Context, target string) ([]byte, error) {
	f.debug(ctx, "source request", "url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, f.fail(domain.FetchFailure, "Error fetching from %s", fmt.Errorf("build request: %w", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.fail(domain.FetchFailure, "Error fetching from %s", fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, f.fail(domain.ReadFailure, "Error reading response from %s", fmt.Errorf("read body: %w", err))
	}

	f.debug(ctx, "source response", "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

func (f fetcher) fail(phase domain.Phase, format string, cause error) *domain.SourceError {
	return domain.NewSourceError(f.source, phase, fmt.Sprintf(format, f.source), cause)
}

func (f fetcher) debug(ctx context.Context, msg string, args ...any) {
	if f.logger != nil {
		f.logger.DebugContext(ctx, msg, args...)
	}
}

// encodeQuery percent-encodes every byte outside the unreserved set, with
// spaces as %20 rather than '+'.
func encodeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// resolveURL turns an href found on a page into an absolute URL under base.
func resolveURL(base, href string) string {
	base = strings.TrimSuffix(base, "/")
	switch {
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "/"):
		return base + href
	default:
		return base + "/" + href
	}
}
