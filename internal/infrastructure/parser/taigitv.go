package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"TaigiBot/internal/domain"
	"TaigiBot/internal/ports"
)

const (
	TaigiTVName    = "TaigiTV"
	TaigiTVBaseURL = "https://www.taigitv.org.tw"

	taigiTVLimit = 3
)

// TaigiTVSource searches the TaigiTV word list and returns links to matching entries.
type TaigiTVSource struct {
	baseURL  string
	selector string
	fetch    fetcher
}

var _ ports.Source = (*TaigiTVSource)(nil)

// NewTaigiTVSource wires an HTTP client; an empty baseURL falls back to the public site.
func NewTaigiTVSource(baseURL string, client *http.Client, logger *slog.Logger) *TaigiTVSource {
	if baseURL == "" {
		baseURL = TaigiTVBaseURL
	}
	return &TaigiTVSource{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		selector: ".btngaa .h3 a",
		fetch:    newFetcher(TaigiTVName, client, logger),
	}
}

// Name identifies the source inside the registry and in error replies.
func (s *TaigiTVSource) Name() string {
	return TaigiTVName
}

// Search returns up to three "📺 word - url" lines.
func (s *TaigiTVSource) Search(ctx context.Context, keyword string) ([]string, error) {
	body, err := s.fetch.get(ctx, s.searchURL(keyword))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewSourceError(TaigiTVName, domain.ParseFailure, "Could not parse TaigiTV document", err)
	}

	links, err := cascadia.Compile(s.selector)
	if err != nil {
		return nil, domain.NewSourceError(TaigiTVName, domain.ParseFailure, "Could not parse TaigiTV selector", err)
	}

	results := make([]string, 0, taigiTVLimit)
	doc.FindMatcher(links).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		label := strings.TrimSpace(a.Text())
		results = append(results, fmt.Sprintf("📺 %s - %s", label, resolveURL(s.baseURL, href)))
		return len(results) < taigiTVLimit
	})

	return results, nil
}

func (s *TaigiTVSource) searchURL(keyword string) string {
	return s.baseURL + "/taigi-words?keyword=" + encodeQuery(keyword)
}
