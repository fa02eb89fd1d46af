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
	SutianName    = "Sutian"
	SutianBaseURL = "https://sutian.moe.edu.tw"
)

// tableLayout is one of the table shapes the dictionary renders its result in.
// The page carries both shapes; they are tried in order.
type tableLayout struct {
	name          string
	link          string
	pronunciation string
}

var sutianLayouts = []tableLayout{
	{
		name:          "mobile",
		link:          "table.d-md-none tbody tr:nth-child(2) td a",
		pronunciation: "table.d-md-none tbody tr:nth-child(3) td",
	},
	{
		name:          "desktop",
		link:          "table.d-none.d-md-table tbody tr td:nth-child(2) a",
		pronunciation: "table.d-none.d-md-table tbody tr td:nth-child(3)",
	},
}

type compiledLayout struct {
	link          cascadia.Selector
	pronunciation cascadia.Selector
}

// SutianSource queries the MOE Taiwanese dictionary and returns its top entry.
type SutianSource struct {
	baseURL string
	layouts []tableLayout
	fetch   fetcher
}

var _ ports.Source = (*SutianSource)(nil)

// NewSutianSource wires an HTTP client; an empty baseURL falls back to the public site.
func NewSutianSource(baseURL string, client *http.Client, logger *slog.Logger) *SutianSource {
	if baseURL == "" {
		baseURL = SutianBaseURL
	}
	return &SutianSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		layouts: sutianLayouts,
		fetch:   newFetcher(SutianName, client, logger),
	}
}

// Name identifies the source inside the registry and in error replies.
func (s *SutianSource) Name() string {
	return SutianName
}

// Search returns at most one "📚 word [pronunciation] - url" line.
func (s *SutianSource) Search(ctx context.Context, keyword string) ([]string, error) {
	body, err := s.fetch.get(ctx, s.searchURL(keyword))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewSourceError(SutianName, domain.ParseFailure, "Could not parse Sutian document", err)
	}

	layouts, err := s.compileLayouts()
	if err != nil {
		return nil, err
	}

	for _, layout := range layouts {
		link := doc.FindMatcher(layout.link).First()
		pron := doc.FindMatcher(layout.pronunciation).First()
		if link.Length() == 0 || pron.Length() == 0 {
			continue
		}

		// A matched pair ends the search even when its cells are blank.
		entry, ok := s.formatEntry(link, pron)
		if !ok {
			return []string{}, nil
		}
		return []string{entry}, nil
	}

	return []string{}, nil
}

func (s *SutianSource) compileLayouts() ([]compiledLayout, error) {
	out := make([]compiledLayout, 0, len(s.layouts))
	for _, layout := range s.layouts {
		link, err := cascadia.Compile(layout.link)
		if err != nil {
			msg := fmt.Sprintf("Could not parse Sutian %s selector", layout.name)
			return nil, domain.NewSourceError(SutianName, domain.ParseFailure, msg, err)
		}
		pron, err := cascadia.Compile(layout.pronunciation)
		if err != nil {
			msg := fmt.Sprintf("Could not parse Sutian %s pronunciation selector", layout.name)
			return nil, domain.NewSourceError(SutianName, domain.ParseFailure, msg, err)
		}
		out = append(out, compiledLayout{link: link, pronunciation: pron})
	}
	return out, nil
}

func (s *SutianSource) formatEntry(link, pron *goquery.Selection) (string, bool) {
	word := strings.TrimSpace(link.Text())
	href, _ := link.Attr("href")
	pronunciation := firstLine(pron.Text())

	if word == "" || pronunciation == "" {
		return "", false
	}

	return fmt.Sprintf("📚 %s [%s] - %s", word, pronunciation, resolveURL(s.baseURL, href)), true
}

func (s *SutianSource) searchURL(keyword string) string {
	return s.baseURL + "/zh-hant/tshiau/?lui=hua_su&tsha=" + encodeQuery(keyword)
}

// firstLine keeps only the first line of a multi-line cell; later lines hold notes.
func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
