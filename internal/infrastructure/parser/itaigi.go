package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"TaigiBot/internal/domain"
	"TaigiBot/internal/ports"
)

const (
	ITaigiName    = "iTaigi"
	ITaigiBaseURL = "https://itaigi.tw"

	itaigiLimit        = 3
	itaigiForeignLimit = 2
)

// Field names of the iTaigi search API.
const (
	fieldList         = "列表"
	fieldSuggestions  = "其他建議"
	fieldForeign      = "外語資料"
	fieldNewWords     = "新詞文本"
	fieldText         = "文本資料"
	fieldPhonetic     = "音標資料"
	fieldContributor  = "貢獻者"
	fieldGoodVotes    = "按呢講好"
	fieldBadVotes     = "按呢無好"
	fieldForeignWords = "按呢講的外語列表"
)

// ITaigiSource queries the crowd-sourced iTaigi JSON API.
type ITaigiSource struct {
	baseURL string
	fetch   fetcher
}

var _ ports.Source = (*ITaigiSource)(nil)

// NewITaigiSource wires an HTTP client; an empty baseURL falls back to the public site.
func NewITaigiSource(baseURL string, client *http.Client, logger *slog.Logger) *ITaigiSource {
	if baseURL == "" {
		baseURL = ITaigiBaseURL
	}
	return &ITaigiSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		fetch:   newFetcher(ITaigiName, client, logger),
	}
}

// Name identifies the source inside the registry and in error replies.
func (s *ITaigiSource) Name() string {
	return ITaigiName
}

// Search returns up to three translations, or up to three suggestions when
// the API has no direct translation.
func (s *ITaigiSource) Search(ctx context.Context, keyword string) ([]string, error) {
	body, err := s.fetch.get(ctx, s.searchURL(keyword))
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, domain.NewSourceError(ITaigiName, domain.ParseFailure, "Error parsing JSON from iTaigi", fmt.Errorf("invalid json body"))
	}

	root := view{gjson.ParseBytes(body)}

	results := s.translations(root)
	if len(results) == 0 {
		results = s.suggestions(root, keyword)
	}
	return results, nil
}

func (s *ITaigiSource) translations(root view) []string {
	results := make([]string, 0, itaigiLimit)
	for _, item := range root.list(fieldList, itaigiLimit) {
		foreign := item.str(fieldForeign, "N/A")

		words := item.list(fieldNewWords, 1)
		if len(words) == 0 {
			continue
		}
		first := words[0]

		results = append(results, fmt.Sprintf("🏷️ %s → %s [%s] (👍%d 👎%d) by %s - %s",
			foreign,
			first.str(fieldText, "N/A"),
			first.str(fieldPhonetic, "N/A"),
			first.num(fieldGoodVotes, 0),
			first.num(fieldBadVotes, 0),
			first.str(fieldContributor, "匿名"),
			s.baseURL+"/k/"+foreign,
		))
	}
	return results
}

func (s *ITaigiSource) suggestions(root view, keyword string) []string {
	results := make([]string, 0, itaigiLimit)
	for _, item := range root.list(fieldSuggestions, itaigiLimit) {
		var foreign []string
		for _, f := range item.list(fieldForeignWords, itaigiForeignLimit) {
			if w, ok := f.lookupStr(fieldForeign); ok {
				foreign = append(foreign, w)
			}
		}

		subject := keyword
		if len(foreign) > 0 {
			subject = strings.Join(foreign, ", ")
		}

		results = append(results, fmt.Sprintf("🏷️ %s → %s [%s] (建議) - %s",
			subject,
			item.str(fieldText, "N/A"),
			item.str(fieldPhonetic, "N/A"),
			s.baseURL,
		))
	}
	return results
}

func (s *ITaigiSource) searchURL(keyword string) string {
	return s.baseURL + "/" + url.PathEscape("平臺項目列表") + "/" + url.PathEscape("揣列表") +
		"?" + encodeQuery("關鍵字") + "=" + encodeQuery(keyword)
}
