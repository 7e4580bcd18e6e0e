package research

import (
	"context"
	"strings"
	"time"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/fetch"
)

const maxSummary = 200

// Headline is a trimmed news item.
type Headline struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime string `json:"datetime"`
	Related  string `json:"related,omitempty"`
}

// NewsFeed is a page of headlines. Count never exceeds the requested limit.
type NewsFeed struct {
	Symbol   string     `json:"symbol,omitempty"`
	Category string     `json:"category,omitempty"`
	From     string     `json:"from,omitempty"`
	To       string     `json:"to,omitempty"`
	Count    int        `json:"count"`
	News     []Headline `json:"news"`
}

// MarketNews returns up to limit general headlines of a category.
func (s *Service) MarketNews(ctx context.Context, category string, limit int) (*NewsFeed, error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}
	if category == "" {
		category = "general"
	}

	items, err := s.source.MarketNews(ctx, category)
	if err != nil {
		return nil, err
	}

	news := headlines(items, limit, true)
	return &NewsFeed{Category: category, Count: len(news), News: news}, nil
}

// CompanyNews returns up to limit headlines about symbol, defaulting to
// the past week.
func (s *Service) CompanyNews(ctx context.Context, symbol, from, to string, limit int) (*NewsFeed, error) {
	if err := s.requireKey(); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(symbol)
	r, err := s.dateRange(from, to, -7, 0)
	if err != nil {
		return nil, err
	}

	items, err := s.source.CompanyNews(ctx, symbol, r)
	if err != nil {
		return nil, err
	}

	news := headlines(items, limit, false)
	return &NewsFeed{
		Symbol: symbol,
		From:   r.From.Format(finnhub.DateLayout),
		To:     r.To.Format(finnhub.DateLayout),
		Count:  len(news),
		News:   news,
	}, nil
}

func headlines(items []finnhub.NewsItem, limit int, withRelated bool) []Headline {
	if limit < 0 {
		limit = 0
	}
	out := make([]Headline, 0, min(len(items), limit))
	for i, n := range items {
		if i == limit {
			break
		}
		h := Headline{
			Headline: n.Headline,
			Summary:  fetch.Truncate(n.Summary, maxSummary),
			Source:   n.Source,
			URL:      n.URL,
			Datetime: time.Unix(n.Datetime, 0).UTC().Format(api.TimestampLayout),
		}
		if withRelated {
			h.Related = n.Related
		}
		out = append(out, h)
	}
	return out
}
