// Package polymarket reads events and markets from the Polymarket Gamma API.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/jsonx"
)

const requestTimeout = 10 * time.Second

// Event is a Polymarket event with its binary markets.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Active      bool     `json:"active"`
	Closed      bool     `json:"closed"`
	EndDateISO  string   `json:"end_date_iso"`
	Markets     []Market `json:"markets"`
}

// Market is one binary market. OutcomePrices holds decimal strings,
// YES first.
type Market struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	ConditionID   string   `json:"condition_id"`
	Outcomes      []string `json:"outcomes"`
	OutcomePrices []string `json:"outcome_prices"`
	Volume        string   `json:"volume"`
	Active        bool     `json:"active"`
}

type gammaEvent struct {
	ID          jsonx.String  `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Active      bool          `json:"active"`
	Closed      bool          `json:"closed"`
	EndDate     string        `json:"endDate"`
	Markets     []gammaMarket `json:"markets"`
}

type gammaMarket struct {
	ID            jsonx.String    `json:"id"`
	Question      string          `json:"question"`
	ConditionID   string          `json:"conditionId"`
	OutcomePrices json.RawMessage `json:"outcomePrices"`
	Volume        jsonx.String    `json:"volume"`
}

// Client for the Gamma API
type Client struct {
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
}

// NewClient creates a new Polymarket client
func NewClient(baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		fetch:   f,
		cache:   c,
		log:     log.With().Str("client", "polymarket").Logger(),
	}
}

// Events returns up to limit open events.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	key := fmt.Sprintf("polymarket:events:%d", limit)
	return cache.Remember(c.cache, key, cache.TTLShort, func() ([]Event, error) {
		u := fmt.Sprintf("%s/events?limit=%d&active=true&closed=false", c.baseURL, limit)

		var raw []gammaEvent
		if err := c.fetch.GetJSON(ctx, u, &raw, fetch.WithTimeout(requestTimeout)); err != nil {
			return nil, fmt.Errorf("polymarket events: %w", err)
		}

		events := make([]Event, 0, len(raw))
		for _, e := range raw {
			events = append(events, convertEvent(e))
		}
		c.log.Debug().Int("events", len(events)).Msg("Fetched events")
		return events, nil
	})
}

func convertEvent(e gammaEvent) Event {
	out := Event{
		ID:          string(e.ID),
		Title:       e.Title,
		Slug:        e.Slug,
		Description: e.Description,
		Active:      e.Active,
		Closed:      e.Closed,
		EndDateISO:  e.EndDate,
		Markets:     make([]Market, 0, len(e.Markets)),
	}
	for _, m := range e.Markets {
		prices := jsonx.StringList(m.OutcomePrices)
		if len(prices) == 0 {
			prices = []string{"0", "0"}
		}
		volume := string(m.Volume)
		if volume == "" {
			volume = "0"
		}
		out.Markets = append(out.Markets, Market{
			ID:            string(m.ID),
			Question:      m.Question,
			ConditionID:   m.ConditionID,
			Outcomes:      []string{"Yes", "No"},
			OutcomePrices: prices,
			Volume:        volume,
			Active:        e.Active && !e.Closed,
		})
	}
	return out
}

// FindMarket searches the most recent events for a market by id or
// condition id.
func (c *Client) FindMarket(ctx context.Context, id string) (*Event, *Market, error) {
	events, err := c.Events(ctx, 100)
	if err != nil {
		return nil, nil, err
	}
	for i := range events {
		for j := range events[i].Markets {
			m := &events[i].Markets[j]
			if m.ID == id || m.ConditionID == id {
				return &events[i], m, nil
			}
		}
	}
	return nil, nil, nil
}

// LiveEvent returns the raw live-activity document for an event, or nil
// when Polymarket does not know it.
func (c *Client) LiveEvent(ctx context.Context, id string) (any, error) {
	resp, err := c.fetch.Get(ctx, c.baseURL+"/live-activity/events/"+url.PathEscape(id), fetch.WithTimeout(requestTimeout))
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, nil
	}
	var doc any
	if err := resp.JSON(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Ping requests a single active event without touching the cache.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.fetch.Get(ctx, c.baseURL+"/events?limit=1&active=true")
	if err != nil {
		return err
	}
	return resp.Err()
}
