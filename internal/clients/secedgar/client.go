// Package secedgar reads company submission histories from SEC EDGAR.
package secedgar

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
)

// UserAgent identifies the gateway to EDGAR, which rejects anonymous clients.
const UserAgent = "FinancialOracles/1.4.0 (contact@openclaw.ai)"

// Filing is one entry of a company's recent filings.
type Filing struct {
	Form            string `json:"form"`
	Date            string `json:"date"`
	AccessionNumber string `json:"accessionNumber"`
}

// Submissions is the subset of the EDGAR submissions document the gateway uses.
type Submissions struct {
	CIK        string   `json:"cik"`
	Name       string   `json:"name"`
	EntityType string   `json:"entityType"`
	Filings    []Filing `json:"filings"`
}

type submissionsDoc struct {
	Name       string `json:"name"`
	EntityType string `json:"entityType"`
	Filings    struct {
		Recent struct {
			Form            []string `json:"form"`
			FilingDate      []string `json:"filingDate"`
			AccessionNumber []string `json:"accessionNumber"`
		} `json:"recent"`
	} `json:"filings"`
}

// Client for the EDGAR data API
type Client struct {
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
}

// NewClient creates a new EDGAR client
func NewClient(baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		fetch:   f,
		cache:   c,
		log:     log.With().Str("client", "sec_edgar").Logger(),
	}
}

// PadCIK left-pads a CIK with zeros to the ten digits EDGAR expects.
func PadCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}

// Submissions fetches the filing history for cik.
func (c *Client) Submissions(ctx context.Context, cik string) (*Submissions, error) {
	cik = PadCIK(cik)
	return cache.Remember(c.cache, "sec:submissions:"+cik, cache.TTLLong, func() (*Submissions, error) {
		var doc submissionsDoc
		url := fmt.Sprintf("%s/submissions/CIK%s.json", c.baseURL, cik)
		if err := c.fetch.GetJSON(ctx, url, &doc, fetch.WithHeader("User-Agent", UserAgent)); err != nil {
			return nil, fmt.Errorf("SEC EDGAR submissions for %s: %w", cik, err)
		}

		recent := doc.Filings.Recent
		filings := make([]Filing, 0, len(recent.Form))
		for i, form := range recent.Form {
			f := Filing{Form: form}
			if i < len(recent.FilingDate) {
				f.Date = recent.FilingDate[i]
			}
			if i < len(recent.AccessionNumber) {
				f.AccessionNumber = recent.AccessionNumber[i]
			}
			filings = append(filings, f)
		}

		c.log.Debug().Str("cik", cik).Int("filings", len(filings)).Msg("Fetched submissions")
		return &Submissions{CIK: cik, Name: doc.Name, EntityType: doc.EntityType, Filings: filings}, nil
	})
}

// ThirteenF returns up to limit of the most recent 13F-HR and 13F-HR/A
// filings, newest first as EDGAR lists them.
func (s *Submissions) ThirteenF(limit int) []Filing {
	out := make([]Filing, 0, limit)
	for _, f := range s.Filings {
		if len(out) == limit {
			break
		}
		if f.Form == "13F-HR" || f.Form == "13F-HR/A" {
			out = append(out, f)
		}
	}
	return out
}
