// Package treasury reads debt, receipts, outlays and auction results from the
// US Treasury Fiscal Data API. The API is free and needs no key.
package treasury

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/jsonx"
)

const (
	debtPath     = "/v2/accounting/od/debt_to_penny"
	outlaysPath  = "/v1/accounting/mts/mts_table_5"
	receiptsPath = "/v1/accounting/mts/mts_table_4"
	auctionsPath = "/v1/accounting/od/auctions_query"
)

// DebtRecord is one daily "debt to the penny" row. Amounts are in dollars.
type DebtRecord struct {
	RecordDate        string      `json:"record_date"`
	TotalPublicDebt   jsonx.Float `json:"tot_pub_debt_out_amt"`
	DebtHeldPublic    jsonx.Float `json:"debt_held_public_amt"`
	Intragovernmental jsonx.Float `json:"intragov_hold_amt"`
}

// Client for the Fiscal Data API
type Client struct {
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
}

// NewClient creates a new Treasury client
func NewClient(baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		fetch:   f,
		cache:   c,
		log:     log.With().Str("client", "treasury").Logger(),
	}
}

func getData[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	var body struct {
		Data []T `json:"data"`
	}
	if err := c.fetch.GetJSON(ctx, c.baseURL+path+"?"+params.Encode(), &body); err != nil {
		return nil, fmt.Errorf("Treasury %s: %w", path, err)
	}
	return body.Data, nil
}

// Debt returns the last 30 daily debt records, newest first.
func (c *Client) Debt(ctx context.Context) ([]DebtRecord, error) {
	params := url.Values{}
	params.Set("sort", "-record_date")
	params.Set("page[size]", "30")

	return cache.Remember(c.cache, "treasury:debt", cache.TTLMedium, func() ([]DebtRecord, error) {
		return getData[DebtRecord](ctx, c, debtPath, params)
	})
}

// Outlays returns top-level spending categories of a fiscal year, largest
// year-to-date outlay first.
func (c *Client) Outlays(ctx context.Context, fiscalYear string) ([]jsonx.Record, error) {
	return c.statement(ctx, outlaysPath, fiscalYear, "current_fytd_net_outly_amt")
}

// Receipts returns top-level revenue sources of a fiscal year, largest
// year-to-date receipt first.
func (c *Client) Receipts(ctx context.Context, fiscalYear string) ([]jsonx.Record, error) {
	return c.statement(ctx, receiptsPath, fiscalYear, "current_fytd_net_rcpt_amt")
}

func (c *Client) statement(ctx context.Context, path, fiscalYear, sortField string) ([]jsonx.Record, error) {
	params := url.Values{}
	params.Set("filter", "record_fiscal_year:eq:"+fiscalYear+",sequence_level_nbr:eq:2")
	params.Set("sort", "-"+sortField)
	params.Set("page[size]", "50")

	key := "treasury:" + path + ":" + fiscalYear
	return cache.Remember(c.cache, key, cache.TTLLong, func() ([]jsonx.Record, error) {
		return getData[jsonx.Record](ctx, c, path, params)
	})
}

// Auctions returns the 20 most recent auctions, optionally of one security
// type (Bill, Note, Bond, TIPS, FRN). "all" or empty means every type.
func (c *Client) Auctions(ctx context.Context, securityType string) ([]jsonx.Record, error) {
	params := url.Values{}
	params.Set("sort", "-auction_date")
	params.Set("page[size]", "20")
	if securityType != "" && securityType != "all" {
		params.Set("filter", "security_type:eq:"+securityType)
	}

	return cache.Remember(c.cache, "treasury:auctions:"+securityType, cache.TTLMedium, func() ([]jsonx.Record, error) {
		return getData[jsonx.Record](ctx, c, auctionsPath, params)
	})
}

// Ping fetches the latest debt record.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.fetch.Get(ctx, c.baseURL+debtPath+"?page%5Bsize%5D=1")
	if err != nil {
		return err
	}
	return resp.Err()
}
