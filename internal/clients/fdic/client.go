// Package fdic reads institutions, call report financials and failures from
// the FDIC BankFind API.
package fdic

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/jsonx"
)

const (
	searchFields      = "CERT,NAME,CITY,STNAME,STALP,ASSET,DEP,NETINC,ROA,ROE,WEBADDR,DATEUPDT,ACTIVE"
	institutionFields = "CERT,NAME,CITY,STNAME,STALP,ADDRESS,ZIP,ASSET,DEP,DEPDOM,NETINC,ROA,ROE,EQUITY,DATEUPDT,WEBADDR,CHARTER,CHRTAGNT,INSFDIC,RISDATE,CB,SPECGRP,ACTIVE"
	financialFields   = "CERT,REPDTE,ASSET,DEP,NETINC,ROA,ROE,EQTOT,LNLSGR,LNLSNET,NCLNLS,P3ASSET,P9ASSET,NIMY,ERTEFNS,NPERFV"
	screeningFields   = "CERT,REPDTE,ASSET,DEP,NETINC,ROA,ROE,EQTOT,NCLNLS,LNLSNET"
)

// Financials is one quarterly call report. Amounts are in thousands of
// dollars and ratios in percent.
type Financials struct {
	CERT    jsonx.String `json:"CERT"`
	REPDTE  jsonx.String `json:"REPDTE"`
	ASSET   jsonx.Float  `json:"ASSET"`
	DEP     jsonx.Float  `json:"DEP"`
	NETINC  jsonx.Float  `json:"NETINC"`
	ROA     jsonx.Float  `json:"ROA"`
	ROE     jsonx.Float  `json:"ROE"`
	EQTOT   jsonx.Float  `json:"EQTOT"`
	LNLSGR  jsonx.Float  `json:"LNLSGR,omitempty"`
	LNLSNET jsonx.Float  `json:"LNLSNET"`
	NCLNLS  jsonx.Float  `json:"NCLNLS"`
	P3ASSET jsonx.Float  `json:"P3ASSET,omitempty"`
	P9ASSET jsonx.Float  `json:"P9ASSET,omitempty"`
	NIMY    jsonx.Float  `json:"NIMY,omitempty"`
	ERTEFNS jsonx.Float  `json:"ERTEFNS,omitempty"`
	NPERFV  jsonx.Float  `json:"NPERFV,omitempty"`
}

// SearchQuery filters institution search.
type SearchQuery struct {
	Name       string
	State      string
	City       string
	ActiveOnly bool
	Limit      int
}

type envelope[T any] struct {
	Data []struct {
		Data T `json:"data"`
	} `json:"data"`
}

func (e envelope[T]) rows() []T {
	out := make([]T, 0, len(e.Data))
	for _, d := range e.Data {
		out = append(out, d.Data)
	}
	return out
}

// Client for the BankFind API
type Client struct {
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
}

// NewClient creates a new FDIC client
func NewClient(baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		fetch:   f,
		cache:   c,
		log:     log.With().Str("client", "fdic").Logger(),
	}
}

func getRows[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	var body envelope[T]
	if err := c.fetch.GetJSON(ctx, c.baseURL+path+"?"+params.Encode(), &body); err != nil {
		return nil, fmt.Errorf("FDIC %s: %w", path, err)
	}
	return body.rows(), nil
}

// Search finds institutions. BankFind cannot combine a name search with
// filters, so the name query over-fetches and the other criteria are
// applied by the caller.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]jsonx.Record, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(min(q.Limit*3, 100)))
	params.Set("fields", searchFields)

	if q.Name != "" {
		params.Set("search", "NAME:"+q.Name)
	} else {
		var filters []string
		if q.ActiveOnly {
			filters = append(filters, "ACTIVE:1")
		}
		if q.State != "" {
			filters = append(filters, "STALP:"+q.State)
		}
		if q.City != "" {
			filters = append(filters, "CITY:"+q.City)
		}
		if len(filters) > 0 {
			params.Set("filters", strings.Join(filters, ","))
		}
	}

	key := "fdic:search:" + params.Encode()
	return cache.Remember(c.cache, key, cache.TTLMedium, func() ([]jsonx.Record, error) {
		return getRows[jsonx.Record](ctx, c, "/institutions", params)
	})
}

// Institution returns the institution with certificate cert, or nil.
func (c *Client) Institution(ctx context.Context, cert string) (jsonx.Record, error) {
	params := url.Values{}
	params.Set("filters", "CERT:"+cert)
	params.Set("fields", institutionFields)

	rows, err := cache.Remember(c.cache, "fdic:institution:"+cert, cache.TTLLong, func() ([]jsonx.Record, error) {
		return getRows[jsonx.Record](ctx, c, "/institutions", params)
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// Financials returns up to periods call reports for cert, newest first.
func (c *Client) Financials(ctx context.Context, cert string, periods int) ([]Financials, error) {
	params := url.Values{}
	params.Set("filters", "CERT:"+cert)
	params.Set("limit", strconv.Itoa(periods))
	params.Set("sort_by", "REPDTE")
	params.Set("sort_order", "DESC")
	params.Set("fields", financialFields)

	key := fmt.Sprintf("fdic:financials:%s:%d", cert, periods)
	return cache.Remember(c.cache, key, cache.TTLLong, func() ([]Financials, error) {
		return getRows[Financials](ctx, c, "/financials", params)
	})
}

// Failures lists bank failures, most recent first, optionally for one year.
func (c *Client) Failures(ctx context.Context, limit int, year string) ([]jsonx.Record, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort_by", "FAILDATE")
	params.Set("sort_order", "DESC")
	if year != "" {
		params.Set("filters", "FAILYR:"+year)
	}

	return cache.Remember(c.cache, "fdic:failures:"+params.Encode(), cache.TTLLong, func() ([]jsonx.Record, error) {
		return getRows[jsonx.Record](ctx, c, "/failures", params)
	})
}

// WeakestReports returns up to 500 call reports filed on or after since
// (YYYYMMDD), lowest ROA first.
func (c *Client) WeakestReports(ctx context.Context, since string) ([]Financials, error) {
	params := url.Values{}
	params.Set("filters", "REPDTE:["+since+" TO *]")
	params.Set("sort_by", "ROA")
	params.Set("sort_order", "ASC")
	params.Set("limit", "500")
	params.Set("fields", screeningFields)

	return cache.Remember(c.cache, "fdic:weakest:"+since, cache.TTLLong, func() ([]Financials, error) {
		return getRows[Financials](ctx, c, "/financials", params)
	})
}

// Ping checks that BankFind answers.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.fetch.Get(ctx, c.baseURL+"/institutions?limit=1")
	if err != nil {
		return err
	}
	return resp.Err()
}
