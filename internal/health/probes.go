package health

import (
	"context"
	"time"
)

// Pinger is any client that can check its upstream.
type Pinger interface {
	Ping(ctx context.Context) error
}

// YearPinger checks an upstream that needs a reference year.
type YearPinger interface {
	Ping(ctx context.Context, year int) error
}

// Dependencies are the clients and key flags the standard probe set checks.
type Dependencies struct {
	SECOracle  Pinger
	PerpDex    Pinger
	Sanctions  Pinger
	Polymarket Pinger
	FDIC       Pinger
	FRED       Pinger
	Treasury   Pinger
	Forex      Pinger
	CoinGecko  Pinger
	Finnhub    Pinger
	BLS        YearPinger

	FREDKey         bool
	FinnhubKey      bool
	FMPKey          bool
	GoldAPIKey      bool
	AlphaVantageKey bool
}

// StandardProbes returns the gateway's probe set in reporting order.
func StandardProbes(d Dependencies) []Probe {
	ping := func(p Pinger) func(context.Context) error { return p.Ping }

	return []Probe{
		{Name: "sec_oracle", Service: "sec_oracle", Check: ping(d.SECOracle), Keyless: true},
		{Name: "perp_dex", Service: "perp_dex", Check: ping(d.PerpDex), Keyless: true},
		{Name: "sanctions_oracle", Service: "sanctions", Check: ping(d.Sanctions), Keyless: true},
		{Name: "polymarket", Service: "polymarket", Check: ping(d.Polymarket), Keyless: true},
		{Name: "fdic", Service: "fdic", Check: ping(d.FDIC), Keyless: true},
		{Name: "fred", Service: "fred", Check: ping(d.FRED), HasKey: d.FREDKey},
		{Name: "treasury", Service: "treasury", Check: ping(d.Treasury), Keyless: true},
		{Name: "forex", Service: "forex", Check: ping(d.Forex), Keyless: true},
		{Name: "coingecko", Service: "coingecko", Check: ping(d.CoinGecko), Keyless: true, OnFailure: StatusRateLimited},
		{Name: "finnhub", Service: "finnhub", Check: ping(d.Finnhub), HasKey: d.FinnhubKey},
		{Name: "bls", Service: "bls", Keyless: true, Check: func(ctx context.Context) error {
			return d.BLS.Ping(ctx, time.Now().Year())
		}},
		{Name: "fmp", Service: "fmp", HasKey: d.FMPKey},
		{Name: "goldapi", Service: "goldapi", HasKey: d.GoldAPIKey},
		{Name: "alphavantage", Service: "alpha_vantage", HasKey: d.AlphaVantageKey},
	}
}
