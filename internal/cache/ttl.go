package cache

import "time"

// TTL tiers for upstream responses.
const (
	// Quotes, prediction markets, news. Changes minute to minute.
	TTLShort = time.Minute

	// Economic series, debt figures, candles.
	TTLMedium = 5 * time.Minute

	// Filings, fiscal tables, series metadata. Rarely changes.
	TTLLong = 30 * time.Minute
)
