// Package prediction normalizes Polymarket and Kalshi markets into one shape
// and pairs equivalent markets across the two venues to surface price gaps.
package prediction

// Source identifies the venue a market came from.
type Source string

const (
	SourcePolymarket Source = "polymarket"
	SourceKalshi     Source = "kalshi"
)

// NormalizedMarket is the venue independent view of a binary market.
// YES and NO prices are independent probabilities and need not sum to 1.
type NormalizedMarket struct {
	Source       Source   `json:"source"`
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Question     string   `json:"question"`
	Category     string   `json:"category,omitempty"`
	YesPrice     float64  `json:"yesPrice"`
	NoPrice      float64  `json:"noPrice"`
	Volume       float64  `json:"volume"`
	OpenInterest *float64 `json:"openInterest,omitempty"`
	Active       bool     `json:"active"`
	Keywords     []string `json:"keywords"`

	// Entities are canonical distinguishing terms ("country:us", "year:2028")
	// found in the raw text, including short tokens dropped from Keywords.
	Entities []string `json:"entities,omitempty"`
}

// Opportunity is a priced gap between two matched markets.
type Opportunity struct {
	Polymarket      NormalizedMarket `json:"polymarket"`
	Kalshi          NormalizedMarket `json:"kalshi"`
	MatchScore      float64          `json:"matchScore"`
	YesSpread       float64          `json:"yesSpread"` // positive: Kalshi YES is dearer
	NoSpread        float64          `json:"noSpread"`
	PotentialProfit float64          `json:"potentialProfit"`
	Recommendation  string           `json:"recommendation"`
	MatchedKeywords []string         `json:"matchedKeywords"`
}

// MarketsAnalyzed counts the inputs of an arbitrage scan.
type MarketsAnalyzed struct {
	Polymarket int `json:"polymarket"`
	Kalshi     int `json:"kalshi"`
}

// ArbitrageReport is the result of one scan.
type ArbitrageReport struct {
	Count           int             `json:"count"`
	Opportunities   []Opportunity   `json:"opportunities"`
	MarketsAnalyzed MarketsAnalyzed `json:"markets_analyzed"`
	Timestamp       string          `json:"timestamp"`
}
