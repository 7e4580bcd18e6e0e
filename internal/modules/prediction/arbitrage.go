package prediction

import (
	"fmt"
	"math"
	"sort"
)

const (
	// MinMatchScore is the Jaccard similarity two markets need to be
	// considered the same question.
	MinMatchScore = 0.5

	// MinEdge is the smallest price gap reported.
	MinEdge = 0.03

	// scoreTieBand: scores closer than this are ranked by profit instead.
	scoreTieBand = 0.1

	epsilon = 1e-9
)

// FindOpportunities pairs every active Polymarket market with every active
// Kalshi market and returns the pairs that ask the same question at prices
// at least MinEdge apart. It never fails; no matches yields an empty slice.
func FindOpportunities(polymarkets, kalshiMarkets []NormalizedMarket) []Opportunity {
	opportunities := make([]Opportunity, 0)

	for _, poly := range polymarkets {
		if !poly.Active {
			continue
		}
		polyEntities := entitiesOf(poly)

		for _, k := range kalshiMarkets {
			if !k.Active {
				continue
			}

			score, overlap := Jaccard(poly.Keywords, k.Keywords)
			if score < MinMatchScore {
				continue
			}
			if !compatible(polyEntities, entitiesOf(k)) {
				continue
			}

			opp, ok := priceGap(poly, k)
			if !ok {
				continue
			}
			opp.MatchScore = score
			opp.MatchedKeywords = overlap
			opportunities = append(opportunities, opp)
		}
	}

	sortOpportunities(opportunities)
	return opportunities
}

// Jaccard returns |a ∩ b| / |a ∪ b| over the distinct elements of a and b,
// and the shared elements in the order they appear in a.
func Jaccard(a, b []string) (float64, []string) {
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}

	union := len(setB)
	overlap := make([]string, 0)
	seen := make(map[string]struct{}, len(setA))
	for _, s := range a {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := setB[s]; ok {
			overlap = append(overlap, s)
		} else {
			union++
		}
	}

	if union == 0 {
		return 0, overlap
	}
	return float64(len(overlap)) / float64(union), overlap
}

// compatible reports whether two markets can be the same question given
// their distinguishing terms. When both sides name any, they must share at
// least one. On top of that, a country or person named on both sides must
// agree, so "US election 2028" never pairs with "UK election 2028" through
// the shared year. Years and months are not held to that: "Trump 2028"
// still pairs with "Trump 2024" through the shared name.
func compatible(a, b map[entityClass]map[string]struct{}) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	shared := false
	for class, namesA := range a {
		if overlaps(namesA, b[class]) {
			shared = true
			break
		}
	}
	if !shared {
		return false
	}
	for _, class := range identityClasses {
		namesA, okA := a[class]
		namesB, okB := b[class]
		if okA && okB && !overlaps(namesA, namesB) {
			return false
		}
	}
	return true
}

// identityClasses must agree whenever both markets name one.
var identityClasses = []entityClass{classCountry, classPerson}

func overlaps(a, b map[string]struct{}) bool {
	for name := range a {
		if _, ok := b[name]; ok {
			return true
		}
	}
	return false
}

// priceGap picks the first qualifying branch in the order YES-cheaper-on-
// Polymarket, YES-cheaper-on-Kalshi, NO-cheaper-on-Polymarket,
// NO-cheaper-on-Kalshi.
func priceGap(poly, k NormalizedMarket) (Opportunity, bool) {
	yesSpread := k.YesPrice - poly.YesPrice
	noSpread := k.NoPrice - poly.NoPrice

	opp := Opportunity{
		Polymarket: poly,
		Kalshi:     k,
		YesSpread:  yesSpread,
		NoSpread:   noSpread,
	}

	switch {
	case yesSpread >= MinEdge-epsilon:
		opp.Recommendation = fmt.Sprintf("Buy YES on Polymarket ($%.2f), sell YES on Kalshi ($%.2f)", poly.YesPrice, k.YesPrice)
		opp.PotentialProfit = yesSpread
	case yesSpread <= -MinEdge+epsilon:
		opp.Recommendation = fmt.Sprintf("Buy YES on Kalshi ($%.2f), sell YES on Polymarket ($%.2f)", k.YesPrice, poly.YesPrice)
		opp.PotentialProfit = -yesSpread
	case noSpread >= MinEdge-epsilon:
		opp.Recommendation = fmt.Sprintf("Buy NO on Polymarket ($%.2f), sell NO on Kalshi ($%.2f)", poly.NoPrice, k.NoPrice)
		opp.PotentialProfit = noSpread
	case noSpread <= -MinEdge+epsilon:
		opp.Recommendation = fmt.Sprintf("Buy NO on Kalshi ($%.2f), sell NO on Polymarket ($%.2f)", k.NoPrice, poly.NoPrice)
		opp.PotentialProfit = -noSpread
	default:
		return Opportunity{}, false
	}
	return opp, true
}

// sortOpportunities ranks by match score, but scores within scoreTieBand of
// each other are ordered by potential profit.
func sortOpportunities(opps []Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		a, b := opps[i], opps[j]
		if math.Abs(a.MatchScore-b.MatchScore) > scoreTieBand {
			return a.MatchScore > b.MatchScore
		}
		return a.PotentialProfit > b.PotentialProfit
	})
}

// FilterAndLimit keeps opportunities whose profit reaches minSpread and
// truncates to limit. It returns the number that passed the filter and the
// truncated slice.
func FilterAndLimit(opps []Opportunity, minSpread float64, limit int) (int, []Opportunity) {
	kept := make([]Opportunity, 0, len(opps))
	for _, o := range opps {
		if o.PotentialProfit+epsilon >= minSpread {
			kept = append(kept, o)
		}
	}
	count := len(kept)
	if limit >= 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return count, kept
}
