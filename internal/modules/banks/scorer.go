package banks

import (
	"math"
	"strings"

	"github.com/aristath/oracles/internal/clients/fdic"
)

// Factor weights; they sum to 1.
const (
	weightCapital       = 0.30
	weightAssetQuality  = 0.30
	weightProfitability = 0.25
	weightLiquidity     = 0.15
)

const criticalPrefix = "CRITICAL"

// ComputeRatios derives the scoring ratios from one call report. A ratio
// whose inputs are missing or zero is 0.
func ComputeRatios(f fdic.Financials) Ratios {
	var r Ratios
	if f.EQTOT != 0 && f.ASSET != 0 {
		r.EquityRatio = float64(f.EQTOT) / float64(f.ASSET) * 100
	}
	if f.LNLSNET != 0 && f.NCLNLS != 0 {
		r.NCLRatio = float64(f.NCLNLS) / float64(f.LNLSNET) * 100
	}
	r.ROA = float64(f.ROA)
	r.NIM = float64(f.NIMY)
	return r
}

// Score rates an institution from its call reports, newest first. Only the
// latest report feeds the factors; the one before it adds trend flags.
//
//	capital       = equity ratio × 10            (10% equity scores 100)
//	asset quality = 100 − NCL ratio × 20         (5% NCL scores 0)
//	profitability = (ROA + 0.5) × 100            (−0.5% scores 0, 0.5% scores 100)
//	liquidity     = NIM × 30                     (3.33% NIM scores 100)
//
// Each factor is clamped to [0,100] before weighting.
func Score(inst Institution, reports []fdic.Financials) HealthScore {
	var latest fdic.Financials
	if len(reports) > 0 {
		latest = reports[0]
	}
	r := ComputeRatios(latest)

	capital := clamp(r.EquityRatio * 10)
	assetQuality := clamp(100 - r.NCLRatio*20)
	profitability := clamp((r.ROA + 0.5) * 100)
	liquidity := clamp(r.NIM * 30)

	flags := redFlags(r)
	if len(reports) > 1 {
		flags = append(flags, trendFlags(latest, reports[1])...)
	}

	overall := int(math.Round(
		capital*weightCapital +
			assetQuality*weightAssetQuality +
			profitability*weightProfitability +
			liquidity*weightLiquidity,
	))

	level := riskLevel(overall)
	for _, f := range flags {
		if strings.HasPrefix(f, criticalPrefix) {
			level = RiskHigh
			break
		}
	}

	lastUpdated := inst.DateUpdated
	if lastUpdated == "" {
		lastUpdated = string(latest.REPDTE)
	}

	return HealthScore{
		Cert:         inst.Cert,
		Name:         inst.Name,
		OverallScore: overall,
		RiskLevel:    level,
		Factors: Factors{
			CapitalAdequacy: int(math.Round(capital)),
			AssetQuality:    int(math.Round(assetQuality)),
			Profitability:   int(math.Round(profitability)),
			Liquidity:       int(math.Round(liquidity)),
		},
		RedFlags:    flags,
		LastUpdated: lastUpdated,
	}
}

func redFlags(r Ratios) []string {
	flags := make([]string, 0)
	if r.EquityRatio < 5 {
		flags = append(flags, "Low equity-to-asset ratio (<5%)")
	}
	if r.EquityRatio < 3 {
		flags = append(flags, "CRITICAL: Equity ratio below 3%")
	}
	if r.NCLRatio > 2 {
		flags = append(flags, "Elevated non-current loan ratio (>2%)")
	}
	if r.NCLRatio > 5 {
		flags = append(flags, "CRITICAL: Very high non-current loans (>5%)")
	}
	if r.ROA < 0 {
		flags = append(flags, "Negative return on assets")
	}
	if r.ROA < -0.5 {
		flags = append(flags, "CRITICAL: Severe losses (ROA < -0.5%)")
	}
	if r.NIM < 2 {
		flags = append(flags, "Low net interest margin (<2%)")
	}
	return flags
}

func trendFlags(latest, prev fdic.Financials) []string {
	var flags []string
	if latest.ASSET < prev.ASSET*0.95 {
		flags = append(flags, "Significant asset decline (>5% QoQ)")
	}
	if latest.DEP < prev.DEP*0.9 {
		flags = append(flags, "Major deposit outflow (>10% QoQ)")
	}
	if latest.NETINC < 0 && prev.NETINC > 0 {
		flags = append(flags, "Turned unprofitable")
	}
	return flags
}

func riskLevel(score int) RiskLevel {
	switch {
	case score >= 75:
		return RiskLow
	case score >= 50:
		return RiskModerate
	case score >= 25:
		return RiskElevated
	}
	return RiskHigh
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
