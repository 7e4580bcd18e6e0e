// Package banks scores the health of FDIC insured institutions from their
// call reports and screens for banks under stress.
package banks

// RiskLevel buckets an overall health score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskElevated RiskLevel = "elevated"
	RiskHigh     RiskLevel = "high"
)

// Factors are the four component scores, each 0-100.
type Factors struct {
	CapitalAdequacy int `json:"capital_adequacy"`
	AssetQuality    int `json:"asset_quality"`
	Profitability   int `json:"profitability"`
	Liquidity       int `json:"liquidity"`
}

// HealthScore is the scorer's verdict on one institution.
type HealthScore struct {
	Cert         string    `json:"cert"`
	Name         string    `json:"name"`
	OverallScore int       `json:"overall_score"`
	RiskLevel    RiskLevel `json:"risk_level"`
	Factors      Factors   `json:"factors"`
	RedFlags     []string  `json:"red_flags"`
	LastUpdated  string    `json:"last_updated"`
}

// Institution identifies the bank being scored.
type Institution struct {
	Cert        string
	Name        string
	DateUpdated string
}

// Ratios are the percentages the factors are derived from.
type Ratios struct {
	EquityRatio float64 // equity / assets
	NCLRatio    float64 // non-current loans / net loans
	ROA         float64
	NIM         float64
}

// AtRiskBank is a bank with at least two stress signals.
type AtRiskBank struct {
	Cert          string   `json:"cert"`
	ReportDate    string   `json:"report_date"`
	TotalAssets   string   `json:"total_assets"`
	ROA           string   `json:"roa"`
	EquityRatio   string   `json:"equity_ratio"`
	NCLRatio      string   `json:"ncl_ratio"`
	StressSignals []string `json:"stress_signals"`
	SignalCount   int      `json:"signal_count"`

	roa float64
}

// Failure is one entry of the FDIC failed bank list.
type Failure struct {
	Cert                 any `json:"cert"`
	Name                 any `json:"name"`
	City                 any `json:"city"`
	State                any `json:"state"`
	FailDate             any `json:"fail_date"`
	ClosingDate          any `json:"closing_date"`
	TotalAssets          any `json:"total_assets"`
	TotalDeposits        any `json:"total_deposits"`
	EstimatedLoss        any `json:"estimated_loss"`
	AcquiringInstitution any `json:"acquiring_institution"`
	FailureReason        any `json:"failure_reason"`
}
