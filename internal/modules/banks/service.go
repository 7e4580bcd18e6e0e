package banks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/fdic"
	"github.com/aristath/oracles/internal/jsonx"
)

// healthPeriods is how many quarters the health check reads.
const healthPeriods = 4

// FDICSource is the subset of the FDIC client the service uses.
type FDICSource interface {
	Search(ctx context.Context, q fdic.SearchQuery) ([]jsonx.Record, error)
	Institution(ctx context.Context, cert string) (jsonx.Record, error)
	Financials(ctx context.Context, cert string, periods int) ([]fdic.Financials, error)
	Failures(ctx context.Context, limit int, year string) ([]jsonx.Record, error)
	WeakestReports(ctx context.Context, since string) ([]fdic.Financials, error)
}

// Service answers bank health questions from FDIC data.
type Service struct {
	fdic FDICSource
	log  zerolog.Logger
	now  func() time.Time
}

// NewService creates a bank health service
func NewService(source FDICSource, log zerolog.Logger) *Service {
	return &Service{
		fdic: source,
		log:  log.With().Str("service", "banks").Logger(),
		now:  time.Now,
	}
}

// Search finds institutions and applies the filters BankFind could not
// combine with a name search.
func (s *Service) Search(ctx context.Context, q fdic.SearchQuery) ([]jsonx.Record, error) {
	q.State = strings.ToUpper(q.State)
	rows, err := s.fdic.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	out := make([]jsonx.Record, 0, len(rows))
	for _, inst := range rows {
		if q.ActiveOnly && inst.Float("ACTIVE") != 1 {
			continue
		}
		if q.Name != "" && q.State != "" && !strings.EqualFold(inst.String("STALP"), q.State) {
			continue
		}
		if q.Name != "" && q.City != "" && !strings.Contains(strings.ToLower(inst.String("CITY")), strings.ToLower(q.City)) {
			continue
		}
		out = append(out, inst)
		if len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// Institution returns the institution with certificate cert.
func (s *Service) Institution(ctx context.Context, cert string) (jsonx.Record, error) {
	inst, err := s.fdic.Institution(ctx, cert)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, api.NotFound("Institution not found", api.M{"cert": cert})
	}
	return inst, nil
}

// Trends compares the two most recent call reports.
type Trends struct {
	AssetGrowth   *string `json:"asset_growth"`
	DepositGrowth *string `json:"deposit_growth"`
	IncomeChange  *string `json:"income_change"`
	ROAChange     string  `json:"roa_change"`
	ROEChange     string  `json:"roe_change"`
}

// Financials returns up to periods call reports with quarter over quarter
// trends when at least two are available.
func (s *Service) Financials(ctx context.Context, cert string, periods int) ([]fdic.Financials, *Trends, error) {
	reports, err := s.fdic.Financials(ctx, cert, periods)
	if err != nil {
		return nil, nil, err
	}
	if len(reports) == 0 {
		return nil, nil, api.NotFound("Financials not found", api.M{"cert": cert})
	}
	if len(reports) < 2 {
		return reports, nil, nil
	}

	latest, prev := reports[0], reports[1]
	return reports, &Trends{
		AssetGrowth:   percentChange(float64(latest.ASSET), float64(prev.ASSET)),
		DepositGrowth: percentChange(float64(latest.DEP), float64(prev.DEP)),
		IncomeChange:  percentChange(float64(latest.NETINC), float64(prev.NETINC)),
		ROAChange:     fmt.Sprintf("%.4f", float64(latest.ROA-prev.ROA)),
		ROEChange:     fmt.Sprintf("%.4f", float64(latest.ROE-prev.ROE)),
	}, nil
}

// percentChange is nil when the base is zero.
func percentChange(cur, base float64) *string {
	if base == 0 {
		return nil
	}
	s := fmt.Sprintf("%.2f%%", (cur-base)/abs(base)*100)
	return &s
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// HealthReport is a score plus the formatted inputs behind it.
type HealthReport struct {
	Health  HealthScore       `json:"health"`
	Metrics map[string]string `json:"metrics"`
}

// Health scores an institution. The institution and its financials are
// fetched concurrently; both must succeed.
func (s *Service) Health(ctx context.Context, cert string) (*HealthReport, error) {
	var (
		inst    jsonx.Record
		reports []fdic.Financials
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inst, err = s.fdic.Institution(gctx, cert)
		return err
	})
	g.Go(func() error {
		var err error
		reports, err = s.fdic.Financials(gctx, cert, healthPeriods)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, api.NotFound("Institution not found", api.M{"cert": cert})
	}

	score := Score(Institution{
		Cert:        cert,
		Name:        inst.String("NAME"),
		DateUpdated: inst.String("DATEUPDT"),
	}, reports)

	var latest fdic.Financials
	if len(reports) > 0 {
		latest = reports[0]
	}
	r := ComputeRatios(latest)

	return &HealthReport{
		Health: score,
		Metrics: map[string]string{
			"equity_ratio":   fmt.Sprintf("%.2f%%", r.EquityRatio),
			"ncl_ratio":      fmt.Sprintf("%.2f%%", r.NCLRatio),
			"roa":            fmt.Sprintf("%.2f%%", r.ROA),
			"nim":            fmt.Sprintf("%.2f%%", r.NIM),
			"total_assets":   FormatThousands(float64(latest.ASSET)),
			"total_deposits": FormatThousands(float64(latest.DEP)),
		},
	}, nil
}

// FormatThousands renders an amount reported in thousands of dollars.
func FormatThousands(v float64) string {
	if abs(v) >= 1e6 {
		return fmt.Sprintf("$%.1fB", v/1e6)
	}
	return fmt.Sprintf("$%.1fM", v/1e3)
}

// Failures lists failed banks, most recent first.
func (s *Service) Failures(ctx context.Context, limit int, year string) ([]Failure, error) {
	rows, err := s.fdic.Failures(ctx, limit, year)
	if err != nil {
		return nil, err
	}

	out := make([]Failure, 0, len(rows))
	for _, f := range rows {
		out = append(out, Failure{
			Cert:                 f["CERT"],
			Name:                 f["NAME"],
			City:                 f["CITYST"],
			State:                f["STALP"],
			FailDate:             f["FAILDATE"],
			ClosingDate:          f["CLDATE"],
			TotalAssets:          f["QBFASSET"],
			TotalDeposits:        f["QBFDEP"],
			EstimatedLoss:        f["COST"],
			AcquiringInstitution: f["ACQUIRER"],
			FailureReason:        f["RESTYPE"],
		})
	}
	return out, nil
}

// AtRiskResult is the outcome of a stress screen.
type AtRiskResult struct {
	Banks        []AtRiskBank
	Total        int
	Cutoff       string
	MinAssetsMil int
}

// AtRisk screens call reports from the last twelve months for banks with
// at least minAssetsMillions in assets and two or more stress signals. Each
// bank appears once, using its weakest recent report. Results are ordered
// by signal count, then by ROA ascending.
func (s *Service) AtRisk(ctx context.Context, minAssetsMillions, limit int) (*AtRiskResult, error) {
	cutoff := s.now().AddDate(-1, 0, 0).Format("20060102")
	minAssets := float64(minAssetsMillions) * 1000

	reports, err := s.fdic.WeakestReports(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	banks := make([]AtRiskBank, 0)
	for _, f := range reports {
		if float64(f.ASSET) < minAssets {
			continue
		}
		cert := string(f.CERT)
		if _, dup := seen[cert]; dup {
			continue
		}
		seen[cert] = struct{}{}

		r := ComputeRatios(f)
		signals := StressSignals(f, r)
		if len(signals) < 2 {
			continue
		}
		banks = append(banks, AtRiskBank{
			Cert:          cert,
			ReportDate:    string(f.REPDTE),
			TotalAssets:   FormatThousands(float64(f.ASSET)),
			ROA:           fmt.Sprintf("%.2f%%", r.ROA),
			EquityRatio:   fmt.Sprintf("%.2f%%", r.EquityRatio),
			NCLRatio:      fmt.Sprintf("%.2f%%", r.NCLRatio),
			StressSignals: signals,
			SignalCount:   len(signals),
			roa:           r.ROA,
		})
	}

	sort.SliceStable(banks, func(i, j int) bool {
		if banks[i].SignalCount != banks[j].SignalCount {
			return banks[i].SignalCount > banks[j].SignalCount
		}
		return banks[i].roa < banks[j].roa
	})

	total := len(banks)
	if limit >= 0 && len(banks) > limit {
		banks = banks[:limit]
	}
	s.log.Debug().Int("screened", len(reports)).Int("at_risk", total).Msg("Stress screen complete")

	return &AtRiskResult{Banks: banks, Total: total, Cutoff: cutoff, MinAssetsMil: minAssetsMillions}, nil
}

// StressSignals lists the stress indicators present in one call report.
func StressSignals(f fdic.Financials, r Ratios) []string {
	var signals []string
	if r.ROA < 0 {
		signals = append(signals, "Negative ROA")
	}
	if f.NETINC < 0 {
		signals = append(signals, "Net loss")
	}
	if r.EquityRatio < 5 {
		signals = append(signals, "Low capital")
	}
	if r.NCLRatio > 3 {
		signals = append(signals, "High NCL ratio")
	}
	return signals
}
