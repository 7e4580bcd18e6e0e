package economy

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/fred"
	"github.com/aristath/oracles/internal/fanout"
)

// maxIndicatorSeries bounds the parallel FRED calls of one indicators request.
const maxIndicatorSeries = 15

// SeriesReport is one FRED series with its observations.
type SeriesReport struct {
	SeriesID     string             `json:"series_id"`
	Name         string             `json:"name"`
	Category     string             `json:"category"`
	Frequency    string             `json:"frequency,omitempty"`
	Units        string             `json:"units,omitempty"`
	Observations []fred.Observation `json:"observations"`
}

// Indicator is the latest reading of a catalog series.
type Indicator struct {
	SeriesID      string   `json:"series_id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Frequency     string   `json:"frequency"`
	LatestValue   *float64 `json:"latest_value"`
	LatestDate    string   `json:"latest_date,omitempty"`
	PreviousValue *float64 `json:"previous_value"`
	Change        *float64 `json:"change"`
}

// IndicatorSet is the result of an indicators request. Categories keeps the
// order in which categories first appear.
type IndicatorSet struct {
	Indicators []Indicator
	Categories []string
}

// ByCategory groups the indicators under their category.
func (s IndicatorSet) ByCategory() map[string][]Indicator {
	out := make(map[string][]Indicator, len(s.Categories))
	for _, ind := range s.Indicators {
		out[ind.Category] = append(out[ind.Category], ind)
	}
	return out
}

// DashboardEntry summarizes one dashboard series.
type DashboardEntry struct {
	Name         string             `json:"name"`
	Category     string             `json:"category,omitempty"`
	Current      *float64           `json:"current"`
	CurrentDate  string             `json:"current_date,omitempty"`
	Trend        []fred.Observation `json:"trend"`
	ChangePeriod *string            `json:"change_period"`
}

// Dashboard is the economic overview with derived insights.
type Dashboard struct {
	Series   map[string]DashboardEntry
	Insights []string
}

// Series returns observations of one series with its catalog or FRED
// metadata. Missing metadata does not fail the request.
func (s *Service) Series(ctx context.Context, q fred.ObservationQuery) (*SeriesReport, error) {
	q.SeriesID = strings.ToUpper(q.SeriesID)

	var (
		observations []fred.Observation
		info         *fred.SeriesInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		observations, err = s.fred.Observations(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		if info, err = s.fred.Info(gctx, q.SeriesID); err != nil {
			s.log.Warn().Err(err).Str("series_id", q.SeriesID).Msg("Series metadata unavailable")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &SeriesReport{
		SeriesID:     q.SeriesID,
		Name:         q.SeriesID,
		Category:     "other",
		Observations: observations,
	}
	if info != nil {
		report.Name = info.Title
		report.Frequency = info.Frequency
		report.Units = info.Units
	}
	if meta, ok := fred.Lookup(q.SeriesID); ok {
		report.Name = meta.Name
		report.Category = meta.Category
		report.Frequency = meta.Frequency
	}
	return report, nil
}

// Indicators returns the latest two readings of up to 15 catalog series,
// optionally restricted to one category. Series that fail are left out.
func (s *Service) Indicators(ctx context.Context, category string) (*IndicatorSet, error) {
	if !s.fred.Configured() {
		return nil, api.NotConfigured(fred.EnvKey, fred.SetupHint)
	}

	series := fred.InCategory(category)
	if len(series) > maxIndicatorSeries {
		series = series[:maxIndicatorSeries]
	}

	tasks := make([]fanout.Task[Indicator], len(series))
	for i, meta := range series {
		meta := meta
		tasks[i] = func(ctx context.Context) (Indicator, error) {
			obs, err := s.fred.Observations(ctx, fred.ObservationQuery{SeriesID: meta.ID, Limit: 2})
			if err != nil {
				return Indicator{}, err
			}
			return indicatorFrom(meta, obs), nil
		}
	}

	set := &IndicatorSet{Indicators: []Indicator{}, Categories: []string{}}
	seen := make(map[string]bool)
	for i, res := range fanout.Settle(ctx, tasks...) {
		if res.Err != nil {
			s.log.Warn().Err(res.Err).Str("series_id", series[i].ID).Msg("Indicator fetch failed")
			continue
		}
		set.Indicators = append(set.Indicators, res.Value)
		if !seen[res.Value.Category] {
			seen[res.Value.Category] = true
			set.Categories = append(set.Categories, res.Value.Category)
		}
	}
	return set, nil
}

func indicatorFrom(meta fred.Series, obs []fred.Observation) Indicator {
	ind := Indicator{
		SeriesID:  meta.ID,
		Name:      meta.Name,
		Category:  meta.Category,
		Frequency: meta.Frequency,
	}
	if len(obs) > 0 {
		ind.LatestValue = obs[0].Value
		ind.LatestDate = obs[0].Date
	}
	if len(obs) > 1 {
		ind.PreviousValue = obs[1].Value
	}
	if ind.LatestValue != nil && ind.PreviousValue != nil {
		change := *ind.LatestValue - *ind.PreviousValue
		ind.Change = &change
	}
	return ind
}

// Dashboard reads the last five observations of the dashboard series and
// derives insights from them.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if !s.fred.Configured() {
		return nil, api.NotConfigured(fred.EnvKey, fred.SetupHint)
	}

	tasks := make([]fanout.Task[[]fred.Observation], len(fred.DashboardSeries))
	for i, id := range fred.DashboardSeries {
		id := id
		tasks[i] = func(ctx context.Context) ([]fred.Observation, error) {
			return s.fred.Observations(ctx, fred.ObservationQuery{SeriesID: id, Limit: 5})
		}
	}

	dash := &Dashboard{Series: make(map[string]DashboardEntry), Insights: []string{}}
	for i, res := range fanout.Settle(ctx, tasks...) {
		id := fred.DashboardSeries[i]
		if res.Err != nil {
			s.log.Warn().Err(res.Err).Str("series_id", id).Msg("Dashboard series fetch failed")
			continue
		}
		dash.Series[id] = dashboardEntry(id, res.Value)
	}
	dash.Insights = dashboardInsights(dash.Series)
	return dash, nil
}

func dashboardEntry(id string, obs []fred.Observation) DashboardEntry {
	entry := DashboardEntry{Name: id, Trend: obs}
	if meta, ok := fred.Lookup(id); ok {
		entry.Name = meta.Name
		entry.Category = meta.Category
	}
	if entry.Trend == nil {
		entry.Trend = []fred.Observation{}
	}
	if len(obs) == 0 {
		return entry
	}

	latest, oldest := obs[0], obs[len(obs)-1]
	entry.Current = latest.Value
	entry.CurrentDate = latest.Date
	if latest.Value != nil && oldest.Value != nil && *latest.Value != 0 && *oldest.Value != 0 {
		pct := (*latest.Value - *oldest.Value) / *oldest.Value * 100
		change := fmt.Sprintf("%.2f%%", pct)
		entry.ChangePeriod = &change
	}
	return entry
}

func dashboardInsights(series map[string]DashboardEntry) []string {
	insights := []string{}
	current := func(id string) (float64, bool) {
		e, ok := series[id]
		if !ok || e.Current == nil {
			return 0, false
		}
		return *e.Current, true
	}

	if v, ok := current("T10Y2Y"); ok && v < 0 {
		insights = append(insights, "Yield curve inverted (recession signal)")
	}
	if v, ok := current("UNRATE"); ok && v > 5 {
		insights = append(insights, "Elevated unemployment rate (>5%)")
	}
	if e, ok := series["CPIAUCSL"]; ok && e.ChangePeriod != nil {
		if pct, err := strconv.ParseFloat(strings.TrimSuffix(*e.ChangePeriod, "%"), 64); err == nil && pct > 3 {
			insights = append(insights, "Inflation running above 3% annualized")
		}
	}
	if v, ok := current("UMCSENT"); ok && v < 70 {
		insights = append(insights, "Consumer sentiment below historical average")
	}
	return insights
}

// SearchSeries searches FRED series titles.
func (s *Service) SearchSeries(ctx context.Context, query string, limit int) ([]fred.SeriesInfo, error) {
	if strings.TrimSpace(query) == "" {
		return nil, api.Validation("Query parameter q is required")
	}
	return s.fred.Search(ctx, query, limit)
}
