package economy

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aristath/oracles/internal/clients/bls"
	"github.com/aristath/oracles/internal/jsonx"
)

const trendPoints = 6

var employmentSeries = []namedSeries{
	{"LNS14000000", "Unemployment Rate"},
	{"CES0000000001", "Total Nonfarm Payrolls (thousands)"},
	{"LNS11300000", "Labor Force Participation Rate"},
	{"CES0500000003", "Average Hourly Earnings ($)"},
}

var cpiSeries = []namedSeries{
	{"CUUR0000SA0", "CPI All Items"},
	{"CUUR0000SA0L1E", "Core CPI (less food & energy)"},
	{"CUUR0000SAF1", "Food CPI"},
	{"CUUR0000SETB01", "Gasoline CPI"},
}

type namedSeries struct {
	id   string
	name string
}

func seriesName(set []namedSeries, id string) string {
	for _, s := range set {
		if s.id == id {
			return s.name
		}
	}
	return id
}

func seriesIDs(set []namedSeries) []string {
	ids := make([]string, len(set))
	for i, s := range set {
		ids[i] = s.id
	}
	return ids
}

// EmploymentSeries is the latest reading and recent trend of a labor series.
type EmploymentSeries struct {
	SeriesID string          `json:"series_id"`
	Name     string          `json:"name"`
	Latest   *bls.DataPoint  `json:"latest"`
	Trend    []bls.DataPoint `json:"trend"`
}

// CPISeries is a price index with its year over year change.
type CPISeries struct {
	SeriesID     string          `json:"series_id"`
	Name         string          `json:"name"`
	LatestValue  float64         `json:"latest_value"`
	LatestPeriod string          `json:"latest_period"`
	YoYChange    *string         `json:"yoy_change"`
	Trend        []bls.DataPoint `json:"trend"`
}

// lastTwoYears covers the previous and the current calendar year.
func (s *Service) lastTwoYears(ids []string) bls.Request {
	year := s.now().Year()
	return bls.Request{SeriesIDs: ids, StartYear: year - 1, EndYear: year}
}

// Employment returns the headline labor market series.
func (s *Service) Employment(ctx context.Context) ([]EmploymentSeries, error) {
	series, err := s.bls.Series(ctx, s.lastTwoYears(seriesIDs(employmentSeries)))
	if err != nil {
		return nil, err
	}

	out := make([]EmploymentSeries, 0, len(series))
	for _, ser := range series {
		es := EmploymentSeries{
			SeriesID: ser.ID,
			Name:     seriesName(employmentSeries, ser.ID),
			Trend:    head(ser.Data, trendPoints),
		}
		if len(ser.Data) > 0 {
			es.Latest = &ser.Data[0]
		}
		out = append(out, es)
	}
	return out, nil
}

// CPI returns the consumer price indexes with year over year changes.
func (s *Service) CPI(ctx context.Context) ([]CPISeries, error) {
	series, err := s.bls.Series(ctx, s.lastTwoYears(seriesIDs(cpiSeries)))
	if err != nil {
		return nil, err
	}

	out := make([]CPISeries, 0, len(series))
	for _, ser := range series {
		cs := CPISeries{
			SeriesID: ser.ID,
			Name:     seriesName(cpiSeries, ser.ID),
			Trend:    head(ser.Data, trendPoints),
		}
		if len(ser.Data) > 0 {
			latest := ser.Data[0]
			cs.LatestValue = jsonx.ParseFloat(latest.Value)
			cs.LatestPeriod = latest.Year + "-" + latest.PeriodName
			cs.YoYChange = yearOverYear(ser.Data)
		}
		out = append(out, cs)
	}
	return out, nil
}

// yearOverYear compares the latest point with the same period one year
// earlier, formatted as a percentage.
func yearOverYear(data []bls.DataPoint) *string {
	latest := data[0]
	year, err := strconv.Atoi(latest.Year)
	if err != nil {
		return nil
	}
	prior := strconv.Itoa(year - 1)
	for _, d := range data {
		if d.Year != prior || d.Period != latest.Period {
			continue
		}
		base := jsonx.ParseFloat(d.Value)
		if base == 0 {
			return nil
		}
		pct := (jsonx.ParseFloat(latest.Value) - base) / base * 100
		change := fmt.Sprintf("%.2f%%", pct)
		return &change
	}
	return nil
}

// SeriesData returns the raw observations of one BLS series over the last
// years years.
func (s *Service) SeriesData(ctx context.Context, id string, years int) ([]bls.DataPoint, error) {
	end := s.now().Year()
	series, err := s.bls.Series(ctx, bls.Request{SeriesIDs: []string{id}, StartYear: end - years, EndYear: end})
	if err != nil {
		return nil, err
	}
	if len(series) == 0 || series[0].Data == nil {
		return []bls.DataPoint{}, nil
	}
	return series[0].Data, nil
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		if items == nil {
			return []T{}
		}
		return items
	}
	return items[:n]
}
