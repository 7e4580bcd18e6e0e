// Package economy serves macroeconomic data: FRED series, Treasury fiscal
// data and BLS labor statistics.
package economy

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/clients/bls"
	"github.com/aristath/oracles/internal/clients/fred"
	"github.com/aristath/oracles/internal/clients/treasury"
	"github.com/aristath/oracles/internal/jsonx"
)

// FREDSource is the subset of the FRED client the service uses.
type FREDSource interface {
	Configured() bool
	Observations(ctx context.Context, q fred.ObservationQuery) ([]fred.Observation, error)
	Info(ctx context.Context, seriesID string) (*fred.SeriesInfo, error)
	Search(ctx context.Context, query string, limit int) ([]fred.SeriesInfo, error)
}

// TreasurySource is the subset of the Treasury client the service uses.
type TreasurySource interface {
	Debt(ctx context.Context) ([]treasury.DebtRecord, error)
	Outlays(ctx context.Context, fiscalYear string) ([]jsonx.Record, error)
	Receipts(ctx context.Context, fiscalYear string) ([]jsonx.Record, error)
	Auctions(ctx context.Context, securityType string) ([]jsonx.Record, error)
}

// BLSSource is the subset of the BLS client the service uses.
type BLSSource interface {
	Series(ctx context.Context, req bls.Request) ([]bls.Series, error)
}

// Service aggregates the three economic data providers.
type Service struct {
	fred     FREDSource
	treasury TreasurySource
	bls      BLSSource
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates an economy service
func NewService(f FREDSource, t TreasurySource, b BLSSource, log zerolog.Logger) *Service {
	return &Service{
		fred:     f,
		treasury: t,
		bls:      b,
		log:      log.With().Str("service", "economy").Logger(),
		now:      time.Now,
	}
}
