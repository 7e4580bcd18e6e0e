// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/config"
	"github.com/aristath/oracles/internal/health"
	"github.com/aristath/oracles/internal/modules/prediction"
	"github.com/aristath/oracles/internal/scheduler"
)

// RegisterJobs creates the scheduler and registers the background jobs.
// Returns JobInstances for manual triggering.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	container.Scheduler = scheduler.New(log)
	instances := &JobInstances{}

	// ==========================================
	// Health probe snapshot for /status
	// ==========================================
	healthProbe := health.NewJob(container.HealthChecker)
	if err := container.Scheduler.AddJob(cfg.HealthProbeSchedule, healthProbe); err != nil {
		return nil, err
	}
	instances.HealthProbe = healthProbe

	// ==========================================
	// Arbitrage scan pushed to websocket subscribers
	// ==========================================
	arbitrageScan := prediction.NewScanJob(container.PredictionService, container.ArbitrageHub)
	if err := container.Scheduler.AddJob(cfg.ArbitrageScanSchedule, arbitrageScan); err != nil {
		return nil, err
	}
	instances.ArbitrageScan = arbitrageScan

	return instances, nil
}
