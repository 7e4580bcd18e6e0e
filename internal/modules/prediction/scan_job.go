package prediction

import (
	"context"
	"time"
)

// ScanJob periodically runs an arbitrage scan and publishes it to the hub.
type ScanJob struct {
	service   *Service
	hub       *Hub
	minSpread float64
	limit     int
	timeout   time.Duration
}

// NewScanJob creates the scheduled arbitrage scan
func NewScanJob(service *Service, hub *Hub) *ScanJob {
	return &ScanJob{
		service:   service,
		hub:       hub,
		minSpread: 0.02,
		limit:     20,
		timeout:   30 * time.Second,
	}
}

// Name implements scheduler.Job
func (j *ScanJob) Name() string {
	return "prediction_arbitrage_scan"
}

// Run implements scheduler.Job
func (j *ScanJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	report := j.service.Arbitrage(ctx, j.minSpread, j.limit)
	return j.hub.Publish(report)
}
