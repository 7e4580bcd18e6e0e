// Package health probes the gateway's upstream dependencies and condenses
// the results into an overall status.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/fanout"
)

// Status is the state of one dependency.
type Status string

const (
	StatusHealthy     Status = "healthy"
	StatusUnhealthy   Status = "unhealthy"
	StatusRateLimited Status = "rate-limited"
	StatusConfigured  Status = "configured"
	StatusNoAPIKey    Status = "no_api_key"
)

// Available reports whether the dependency can currently serve requests.
// Rate limiting is transient and counts as available.
func (s Status) Available() bool {
	return s == StatusHealthy || s == StatusConfigured || s == StatusRateLimited
}

// Overall service states.
const (
	Operational = "operational"
	Degraded    = "degraded"
	Outage      = "outage"
)

const (
	// ProbeTimeout bounds every probe.
	ProbeTimeout = 5 * time.Second

	// SnapshotMaxAge is how long a scheduled probe run answers /status.
	SnapshotMaxAge = 2 * time.Minute

	degradedShare = 0.7
)

// Probe checks one dependency.
type Probe struct {
	// Name keys the dependency in /health.
	Name string
	// Service keys the dependency in /status.
	Service string
	// Check contacts the dependency. A nil Check reports configuration only.
	Check func(ctx context.Context) error
	// Keyless is true when the dependency needs no API key.
	Keyless bool
	// HasKey reports whether the API key is set. Ignored when Keyless.
	HasKey bool
	// OnFailure overrides StatusUnhealthy for a failed check.
	OnFailure Status
}

func (p Probe) run(ctx context.Context) Status {
	if !p.Keyless && !p.HasKey {
		return StatusNoAPIKey
	}
	if p.Check == nil {
		return StatusConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	if err := p.Check(ctx); err != nil {
		if p.OnFailure != "" {
			return p.OnFailure
		}
		return StatusUnhealthy
	}
	return StatusHealthy
}

// Result is the outcome of one probe.
type Result struct {
	Name    string
	Service string
	Status  Status
}

// Report is one complete probe run.
type Report struct {
	Results   []Result
	CheckedAt time.Time
}

// Overall condenses the results: every dependency available is operational,
// more than 70% is degraded, anything less is an outage.
func (r *Report) Overall() string {
	available := 0
	for _, res := range r.Results {
		if res.Status.Available() {
			available++
		}
	}

	switch total := len(r.Results); {
	case available == total:
		return Operational
	case float64(available) > float64(total)*degradedShare:
		return Degraded
	default:
		return Outage
	}
}

// ByName maps /health keys to statuses.
func (r *Report) ByName() map[string]Status {
	out := make(map[string]Status, len(r.Results))
	for _, res := range r.Results {
		out[res.Name] = res.Status
	}
	return out
}

// ByService maps /status keys to statuses.
func (r *Report) ByService() map[string]Status {
	out := make(map[string]Status, len(r.Results))
	for _, res := range r.Results {
		out[res.Service] = res.Status
	}
	return out
}

// Checker runs probes and keeps the latest scheduled report.
type Checker struct {
	probes []Probe
	log    zerolog.Logger
	now    func() time.Time

	mu   sync.RWMutex
	last *Report
}

// NewChecker creates a checker for probes
func NewChecker(probes []Probe, log zerolog.Logger) *Checker {
	return &Checker{
		probes: probes,
		log:    log.With().Str("component", "health").Logger(),
		now:    time.Now,
	}
}

// Run probes every dependency concurrently.
func (c *Checker) Run(ctx context.Context) *Report {
	tasks := make([]fanout.Task[Status], len(c.probes))
	for i, p := range c.probes {
		p := p
		tasks[i] = func(ctx context.Context) (Status, error) {
			return p.run(ctx), nil
		}
	}

	settled := fanout.Settle(ctx, tasks...)

	report := &Report{Results: make([]Result, len(c.probes)), CheckedAt: c.now()}
	for i, p := range c.probes {
		status := settled[i].Value
		if settled[i].Err != nil {
			status = StatusUnhealthy
		}
		report.Results[i] = Result{Name: p.Name, Service: p.Service, Status: status}
	}
	return report
}

// Refresh runs the probes, stores the report and logs every dependency whose
// status changed since the previous refresh.
func (c *Checker) Refresh(ctx context.Context) *Report {
	report := c.Run(ctx)

	c.mu.Lock()
	previous := c.last
	c.last = report
	c.mu.Unlock()

	if previous == nil {
		c.log.Info().Str("status", report.Overall()).Msg("Initial health snapshot")
		return report
	}

	before := previous.ByService()
	for _, res := range report.Results {
		if was, ok := before[res.Service]; ok && was != res.Status {
			c.log.Warn().
				Str("service", res.Service).
				Str("from", string(was)).
				Str("to", string(res.Status)).
				Msg("Dependency status changed")
		}
	}
	if overall, was := report.Overall(), previous.Overall(); overall != was {
		c.log.Warn().Str("from", was).Str("to", overall).Msg("Gateway status changed")
	}

	return report
}

// Latest returns the stored report when it is younger than SnapshotMaxAge,
// otherwise it probes live.
func (c *Checker) Latest(ctx context.Context) *Report {
	c.mu.RLock()
	last := c.last
	c.mu.RUnlock()

	if last != nil && c.now().Sub(last.CheckedAt) < SnapshotMaxAge {
		return last
	}
	return c.Run(ctx)
}

// Job refreshes the checker on a schedule.
type Job struct {
	checker *Checker
}

// NewJob creates the scheduled probe job
func NewJob(checker *Checker) *Job {
	return &Job{checker: checker}
}

// Name returns the job name
func (j *Job) Name() string {
	return "health_probe"
}

// Run refreshes the health snapshot
func (j *Job) Run() error {
	j.checker.Refresh(context.Background())
	return nil
}
