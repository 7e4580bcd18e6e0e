package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/oracles/internal/api"
)

// cpuSampleWindow keeps /stats fast while still giving a usable CPU reading.
const cpuSampleWindow = 100 * time.Millisecond

// CacheStats is the part of the response cache /stats reports on.
type CacheStats interface {
	Len() int
	MaxEntries() int
}

// SystemHandlers serves process and host statistics
type SystemHandlers struct {
	log         zerolog.Logger
	version     string
	startupTime time.Time
	cache       CacheStats
	endpoints   int

	// host readers, replaced in tests
	cpuPercent    func() (float64, error)
	memoryPercent func() (float64, error)
}

// NewSystemHandlers creates system handlers. endpoints is the number of
// priced endpoints in the catalog.
func NewSystemHandlers(version string, cache CacheStats, endpoints int, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:           log.With().Str("handler", "system").Logger(),
		version:       version,
		startupTime:   time.Now(),
		cache:         cache,
		endpoints:     endpoints,
		cpuPercent:    hostCPUPercent,
		memoryPercent: hostMemoryPercent,
	}
}

// HandleGetStats handles GET /stats
func (h *SystemHandlers) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memoryPercent := h.getSystemStats()

	api.WriteJSON(w, r, h.log, http.StatusOK, api.M{
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startupTime).Seconds()),
		"cache": api.M{
			"entries":     h.cache.Len(),
			"max_entries": h.cache.MaxEntries(),
		},
		"endpoints": h.endpoints,
		"system": api.M{
			"cpu_percent":    cpuPercent,
			"memory_percent": memoryPercent,
		},
		"timestamp": api.Timestamp(),
	})
}

// getSystemStats returns CPU and memory usage percentages. A failed reading
// is logged and reported as zero.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := h.cpuPercent()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = 0
	}

	memoryPercent, err := h.memoryPercent()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		memoryPercent = 0
	}

	return cpuPercent, memoryPercent
}

// hostCPUPercent averages usage across all CPUs
func hostCPUPercent() (float64, error) {
	percents, err := cpu.Percent(cpuSampleWindow, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, nil
	}
	return percents[0], nil
}

func hostMemoryPercent() (float64, error) {
	stat, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return stat.UsedPercent, nil
}
