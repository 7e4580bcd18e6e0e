package prediction

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// subscriberBuffer is how many unsent reports a slow subscriber may lag.
const subscriberBuffer = 4

// Hub fans arbitrage reports out to stream subscribers. A subscriber that
// falls behind misses reports rather than blocking the publisher.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
	latest      []byte
	closed      bool
	log         zerolog.Logger
}

// NewHub creates an empty hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[chan []byte]struct{}),
		log:         log.With().Str("component", "arbitrage_hub").Logger(),
	}
}

// Subscribe registers a subscriber. It returns the update channel, the most
// recent report (nil before the first publish) and a cancel function.
func (h *Hub) Subscribe() (<-chan []byte, []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, nil, func() {}
	}
	h.subscribers[ch] = struct{}{}
	latest := h.latest
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subscribers[ch]; ok {
				delete(h.subscribers, ch)
				close(ch)
			}
		})
	}
	return ch, latest, cancel
}

// Publish encodes report and delivers it to every subscriber.
func (h *Hub) Publish(report ArbitrageReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode arbitrage report: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	h.latest = payload
	dropped := 0
	for ch := range h.subscribers {
		select {
		case ch <- payload:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.log.Debug().Int("dropped", dropped).Msg("Slow subscribers skipped a report")
	}
	return nil
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber. Later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
	h.log.Info().Msg("Arbitrage hub closed")
}
