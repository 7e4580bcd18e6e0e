// Package payment holds the price list of metered endpoints and the
// middleware that answers unpaid requests with an x402 payment requirement.
package payment

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Endpoint is one metered route family, keyed "{category}/{endpoint}".
type Endpoint struct {
	Key         string
	Name        string
	Description string
	Price       decimal.Decimal // USDC
}

// Category returns the first segment of the key.
func (e Endpoint) Category() string {
	category, _, _ := strings.Cut(e.Key, "/")
	return category
}

// AtomicAmount is the price in USDC base units (6 decimals) as a decimal string.
func (e Endpoint) AtomicAmount() string {
	return e.Price.Shift(6).StringFixed(0)
}

// Method is the HTTP method buyers use. Sanctions screens take a POST body,
// except the country lookup.
func (e Endpoint) Method() string {
	if strings.Contains(e.Key, "sanctions") && !strings.Contains(e.Key, "country") {
		return "POST"
	}
	return "GET"
}

// Summary is "Name - Description".
func (e Endpoint) Summary() string {
	return e.Name + " - " + e.Description
}

// Table is the immutable price list. Lookups that miss mean the route is free.
type Table struct {
	endpoints []Endpoint
	byKey     map[string]Endpoint
}

// NewTable builds a table preserving the order of endpoints.
func NewTable(endpoints []Endpoint) *Table {
	t := &Table{
		endpoints: make([]Endpoint, 0, len(endpoints)),
		byKey:     make(map[string]Endpoint, len(endpoints)),
	}
	for _, ep := range endpoints {
		if ep.Description == "" {
			ep.Description = ep.Key
		}
		if ep.Name == "" {
			ep.Name = ep.Key
		}
		if _, dup := t.byKey[ep.Key]; dup {
			continue
		}
		t.endpoints = append(t.endpoints, ep)
		t.byKey[ep.Key] = ep
	}
	return t
}

// Get returns the endpoint with the exact key.
func (t *Table) Get(key string) (Endpoint, bool) {
	ep, ok := t.byKey[key]
	return ep, ok
}

// Lookup resolves a request path to its metered endpoint using the first two
// path segments. Paths with fewer than two segments are never metered.
func (t *Table) Lookup(path string) (Endpoint, bool) {
	key, ok := KeyForPath(path)
	if !ok {
		return Endpoint{}, false
	}
	return t.Get(key)
}

// KeyForPath derives "{category}/{endpoint}" from a request path.
func KeyForPath(path string) (string, bool) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	return parts[0] + "/" + parts[1], true
}

// Endpoints returns all entries in declaration order.
func (t *Table) Endpoints() []Endpoint {
	out := make([]Endpoint, len(t.endpoints))
	copy(out, t.endpoints)
	return out
}

// Len is the number of metered endpoints.
func (t *Table) Len() int {
	return len(t.endpoints)
}

// Categories groups keys by category, preserving order within each group.
func (t *Table) Categories() map[string][]string {
	out := make(map[string][]string)
	for _, ep := range t.endpoints {
		out[ep.Category()] = append(out[ep.Category()], ep.Key)
	}
	return out
}

// Prices returns the flat key to price map. Values are for display in JSON
// documents; payment amounts come from AtomicAmount.
func (t *Table) Prices() map[string]float64 {
	out := make(map[string]float64, len(t.endpoints))
	for _, ep := range t.endpoints {
		out[ep.Key] = ep.Price.InexactFloat64()
	}
	return out
}
