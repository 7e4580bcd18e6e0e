package api

import (
	"net/http"
	"strconv"
	"strings"
)

// Query returns the trimmed query parameter or def when it is empty.
func Query(r *http.Request, name, def string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(name)); v != "" {
		return v
	}
	return def
}

// QueryList splits a comma-separated query parameter such as
// ?ids=bitcoin,ethereum into trimmed, non-empty values. It returns nil when
// nothing is left.
func QueryList(r *http.Request, name string) []string {
	var out []string
	for _, v := range strings.Split(r.URL.Query().Get(name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// QueryInt parses an integer query parameter. Missing or malformed values
// fall back to def.
func QueryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// QueryFloat parses a float query parameter. Missing or malformed values
// fall back to def.
func QueryFloat(r *http.Request, name string, def float64) float64 {
	if v := r.URL.Query().Get(name); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// QueryBool parses a boolean query parameter; anything but "false" counts
// as def when def is true.
func QueryBool(r *http.Request, name string, def bool) bool {
	if v := r.URL.Query().Get(name); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
