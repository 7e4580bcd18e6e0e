// Package jsonx decodes loosely typed upstream JSON. Providers disagree on
// whether numbers arrive as numbers or strings, and on null versus absent.
// These types accept either form and fall back to zero values.
package jsonx

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Float accepts 1.5, "1.5", null, "" and "null".
type Float float64

// UnmarshalJSON implements json.Unmarshaler
func (f *Float) UnmarshalJSON(data []byte) error {
	*f = Float(parseFloat(data))
	return nil
}

func parseFloat(data []byte) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return 0
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// String accepts "abc", 123 and null.
type String string

// UnmarshalJSON implements json.Unmarshaler
func (s *String) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = String(v)
		return nil
	}
	*s = String(data)
	return nil
}

// StringList decodes either a JSON array of strings/numbers or a string
// holding such an array, e.g. "[\"0.45\", \"0.55\"]".
func StringList(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil
		}
		raw = []byte(inner)
	}
	var items []String
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = string(item)
	}
	return out
}

// ParseFloat parses s, returning 0 for anything unparseable.
func ParseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// Record is a generic upstream object with lenient accessors.
type Record map[string]any

// Float returns the numeric value of key, parsing strings when needed.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		return ParseFloat(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Has reports whether key holds a non-null value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns key as a string, formatting numbers without exponent.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// NullableString returns nil for missing values and the literal "null".
func (r Record) NullableString(key string) any {
	s := r.String(key)
	if s == "" || s == "null" {
		return nil
	}
	return s
}

// NullableFloat parses key, returning nil for missing or unparseable values.
func (r Record) NullableFloat(key string) any {
	s := r.String(key)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return v
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	out, _ := strconv.ParseFloat(s, 64)
	return out
}
