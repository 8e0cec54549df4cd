package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RawRecord is one provider-shaped record as decoded from JSON (or built by
// a scraper). Accessors take dotted paths ("material_data.poster") and never
// fail: a missing or wrong-typed value yields the zero value.
type RawRecord map[string]any

// Get walks a dotted path
func (r RawRecord) Get(path string) (any, bool) {
	var current any = map[string]any(r)
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// Has reports whether path resolves to a non-empty value
func (r RawRecord) Has(path string) bool {
	return r.String(path) != ""
}

// String returns the value at path formatted as a trimmed string
func (r RawRecord) String(path string) string {
	v, ok := r.Get(path)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

// First returns the first non-empty string among paths
func (r RawRecord) First(paths ...string) string {
	for _, p := range paths {
		if s := r.String(p); s != "" {
			return s
		}
	}
	return ""
}

// Int returns the value at path as an int; strings are parsed leniently
func (r RawRecord) Int(path string) int {
	v, ok := r.Get(path)
	if !ok {
		return 0
	}
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case int64:
		return int(val)
	case json.Number:
		n, _ := val.Float64()
		return int(n)
	case string:
		return leadingInt(val)
	default:
		return 0
	}
}

// Float returns the value at path as a float64
func (r RawRecord) Float(path string) float64 {
	v, ok := r.Get(path)
	if !ok {
		return 0
	}
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		f, _ := val.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(val, ",", ".")), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Strings returns a list value. Accepts string arrays, arrays of objects
// carrying a "name" key, and comma-separated strings.
func (r RawRecord) Strings(path string) []string {
	v, ok := r.Get(path)
	if !ok {
		return nil
	}
	var out []string
	switch val := v.(type) {
	case []string:
		for _, s := range val {
			out = appendTrimmed(out, s)
		}
	case []any:
		for _, item := range val {
			switch it := item.(type) {
			case string:
				out = appendTrimmed(out, it)
			case map[string]any:
				if name, ok := it["name"].(string); ok {
					out = appendTrimmed(out, name)
				}
			}
		}
	case string:
		for _, s := range strings.Split(val, ",") {
			out = appendTrimmed(out, s)
		}
	}
	return out
}

// Records returns a list of nested objects
func (r RawRecord) Records(path string) []RawRecord {
	v, ok := r.Get(path)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]RawRecord, 0, len(list))
	for _, item := range list {
		if m, ok := asMap(item); ok {
			out = append(out, RawRecord(m))
		}
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case RawRecord:
		return m, true
	default:
		return nil, false
	}
}

func appendTrimmed(out []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return out
	}
	return append(out, s)
}

// leadingInt parses "128 мин." or "2019-05-01" style values by their digit prefix
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
