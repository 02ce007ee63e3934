package payload

import (
	"encoding/json"
	"maps"
	"strconv"
	"strings"
)

// Bag is the raw data of an inbound push message. Values are strings,
// numbers, booleans or nested maps.
type Bag map[string]any

// Record is a normalized push payload. Values are string, float64 or bool.
// A Record is not modified after extraction; With and Clone return copies.
type Record map[string]any

// Field is a single key/value pair.
type Field struct {
	Key   string
	Value any
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r)+4)
	maps.Copy(out, r)
	return out
}

// With returns a copy of r with the given fields set.
func (r Record) With(fields ...Field) Record {
	out := r.Clone()
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

// Lookup returns the value under key rendered as text.
func (r Record) Lookup(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	return stringify(v), true
}

// Get returns the value under key rendered as text, or "".
func (r Record) Get(key string) string {
	s, _ := r.Lookup(key)
	return s
}

// Has reports whether key holds a non-empty value.
func (r Record) Has(key string) bool {
	return r.Get(key) != ""
}

// Int parses the value under key as an integer. Floats with no fractional
// part are accepted.
func (r Record) Int(key string) (int, bool) {
	switch v := r[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Bool reports whether the value under key is true or the string "true".
func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	}
	return false
}

// Flag reports whether the value under key is the string "1" or true.
func (r Record) Flag(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case string:
		return v == "1"
	}
	return false
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// scalar converts a raw value into a Record value.
func scalar(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string, bool, float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return val.String(), true
		}
		return f, true
	default:
		return stringify(val), true
	}
}
