package config

import (
	"fmt"
	"strconv"
)

// Values are free-form settings keyed by dotted names ("tapper.goal").
// A loaded Values is read-only and safe for concurrent use; it implements
// engine.ConfigReader.
type Values map[string]any

// HasConfigValue reports whether name is set.
func (v Values) HasConfigValue(name string) bool {
	_, ok := v[name]
	return ok
}

// ConfigString returns the value as a string, or "" when missing.
func (v Values) ConfigString(name string) string {
	raw, ok := v[name]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

// ConfigInt returns the value as an int, or 0 when missing or not numeric.
func (v Values) ConfigInt(name string) int {
	switch n := v[name].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return i
	}
	return 0
}

// ConfigFloat returns the value as a float64, or 0 when missing or not numeric.
func (v Values) ConfigFloat(name string) float64 {
	switch n := v[name].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// ConfigBool returns the value as a bool, or false when missing.
func (v Values) ConfigBool(name string) bool {
	switch b := v[name].(type) {
	case bool:
		return b
	case int:
		return b != 0
	case float64:
		return b != 0
	case string:
		parsed, err := strconv.ParseBool(b)
		return err == nil && parsed
	}
	return false
}
