package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// PrefType is the stored type of a preference.
type PrefType int

const (
	PrefNone PrefType = iota
	PrefString
	PrefInt
	PrefFloat
	PrefBool
)

// String returns the name stored in the kind column.
func (t PrefType) String() string {
	switch t {
	case PrefString:
		return "STRING"
	case PrefInt:
		return "INT"
	case PrefFloat:
		return "FLOAT"
	case PrefBool:
		return "BOOL"
	default:
		return "NONE"
	}
}

func parsePrefType(s string) PrefType {
	switch s {
	case "STRING":
		return PrefString
	case "INT":
		return PrefInt
	case "FLOAT":
		return PrefFloat
	case "BOOL":
		return PrefBool
	default:
		return PrefNone
	}
}

// Prefs is the key/value preference store. Each write is committed before
// the call returns. Reads of a missing key yield the zero value.
type Prefs interface {
	Has(key string) (bool, error)
	Type(key string) (PrefType, error)
	GetString(key string) (string, error)
	GetInt(key string) (int, error)
	GetFloat(key string) (float64, error)
	GetBool(key string) (bool, error)
	SetString(key, value string) error
	SetInt(key string, value int) error
	SetFloat(key string, value float64) error
	SetBool(key string, value bool) error
	Remove(key string) error
	Clear() error
	Keys() ([]string, error)
}

var _ Prefs = (*Store)(nil)

func (s *Store) setPref(key string, kind PrefType, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO prefs (key, kind, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET kind = excluded.kind, value = excluded.value, updated_at = excluded.updated_at`,
		key, kind.String(), value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot set pref %q: %w", key, err)
	}
	return nil
}

func (s *Store) getPref(key string) (PrefType, string, error) {
	var kind, value string
	err := s.db.QueryRow("SELECT kind, value FROM prefs WHERE key = ?", key).Scan(&kind, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return PrefNone, "", nil
	}
	if err != nil {
		return PrefNone, "", fmt.Errorf("storage: cannot read pref %q: %w", key, err)
	}
	return parsePrefType(kind), value, nil
}

// Has reports whether key is set.
func (s *Store) Has(key string) (bool, error) {
	kind, _, err := s.getPref(key)
	return kind != PrefNone, err
}

// Type returns the stored type of key, PrefNone when missing.
func (s *Store) Type(key string) (PrefType, error) {
	kind, _, err := s.getPref(key)
	return kind, err
}

// GetString returns the string stored under key, or "".
func (s *Store) GetString(key string) (string, error) {
	_, value, err := s.getPref(key)
	return value, err
}

// GetInt returns the int stored under key, or 0.
func (s *Store) GetInt(key string) (int, error) {
	kind, value, err := s.getPref(key)
	if err != nil || kind == PrefNone {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("storage: pref %q is %s, not INT: %w", key, kind, err)
	}
	return n, nil
}

// GetFloat returns the float stored under key, or 0.
func (s *Store) GetFloat(key string) (float64, error) {
	kind, value, err := s.getPref(key)
	if err != nil || kind == PrefNone {
		return 0, err
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("storage: pref %q is %s, not FLOAT: %w", key, kind, err)
	}
	return f, nil
}

// GetBool returns the bool stored under key, or false.
func (s *Store) GetBool(key string) (bool, error) {
	kind, value, err := s.getPref(key)
	if err != nil || kind == PrefNone {
		return false, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("storage: pref %q is %s, not BOOL: %w", key, kind, err)
	}
	return b, nil
}

// SetString stores a string.
func (s *Store) SetString(key, value string) error {
	return s.setPref(key, PrefString, value)
}

// SetInt stores an int.
func (s *Store) SetInt(key string, value int) error {
	return s.setPref(key, PrefInt, strconv.Itoa(value))
}

// SetFloat stores a float.
func (s *Store) SetFloat(key string, value float64) error {
	return s.setPref(key, PrefFloat, strconv.FormatFloat(value, 'g', -1, 64))
}

// SetBool stores a bool.
func (s *Store) SetBool(key string, value bool) error {
	return s.setPref(key, PrefBool, strconv.FormatBool(value))
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM prefs WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot remove pref %q: %w", key, err)
	}
	return nil
}

// Clear deletes every preference.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM prefs"); err != nil {
		return fmt.Errorf("storage: cannot clear prefs: %w", err)
	}
	return nil
}

// Keys lists all preference keys, sorted.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM prefs ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list prefs: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
