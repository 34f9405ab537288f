package database

import (
	"encoding/json"
	"fmt"
)

// Load decodes the JSON record stored under key into a T.
// A missing, unreadable or malformed record yields def.
func Load[T any](s Store, key string, def T) T {
	raw, err := s.GetRecord(key)
	if err != nil || raw == "" {
		return def
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return def
	}
	return v
}

// Save encodes v as JSON and overwrites the record stored under key.
func Save(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.PutRecord(key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
