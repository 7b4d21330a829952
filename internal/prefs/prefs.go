package prefs

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
)

// Preference keys as stored in the backing store.
const (
	KeyAutoNext       = "video_auto_next"
	KeyShowAllPlayers = "video_show_all_players"
)

// Defaults for unset keys.
const (
	DefaultAutoNext       = true
	DefaultShowAllPlayers = false
)

var ErrUnknownKey = errors.New("unknown preference key")

// Store is a string key-value store scoped to one client.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Valid reports whether key is a known preference.
func Valid(key string) bool {
	return key == KeyAutoNext || key == KeyShowAllPlayers
}

// Default returns the value an unset key reads as.
func Default(key string) (bool, error) {
	switch key {
	case KeyAutoNext:
		return DefaultAutoNext, nil
	case KeyShowAllPlayers:
		return DefaultShowAllPlayers, nil
	}
	return false, ErrUnknownKey
}

// ReadBool returns the flag stored under key, or def when it is unset,
// empty, or the store cannot be read.
func ReadBool(ctx context.Context, s Store, key string, def bool) bool {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		slog.Warn("prefs: read failed, using default", "key", key, "error", err)
		return def
	}
	if !ok || v == "" {
		return def
	}
	return v == "true"
}

// WriteBool stores v under key as "true" or "false". Failures are logged
// and otherwise ignored.
func WriteBool(ctx context.Context, s Store, key string, v bool) {
	if err := s.Set(ctx, key, strconv.FormatBool(v)); err != nil {
		slog.Warn("prefs: write failed", "key", key, "value", v, "error", err)
	}
}

// Preferences are the two flags the preview panel reads at load.
type Preferences struct {
	AutoNext       bool `json:"video_auto_next"`
	ShowAllPlayers bool `json:"video_show_all_players"`
}

// Load reads both flags from s.
func Load(ctx context.Context, s Store) Preferences {
	return Preferences{
		AutoNext:       ReadBool(ctx, s, KeyAutoNext, DefaultAutoNext),
		ShowAllPlayers: ReadBool(ctx, s, KeyShowAllPlayers, DefaultShowAllPlayers),
	}
}
