package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Settings keys
const (
	SettingLookbackDays = "lookback_days"
	SettingUnreadOnly   = "unread_only"
	SettingMarkAsRead   = "mark_as_read"
)

// RunSettings are the per-run knobs read at the start of an ingestion run
type RunSettings struct {
	LookbackDays int
	UnreadOnly   bool
	MarkAsRead   bool
}

// SetSetting stores or updates a single setting
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	query := `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`
	if _, err := db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetSetting returns a setting value, or ErrNotFound
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SeedRunSettings writes defaults for any run setting not yet present
func (db *DB) SeedRunSettings(ctx context.Context, defaults RunSettings) error {
	seed := map[string]string{
		SettingLookbackDays: strconv.Itoa(defaults.LookbackDays),
		SettingUnreadOnly:   strconv.FormatBool(defaults.UnreadOnly),
		SettingMarkAsRead:   strconv.FormatBool(defaults.MarkAsRead),
	}
	for key, value := range seed {
		if _, err := db.GetSetting(ctx, key); errors.Is(err, ErrNotFound) {
			if err := db.SetSetting(ctx, key, value); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

// GetRunSettings loads the per-run settings, falling back to the given
// defaults for missing or malformed values.
func (db *DB) GetRunSettings(ctx context.Context, defaults RunSettings) (RunSettings, error) {
	out := defaults

	if v, err := db.GetSetting(ctx, SettingLookbackDays); err == nil {
		if n, convErr := strconv.Atoi(v); convErr == nil && n > 0 {
			out.LookbackDays = n
		}
	} else if !errors.Is(err, ErrNotFound) {
		return out, err
	}

	if v, err := db.GetSetting(ctx, SettingUnreadOnly); err == nil {
		if b, convErr := strconv.ParseBool(v); convErr == nil {
			out.UnreadOnly = b
		}
	} else if !errors.Is(err, ErrNotFound) {
		return out, err
	}

	if v, err := db.GetSetting(ctx, SettingMarkAsRead); err == nil {
		if b, convErr := strconv.ParseBool(v); convErr == nil {
			out.MarkAsRead = b
		}
	} else if !errors.Is(err, ErrNotFound) {
		return out, err
	}

	return out, nil
}
