package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SaveLicense stores the license blob, replacing any previous one
func (db *DB) SaveLicense(ctx context.Context, licenseJSON string) error {
	query := `INSERT OR REPLACE INTO license (id, license_json) VALUES (1, ?)`
	if _, err := db.ExecContext(ctx, query, licenseJSON); err != nil {
		return fmt.Errorf("failed to save license: %w", err)
	}
	return nil
}

// GetLicense returns the stored license blob, or ErrNotFound
func (db *DB) GetLicense(ctx context.Context) (string, error) {
	var licenseJSON string
	err := db.GetContext(ctx, &licenseJSON, `SELECT license_json FROM license WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get license: %w", err)
	}
	return licenseJSON, nil
}
