package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aaleksandraa/wizBank/pkg/models"
)

// InsertSession creates a new sync session row with status=running
func (db *DB) InsertSession(ctx context.Context, sessionID string, startedAt time.Time) error {
	query := `
		INSERT INTO sync_sessions (session_id, started_at, status, total_downloaded, total_errors, total_skipped)
		VALUES (?, ?, ?, 0, 0, 0)
	`
	if _, err := db.ExecContext(ctx, query, sessionID, startedAt, models.SessionRunning); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// FinishSession writes the final status, end timestamp, and recomputed counters
func (db *DB) FinishSession(ctx context.Context, sessionID, status string, endedAt time.Time, downloaded, errs, skipped int) error {
	query := `
		UPDATE sync_sessions
		SET ended_at = ?, status = ?, total_downloaded = ?, total_errors = ?, total_skipped = ?
		WHERE session_id = ?
	`
	if _, err := db.ExecContext(ctx, query, endedAt, status, downloaded, errs, skipped, sessionID); err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	return nil
}

// GetSession returns a session by its short identifier
func (db *DB) GetSession(ctx context.Context, sessionID string) (*models.SyncSession, error) {
	var s models.SyncSession
	err := db.GetContext(ctx, &s, `SELECT * FROM sync_sessions WHERE session_id = ?`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// ListSessions returns the most recent sessions
func (db *DB) ListSessions(ctx context.Context, limit int) ([]*models.SyncSession, error) {
	var sessions []*models.SyncSession
	query := `SELECT * FROM sync_sessions ORDER BY started_at DESC, id DESC LIMIT ?`
	if err := db.SelectContext(ctx, &sessions, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session and all of its log entries
func (db *DB) DeleteSession(ctx context.Context, sessionID string) error {
	if err := db.DeleteSessionLogs(ctx, sessionID); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM sync_sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PruneSessions deletes all but the most recent keepLast sessions
func (db *DB) PruneSessions(ctx context.Context, keepLast int) (int, error) {
	var old []string
	query := `SELECT session_id FROM sync_sessions ORDER BY started_at DESC LIMIT -1 OFFSET ?`
	if err := db.SelectContext(ctx, &old, query, keepLast); err != nil {
		return 0, fmt.Errorf("failed to select old sessions: %w", err)
	}
	for _, sid := range old {
		if err := db.DeleteSession(ctx, sid); err != nil {
			return 0, err
		}
	}
	return len(old), nil
}
