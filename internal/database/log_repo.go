package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aaleksandraa/wizBank/pkg/models"
)

// AddLog records one ingestion attempt. A nil clientID is stored as NULL
// (account-level failures have no owning client).
func (db *DB) AddLog(ctx context.Context, entry *models.LogEntry) error {
	query := `
		INSERT INTO logs (client_id, subject, sender, statement_number, file_path, status, message, session_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		entry.ClientID,
		entry.Subject,
		entry.Sender,
		entry.StatementNumber,
		entry.FilePath,
		entry.Status,
		entry.Message,
		entry.SessionID,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to add log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id
	entry.CreatedAt = now
	return nil
}

// HasOKLog reports whether a statement was already archived for the client.
// Only status=ok entries count; skipped and error attempts do not claim the
// dedup key.
func (db *DB) HasOKLog(ctx context.Context, clientID int64, statementNumber string) (bool, error) {
	var n int
	query := `SELECT COUNT(1) FROM logs WHERE client_id = ? AND statement_number = ? AND status = ?`
	if err := db.GetContext(ctx, &n, query, clientID, statementNumber, models.StatusOK); err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}
	return n > 0, nil
}

// ListLogs returns the most recent log entries joined with client names
func (db *DB) ListLogs(ctx context.Context, limit int) ([]*models.LogRow, error) {
	var rows []*models.LogRow
	query := `
		SELECT l.*, c.name AS client_name
		FROM logs l
		LEFT JOIN clients c ON c.id = l.client_id
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ?
	`
	if err := db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return rows, nil
}

// SessionLogs returns all log entries recorded under one session
func (db *DB) SessionLogs(ctx context.Context, sessionID string) ([]*models.LogRow, error) {
	var rows []*models.LogRow
	query := `
		SELECT l.*, c.name AS client_name
		FROM logs l
		LEFT JOIN clients c ON c.id = l.client_id
		WHERE l.session_id = ?
		ORDER BY l.created_at ASC, l.id ASC
	`
	if err := db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get session logs: %w", err)
	}
	return rows, nil
}

// CountSessionLogs counts a session's log entries grouped by status
func (db *DB) CountSessionLogs(ctx context.Context, sessionID string) (ok, errs, skipped int, err error) {
	row := db.QueryRowxContext(ctx, `
		SELECT
			COUNT(CASE WHEN status = 'ok' THEN 1 END),
			COUNT(CASE WHEN status = 'error' THEN 1 END),
			COUNT(CASE WHEN status = 'skipped' THEN 1 END)
		FROM logs
		WHERE session_id = ?
	`, sessionID)
	if err := row.Scan(&ok, &errs, &skipped); err != nil && err != sql.ErrNoRows {
		return 0, 0, 0, fmt.Errorf("failed to count session logs: %w", err)
	}
	return ok, errs, skipped, nil
}

// DeleteSessionLogs removes all log entries belonging to a session
func (db *DB) DeleteSessionLogs(ctx context.Context, sessionID string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM logs WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session logs: %w", err)
	}
	return nil
}
