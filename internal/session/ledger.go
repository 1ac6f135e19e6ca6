// Package session tracks one ingestion run as a persisted sync session.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aaleksandraa/wizBank/internal/database"
	"github.com/aaleksandraa/wizBank/pkg/models"
)

// Ledger creates and finalizes sync sessions. No intermediate progress is
// persisted between Start and End; a crash mid-run leaves the session row
// permanently running, which an external reconciliation step must handle.
type Ledger struct {
	db     *database.DB
	logger *slog.Logger
}

// NewLedger creates a session ledger
func NewLedger(db *database.DB, logger *slog.Logger) *Ledger {
	return &Ledger{db: db, logger: logger.With("component", "session")}
}

// Session is a running ingestion session
type Session struct {
	ID        string
	StartedAt time.Time
}

// Start creates a new session row with status=running and zeroed counters
func (l *Ledger) Start(ctx context.Context) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString()[:8],
		StartedAt: time.Now(),
	}
	if err := l.db.InsertSession(ctx, s.ID, s.StartedAt); err != nil {
		return nil, err
	}
	l.logger.Info("sync session started", "session_id", s.ID)
	return s, nil
}

// End finalizes the session: counters are recomputed from the session's log
// entries grouped by status, then the final status and end time are written.
// The row is immutable afterwards.
func (l *Ledger) End(ctx context.Context, s *Session, status string) (*models.SyncSession, error) {
	downloaded, errs, skipped, err := l.db.CountSessionLogs(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	endedAt := time.Now()
	if err := l.db.FinishSession(ctx, s.ID, status, endedAt, downloaded, errs, skipped); err != nil {
		return nil, err
	}

	l.logger.Info("sync session finished",
		"session_id", s.ID,
		"status", status,
		"downloaded", downloaded,
		"errors", errs,
		"skipped", skipped,
		"duration", endedAt.Sub(s.StartedAt).Round(time.Millisecond),
	)
	return l.db.GetSession(ctx, s.ID)
}

// History returns the most recent sessions
func (l *Ledger) History(ctx context.Context, limit int) ([]*models.SyncSession, error) {
	return l.db.ListSessions(ctx, limit)
}

// Logs returns all log entries recorded under one session
func (l *Ledger) Logs(ctx context.Context, sessionID string) ([]*models.LogRow, error) {
	return l.db.SessionLogs(ctx, sessionID)
}

// Prune removes all but the most recent keepLast sessions with their logs
func (l *Ledger) Prune(ctx context.Context, keepLast int) (int, error) {
	removed, err := l.db.PruneSessions(ctx, keepLast)
	if err == nil && removed > 0 {
		l.logger.Info("pruned old sessions", "removed", removed, "kept", keepLast)
	}
	return removed, err
}
