package models

import (
	"database/sql"
	"time"
)

// Session statuses
const (
	SessionRunning   = "running"
	SessionCompleted = "completed"
	SessionError     = "error"
)

// SyncSession represents one end-to-end ingestion run with aggregated counters.
// Counters are recomputed from the session's log entries when the run ends.
type SyncSession struct {
	ID              int64        `db:"id"`
	SessionID       string       `db:"session_id"` // Short unique run identifier
	StartedAt       time.Time    `db:"started_at"`
	EndedAt         sql.NullTime `db:"ended_at"`
	Status          string       `db:"status"`
	TotalDownloaded int          `db:"total_downloaded"`
	TotalErrors     int          `db:"total_errors"`
	TotalSkipped    int          `db:"total_skipped"`
}
