package models

import (
	"database/sql"
	"time"
)

// Outcome statuses for a processed attachment
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// StatementUnknown is recorded when no statement number could be extracted
const StatementUnknown = "unknown"

// LogEntry is one immutable record of an ingestion attempt for a single attachment
type LogEntry struct {
	ID              int64          `db:"id"`
	ClientID        sql.NullInt64  `db:"client_id"` // Null for account-level failures
	Subject         string         `db:"subject"`
	Sender          string         `db:"sender"`
	StatementNumber string         `db:"statement_number"`
	FilePath        string         `db:"file_path"`
	Status          string         `db:"status"` // ok, skipped, error
	Message         string         `db:"message"`
	SessionID       sql.NullString `db:"session_id"`
	CreatedAt       time.Time      `db:"created_at"`
}

// LogRow is a log entry joined with the owning client's name for listings
type LogRow struct {
	LogEntry
	ClientName sql.NullString `db:"client_name"`
}
