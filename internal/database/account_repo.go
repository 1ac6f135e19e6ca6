package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaleksandraa/wizBank/pkg/models"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("record not found")

// CreateMailAccount creates a new mail account
func (db *DB) CreateMailAccount(ctx context.Context, account *models.MailAccount) error {
	query := `
		INSERT INTO mail_accounts (provider, email, imap_host, imap_port, use_tls, username, secret_encrypted)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := db.ExecContext(ctx, query,
		account.Provider,
		account.Email,
		account.IMAPHost,
		account.IMAPPort,
		account.UseTLS,
		account.Username,
		account.SecretEncrypted,
	)
	if err != nil {
		return fmt.Errorf("failed to create mail account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	account.ID = id
	return nil
}

// GetMailAccountByID returns a mail account by ID
func (db *DB) GetMailAccountByID(ctx context.Context, id int64) (*models.MailAccount, error) {
	var account models.MailAccount
	query := `SELECT * FROM mail_accounts WHERE id = ?`
	err := db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mail account: %w", err)
	}
	return &account, nil
}

// ListMailAccounts returns all configured mail accounts
func (db *DB) ListMailAccounts(ctx context.Context) ([]*models.MailAccount, error) {
	var accounts []*models.MailAccount
	query := `SELECT * FROM mail_accounts ORDER BY id`
	err := db.SelectContext(ctx, &accounts, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mail accounts: %w", err)
	}
	return accounts, nil
}

// DeleteMailAccount deletes a mail account
func (db *DB) DeleteMailAccount(ctx context.Context, id int64) error {
	query := `DELETE FROM mail_accounts WHERE id = ?`
	_, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete mail account: %w", err)
	}
	return nil
}
