package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaleksandraa/wizBank/pkg/models"
)

// CreateClient creates a new client
func (db *DB) CreateClient(ctx context.Context, client *models.Client) error {
	if client.DuplicatePolicy == "" {
		client.DuplicatePolicy = models.DuplicateSkip
	}
	query := `
		INSERT INTO clients (name, folder_path, account_number, bank_code, sender_email, duplicate_policy)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := db.ExecContext(ctx, query,
		client.Name,
		client.FolderPath,
		client.AccountNumber,
		client.BankCode,
		client.SenderEmail,
		client.DuplicatePolicy,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	client.ID = id
	return nil
}

// GetClientByID returns a client by ID
func (db *DB) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	query := `SELECT * FROM clients WHERE id = ?`
	err := db.GetContext(ctx, &client, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

// ListClients returns all configured clients
func (db *DB) ListClients(ctx context.Context) ([]*models.Client, error) {
	var clients []*models.Client
	query := `SELECT * FROM clients ORDER BY name`
	err := db.SelectContext(ctx, &clients, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// DeleteClient deletes a client; its log entries keep a null client reference
func (db *DB) DeleteClient(ctx context.Context, id int64) error {
	query := `DELETE FROM clients WHERE id = ?`
	_, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}
