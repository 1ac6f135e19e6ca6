package models

import "strings"

// Duplicate policies for a client archive
const (
	DuplicateSkip   = "skip"   // Second copy of a statement is logged and dropped
	DuplicateSuffix = "suffix" // Second copy is archived again under a suffixed name
)

// Client represents one bank customer whose statements are archived
type Client struct {
	ID              int64  `db:"id"`
	Name            string `db:"name"`
	FolderPath      string `db:"folder_path"`      // Archive directory for saved statements
	AccountNumber   string `db:"account_number"`   // Bank account this client owns
	BankCode        string `db:"bank_code"`
	SenderEmail     string `db:"sender_email"`     // Comma-separated bank sender addresses
	DuplicatePolicy string `db:"duplicate_policy"` // "skip" or "suffix"
}

// Senders splits the comma-separated sender list, dropping empty entries
func (c *Client) Senders() []string {
	var out []string
	for _, s := range strings.Split(c.SenderEmail, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
