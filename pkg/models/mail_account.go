package models

// MailAccount represents a configured IMAP mailbox that receives bank statements
type MailAccount struct {
	ID              int64  `db:"id"`
	Provider        string `db:"provider"`         // Provider label, e.g. "gmail", "custom"
	Email           string `db:"email"`            // Mailbox address
	IMAPHost        string `db:"imap_host"`        // e.g. imap.gmail.com
	IMAPPort        int    `db:"imap_port"`        // Usually 993
	UseTLS          bool   `db:"use_tls"`          // Connect with implicit TLS
	Username        string `db:"username"`         // Login name; falls back to Email when empty
	SecretEncrypted []byte `db:"secret_encrypted"` // Vault-sealed password
}

// LoginUsername returns the effective IMAP login name
func (a *MailAccount) LoginUsername() string {
	if a.Username != "" {
		return a.Username
	}
	return a.Email
}
