// Package mailfetch retrieves statement messages over IMAP. Unlike a
// long-lived IDLE bridge, ingestion opens one connection per account, runs
// its searches, and closes; each account is visited sequentially.
package mailfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"

	"github.com/aaleksandraa/wizBank/internal/vault"
	"github.com/aaleksandraa/wizBank/pkg/models"
)

// Attachment is one PDF attachment pulled from a message
type Attachment struct {
	Filename string
	Data     []byte
}

// Message is a fetched mail message; Attachments holds PDF parts only
type Message struct {
	UID         uint32
	Sender      string
	Subject     string
	Date        time.Time
	Attachments []Attachment
}

// Dialer opens IMAP sessions for configured mail accounts, decrypting the
// stored secret through the vault.
type Dialer struct {
	vault   *vault.Vault
	timeout time.Duration
	logger  *slog.Logger
}

// NewDialer creates a dialer
func NewDialer(v *vault.Vault, timeout time.Duration, logger *slog.Logger) *Dialer {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Dialer{vault: v, timeout: timeout, logger: logger.With("component", "mailfetch")}
}

// Dial connects, authenticates, and selects INBOX
func (d *Dialer) Dial(ctx context.Context, account *models.MailAccount) (*Session, error) {
	addr := fmt.Sprintf("%s:%d", account.IMAPHost, account.IMAPPort)
	logger := d.logger.With("email", account.Email)
	logger.Info("connecting to IMAP server", "server", addr, "tls", account.UseTLS)

	dialer := &net.Dialer{Timeout: d.timeout}

	var c *client.Client
	var err error
	if account.UseTLS {
		c, err = client.DialWithDialerTLS(dialer, addr, nil)
	} else {
		c, err = client.DialWithDialer(dialer, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	password := d.vault.Decrypt(account.SecretEncrypted)
	if err := c.Login(account.LoginUsername(), password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	if _, err := c.Select("INBOX", false); err != nil {
		c.Logout()
		return nil, fmt.Errorf("failed to select INBOX: %w", err)
	}

	logger.Info("connected to IMAP server")
	return &Session{client: c, logger: logger}, nil
}

// Session is one authenticated IMAP connection with INBOX selected
type Session struct {
	client *client.Client
	logger *slog.Logger
}

// Search finds messages from the given sender since the given time and
// returns those carrying at least one PDF attachment.
func (s *Session) Search(ctx context.Context, since time.Time, sender string, unreadOnly bool) ([]*Message, error) {
	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	if sender != "" {
		clean := strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(sender))
		criteria.Header.Add("From", strings.ToLower(clean))
	}
	if unreadOnly {
		criteria.WithoutFlags = []string{imap.SeenFlag}
	}

	uids, err := s.client.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 20)
	done := make(chan error, 1)
	go func() {
		done <- s.client.UidFetch(seqSet, items, messages)
	}()

	var out []*Message
	for msg := range messages {
		parsed, err := s.parseMessage(msg, section)
		if err != nil {
			s.logger.Warn("failed to parse message", "uid", msg.Uid, "error", err)
			continue
		}
		if len(parsed.Attachments) > 0 {
			out = append(out, parsed)
		}
	}
	if err := <-done; err != nil {
		return out, fmt.Errorf("failed to fetch: %w", err)
	}
	return out, nil
}

// parseMessage walks the MIME tree and collects PDF attachments
func (s *Session) parseMessage(msg *imap.Message, section *imap.BodySectionName) (*Message, error) {
	out := &Message{UID: msg.Uid}

	if msg.Envelope != nil {
		out.Subject = msg.Envelope.Subject
		out.Date = msg.Envelope.Date
		if len(msg.Envelope.From) > 0 {
			out.Sender = msg.Envelope.From[0].Address()
		}
	}

	bodyReader := msg.GetBody(section)
	if bodyReader == nil {
		return out, nil
	}

	mr, err := mail.CreateReader(bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail reader: %w", err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.logger.Warn("failed to read part", "uid", msg.Uid, "error", err)
			break
		}

		h, ok := part.Header.(*mail.AttachmentHeader)
		if !ok {
			continue
		}
		filename, _ := h.Filename()
		contentType, _, _ := h.ContentType()
		if !isPDF(filename, contentType) {
			continue
		}
		data, err := io.ReadAll(part.Body)
		if err != nil {
			s.logger.Warn("failed to read attachment", "uid", msg.Uid, "filename", filename, "error", err)
			continue
		}
		if filename == "" {
			filename = "attachment.pdf"
		}
		out.Attachments = append(out.Attachments, Attachment{Filename: filename, Data: data})
	}

	return out, nil
}

func isPDF(filename, contentType string) bool {
	if strings.EqualFold(contentType, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// MarkRead adds the \Seen flag to a message
func (s *Session) MarkRead(ctx context.Context, uid uint32) error {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}
	if err := s.client.UidStore(seqSet, item, flags, nil); err != nil {
		return fmt.Errorf("failed to mark as read: %w", err)
	}
	return nil
}

// Close logs out of the server
func (s *Session) Close() error {
	return s.client.Logout()
}
