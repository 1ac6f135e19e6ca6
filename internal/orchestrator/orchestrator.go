// Package orchestrator drives the end-to-end ingestion loop:
// accounts → clients → senders → messages → attachments → extraction →
// dedup → archive → log. The loop is fully sequential; per-item and
// per-account failures are isolated and counted, and only license failure or
// a missing configuration aborts the whole session.
package orchestrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aaleksandraa/wizBank/internal/database"
	"github.com/aaleksandraa/wizBank/internal/extract"
	"github.com/aaleksandraa/wizBank/internal/mailfetch"
	"github.com/aaleksandraa/wizBank/internal/session"
	"github.com/aaleksandraa/wizBank/pkg/models"
)

// Session-level fatal conditions
var (
	ErrNoAccounts = errors.New("no mail accounts configured")
	ErrNoClients  = errors.New("no clients configured")
)

// MailSession is one open connection to a mail account
type MailSession interface {
	Search(ctx context.Context, since time.Time, sender string, unreadOnly bool) ([]*mailfetch.Message, error)
	MarkRead(ctx context.Context, uid uint32) error
	Close() error
}

// MailDialer opens mail sessions for configured accounts
type MailDialer interface {
	Dial(ctx context.Context, account *models.MailAccount) (MailSession, error)
}

// Converter turns PDF attachment bytes into plain text
type Converter interface {
	Text(data []byte) (string, error)
}

// NewIMAPDialer adapts the concrete IMAP dialer to the MailDialer interface
func NewIMAPDialer(d *mailfetch.Dialer) MailDialer {
	return imapDialer{d: d}
}

type imapDialer struct {
	d *mailfetch.Dialer
}

func (a imapDialer) Dial(ctx context.Context, account *models.MailAccount) (MailSession, error) {
	s, err := a.d.Dial(ctx, account)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Orchestrator runs ingestion sessions
type Orchestrator struct {
	db        *database.DB
	ledger    *session.Ledger
	engine    *extract.Engine
	dialer    MailDialer
	converter Converter
	defaults  database.RunSettings
	logger    *slog.Logger
}

// Deps collects the orchestrator's collaborators
type Deps struct {
	DB        *database.DB
	Ledger    *session.Ledger
	Engine    *extract.Engine
	Dialer    MailDialer
	Converter Converter
	Defaults  database.RunSettings
	Logger    *slog.Logger
}

// New creates an orchestrator
func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		db:        deps.DB,
		ledger:    deps.Ledger,
		engine:    deps.Engine,
		dialer:    deps.Dialer,
		converter: deps.Converter,
		defaults:  deps.Defaults,
		logger:    deps.Logger.With("component", "orchestrator"),
	}
}

// Run executes one full ingestion session. The session row always reaches a
// terminal status: completed on success, error when the run failed at the
// session level. The caller must have passed the license gate already.
func (o *Orchestrator) Run(ctx context.Context) (*models.SyncSession, error) {
	sess, err := o.ledger.Start(ctx)
	if err != nil {
		return nil, err
	}

	runErr := o.ingest(ctx, sess)

	status := models.SessionCompleted
	if runErr != nil {
		status = models.SessionError
	}
	final, endErr := o.ledger.End(ctx, sess, status)
	if runErr != nil {
		return final, runErr
	}
	return final, endErr
}

func (o *Orchestrator) ingest(ctx context.Context, sess *session.Session) error {
	settings, err := o.db.GetRunSettings(ctx, o.defaults)
	if err != nil {
		return err
	}

	accounts, err := o.db.ListMailAccounts(ctx)
	if err != nil {
		return err
	}
	clients, err := o.db.ListClients(ctx)
	if err != nil {
		return err
	}

	if len(accounts) == 0 {
		o.logger.Warn("no mail accounts configured")
		return ErrNoAccounts
	}
	if len(clients) == 0 {
		o.logger.Warn("no clients configured")
		return ErrNoClients
	}

	since := time.Now().AddDate(0, 0, -settings.LookbackDays)
	o.logger.Info("starting ingestion",
		"session_id", sess.ID,
		"accounts", len(accounts),
		"clients", len(clients),
		"since", since.Format("2006-01-02"),
		"unread_only", settings.UnreadOnly,
	)

	for _, account := range accounts {
		o.processAccount(ctx, sess, account, clients, since, settings)
	}
	return nil
}

// processAccount connects to one mailbox and runs all clients against it.
// A connection failure is logged as an account-level error entry and the
// remaining accounts still run.
func (o *Orchestrator) processAccount(ctx context.Context, sess *session.Session, account *models.MailAccount, clients []*models.Client, since time.Time, settings database.RunSettings) {
	logger := o.logger.With("email", account.Email)

	ms, err := o.dialer.Dial(ctx, account)
	if err != nil {
		logger.Error("failed to connect to mail account", "error", err)
		o.addLog(ctx, sess, nil, "", account.Email, "?", "",
			models.StatusError, fmt.Sprintf("connection failed: %v", err))
		return
	}
	defer ms.Close()

	for _, cl := range clients {
		if err := o.processClient(ctx, sess, ms, cl, since, settings); err != nil {
			logger.Error("failed to process client", "client", cl.Name, "error", err)
			o.addLog(ctx, sess, &cl.ID, "", account.Email, "?", "",
				models.StatusError, fmt.Sprintf("client processing failed: %v", err))
		}
	}
}

func (o *Orchestrator) processClient(ctx context.Context, sess *session.Session, ms MailSession, cl *models.Client, since time.Time, settings database.RunSettings) error {
	senders := cl.Senders()
	if len(senders) == 0 {
		o.logger.Warn("client has no sender addresses", "client", cl.Name)
		return nil
	}

	for _, sender := range senders {
		messages, err := ms.Search(ctx, since, sender, settings.UnreadOnly)
		if err != nil {
			return fmt.Errorf("search for %s failed: %w", sender, err)
		}
		if len(messages) == 0 {
			continue
		}
		o.logger.Info("found statement messages", "client", cl.Name, "sender", sender, "count", len(messages))

		for _, msg := range messages {
			for _, att := range msg.Attachments {
				o.processAttachment(ctx, sess, ms, cl, msg, att, settings)
			}
		}
	}
	return nil
}

// attachmentResult is the typed outcome of one attachment
type attachmentResult struct {
	Status          string
	StatementNumber string
	FilePath        string
	Message         string
}

// processAttachment ingests one attachment and records exactly one log
// entry. Any failure is contained here; the loop always continues.
func (o *Orchestrator) processAttachment(ctx context.Context, sess *session.Session, ms MailSession, cl *models.Client, msg *mailfetch.Message, att mailfetch.Attachment, settings database.RunSettings) {
	logger := o.logger.With("client", cl.Name, "filename", att.Filename)

	res, err := o.ingestAttachment(ctx, cl, msg, att)
	if err != nil {
		logger.Error("failed to process attachment", "error", err)
		o.addLog(ctx, sess, &cl.ID, msg.Subject, msg.Sender, "?", att.Filename,
			models.StatusError, err.Error())
		return
	}

	o.addLog(ctx, sess, &cl.ID, msg.Subject, msg.Sender, res.StatementNumber, res.FilePath,
		res.Status, res.Message)

	switch res.Status {
	case models.StatusSkipped:
		logger.Info("statement already archived", "statement", res.StatementNumber)
	case models.StatusOK:
		logger.Info("statement archived", "statement", res.StatementNumber, "path", res.FilePath)
		if settings.MarkAsRead {
			if err := ms.MarkRead(ctx, msg.UID); err != nil {
				logger.Warn("failed to mark message as read", "uid", msg.UID, "error", err)
			}
		}
	}
}

func (o *Orchestrator) ingestAttachment(ctx context.Context, cl *models.Client, msg *mailfetch.Message, att mailfetch.Attachment) (*attachmentResult, error) {
	text, err := o.converter.Text(att.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment text: %w", err)
	}
	text = extract.NormalizeText(text)

	extracted := o.engine.Extract(msg.Sender, msg.Subject, att.Filename, text)
	statementNumber := extracted.StatementNumber
	if statementNumber == "" {
		statementNumber = models.StatementUnknown
	}

	// Dedup on (client, statement number) unless the client opted into
	// archiving duplicates under suffixed names.
	if cl.DuplicatePolicy != models.DuplicateSuffix {
		exists, err := o.db.HasOKLog(ctx, cl.ID, statementNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return &attachmentResult{
				Status:          models.StatusSkipped,
				StatementNumber: statementNumber,
				FilePath:        att.Filename,
				Message:         "statement already archived",
			}, nil
		}
	}

	if err := os.MkdirAll(cl.FolderPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive folder: %w", err)
	}

	base := statementNumber
	if base == models.StatementUnknown {
		base = strings.TrimSuffix(att.Filename, filepath.Ext(att.Filename))
		if base == "" {
			base = "statement"
		}
	}
	path := resolveCollision(cl.FolderPath, base)
	if err := os.WriteFile(path, att.Data, 0644); err != nil {
		return nil, fmt.Errorf("failed to save statement: %w", err)
	}

	return &attachmentResult{
		Status:          models.StatusOK,
		StatementNumber: statementNumber,
		FilePath:        path,
		Message:         fmt.Sprintf("statement %s saved as %s", statementNumber, filepath.Base(path)),
	}, nil
}

// resolveCollision finds a free filename in dir by appending _2, _3, ...
// An existing file is never overwritten.
func resolveCollision(dir, base string) string {
	path := filepath.Join(dir, base+".pdf")
	for counter := 2; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.pdf", base, counter))
	}
}

func (o *Orchestrator) addLog(ctx context.Context, sess *session.Session, clientID *int64, subject, sender, statementNumber, filePath, status, message string) {
	entry := &models.LogEntry{
		Subject:         subject,
		Sender:          sender,
		StatementNumber: statementNumber,
		FilePath:        filePath,
		Status:          status,
		Message:         message,
		SessionID:       sql.NullString{String: sess.ID, Valid: true},
	}
	if clientID != nil {
		entry.ClientID = sql.NullInt64{Int64: *clientID, Valid: true}
	}
	if err := o.db.AddLog(ctx, entry); err != nil {
		// The ledger is the source of truth for session counters; a failed
		// write here skews them and has nowhere better to go than the log.
		o.logger.Error("failed to record log entry", "error", err)
	}
}
