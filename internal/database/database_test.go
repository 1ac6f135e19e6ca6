package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaleksandraa/wizBank/pkg/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate(context.Background()))
}

func TestMailAccountCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	account := &models.MailAccount{
		Provider:        "gmail",
		Email:           "statements@example.com",
		IMAPHost:        "imap.gmail.com",
		IMAPPort:        993,
		UseTLS:          true,
		SecretEncrypted: []byte("sealed"),
	}
	require.NoError(t, db.CreateMailAccount(ctx, account))
	require.NotZero(t, account.ID)

	got, err := db.GetMailAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "statements@example.com", got.Email)
	assert.Equal(t, []byte("sealed"), got.SecretEncrypted)

	list, err := db.ListMailAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, db.DeleteMailAccount(ctx, account.ID))
	_, err = db.GetMailAccountByID(ctx, account.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	cl := &models.Client{
		Name:            "Firma d.o.o.",
		FolderPath:      "/archive/firma",
		AccountNumber:   "5675431100009685",
		SenderEmail:     "izvodi@asabanka.ba, back.office@atosbank.ba",
		DuplicatePolicy: models.DuplicateSkip,
	}
	require.NoError(t, db.CreateClient(ctx, cl))
	require.NotZero(t, cl.ID)

	got, err := db.GetClientByID(ctx, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"izvodi@asabanka.ba", "back.office@atosbank.ba"}, got.Senders())

	require.NoError(t, db.DeleteClient(ctx, cl.ID))
	_, err = db.GetClientByID(ctx, cl.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHasOKLogCountsOnlyArchivedEntries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	cl := &models.Client{Name: "c", FolderPath: "/tmp/c", AccountNumber: "1", SenderEmail: "a@b"}
	require.NoError(t, db.CreateClient(ctx, cl))

	add := func(status string) {
		require.NoError(t, db.AddLog(ctx, &models.LogEntry{
			ClientID:        sql.NullInt64{Int64: cl.ID, Valid: true},
			StatementNumber: "205",
			Status:          status,
		}))
	}

	// Failed and skipped attempts do not claim the dedup key.
	add(models.StatusError)
	add(models.StatusSkipped)
	exists, err := db.HasOKLog(ctx, cl.ID, "205")
	require.NoError(t, err)
	assert.False(t, exists)

	add(models.StatusOK)
	exists, err = db.HasOKLog(ctx, cl.ID, "205")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.HasOKLog(ctx, cl.ID, "206")
	require.NoError(t, err)
	assert.False(t, exists, "different statement number")

	exists, err = db.HasOKLog(ctx, cl.ID+1, "205")
	require.NoError(t, err)
	assert.False(t, exists, "different client")
}

func TestListLogsJoinsClientName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	cl := &models.Client{Name: "Firma", FolderPath: "/tmp/f", AccountNumber: "1", SenderEmail: "a@b"}
	require.NoError(t, db.CreateClient(ctx, cl))

	require.NoError(t, db.AddLog(ctx, &models.LogEntry{
		ClientID: sql.NullInt64{Int64: cl.ID, Valid: true},
		Status:   models.StatusOK,
	}))
	require.NoError(t, db.AddLog(ctx, &models.LogEntry{Status: models.StatusError}))

	rows, err := db.ListLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var named, unnamed int
	for _, row := range rows {
		if row.ClientName.Valid {
			named++
			assert.Equal(t, "Firma", row.ClientName.String)
		} else {
			unnamed++
		}
	}
	assert.Equal(t, 1, named)
	assert.Equal(t, 1, unnamed)
}

func TestDeletingClientKeepsLogs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	cl := &models.Client{Name: "Firma", FolderPath: "/tmp/f", AccountNumber: "1", SenderEmail: "a@b"}
	require.NoError(t, db.CreateClient(ctx, cl))
	require.NoError(t, db.AddLog(ctx, &models.LogEntry{
		ClientID: sql.NullInt64{Int64: cl.ID, Valid: true},
		Status:   models.StatusOK,
	}))

	require.NoError(t, db.DeleteClient(ctx, cl.ID))

	rows, err := db.ListLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].ClientID.Valid, "client reference nulled, history kept")
}

func TestLicenseRoundtrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.GetLicense(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.SaveLicense(ctx, `{"holder":"a"}`))
	require.NoError(t, db.SaveLicense(ctx, `{"holder":"b"}`))

	blob, err := db.GetLicense(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"holder":"b"}`, blob, "a new license replaces the old one")
}

func TestRunSettingsSeedAndLoad(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	defaults := RunSettings{LookbackDays: 7, UnreadOnly: true, MarkAsRead: false}

	require.NoError(t, db.SeedRunSettings(ctx, defaults))

	got, err := db.GetRunSettings(ctx, defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, got)

	// Stored values win over defaults on later runs.
	require.NoError(t, db.SetSetting(ctx, SettingLookbackDays, "30"))
	require.NoError(t, db.SetSetting(ctx, SettingMarkAsRead, "true"))

	got, err = db.GetRunSettings(ctx, defaults)
	require.NoError(t, err)
	assert.Equal(t, 30, got.LookbackDays)
	assert.True(t, got.MarkAsRead)

	// Seeding again must not clobber operator-set values.
	require.NoError(t, db.SeedRunSettings(ctx, defaults))
	got, err = db.GetRunSettings(ctx, defaults)
	require.NoError(t, err)
	assert.Equal(t, 30, got.LookbackDays)
}

func TestMalformedSettingFallsBackToDefault(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	defaults := RunSettings{LookbackDays: 7}

	require.NoError(t, db.SetSetting(ctx, SettingLookbackDays, "not-a-number"))

	got, err := db.GetRunSettings(ctx, defaults)
	require.NoError(t, err)
	assert.Equal(t, 7, got.LookbackDays)
}
