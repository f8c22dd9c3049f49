package backup

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wealthflow/wealthflow/internal/ledger"
	"github.com/wealthflow/wealthflow/internal/migrate"
)

func testMigrator() *migrate.Migrator {
	return &migrate.Migrator{
		IDs: &ledger.SequenceSource{Prefix: "id"},
		Now: func() time.Time { return time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC) },
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	m := testMigrator()
	store := m.DefaultStore()
	store.Transactions = []ledger.Transaction{
		{ID: "t1", Type: ledger.TxExpense, Date: "2026-08-01", Amount: 12.5,
			Vendor: "Cafe", AccountID: store.Accounts[0].ID, CategoryID: store.Categories[1].ID},
	}

	var buf bytes.Buffer
	now := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	require.NoError(t, Export(&buf, store, now))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	require.Equal(t, "2026-08-29T10:30:00Z", envelope.ExportedAt)

	imported, err := Import(bytes.NewReader(buf.Bytes()), m)
	require.NoError(t, err)
	require.Equal(t, store, imported)
}

func TestFilename(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
	require.Equal(t, "wealthflow-backup-2026-08-29.json", Filename(now))
}

func TestImportBareStore(t *testing.T) {
	t.Parallel()

	raw := `{
		"schemaVersion": 2,
		"accounts": [{"id": "a1", "name": "Checking"}],
		"categories": [],
		"budgets": [],
		"transactions": [],
		"updatedAt": "2026-01-01T00:00:00Z"
	}`
	imported, err := Import(strings.NewReader(raw), testMigrator())
	require.NoError(t, err)
	require.Len(t, imported.Accounts, 1)
	require.Equal(t, "Checking", imported.Accounts[0].Name)
}

func TestImportLegacyBlob(t *testing.T) {
	t.Parallel()

	raw := `{
		"accounts": [{"id": "a1", "name": "Checking"}],
		"budgets": [],
		"transactions": [
			{"id": "t1", "type": "expense", "date": "2026-07-01", "amount": 20, "category": "Dining", "accountId": "a1"}
		]
	}`
	imported, err := Import(strings.NewReader(raw), testMigrator())
	require.NoError(t, err)
	require.Equal(t, ledger.CurrentSchemaVersion, imported.SchemaVersion)
	require.Len(t, imported.Categories, 1)
	require.Equal(t, "Dining", imported.Categories[0].Name)
}

func TestImportInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := Import(strings.NewReader("{broken"), testMigrator())
	require.EqualError(t, err, "Import failed: invalid JSON file.")
}

func TestImportRejectsBadShape(t *testing.T) {
	t.Parallel()

	_, err := Import(strings.NewReader(`{"transactions": [], "budgets": []}`), testMigrator())
	require.EqualError(t, err, "Invalid file: accounts[] is required.")

	_, err = Import(strings.NewReader(`"just a string"`), testMigrator())
	require.EqualError(t, err, "Invalid file: JSON object expected.")
}
