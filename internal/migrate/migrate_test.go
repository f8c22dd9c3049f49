package migrate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wealthflow/wealthflow/internal/ledger"
)

func testMigrator() *Migrator {
	return &Migrator{
		IDs: &ledger.SequenceSource{Prefix: "id"},
		Now: func() time.Time { return time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC) },
	}
}

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestMigrateNonObjectFallsBackToDefault(t *testing.T) {
	t.Parallel()

	for _, raw := range []any{nil, "hello", float64(42), []any{1, 2}} {
		s := testMigrator().Migrate(raw)
		require.Equal(t, ledger.CurrentSchemaVersion, s.SchemaVersion)
		require.Len(t, s.Accounts, 2)
		require.Len(t, s.Categories, 3)
	}
}

func TestDefaultStoreSeeds(t *testing.T) {
	t.Parallel()

	s := testMigrator().DefaultStore()
	require.Equal(t, ledger.CurrentSchemaVersion, s.SchemaVersion)

	require.Equal(t, "Main Checking", s.Accounts[0].Name)
	require.Equal(t, "Credit Card", s.Accounts[1].Name)

	require.Equal(t, "Salary", s.Categories[0].Name)
	require.Equal(t, ledger.GroupIncome, s.Categories[0].Group)
	require.Equal(t, "#22c55e", s.Categories[0].Color)
	require.Equal(t, "Dining", s.Categories[1].Name)
	require.Equal(t, "#f97316", s.Categories[1].Color)
	require.Equal(t, "Groceries", s.Categories[2].Name)
	require.Equal(t, "#60a5fa", s.Categories[2].Color)

	require.Len(t, s.Budgets, 1)
	require.Equal(t, s.Categories[1].ID, s.Budgets[0].CategoryID)
	require.InDelta(t, 500, s.Budgets[0].Limit, 1e-9)

	require.Empty(t, s.Transactions)
	require.Equal(t, "2026-08-29T00:00:00Z", s.UpdatedAt)
}

func TestMigrateCurrentSchemaPassesThrough(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{
		"schemaVersion": 2,
		"accounts": [{"id": "a1", "name": "Checking"}],
		"categories": [{"id": "c1", "name": "Dining", "group": "Expense"}],
		"budgets": [],
		"transactions": [
			{"id": "t1", "type": "expense", "date": "2026-08-01", "amount": 12.5,
			 "vendor": "Cafe", "accountId": "a1", "categoryId": "c1"}
		],
		"updatedAt": "2026-01-01T00:00:00Z"
	}`)

	s := testMigrator().Migrate(raw)
	require.Len(t, s.Accounts, 1)
	require.Equal(t, "Checking", s.Accounts[0].Name)
	require.Len(t, s.Transactions, 1)
	require.Equal(t, ledger.TxExpense, s.Transactions[0].Type)
	require.Equal(t, "2026-01-01T00:00:00Z", s.UpdatedAt)
}

func TestMigrateDefaultsMissingFields(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{
		"schemaVersion": 2,
		"accounts": [{"id": "a1", "name": "Checking"}],
		"categories": [],
		"transactions": [{"id": "t1", "type": "income", "date": "2026-08-01", "amount": 5, "accountId": "a1", "categoryId": "c1"}]
	}`)

	s := testMigrator().Migrate(raw)
	require.NotNil(t, s.Budgets)
	require.Empty(t, s.Budgets)
	require.Equal(t, "2026-08-29T00:00:00Z", s.UpdatedAt)
}

func TestMigrateLegacySynthesizesCategories(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{
		"accounts": [{"id": "a1", "name": "Checking"}],
		"budgets": [{"id": "b1", "category": "dining", "limit": 300}],
		"transactions": [
			{"id": "t1", "type": "expense", "date": "2026-07-01", "amount": 20, "category": "Dining", "vendor": "Cafe", "accountId": "a1"},
			{"id": "t2", "type": "expense", "date": "2026-07-02", "amount": 30, "category": "DINING", "accountId": "a1"},
			{"id": "t3", "type": "income", "date": "2026-07-03", "amount": 900, "category": "Salary", "accountId": "a1"},
			{"id": "t4", "type": "expense", "date": "2026-07-04", "amount": 5, "accountId": "a1"},
			{"type": "income", "date": "2026-07-05", "amount": 10, "category": "", "accountId": "a1"}
		]
	}`)

	s := testMigrator().Migrate(raw)
	require.Equal(t, ledger.CurrentSchemaVersion, s.SchemaVersion)

	// distinct categories, case-insensitive, first casing wins, in
	// first-seen order with the typed fallbacks
	names := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		names[i] = c.Name
	}
	require.Equal(t, []string{"Dining", "Salary", "Uncategorized", "Income"}, names)
	require.Equal(t, ledger.GroupExpense, s.Categories[0].Group)
	require.Equal(t, ledger.GroupIncome, s.Categories[1].Group)
	require.Equal(t, ledger.GroupIncome, s.Categories[3].Group)

	// t1 and t2 share the synthesized Dining category
	require.Equal(t, s.Transactions[0].CategoryID, s.Transactions[1].CategoryID)
	// present ids preserved, missing ids minted
	require.Equal(t, "t1", s.Transactions[0].ID)
	require.NotEmpty(t, s.Transactions[4].ID)
	// budget "dining" joins the same synthesized category
	require.Equal(t, s.Transactions[0].CategoryID, s.Budgets[0].CategoryID)
	require.Equal(t, "b1", s.Budgets[0].ID)
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	m := testMigrator()
	once := m.Migrate(decode(t, `{
		"accounts": [{"id": "a1", "name": "Checking"}],
		"budgets": [],
		"transactions": [{"id": "t1", "type": "expense", "date": "2026-07-01", "amount": 20, "category": "Dining", "accountId": "a1"}]
	}`))

	data, err := json.Marshal(once)
	require.NoError(t, err)
	var obj any
	require.NoError(t, json.Unmarshal(data, &obj))

	twice := m.Migrate(obj)
	require.Equal(t, once, twice)
}
