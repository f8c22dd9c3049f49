package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/wealthflow/wealthflow/internal/ledger"
	"github.com/wealthflow/wealthflow/internal/migrate"
)

// Backend is the persistence collaborator the rest of the app talks to.
// Load never fails — any backend trouble degrades to a fresh default
// store plus a warning — and Save is fire-and-forget.
type Backend struct {
	DB         *sql.DB
	Migrator   *migrate.Migrator
	LegacyPath string // optional legacy single-blob JSON file
	Now        func() time.Time
}

// LoadResult carries the canonical store plus a non-blocking warning
// for the status line when the backend was unreachable.
type LoadResult struct {
	Store   ledger.Store
	Warning string
}

const loadWarning = "We could not access local database storage. WealthFlow started with a fresh local workspace."

const (
	metaSchemaVersion  = "schema_version"
	metaUpdatedAt      = "updated_at"
	metaLegacyMigrated = "legacy_migrated"
)

func (b *Backend) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return Now()
}

// Load returns the canonical store, seeding and persisting the default
// store on first run. Whatever the tables hold is passed through the
// migrator so a store written by an older build self-heals at load.
func (b *Backend) Load(ctx context.Context) LoadResult {
	b.migrateLegacyOnce(ctx)

	raw, empty, err := b.readStore(ctx)
	if err != nil {
		return LoadResult{Store: b.Migrator.DefaultStore(), Warning: loadWarning}
	}
	if empty {
		initial := b.Migrator.DefaultStore()
		b.Save(ctx, initial)
		return LoadResult{Store: initial}
	}

	migrated := b.Migrator.Migrate(toObject(raw))
	b.Save(ctx, migrated)
	return LoadResult{Store: migrated}
}

// Save replaces the persisted store atomically and refreshes the
// updatedAt stamp. Best-effort: failures are swallowed so a broken
// backend never blocks the user.
func (b *Backend) Save(ctx context.Context, store ledger.Store) {
	_ = b.save(ctx, store)
}

func (b *Backend) save(ctx context.Context, store ledger.Store) error {
	updatedAt := b.now().UTC().Format(time.RFC3339)
	return WithTx(b.DB, func(tx *sql.Tx) error {
		for _, table := range []string{"accounts", "categories", "budgets", "transactions"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for _, a := range store.Accounts {
			archived := 0
			if a.Archived {
				archived = 1
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO accounts(id, name, archived) VALUES(?, ?, ?)`,
				a.ID, a.Name, archived); err != nil {
				return fmt.Errorf("insert account: %w", err)
			}
		}
		for _, c := range store.Categories {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO categories(id, name, grp, color) VALUES(?, ?, ?, ?)`,
				c.ID, c.Name, string(c.Group), c.Color); err != nil {
				return fmt.Errorf("insert category: %w", err)
			}
		}
		for _, bd := range store.Budgets {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO budgets(id, category_id, limit_amount) VALUES(?, ?, ?)`,
				bd.ID, bd.CategoryID, bd.Limit); err != nil {
				return fmt.Errorf("insert budget: %w", err)
			}
		}
		for i, t := range store.Transactions {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions(
			 id, position, type, date, amount, vendor, memo,
			 account_id, category_id, from_account_id, to_account_id)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
			`, t.ID, i, string(t.Type), t.Date, t.Amount, t.Vendor, t.Memo,
				t.AccountID, t.CategoryID, t.FromAccountID, t.ToAccountID); err != nil {
				return fmt.Errorf("insert transaction: %w", err)
			}
		}
		if err := setMetaTx(ctx, tx, metaSchemaVersion, strconv.Itoa(store.SchemaVersion)); err != nil {
			return err
		}
		return setMetaTx(ctx, tx, metaUpdatedAt, updatedAt)
	})
}

// Reset clears all persisted user data, including the version and
// updatedAt stamps, so the next Load sees a never-written database and
// reseeds the default workspace. The legacy marker survives; a reset
// must not replay the old blob.
func (b *Backend) Reset(ctx context.Context) {
	_ = WithTx(b.DB, func(tx *sql.Tx) error {
		for _, table := range []string{"accounts", "categories", "budgets", "transactions"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		for _, key := range []string{metaSchemaVersion, metaUpdatedAt} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM meta WHERE key = ?`, key); err != nil {
				return fmt.Errorf("reset meta %s: %w", key, err)
			}
		}
		return nil
	})
}

// migrateLegacyOnce upgrades the pre-sqlite single-blob JSON file the
// first time this backend runs, then marks it done so the blob is never
// reprocessed. Parse failures are ignored; the marker is set either way.
func (b *Backend) migrateLegacyOnce(ctx context.Context) {
	if b.metaValue(ctx, metaLegacyMigrated) == "true" {
		return
	}
	defer b.setMeta(ctx, metaLegacyMigrated, "true")

	if b.LegacyPath == "" {
		return
	}
	data, err := os.ReadFile(b.LegacyPath)
	if err != nil {
		return
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return
	}
	_ = b.save(ctx, b.Migrator.Migrate(raw))
}

// readStore reassembles the raw store from the entity tables. empty
// reports a never-written database (no meta, no rows). Slices start
// non-nil: an empty table must round-trip as an empty JSON array, or
// the migrator would mistake a current-schema store for the legacy
// shape and rewrite it.
func (b *Backend) readStore(ctx context.Context) (ledger.Store, bool, error) {
	s := ledger.Store{
		Accounts:     []ledger.Account{},
		Categories:   []ledger.Category{},
		Budgets:      []ledger.Budget{},
		Transactions: []ledger.Transaction{},
	}

	version := b.metaValue(ctx, metaSchemaVersion)
	if v, err := strconv.Atoi(version); err == nil {
		s.SchemaVersion = v
	}
	s.UpdatedAt = b.metaValue(ctx, metaUpdatedAt)

	rows, err := b.DB.QueryContext(ctx, `SELECT id, name, archived FROM accounts`)
	if err != nil {
		return s, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var a ledger.Account
		var archived int
		if err := rows.Scan(&a.ID, &a.Name, &archived); err != nil {
			return s, false, err
		}
		a.Archived = archived == 1
		s.Accounts = append(s.Accounts, a)
	}
	if err := rows.Err(); err != nil {
		return s, false, err
	}

	catRows, err := b.DB.QueryContext(ctx, `SELECT id, name, grp, color FROM categories`)
	if err != nil {
		return s, false, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var c ledger.Category
		var group string
		if err := catRows.Scan(&c.ID, &c.Name, &group, &c.Color); err != nil {
			return s, false, err
		}
		c.Group = ledger.CategoryGroup(group)
		s.Categories = append(s.Categories, c)
	}
	if err := catRows.Err(); err != nil {
		return s, false, err
	}

	budgetRows, err := b.DB.QueryContext(ctx, `SELECT id, category_id, limit_amount FROM budgets`)
	if err != nil {
		return s, false, err
	}
	defer budgetRows.Close()
	for budgetRows.Next() {
		var bd ledger.Budget
		if err := budgetRows.Scan(&bd.ID, &bd.CategoryID, &bd.Limit); err != nil {
			return s, false, err
		}
		s.Budgets = append(s.Budgets, bd)
	}
	if err := budgetRows.Err(); err != nil {
		return s, false, err
	}

	txRows, err := b.DB.QueryContext(ctx, `
	SELECT id, type, date, amount, vendor, memo, account_id, category_id, from_account_id, to_account_id
	FROM transactions ORDER BY position ASC`)
	if err != nil {
		return s, false, err
	}
	defer txRows.Close()
	for txRows.Next() {
		var t ledger.Transaction
		var txType string
		if err := txRows.Scan(&t.ID, &txType, &t.Date, &t.Amount, &t.Vendor, &t.Memo,
			&t.AccountID, &t.CategoryID, &t.FromAccountID, &t.ToAccountID); err != nil {
			return s, false, err
		}
		t.Type = ledger.TxType(txType)
		s.Transactions = append(s.Transactions, t)
	}
	if err := txRows.Err(); err != nil {
		return s, false, err
	}

	empty := version == "" && len(s.Accounts) == 0 && len(s.Categories) == 0 &&
		len(s.Budgets) == 0 && len(s.Transactions) == 0
	return s, empty, nil
}

func (b *Backend) metaValue(ctx context.Context, key string) string {
	var value string
	err := b.DB.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

func (b *Backend) setMeta(ctx context.Context, key, value string) {
	_, _ = b.DB.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
}

func setMetaTx(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

// toObject converts a typed store into the decoded-JSON form the
// migrator sniffs.
func toObject(s ledger.Store) map[string]any {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	return obj
}
