// Package migrate converts arbitrary persisted blobs into the canonical
// current-schema store. Migration never fails: unrecognized input falls
// back to a seeded default store, and legacy shapes are reconstructed
// best-effort with referential integrity intact.
package migrate

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/wealthflow/wealthflow/internal/ledger"
)

// Migrator lifts raw store blobs to the current schema. Id generation
// and time are injected so migrations are deterministic under test.
type Migrator struct {
	IDs ledger.IDSource
	Now func() time.Time
}

// New returns a production Migrator.
func New() *Migrator {
	return &Migrator{IDs: ledger.UUIDSource{}, Now: time.Now}
}

// steps lifts a sniffed schema version one version forward. Each step
// is pure over the decoded object; Migrate composes them until the
// current version is reached.
var steps = map[int]func(*Migrator, map[string]any) map[string]any{
	1: (*Migrator).legacyToV2,
}

// Migrate converts any decoded JSON value into a current-schema store.
// Non-object input, unknown versions and undecodable objects all
// degrade to the default store; this function never fails.
func (m *Migrator) Migrate(raw any) ledger.Store {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return m.DefaultStore()
	}
	for v := sniffVersion(obj); v < ledger.CurrentSchemaVersion; v = sniffVersion(obj) {
		step, ok := steps[v]
		if !ok {
			return m.DefaultStore()
		}
		obj = step(m, obj)
	}
	return m.adoptCurrent(obj)
}

// sniffVersion decides which schema a blob carries. The current shape
// is marked by schemaVersion == 2 plus a categories list; anything else
// is treated as the legacy flat-category shape.
func sniffVersion(obj map[string]any) int {
	if v, ok := obj["schemaVersion"].(float64); ok && int(v) == ledger.CurrentSchemaVersion {
		if _, ok := obj["categories"].([]any); ok {
			return ledger.CurrentSchemaVersion
		}
	}
	return 1
}

// adoptCurrent passes a current-schema object through, defaulting
// missing array fields to empty and a missing updatedAt to now.
func (m *Migrator) adoptCurrent(obj map[string]any) ledger.Store {
	data, err := json.Marshal(obj)
	if err != nil {
		return m.DefaultStore()
	}
	var s ledger.Store
	if err := json.Unmarshal(data, &s); err != nil {
		return m.DefaultStore()
	}
	s.SchemaVersion = ledger.CurrentSchemaVersion
	if s.Accounts == nil {
		s.Accounts = []ledger.Account{}
	}
	if s.Categories == nil {
		s.Categories = []ledger.Category{}
	}
	if s.Budgets == nil {
		s.Budgets = []ledger.Budget{}
	}
	if s.Transactions == nil {
		s.Transactions = []ledger.Transaction{}
	}
	if s.UpdatedAt == "" {
		s.UpdatedAt = m.Now().UTC().Format(time.RFC3339)
	}
	return s
}

// legacy shape: flat category strings on transactions and budgets, no
// categories list.
type legacyTransaction struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Category  string  `json:"category"`
	Vendor    string  `json:"vendor"`
	Memo      string  `json:"memo"`
	AccountID string  `json:"accountId"`
}

type legacyBudget struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
}

type legacyStore struct {
	Accounts     []ledger.Account    `json:"accounts"`
	Budgets      []legacyBudget      `json:"budgets"`
	Transactions []legacyTransaction `json:"transactions"`
}

// legacyToV2 synthesizes a Category for every distinct legacy category
// string (case-insensitive, first casing wins) and rewrites
// transactions and budgets to reference the synthesized ids. Entries
// missing a category string land in the fallback category for their
// type rather than being dropped. Present ids are preserved.
func (m *Migrator) legacyToV2(obj map[string]any) map[string]any {
	data, err := json.Marshal(obj)
	if err != nil {
		return m.storeToObject(m.DefaultStore())
	}
	var legacy legacyStore
	if err := json.Unmarshal(data, &legacy); err != nil {
		return m.storeToObject(m.DefaultStore())
	}

	byLower := make(map[string]ledger.Category)
	var order []string
	ensureCategory := func(name, txType string) ledger.Category {
		safe := strings.TrimSpace(name)
		if safe == "" {
			if txType == "income" {
				safe = "Income"
			} else {
				safe = "Uncategorized"
			}
		}
		key := strings.ToLower(safe)
		if c, ok := byLower[key]; ok {
			return c
		}
		group := ledger.GroupExpense
		if txType == "income" {
			group = ledger.GroupIncome
		}
		c := ledger.Category{ID: m.IDs.NewID(), Name: safe, Group: group}
		byLower[key] = c
		order = append(order, key)
		return c
	}

	transactions := make([]ledger.Transaction, 0, len(legacy.Transactions))
	for _, tx := range legacy.Transactions {
		category := ensureCategory(tx.Category, tx.Type)
		id := tx.ID
		if id == "" {
			id = m.IDs.NewID()
		}
		txType := ledger.TxExpense
		if tx.Type == "income" {
			txType = ledger.TxIncome
		}
		transactions = append(transactions, ledger.Transaction{
			ID:         id,
			Type:       txType,
			Date:       tx.Date,
			Amount:     tx.Amount,
			Vendor:     tx.Vendor,
			Memo:       tx.Memo,
			AccountID:  tx.AccountID,
			CategoryID: category.ID,
		})
	}

	budgets := make([]ledger.Budget, 0, len(legacy.Budgets))
	for _, b := range legacy.Budgets {
		category := ensureCategory(b.Category, "expense")
		id := b.ID
		if id == "" {
			id = m.IDs.NewID()
		}
		budgets = append(budgets, ledger.Budget{ID: id, CategoryID: category.ID, Limit: b.Limit})
	}

	categories := make([]ledger.Category, 0, len(order))
	for _, key := range order {
		categories = append(categories, byLower[key])
	}
	accounts := legacy.Accounts
	if accounts == nil {
		accounts = []ledger.Account{}
	}

	return m.storeToObject(ledger.Store{
		SchemaVersion: ledger.CurrentSchemaVersion,
		Accounts:      accounts,
		Categories:    categories,
		Budgets:       budgets,
		Transactions:  transactions,
		UpdatedAt:     m.Now().UTC().Format(time.RFC3339),
	})
}

func (m *Migrator) storeToObject(s ledger.Store) map[string]any {
	data, err := json.Marshal(s)
	if err != nil {
		return map[string]any{}
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return map[string]any{}
	}
	return obj
}

// DefaultStore builds the seeded workspace a fresh install starts with:
// two accounts, the three starter categories and one dining budget.
func (m *Migrator) DefaultStore() ledger.Store {
	salary := ledger.Category{ID: m.IDs.NewID(), Name: "Salary", Group: ledger.GroupIncome, Color: "#22c55e"}
	dining := ledger.Category{ID: m.IDs.NewID(), Name: "Dining", Group: ledger.GroupExpense, Color: "#f97316"}
	groceries := ledger.Category{ID: m.IDs.NewID(), Name: "Groceries", Group: ledger.GroupExpense, Color: "#60a5fa"}
	return ledger.Store{
		SchemaVersion: ledger.CurrentSchemaVersion,
		Accounts: []ledger.Account{
			{ID: m.IDs.NewID(), Name: "Main Checking"},
			{ID: m.IDs.NewID(), Name: "Credit Card"},
		},
		Categories: []ledger.Category{salary, dining, groceries},
		Budgets: []ledger.Budget{
			{ID: m.IDs.NewID(), CategoryID: dining.ID, Limit: 500},
		},
		Transactions: []ledger.Transaction{},
		UpdatedAt:    m.Now().UTC().Format(time.RFC3339),
	}
}
