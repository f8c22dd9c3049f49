// Package ledger holds the WealthFlow store aggregate and the pure
// derivation functions computed from it: account balances, spend
// aggregates, vendor suggestions and the money-flow graph. Nothing in
// this package performs I/O; persistence lives in internal/storage.
package ledger

// TxType discriminates the transaction union.
type TxType string

const (
	TxIncome   TxType = "income"
	TxExpense  TxType = "expense"
	TxTransfer TxType = "transfer"
)

// CategoryGroup splits categories into the two ledger sides.
type CategoryGroup string

const (
	GroupIncome  CategoryGroup = "Income"
	GroupExpense CategoryGroup = "Expense"
)

// CurrentSchemaVersion is the store schema this build reads and writes.
const CurrentSchemaVersion = 2

// Account is a bucket money sits in. Archived accounts are hidden from
// new-transaction pickers but stay resolvable for historical display.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived,omitempty"`
}

// Category labels income and expense transactions.
type Category struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Group CategoryGroup `json:"group,omitempty"`
	Color string        `json:"color,omitempty"`
}

// Budget is a monthly spending limit against one category. Duplicates
// per category are tolerated; aggregation merges them.
type Budget struct {
	ID         string  `json:"id"`
	CategoryID string  `json:"categoryId"`
	Limit      float64 `json:"limit"`
}

// Transaction is a tagged union on Type. Amount is always positive;
// direction is encoded by the type, never by sign. Income and expense
// carry AccountID and CategoryID; transfers carry the two account
// endpoints and no category. Consumers switch exhaustively on Type.
type Transaction struct {
	ID     string  `json:"id"`
	Type   TxType  `json:"type"`
	Date   string  `json:"date"` // ISO calendar date, YYYY-MM-DD
	Amount float64 `json:"amount"`
	Vendor string  `json:"vendor,omitempty"`
	Memo   string  `json:"memo,omitempty"`

	AccountID  string `json:"accountId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`

	FromAccountID string `json:"fromAccountId,omitempty"`
	ToAccountID   string `json:"toAccountId,omitempty"`
}

// Store is the aggregate root: the full persisted application state.
// Transactions are kept most-recent-first by convention; derivation
// functions never depend on the order.
type Store struct {
	SchemaVersion int           `json:"schemaVersion"`
	Accounts      []Account     `json:"accounts"`
	Categories    []Category    `json:"categories"`
	Budgets       []Budget      `json:"budgets"`
	Transactions  []Transaction `json:"transactions"`
	UpdatedAt     string        `json:"updatedAt"`
}

// UnknownLabel is the display name for dangling id references. Broken
// references are tolerated everywhere and resolved to this label.
const UnknownLabel = "Unknown"

// AccountByID returns the account or nil.
func (s *Store) AccountByID(id string) *Account {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return &s.Accounts[i]
		}
	}
	return nil
}

// CategoryByID returns the category or nil.
func (s *Store) CategoryByID(id string) *Category {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i]
		}
	}
	return nil
}

// AccountName resolves an account id to its display name.
func (s *Store) AccountName(id string) string {
	if a := s.AccountByID(id); a != nil {
		return a.Name
	}
	return UnknownLabel
}

// CategoryName resolves a category id to its display name.
func (s *Store) CategoryName(id string) string {
	if c := s.CategoryByID(id); c != nil {
		return c.Name
	}
	return UnknownLabel
}

// ActiveAccounts returns the accounts offered by new-transaction pickers.
func (s *Store) ActiveAccounts() []Account {
	out := make([]Account, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		if !a.Archived {
			out = append(out, a)
		}
	}
	return out
}
