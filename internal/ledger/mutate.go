package ledger

import (
	"fmt"
	"strings"
	"time"
)

// FieldError is a user-input rejection tied to a single form field.
// Mutations return it before touching the store; nothing here panics.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

func fieldErr(field, message string) error { return FieldError{Field: field, Message: message} }

// TransactionDraft carries validated-on-entry form input for a new or
// edited transaction.
type TransactionDraft struct {
	Type          TxType
	Date          string
	Amount        float64
	Vendor        string
	Memo          string
	AccountID     string
	CategoryID    string
	FromAccountID string
	ToAccountID   string
}

func (d TransactionDraft) validate() error {
	switch d.Type {
	case TxIncome, TxExpense, TxTransfer:
	default:
		return fieldErr("type", "must be income, expense or transfer")
	}
	if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		return fieldErr("date", "must be a YYYY-MM-DD date")
	}
	if d.Amount <= 0 {
		return fieldErr("amount", "must be greater than zero")
	}
	if d.Type == TxTransfer {
		if d.FromAccountID == "" {
			return fieldErr("fromAccount", "is required")
		}
		if d.ToAccountID == "" {
			return fieldErr("toAccount", "is required")
		}
		if d.FromAccountID == d.ToAccountID {
			return fieldErr("toAccount", "transfer accounts must differ")
		}
		return nil
	}
	if d.AccountID == "" {
		return fieldErr("account", "is required")
	}
	if d.CategoryID == "" {
		return fieldErr("category", "is required")
	}
	return nil
}

func (d TransactionDraft) toTransaction(id string) Transaction {
	tx := Transaction{
		ID:     id,
		Type:   d.Type,
		Date:   d.Date,
		Amount: d.Amount,
		Vendor: strings.TrimSpace(d.Vendor),
		Memo:   strings.TrimSpace(d.Memo),
	}
	if d.Type == TxTransfer {
		tx.FromAccountID = d.FromAccountID
		tx.ToAccountID = d.ToAccountID
	} else {
		tx.AccountID = d.AccountID
		tx.CategoryID = d.CategoryID
	}
	return tx
}

// AddTransaction validates the draft and prepends the new transaction,
// keeping the most-recent-first convention.
func (s *Store) AddTransaction(ids IDSource, draft TransactionDraft) (Transaction, error) {
	if err := draft.validate(); err != nil {
		return Transaction{}, err
	}
	tx := draft.toTransaction(ids.NewID())
	s.Transactions = append([]Transaction{tx}, s.Transactions...)
	return tx, nil
}

// UpdateTransaction replaces the identified transaction in place.
func (s *Store) UpdateTransaction(id string, draft TransactionDraft) error {
	if err := draft.validate(); err != nil {
		return err
	}
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			s.Transactions[i] = draft.toTransaction(id)
			return nil
		}
	}
	return fmt.Errorf("transaction %s not found", id)
}

// DeleteTransaction removes a transaction by id. Unknown ids are a no-op.
func (s *Store) DeleteTransaction(id string) {
	out := s.Transactions[:0]
	for _, tx := range s.Transactions {
		if tx.ID != id {
			out = append(out, tx)
		}
	}
	s.Transactions = out
}

// AddAccount appends a new account.
func (s *Store) AddAccount(ids IDSource, name string) (Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Account{}, fieldErr("name", "is required")
	}
	a := Account{ID: ids.NewID(), Name: name}
	s.Accounts = append(s.Accounts, a)
	return a, nil
}

// RenameAccount changes an account's display name.
func (s *Store) RenameAccount(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fieldErr("name", "is required")
	}
	a := s.AccountByID(id)
	if a == nil {
		return fmt.Errorf("account %s not found", id)
	}
	a.Name = name
	return nil
}

// SetAccountArchived hides or restores an account in pickers without
// losing its transaction history.
func (s *Store) SetAccountArchived(id string, archived bool) error {
	a := s.AccountByID(id)
	if a == nil {
		return fmt.Errorf("account %s not found", id)
	}
	a.Archived = archived
	return nil
}

// AccountTransactionCount reports how many transactions reference an
// account, including transfer endpoints.
func (s *Store) AccountTransactionCount(id string) int {
	count := 0
	for _, tx := range s.Transactions {
		switch tx.Type {
		case TxTransfer:
			if tx.FromAccountID == id || tx.ToAccountID == id {
				count++
			}
		default:
			if tx.AccountID == id {
				count++
			}
		}
	}
	return count
}

// DeleteAccount removes an account after rewriting every referencing
// transaction (including transfer endpoints) to reassignTo. The
// replacement is required whenever references exist, so no transaction
// is ever left dangling.
func (s *Store) DeleteAccount(id, reassignTo string) error {
	if s.AccountByID(id) == nil {
		return fmt.Errorf("account %s not found", id)
	}
	if s.AccountTransactionCount(id) > 0 {
		if reassignTo == "" {
			return fieldErr("reassignTo", "is required while transactions reference this account")
		}
		if reassignTo == id {
			return fieldErr("reassignTo", "must be a different account")
		}
		if s.AccountByID(reassignTo) == nil {
			return fmt.Errorf("account %s not found", reassignTo)
		}
	}
	for i := range s.Transactions {
		tx := &s.Transactions[i]
		switch tx.Type {
		case TxTransfer:
			if tx.FromAccountID == id {
				tx.FromAccountID = reassignTo
			}
			if tx.ToAccountID == id {
				tx.ToAccountID = reassignTo
			}
		default:
			if tx.AccountID == id {
				tx.AccountID = reassignTo
			}
		}
	}
	out := s.Accounts[:0]
	for _, a := range s.Accounts {
		if a.ID != id {
			out = append(out, a)
		}
	}
	s.Accounts = out
	return nil
}

// AddCategory appends a new category.
func (s *Store) AddCategory(ids IDSource, name string, group CategoryGroup) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fieldErr("name", "is required")
	}
	if group != GroupIncome && group != GroupExpense {
		return Category{}, fieldErr("group", "must be Income or Expense")
	}
	c := Category{ID: ids.NewID(), Name: name, Group: group}
	s.Categories = append(s.Categories, c)
	return c, nil
}

// RenameCategory changes a category's display name.
func (s *Store) RenameCategory(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fieldErr("name", "is required")
	}
	c := s.CategoryByID(id)
	if c == nil {
		return fmt.Errorf("category %s not found", id)
	}
	c.Name = name
	return nil
}

// DeleteCategory removes a category, rewriting every budget and
// non-transfer transaction that referenced it to replacementID first.
func (s *Store) DeleteCategory(id, replacementID string) error {
	if s.CategoryByID(id) == nil {
		return fmt.Errorf("category %s not found", id)
	}
	if replacementID == "" || replacementID == id {
		return fieldErr("replacement", "a different replacement category is required")
	}
	if s.CategoryByID(replacementID) == nil {
		return fmt.Errorf("category %s not found", replacementID)
	}
	for i := range s.Budgets {
		if s.Budgets[i].CategoryID == id {
			s.Budgets[i].CategoryID = replacementID
		}
	}
	for i := range s.Transactions {
		tx := &s.Transactions[i]
		if tx.Type != TxTransfer && tx.CategoryID == id {
			tx.CategoryID = replacementID
		}
	}
	out := s.Categories[:0]
	for _, c := range s.Categories {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.Categories = out
	return nil
}

// AddBudget appends a budget against a category.
func (s *Store) AddBudget(ids IDSource, categoryID string, limit float64) (Budget, error) {
	if categoryID == "" {
		return Budget{}, fieldErr("category", "is required")
	}
	if limit <= 0 {
		return Budget{}, fieldErr("limit", "must be greater than zero")
	}
	b := Budget{ID: ids.NewID(), CategoryID: categoryID, Limit: limit}
	s.Budgets = append(s.Budgets, b)
	return b, nil
}

// SetBudgetLimit updates a budget's limit.
func (s *Store) SetBudgetLimit(id string, limit float64) error {
	if limit <= 0 {
		return fieldErr("limit", "must be greater than zero")
	}
	for i := range s.Budgets {
		if s.Budgets[i].ID == id {
			s.Budgets[i].Limit = limit
			return nil
		}
	}
	return fmt.Errorf("budget %s not found", id)
}

// DeleteBudget removes a budget by id. Unknown ids are a no-op.
func (s *Store) DeleteBudget(id string) {
	out := s.Budgets[:0]
	for _, b := range s.Budgets {
		if b.ID != id {
			out = append(out, b)
		}
	}
	s.Budgets = out
}
