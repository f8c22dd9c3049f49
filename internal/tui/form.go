package tui

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wealthflow/wealthflow/internal/ledger"
)

// txForm is the add/edit transaction modal. All fields are edited as
// text; account and category fields take names and are resolved on
// submit, exact match first, fuzzy match as a fallback.
type txForm struct {
	editingID string
	txType    ledger.TxType
	fieldIdx  int

	date     string
	amount   string
	vendor   string
	memo     string
	account  string
	category string
	from     string
	to       string

	err string
}

func newTxForm(now time.Time) txForm {
	return txForm{
		txType: ledger.TxExpense,
		date:   now.Format("2006-01-02"),
	}
}

func editTxForm(s ledger.Store, t ledger.Transaction) txForm {
	return txForm{
		editingID: t.ID,
		txType:    t.Type,
		date:      t.Date,
		amount:    strconv.FormatFloat(t.Amount, 'f', -1, 64),
		vendor:    t.Vendor,
		memo:      t.Memo,
		account:   s.AccountName(t.AccountID),
		category:  s.CategoryName(t.CategoryID),
		from:      s.AccountName(t.FromAccountID),
		to:        s.AccountName(t.ToAccountID),
	}
}

// fields returns the editable field names for the current type, in
// traversal order.
func (f *txForm) fields() []string {
	if f.txType == ledger.TxTransfer {
		return []string{"date", "amount", "from", "to", "memo"}
	}
	return []string{"date", "amount", "vendor", "account", "category", "memo"}
}

func (f *txForm) field() string {
	names := f.fields()
	if f.fieldIdx >= len(names) {
		f.fieldIdx = 0
	}
	return names[f.fieldIdx]
}

func (f *txForm) value(name string) *string {
	switch name {
	case "date":
		return &f.date
	case "amount":
		return &f.amount
	case "vendor":
		return &f.vendor
	case "account":
		return &f.account
	case "category":
		return &f.category
	case "from":
		return &f.from
	case "to":
		return &f.to
	default:
		return &f.memo
	}
}

func (f *txForm) cycleType() {
	switch f.txType {
	case ledger.TxExpense:
		f.txType = ledger.TxIncome
	case ledger.TxIncome:
		f.txType = ledger.TxTransfer
	default:
		f.txType = ledger.TxExpense
	}
	f.fieldIdx = 0
}

func (a *App) handleTxFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &a.form
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		return a, nil
	case tea.KeyTab, tea.KeyDown:
		f.fieldIdx = (f.fieldIdx + 1) % len(f.fields())
		return a, nil
	case tea.KeyShiftTab, tea.KeyUp:
		f.fieldIdx = (f.fieldIdx - 1 + len(f.fields())) % len(f.fields())
		return a, nil
	case tea.KeyCtrlT:
		f.cycleType()
		return a, nil
	case tea.KeyCtrlY:
		a.applySuggestion()
		return a, nil
	case tea.KeyEnter:
		return a.submitTxForm()
	case tea.KeyBackspace, tea.KeyCtrlH:
		v := f.value(f.field())
		if len(*v) > 0 {
			*v = (*v)[:len(*v)-1]
		}
		return a, nil
	case tea.KeySpace:
		*f.value(f.field()) += " "
		return a, nil
	case tea.KeyRunes:
		*f.value(f.field()) += string(m.Runes)
		return a, nil
	}
	return a, nil
}

// applySuggestion fills account and category from the top vendor
// suggestion for whatever is typed in the vendor field.
func (a *App) applySuggestion() {
	suggestions := ledger.Suggest(a.store.Transactions, a.form.vendor, time.Now())
	if len(suggestions) == 0 {
		return
	}
	top := suggestions[0]
	a.form.vendor = top.Vendor
	a.form.account = a.store.AccountName(top.AccountID)
	a.form.category = a.store.CategoryName(top.CategoryID)
}

func (a *App) submitTxForm() (tea.Model, tea.Cmd) {
	f := &a.form
	amount, err := strconv.ParseFloat(strings.TrimSpace(f.amount), 64)
	if err != nil {
		f.err = "amount: must be a number"
		return a, nil
	}

	draft := ledger.TransactionDraft{
		Type:   f.txType,
		Date:   strings.TrimSpace(f.date),
		Amount: amount,
		Vendor: strings.TrimSpace(f.vendor),
		Memo:   strings.TrimSpace(f.memo),
	}
	if f.txType == ledger.TxTransfer {
		fromID, ok := a.resolveAccount(f.from)
		if !ok {
			f.err = "fromAccountId: unknown account"
			return a, nil
		}
		toID, ok := a.resolveAccount(f.to)
		if !ok {
			f.err = "toAccountId: unknown account"
			return a, nil
		}
		draft.FromAccountID = fromID
		draft.ToAccountID = toID
	} else {
		acctID, ok := a.resolveAccount(f.account)
		if !ok {
			f.err = "accountId: unknown account"
			return a, nil
		}
		catID, ok := a.resolveCategory(f.category)
		if !ok {
			f.err = "categoryId: unknown category"
			return a, nil
		}
		draft.AccountID = acctID
		draft.CategoryID = catID
	}

	if f.editingID != "" {
		if err := a.store.UpdateTransaction(f.editingID, draft); err != nil {
			f.err = err.Error()
			return a, nil
		}
		a.status = "transaction updated"
	} else {
		if _, err := a.store.AddTransaction(a.ids, draft); err != nil {
			f.err = err.Error()
			return a, nil
		}
		a.txCursor = 0
		a.status = "transaction added"
	}
	a.modal = modalNone
	return a, a.saveCmd()
}

// resolveAccount maps a typed name to an account id. Exact
// case-insensitive match wins; otherwise the closest fuzzy-filtered
// name is taken so minor typos still land.
func (a *App) resolveAccount(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	labels := make([]string, 0, len(a.store.Accounts))
	for _, acct := range a.store.Accounts {
		if strings.EqualFold(acct.Name, name) {
			return acct.ID, true
		}
		labels = append(labels, acct.Name)
	}
	matches := ledger.FilterLabels(labels, name)
	if len(matches) == 0 {
		return "", false
	}
	for _, acct := range a.store.Accounts {
		if acct.Name == matches[0] {
			return acct.ID, true
		}
	}
	return "", false
}

func (a *App) resolveCategory(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	labels := make([]string, 0, len(a.store.Categories))
	for _, c := range a.store.Categories {
		if strings.EqualFold(c.Name, name) {
			return c.ID, true
		}
		labels = append(labels, c.Name)
	}
	matches := ledger.FilterLabels(labels, name)
	if len(matches) == 0 {
		return "", false
	}
	for _, c := range a.store.Categories {
		if c.Name == matches[0] {
			return c.ID, true
		}
	}
	return "", false
}
