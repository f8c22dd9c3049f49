// Package tui is the terminal front end. It holds the in-memory store,
// applies mutations through the ledger package and persists after every
// change; all derived views are recomputed from the store on render.
package tui

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wealthflow/wealthflow/internal/backup"
	"github.com/wealthflow/wealthflow/internal/config"
	"github.com/wealthflow/wealthflow/internal/ledger"
	"github.com/wealthflow/wealthflow/internal/migrate"
	"github.com/wealthflow/wealthflow/internal/storage"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9e2af"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	overStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))
	incomeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
)

// App ties together views over one Store.
type App struct {
	ctx      context.Context
	cfg      config.Config
	backend  *storage.Backend
	migrator *migrate.Migrator
	ids      ledger.IDSource

	store  ledger.Store
	loaded bool

	state   appState
	modal   modalState
	status  string
	warning string

	txCursor       int
	monthCursor    int
	accountCursor  int
	categoryCursor int
	onCategories   bool // settings focus: accounts vs categories

	form        txForm
	inputBuffer string
	pickCursor  int
	pendingID   string // entity awaiting reassignment/replacement pick
}

type appState string

const (
	viewLedger    appState = "ledger"
	viewBudgets   appState = "budgets"
	viewAnalytics appState = "analytics"
	viewSettings  appState = "settings"
)

type modalState string

const (
	modalNone            modalState = ""
	modalTxForm          modalState = "txForm"
	modalNewAccount      modalState = "newAccount"
	modalNewCategory     modalState = "newCategory"
	modalNewBudget       modalState = "newBudget"
	modalBudgetLimit     modalState = "budgetLimit"
	modalReassignAccount modalState = "reassignAccount"
	modalReplaceCategory modalState = "replaceCategory"
	modalImportPath      modalState = "importPath"
	modalConfirmReset    modalState = "confirmReset"
)

type loadedMsg storage.LoadResult

// New builds the app model.
func New(ctx context.Context, cfg config.Config, backend *storage.Backend, migrator *migrate.Migrator, ids ledger.IDSource) *App {
	return &App{
		ctx:      ctx,
		cfg:      cfg,
		backend:  backend,
		migrator: migrator,
		ids:      ids,
		state:    viewLedger,
	}
}

func (a *App) Init() tea.Cmd {
	return func() tea.Msg { return loadedMsg(a.backend.Load(a.ctx)) }
}

func (a *App) saveCmd() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		a.backend.Save(a.ctx, store)
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case loadedMsg:
		a.store = m.Store
		a.warning = m.Warning
		a.loaded = true
		return a, nil
	case statusMsg:
		a.status = string(m)
		return a, nil
	case tea.KeyMsg:
		if !a.loaded {
			return a, nil
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleViewKey(m)
	}
	return a, nil
}

func (a *App) handleViewKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "1", "l":
		a.state = viewLedger
		return a, nil
	case "2", "b":
		a.state = viewBudgets
		return a, nil
	case "3", "y":
		a.state = viewAnalytics
		return a, nil
	case "4", "s":
		a.state = viewSettings
		return a, nil
	}
	switch a.state {
	case viewLedger:
		return a.handleLedgerKey(m)
	case viewBudgets:
		return a.handleBudgetsKey(m)
	case viewAnalytics:
		return a.handleAnalyticsKey(m)
	case viewSettings:
		return a.handleSettingsKey(m)
	}
	return a, nil
}

func (a *App) handleLedgerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "up", "k":
		if a.txCursor > 0 {
			a.txCursor--
		}
	case "down", "j":
		if a.txCursor < len(a.store.Transactions)-1 {
			a.txCursor++
		}
	case "n":
		a.form = newTxForm(time.Now())
		a.modal = modalTxForm
		a.status = ""
	case "e":
		if a.txCursor < len(a.store.Transactions) {
			a.form = editTxForm(a.store, a.store.Transactions[a.txCursor])
			a.modal = modalTxForm
			a.status = ""
		}
	case "x":
		if a.txCursor < len(a.store.Transactions) {
			a.store.DeleteTransaction(a.store.Transactions[a.txCursor].ID)
			if a.txCursor >= len(a.store.Transactions) && a.txCursor > 0 {
				a.txCursor--
			}
			a.status = "transaction deleted"
			return a, a.saveCmd()
		}
	}
	return a, nil
}

func (a *App) handleBudgetsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "n":
		a.pickCursor = 0
		a.modal = modalNewBudget
		a.status = ""
	case "x":
		lines := a.store.BudgetLines()
		if a.txCursor < len(lines) {
			// remove every budget on the selected category line
			for _, b := range append([]ledger.Budget(nil), a.store.Budgets...) {
				if b.CategoryID == lines[a.txCursor].CategoryID {
					a.store.DeleteBudget(b.ID)
				}
			}
			a.status = "budget removed"
			return a, a.saveCmd()
		}
	case "up", "k":
		if a.txCursor > 0 {
			a.txCursor--
		}
	case "down", "j":
		if a.txCursor < len(a.store.BudgetLines())-1 {
			a.txCursor++
		}
	}
	return a, nil
}

func (a *App) handleAnalyticsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	months := ledger.Months(a.store.Transactions)
	switch m.String() {
	case "[", "left", "h":
		if a.monthCursor < len(months)-1 {
			a.monthCursor++
		}
	case "]", "right":
		if a.monthCursor > 0 {
			a.monthCursor--
		}
	}
	return a, nil
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "tab":
		a.onCategories = !a.onCategories
	case "up", "k":
		if a.onCategories {
			if a.categoryCursor > 0 {
				a.categoryCursor--
			}
		} else if a.accountCursor > 0 {
			a.accountCursor--
		}
	case "down", "j":
		if a.onCategories {
			if a.categoryCursor < len(a.store.Categories)-1 {
				a.categoryCursor++
			}
		} else if a.accountCursor < len(a.store.Accounts)-1 {
			a.accountCursor++
		}
	case "n":
		a.inputBuffer = ""
		if a.onCategories {
			a.modal = modalNewCategory
		} else {
			a.modal = modalNewAccount
		}
	case "a":
		if !a.onCategories && a.accountCursor < len(a.store.Accounts) {
			acct := a.store.Accounts[a.accountCursor]
			if err := a.store.SetAccountArchived(acct.ID, !acct.Archived); err != nil {
				a.status = err.Error()
				return a, nil
			}
			return a, a.saveCmd()
		}
	case "x":
		if a.onCategories {
			if a.categoryCursor < len(a.store.Categories) {
				a.pendingID = a.store.Categories[a.categoryCursor].ID
				a.pickCursor = 0
				a.modal = modalReplaceCategory
			}
		} else if a.accountCursor < len(a.store.Accounts) {
			acct := a.store.Accounts[a.accountCursor]
			if a.store.AccountTransactionCount(acct.ID) == 0 {
				if err := a.store.DeleteAccount(acct.ID, ""); err != nil {
					a.status = err.Error()
					return a, nil
				}
				if a.accountCursor > 0 {
					a.accountCursor--
				}
				a.status = "account deleted"
				return a, a.saveCmd()
			}
			a.pendingID = acct.ID
			a.pickCursor = 0
			a.modal = modalReassignAccount
		}
	case "E":
		return a, a.exportCmd()
	case "I":
		a.inputBuffer = ""
		a.modal = modalImportPath
	case "X":
		a.modal = modalConfirmReset
	}
	return a, nil
}

func (a *App) exportCmd() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		name := backup.Filename(time.Now())
		f, err := os.Create(name)
		if err != nil {
			return statusMsg("export failed: " + err.Error())
		}
		defer f.Close()
		if err := backup.Export(f, store, time.Now()); err != nil {
			return statusMsg("export failed: " + err.Error())
		}
		return statusMsg("exported " + name)
	}
}

type statusMsg string

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalTxForm:
		return a.handleTxFormKey(m)
	case modalNewAccount, modalNewCategory, modalBudgetLimit, modalImportPath:
		return a.handleInputModalKey(m)
	case modalNewBudget:
		return a.handlePickKey(m, len(a.store.Categories), func(idx int) (tea.Model, tea.Cmd) {
			a.pendingID = a.store.Categories[idx].ID
			a.inputBuffer = ""
			a.modal = modalBudgetLimit
			return a, nil
		})
	case modalReassignAccount:
		others := a.accountsExcept(a.pendingID)
		return a.handlePickKey(m, len(others), func(idx int) (tea.Model, tea.Cmd) {
			if err := a.store.DeleteAccount(a.pendingID, others[idx].ID); err != nil {
				a.status = err.Error()
				a.modal = modalNone
				return a, nil
			}
			a.modal = modalNone
			if a.accountCursor >= len(a.store.Accounts) && a.accountCursor > 0 {
				a.accountCursor--
			}
			a.status = "transactions reassigned, account deleted"
			return a, a.saveCmd()
		})
	case modalReplaceCategory:
		others := a.categoriesExcept(a.pendingID)
		return a.handlePickKey(m, len(others), func(idx int) (tea.Model, tea.Cmd) {
			if err := a.store.DeleteCategory(a.pendingID, others[idx].ID); err != nil {
				a.status = err.Error()
				a.modal = modalNone
				return a, nil
			}
			a.modal = modalNone
			if a.categoryCursor >= len(a.store.Categories) && a.categoryCursor > 0 {
				a.categoryCursor--
			}
			a.status = "references moved, category deleted"
			return a, a.saveCmd()
		})
	case modalConfirmReset:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			a.backend.Reset(a.ctx)
			a.store = a.migrator.DefaultStore()
			a.status = "workspace reset"
			return a, a.saveCmd()
		case "n", "N", "esc":
			a.modal = modalNone
		}
	}
	return a, nil
}

// handlePickKey drives the simple cursor-list modals.
func (a *App) handlePickKey(m tea.KeyMsg, count int, choose func(int) (tea.Model, tea.Cmd)) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.modal = modalNone
	case "up", "k":
		if a.pickCursor > 0 {
			a.pickCursor--
		}
	case "down", "j":
		if a.pickCursor < count-1 {
			a.pickCursor++
		}
	case "enter":
		if a.pickCursor < count {
			return choose(a.pickCursor)
		}
		a.modal = modalNone
	}
	return a, nil
}

func (a *App) handleInputModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		a.inputBuffer = ""
	case tea.KeyEnter:
		text := strings.TrimSpace(a.inputBuffer)
		mode := a.modal
		a.modal = modalNone
		a.inputBuffer = ""
		return a.submitInputModal(mode, text)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.inputBuffer) > 0 {
			a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-1]
		}
	case tea.KeySpace:
		a.inputBuffer += " "
	case tea.KeyRunes:
		a.inputBuffer += string(m.Runes)
	}
	return a, nil
}

func (a *App) submitInputModal(mode modalState, text string) (tea.Model, tea.Cmd) {
	switch mode {
	case modalNewAccount:
		if _, err := a.store.AddAccount(a.ids, text); err != nil {
			a.status = err.Error()
			return a, nil
		}
		a.status = "account added"
		return a, a.saveCmd()
	case modalNewCategory:
		// "Name" defaults to Expense; "Name/income" flags the group
		group := ledger.GroupExpense
		const incomeSuffix = "/income"
		if len(text) >= len(incomeSuffix) && strings.EqualFold(text[len(text)-len(incomeSuffix):], incomeSuffix) {
			group = ledger.GroupIncome
			text = strings.TrimSpace(text[:len(text)-len(incomeSuffix)])
		}
		if _, err := a.store.AddCategory(a.ids, text, group); err != nil {
			a.status = err.Error()
			return a, nil
		}
		a.status = "category added"
		return a, a.saveCmd()
	case modalBudgetLimit:
		limit, err := strconv.ParseFloat(text, 64)
		if err != nil {
			a.status = "limit: must be a number"
			return a, nil
		}
		if _, err := a.store.AddBudget(a.ids, a.pendingID, limit); err != nil {
			a.status = err.Error()
			return a, nil
		}
		a.status = "budget added"
		return a, a.saveCmd()
	case modalImportPath:
		if text == "" {
			return a, nil
		}
		f, err := os.Open(text)
		if err != nil {
			a.status = "import failed: " + err.Error()
			return a, nil
		}
		defer f.Close()
		imported, err := backup.Import(f, a.migrator)
		if err != nil {
			a.status = err.Error()
			return a, nil
		}
		a.backend.Reset(a.ctx)
		a.store = imported
		a.txCursor = 0
		a.status = "backup imported"
		return a, a.saveCmd()
	}
	return a, nil
}

func (a *App) accountsExcept(id string) []ledger.Account {
	out := make([]ledger.Account, 0, len(a.store.Accounts))
	for _, acct := range a.store.Accounts {
		if acct.ID != id {
			out = append(out, acct)
		}
	}
	return out
}

func (a *App) categoriesExcept(id string) []ledger.Category {
	out := make([]ledger.Category, 0, len(a.store.Categories))
	for _, c := range a.store.Categories {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
