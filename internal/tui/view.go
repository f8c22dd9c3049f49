package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/wealthflow/wealthflow/internal/ledger"
)

func (a *App) View() string {
	if !a.loaded {
		return "loading...\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("WealthFlow"))
	b.WriteString("  ")
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")

	switch a.state {
	case viewLedger:
		b.WriteString(a.renderLedger())
	case viewBudgets:
		b.WriteString(a.renderBudgets())
	case viewAnalytics:
		b.WriteString(a.renderAnalytics())
	case viewSettings:
		b.WriteString(a.renderSettings())
	}

	if a.modal != modalNone {
		b.WriteString("\n")
		b.WriteString(a.renderModal())
	}

	b.WriteString("\n")
	if a.warning != "" {
		b.WriteString(errorStyle.Render(a.warning))
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(dimStyle.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(a.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (a *App) renderTabs() string {
	tabs := []struct {
		state appState
		label string
	}{
		{viewLedger, "1:Ledger"},
		{viewBudgets, "2:Budgets"},
		{viewAnalytics, "3:Analytics"},
		{viewSettings, "4:Settings"},
	}
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if t.state == a.state {
			parts[i] = activeTab.Render(t.label)
		} else {
			parts[i] = dimStyle.Render(t.label)
		}
	}
	return strings.Join(parts, "  ")
}

func (a *App) helpLine() string {
	if a.modal != modalNone {
		switch a.modal {
		case modalTxForm:
			return "tab: next field  ctrl+t: cycle type  ctrl+y: apply suggestion  enter: save  esc: cancel"
		case modalConfirmReset:
			return "y: confirm  n: cancel"
		default:
			return "enter: confirm  esc: cancel"
		}
	}
	switch a.state {
	case viewLedger:
		return "n: new  e: edit  x: delete  j/k: move  q: quit"
	case viewBudgets:
		return "n: new budget  x: remove  j/k: move  q: quit"
	case viewAnalytics:
		return "[/]: switch month  q: quit"
	default:
		return "tab: accounts/categories  n: new  a: archive  x: delete  E: export  I: import  X: reset  q: quit"
	}
}

func (a *App) money(v float64) string {
	return fmt.Sprintf("%s%.2f", a.cfg.UI.CurrencySymbol, v)
}

func (a *App) renderLedger() string {
	var b strings.Builder

	balances := ledger.DeriveBalances(a.store.Transactions)
	b.WriteString("Accounts\n")
	for _, acct := range a.store.Accounts {
		name := acct.Name
		if acct.Archived {
			name = dimStyle.Render(name + " (archived)")
		}
		fmt.Fprintf(&b, "  %-24s %12s\n", name, a.money(balances[acct.ID]))
	}

	b.WriteString("\nTransactions\n")
	if len(a.store.Transactions) == 0 {
		b.WriteString(dimStyle.Render("  no transactions yet, press n to add one"))
		b.WriteString("\n")
		return b.String()
	}
	for i, tx := range a.store.Transactions {
		cursor := "  "
		if i == a.txCursor {
			cursor = "> "
		}
		b.WriteString(cursor)
		b.WriteString(a.renderTxLine(tx))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderTxLine(tx ledger.Transaction) string {
	switch tx.Type {
	case ledger.TxTransfer:
		return fmt.Sprintf("%s  %10s  %s -> %s",
			tx.Date, a.money(tx.Amount),
			a.store.AccountName(tx.FromAccountID), a.store.AccountName(tx.ToAccountID))
	case ledger.TxIncome:
		return fmt.Sprintf("%s  %10s  %s  %s",
			tx.Date, incomeStyle.Render("+"+a.money(tx.Amount)),
			a.store.CategoryName(tx.CategoryID), a.store.AccountName(tx.AccountID))
	default:
		vendor := tx.Vendor
		if vendor == "" {
			vendor = ledger.ManualEntryVendor
		}
		return fmt.Sprintf("%s  %10s  %-20s %s  %s",
			tx.Date, "-"+a.money(tx.Amount), vendor,
			a.store.CategoryName(tx.CategoryID), a.store.AccountName(tx.AccountID))
	}
}

func (a *App) renderBudgets() string {
	lines := a.store.BudgetLines()
	if len(lines) == 0 {
		return dimStyle.Render("no budgets yet, press n to add one") + "\n"
	}
	var b strings.Builder
	for i, line := range lines {
		cursor := "  "
		if i == a.txCursor {
			cursor = "> "
		}
		status := fmt.Sprintf("%s left", a.money(line.Remaining))
		if line.OverBudget {
			status = overStyle.Render(fmt.Sprintf("%s over", a.money(-line.Remaining)))
		}
		fmt.Fprintf(&b, "%s%-20s %s  %s of %s  %s\n",
			cursor, line.CategoryName, progressBar(line.Spent, line.Limit, 20),
			a.money(line.Spent), a.money(line.Limit), status)
	}
	return b.String()
}

// progressBar renders spent/limit as a fixed-width bar, clamped at full.
func progressBar(spent, limit float64, width int) string {
	filled := 0
	if limit > 0 {
		filled = int(spent / limit * float64(width))
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func (a *App) renderAnalytics() string {
	months := ledger.Months(a.store.Transactions)
	if len(months) == 0 {
		return dimStyle.Render("no activity to analyze yet") + "\n"
	}
	if a.monthCursor >= len(months) {
		a.monthCursor = len(months) - 1
	}
	month := months[a.monthCursor]
	totals := ledger.MonthlyTotals(a.store.Transactions)[month]

	var b strings.Builder
	fmt.Fprintf(&b, "Month %s   income %s   expenses %s   net %s\n\n",
		activeTab.Render(month), incomeStyle.Render(a.money(totals.Income)),
		a.money(totals.Expense), a.money(totals.Income-totals.Expense))

	b.WriteString("Top categories\n")
	top := a.store.TopCategories(month, 5)
	if len(top) == 0 {
		b.WriteString(dimStyle.Render("  no expenses this month"))
		b.WriteString("\n")
	}
	for _, row := range top {
		fmt.Fprintf(&b, "  %-24s %12s\n", row.Name, a.money(row.Total))
	}

	b.WriteString("\nTop vendors\n")
	var monthTxs []ledger.Transaction
	for _, tx := range a.store.Transactions {
		if ledger.MonthKey(tx.Date) == month {
			monthTxs = append(monthTxs, tx)
		}
	}
	vendors := ledger.RankTotals(ledger.VendorSpend(monthTxs))
	if len(vendors) > 5 {
		vendors = vendors[:5]
	}
	for _, row := range vendors {
		fmt.Fprintf(&b, "  %-24s %12s\n", row.Name, a.money(row.Total))
	}

	b.WriteString("\nMoney flow\n")
	graph := ledger.BuildFlowGraph(&a.store)
	for _, link := range graph.Links {
		fmt.Fprintf(&b, "  %-20s -> %-20s %12s\n",
			graph.Nodes[link.Source].Name, graph.Nodes[link.Target].Name, a.money(link.Value))
	}
	return b.String()
}

func (a *App) renderSettings() string {
	var b strings.Builder

	header := "Accounts"
	if !a.onCategories {
		header = activeTab.Render(header)
	}
	b.WriteString(header)
	b.WriteString("\n")
	for i, acct := range a.store.Accounts {
		cursor := "  "
		if !a.onCategories && i == a.accountCursor {
			cursor = "> "
		}
		suffix := ""
		if acct.Archived {
			suffix = dimStyle.Render("  archived")
		}
		fmt.Fprintf(&b, "%s%s  (%d transactions)%s\n",
			cursor, acct.Name, a.store.AccountTransactionCount(acct.ID), suffix)
	}

	header = "Categories"
	if a.onCategories {
		header = activeTab.Render(header)
	}
	b.WriteString("\n")
	b.WriteString(header)
	b.WriteString("\n")
	for i, c := range a.store.Categories {
		cursor := "  "
		if a.onCategories && i == a.categoryCursor {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%-20s %s\n", cursor, c.Name, dimStyle.Render(string(c.Group)))
	}
	return b.String()
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalTxForm:
		return a.renderTxForm()
	case modalNewAccount:
		return "New account name: " + a.inputBuffer + "_"
	case modalNewCategory:
		return "New category name (append /income for an income category): " + a.inputBuffer + "_"
	case modalBudgetLimit:
		return fmt.Sprintf("Monthly limit for %s: %s_", a.store.CategoryName(a.pendingID), a.inputBuffer)
	case modalImportPath:
		return "Backup file path: " + a.inputBuffer + "_"
	case modalConfirmReset:
		return errorStyle.Render("Reset all data? This cannot be undone. (y/n)")
	case modalNewBudget:
		return a.renderPickList("Budget which category?", categoryLabels(a.store.Categories))
	case modalReassignAccount:
		return a.renderPickList("Reassign transactions to:", accountLabels(a.accountsExcept(a.pendingID)))
	case modalReplaceCategory:
		return a.renderPickList("Move references to:", categoryLabels(a.categoriesExcept(a.pendingID)))
	}
	return ""
}

func (a *App) renderPickList(title string, labels []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(labels) == 0 {
		b.WriteString(dimStyle.Render("  nothing to choose from"))
		return b.String()
	}
	for i, label := range labels {
		cursor := "  "
		if i == a.pickCursor {
			cursor = "> "
		}
		b.WriteString(cursor)
		b.WriteString(label)
		b.WriteString("\n")
	}
	return b.String()
}

func accountLabels(accounts []ledger.Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.Name
	}
	return out
}

func categoryLabels(categories []ledger.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}

func (a *App) renderTxForm() string {
	f := &a.form
	var b strings.Builder

	title := "New transaction"
	if f.editingID != "" {
		title = "Edit transaction"
	}
	fmt.Fprintf(&b, "%s  (%s)\n", titleStyle.Render(title), f.txType)

	for i, name := range f.fields() {
		cursor := "  "
		if i == f.fieldIdx {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%-10s %s\n", cursor, name, *f.value(name))
	}

	if f.txType != ledger.TxTransfer && f.field() == "vendor" {
		suggestions := ledger.Suggest(a.store.Transactions, f.vendor, time.Now())
		for _, s := range suggestions {
			fmt.Fprintf(&b, "    %s %s / %s\n",
				dimStyle.Render(s.Vendor),
				dimStyle.Render(a.store.CategoryName(s.CategoryID)),
				dimStyle.Render(a.store.AccountName(s.AccountID)))
		}
	}

	if f.err != "" {
		b.WriteString(errorStyle.Render(f.err))
		b.WriteString("\n")
	}
	return b.String()
}
