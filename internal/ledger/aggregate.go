package ledger

import "sort"

// ManualEntryVendor buckets expense transactions entered without a vendor.
const ManualEntryVendor = "Manual Entry"

// MonthKey reduces an ISO calendar date to its YYYY-MM month key.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// DeriveBalances computes the current balance per account id from the
// full transaction list. Income adds, expense subtracts, transfers move.
// Empty input yields an empty map; unseen accounts simply have no entry.
func DeriveBalances(txs []Transaction) map[string]float64 {
	balances := make(map[string]float64)
	for _, tx := range txs {
		switch tx.Type {
		case TxIncome:
			balances[tx.AccountID] += tx.Amount
		case TxExpense:
			balances[tx.AccountID] -= tx.Amount
		case TxTransfer:
			balances[tx.FromAccountID] -= tx.Amount
			balances[tx.ToAccountID] += tx.Amount
		}
	}
	return balances
}

// CategorySpend sums expense amounts per category id.
func CategorySpend(txs []Transaction) map[string]float64 {
	sums := make(map[string]float64)
	for _, tx := range txs {
		if tx.Type == TxExpense {
			sums[tx.CategoryID] += tx.Amount
		}
	}
	return sums
}

// VendorSpend sums expense amounts per vendor. Blank vendors are
// reported under ManualEntryVendor.
func VendorSpend(txs []Transaction) map[string]float64 {
	sums := make(map[string]float64)
	for _, tx := range txs {
		if tx.Type != TxExpense {
			continue
		}
		vendor := tx.Vendor
		if vendor == "" {
			vendor = ManualEntryVendor
		}
		sums[vendor] += tx.Amount
	}
	return sums
}

// MonthTotals is one month's income and expense flow.
type MonthTotals struct {
	Income  float64
	Expense float64
}

// MonthlyTotals sums income and expense per YYYY-MM month key.
// Transfers move money between accounts and count toward neither side.
func MonthlyTotals(txs []Transaction) map[string]MonthTotals {
	out := make(map[string]MonthTotals)
	for _, tx := range txs {
		key := MonthKey(tx.Date)
		totals := out[key]
		switch tx.Type {
		case TxIncome:
			totals.Income += tx.Amount
		case TxExpense:
			totals.Expense += tx.Amount
		default:
			continue
		}
		out[key] = totals
	}
	return out
}

// Months lists the distinct month keys present, most recent first.
func Months(txs []Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tx := range txs {
		key := MonthKey(tx.Date)
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// NamedTotal is one row of a ranked aggregate.
type NamedTotal struct {
	Name  string
	Total float64
}

// RankTotals orders an aggregate map into the deterministic total order
// used everywhere ranked values render: total descending, then name
// ascending. The explicit tie-break keeps layouts and tests stable.
func RankTotals(totals map[string]float64) []NamedTotal {
	out := make([]NamedTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, NamedTotal{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopCategories ranks expense totals by category name for one month,
// truncated to n rows. Dangling category ids report as UnknownLabel.
func (s *Store) TopCategories(month string, n int) []NamedTotal {
	sums := make(map[string]float64)
	for _, tx := range s.Transactions {
		if tx.Type != TxExpense || MonthKey(tx.Date) != month {
			continue
		}
		sums[s.CategoryName(tx.CategoryID)] += tx.Amount
	}
	ranked := RankTotals(sums)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
