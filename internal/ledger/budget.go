package ledger

import "sort"

// BudgetLine is one row of the budget progress view. Duplicate budgets
// against the same category merge into a single line with their limits
// summed, so duplicates degrade gracefully instead of rendering twice.
type BudgetLine struct {
	CategoryID   string
	CategoryName string
	Limit        float64
	Spent        float64
	Remaining    float64
	OverBudget   bool
}

// BudgetLines computes progress for every budgeted category from the
// full expense history, ordered by category name.
func (s *Store) BudgetLines() []BudgetLine {
	if len(s.Budgets) == 0 {
		return nil
	}
	spend := CategorySpend(s.Transactions)

	limits := make(map[string]float64)
	var order []string
	for _, b := range s.Budgets {
		if _, ok := limits[b.CategoryID]; !ok {
			order = append(order, b.CategoryID)
		}
		limits[b.CategoryID] += b.Limit
	}

	lines := make([]BudgetLine, 0, len(order))
	for _, categoryID := range order {
		limit := limits[categoryID]
		spent := spend[categoryID]
		remaining := limit - spent
		lines = append(lines, BudgetLine{
			CategoryID:   categoryID,
			CategoryName: s.CategoryName(categoryID),
			Limit:        limit,
			Spent:        spent,
			Remaining:    remaining,
			OverBudget:   remaining < 0,
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].CategoryName != lines[j].CategoryName {
			return lines[i].CategoryName < lines[j].CategoryName
		}
		return lines[i].CategoryID < lines[j].CategoryID
	})
	return lines
}
