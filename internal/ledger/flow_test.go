package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildFlowGraphEmpty(t *testing.T) {
	t.Parallel()

	s := sampleStore()
	s.Transactions = nil
	graph := BuildFlowGraph(&s)
	require.Empty(t, graph.Nodes)
	require.Empty(t, graph.Links)
}

func TestBuildFlowGraphOrdering(t *testing.T) {
	t.Parallel()

	s := sampleStore()
	graph := BuildFlowGraph(&s)

	names := make([]string, len(graph.Nodes))
	for i, n := range graph.Nodes {
		names[i] = n.Name
	}
	// Income first, then accounts by descending total touched flow,
	// then categories the same way.
	require.Equal(t, []string{
		IncomeNodeLabel,
		"Main Checking", // 3000 + 120 + 500
		"Credit Card",   // 40 + 500 + 60
		"Groceries",     // 120
		"Dining",        // 40 + 60
	}, names)

	// links are value-descending with name tie-breaks, indices into Nodes
	require.Equal(t, []FlowLink{
		{Source: 0, Target: 1, Value: 3000}, // Income -> Main Checking
		{Source: 1, Target: 2, Value: 500},  // transfer
		{Source: 1, Target: 3, Value: 120},  // Main Checking -> Groceries
		{Source: 2, Target: 4, Value: 100},  // Credit Card -> Dining, merged
	}, graph.Links)
}

func TestBuildFlowGraphMergesParallelEdges(t *testing.T) {
	t.Parallel()

	s := Store{
		Accounts:   []Account{{ID: "a1", Name: "Checking"}},
		Categories: []Category{{ID: "c1", Name: "Dining", Group: GroupExpense}},
		Transactions: []Transaction{
			{ID: "t1", Type: TxExpense, Date: "2026-08-01", Amount: 10, AccountID: "a1", CategoryID: "c1"},
			{ID: "t2", Type: TxExpense, Date: "2026-08-02", Amount: 25, AccountID: "a1", CategoryID: "c1"},
		},
	}
	graph := BuildFlowGraph(&s)
	require.Len(t, graph.Links, 1)
	require.InDelta(t, 35, graph.Links[0].Value, 1e-9)
}

func TestBuildFlowGraphDanglingReferencesUseUnknown(t *testing.T) {
	t.Parallel()

	s := Store{
		Transactions: []Transaction{
			{ID: "t1", Type: TxExpense, Date: "2026-08-01", Amount: 10, AccountID: "gone", CategoryID: "gone-too"},
		},
	}
	// both endpoints resolve to the same Unknown label, so they collapse
	// into a single node with a self-edge
	graph := BuildFlowGraph(&s)
	require.Len(t, graph.Nodes, 1)
	require.Equal(t, UnknownLabel, graph.Nodes[0].Name)
	require.Equal(t, []FlowLink{{Source: 0, Target: 0, Value: 10}}, graph.Links)
}
