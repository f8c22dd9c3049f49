package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func suggestNow() time.Time {
	return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
}

func TestSuggestRecencyTiers(t *testing.T) {
	t.Parallel()

	now := suggestNow()
	txs := []Transaction{
		{Type: TxExpense, Date: "2026-08-20", Amount: 10, Vendor: "Recent", AccountID: "a1", CategoryID: "c1"},
		{Type: TxExpense, Date: "2026-07-01", Amount: 10, Vendor: "Midrange", AccountID: "a1", CategoryID: "c1"},
		{Type: TxExpense, Date: "2025-01-01", Amount: 10, Vendor: "Ancient", AccountID: "a1", CategoryID: "c1"},
	}

	out := Suggest(txs, "", now)
	require.Len(t, out, 3)
	require.Equal(t, "Recent", out[0].Vendor)
	require.InDelta(t, 3*1.2, out[0].Score, 1e-9)
	require.Equal(t, "Midrange", out[1].Vendor)
	require.InDelta(t, 2*1.2, out[1].Score, 1e-9)
	require.Equal(t, "Ancient", out[2].Vendor)
	require.InDelta(t, 1*1.2, out[2].Score, 1e-9)
}

func TestSuggestQueryWeights(t *testing.T) {
	t.Parallel()

	now := suggestNow()
	txs := []Transaction{
		{Type: TxExpense, Date: "2020-01-01", Amount: 10, Vendor: "Cafe Uno", AccountID: "a1", CategoryID: "c1"},
		{Type: TxExpense, Date: "2020-01-01", Amount: 10, Vendor: "Uno Cafe", AccountID: "a1", CategoryID: "c1"},
		{Type: TxExpense, Date: "2020-01-01", Amount: 10, Vendor: "FreshMart", AccountID: "a1", CategoryID: "c1"},
	}

	out := Suggest(txs, "cafe", now)
	require.Len(t, out, 3)
	require.Equal(t, "Cafe Uno", out[0].Vendor) // prefix, 3x
	require.InDelta(t, 3, out[0].Score, 1e-9)
	require.Equal(t, "Uno Cafe", out[1].Vendor) // contains, 1.5x
	require.InDelta(t, 1.5, out[1].Score, 1e-9)
	require.Equal(t, "FreshMart", out[2].Vendor) // miss, dampened
	require.InDelta(t, 0.2, out[2].Score, 1e-9)
}

func TestSuggestAccumulatesPerTriple(t *testing.T) {
	t.Parallel()

	now := suggestNow()
	txs := []Transaction{
		{Type: TxExpense, Date: "2026-08-25", Amount: 10, Vendor: "Cafe Uno", AccountID: "a1", CategoryID: "c1"},
		{Type: TxExpense, Date: "2026-08-26", Amount: 10, Vendor: "Cafe Uno", AccountID: "a1", CategoryID: "c1"},
		{Type: TxExpense, Date: "2026-08-27", Amount: 10, Vendor: "Cafe Uno", AccountID: "a2", CategoryID: "c1"},
	}

	out := Suggest(txs, "", now)
	require.Len(t, out, 2)
	require.Equal(t, "a1", out[0].AccountID)
	require.InDelta(t, 2*3*1.2, out[0].Score, 1e-9)
	require.Equal(t, "a2", out[1].AccountID)
}

func TestSuggestSkipsTransfersAndBlankVendors(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		{Type: TxTransfer, Date: "2026-08-25", Amount: 10, FromAccountID: "a1", ToAccountID: "a2"},
		{Type: TxExpense, Date: "2026-08-25", Amount: 10, AccountID: "a1", CategoryID: "c1"},
		{Type: TxExpense, Date: "2026-08-25", Amount: 10, Vendor: "   ", AccountID: "a1", CategoryID: "c1"},
	}
	require.Empty(t, Suggest(txs, "", suggestNow()))
}

func TestSuggestCapsAtFiveAndTieBreaksByVendor(t *testing.T) {
	t.Parallel()

	var txs []Transaction
	for _, vendor := range []string{"Zeta", "Echo", "Alpha", "Delta", "Bravo", "Charlie"} {
		txs = append(txs, Transaction{
			Type: TxExpense, Date: "2020-01-01", Amount: 10,
			Vendor: vendor, AccountID: "a1", CategoryID: "c1",
		})
	}

	out := Suggest(txs, "", suggestNow())
	require.Len(t, out, 5)
	vendors := make([]string, len(out))
	for i, s := range out {
		vendors[i] = s.Vendor
	}
	require.Equal(t, []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"}, vendors)
}

func TestSuggestUnparseableDateLandsInOldestTier(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		{Type: TxExpense, Date: "not-a-date", Amount: 10, Vendor: "Odd", AccountID: "a1", CategoryID: "c1"},
	}
	out := Suggest(txs, "", suggestNow())
	require.Len(t, out, 1)
	require.InDelta(t, 1*1.2, out[0].Score, 1e-9)
}

func TestFilterLabels(t *testing.T) {
	t.Parallel()

	labels := []string{"Main Checking", "Credit Card", "Savings"}

	require.Equal(t, labels, FilterLabels(labels, ""))
	require.Equal(t, []string{"Credit Card"}, FilterLabels(labels, "cred"))

	// subsequence matches, prefix anchors first
	out := FilterLabels(labels, "ca")
	require.Contains(t, out, "Credit Card")

	require.Empty(t, FilterLabels(labels, "zzz"))
}
