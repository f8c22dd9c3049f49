package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
)

// Suggestion is one ranked autocomplete candidate for the transaction
// form: a (vendor, category, account) triple scored by recency and
// query relevance. The same vendor used with different categories or
// accounts yields separate suggestions.
type Suggestion struct {
	Vendor     string
	CategoryID string
	AccountID  string
	Score      float64
}

const maxSuggestions = 5

// Suggest ranks historical vendor/category/account triples against the
// typed vendor text. Transfers and blank-vendor entries carry no vendor
// semantics and are skipped. Scores accumulate per exact triple.
func Suggest(txs []Transaction, query string, now time.Time) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))

	type key struct{ vendor, categoryID, accountID string }
	scores := make(map[key]*Suggestion)
	var order []key

	for _, tx := range txs {
		if tx.Type == TxTransfer {
			continue
		}
		vendor := strings.TrimSpace(tx.Vendor)
		if vendor == "" {
			continue
		}

		score := recencyWeight(tx.Date, now) * queryWeight(vendor, q)
		k := key{vendor, tx.CategoryID, tx.AccountID}
		if existing := scores[k]; existing != nil {
			existing.Score += score
			continue
		}
		scores[k] = &Suggestion{
			Vendor:     vendor,
			CategoryID: tx.CategoryID,
			AccountID:  tx.AccountID,
			Score:      score,
		}
		order = append(order, k)
	}

	out := make([]Suggestion, 0, len(order))
	for _, k := range order {
		out = append(out, *scores[k])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Vendor < out[j].Vendor
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// recencyWeight favors recently used combinations: 3x within 30 days,
// 2x within 90, 1x beyond. Unparseable dates land in the oldest tier.
func recencyWeight(date string, now time.Time) float64 {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 1
	}
	switch {
	case !d.Before(now.AddDate(0, 0, -30)):
		return 3
	case !d.Before(now.AddDate(0, 0, -90)):
		return 2
	default:
		return 1
	}
}

// queryWeight scores a vendor against the lower-cased query. Misses are
// dampened rather than zeroed so sparse histories still rank.
func queryWeight(vendor, q string) float64 {
	if q == "" {
		return 1.2
	}
	v := strings.ToLower(vendor)
	switch {
	case strings.HasPrefix(v, q):
		return 3
	case strings.Contains(v, q):
		return 1.5
	default:
		return 0.2
	}
}

// FilterLabels ranks display names for picker filtering: subsequence
// matches only, scored by match quality with edit distance breaking
// ties, closest first. An empty query returns the labels unchanged.
func FilterLabels(labels []string, query string) []string {
	q := strings.TrimSpace(query)
	if q == "" {
		return append([]string(nil), labels...)
	}

	type scored struct {
		label string
		score int
		dist  int
	}
	var matched []scored
	for _, label := range labels {
		ok, score := subsequenceScore(label, q)
		if !ok {
			continue
		}
		matched = append(matched, scored{
			label: label,
			score: score,
			dist:  levenshtein.ComputeDistance(strings.ToLower(label), strings.ToLower(q)),
		})
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		if matched[i].dist != matched[j].dist {
			return matched[i].dist < matched[j].dist
		}
		return matched[i].label < matched[j].label
	})

	out := make([]string, len(matched))
	for i := range matched {
		out[i] = matched[i].label
	}
	return out
}

// subsequenceScore reports whether query is a subsequence of label,
// rewarding prefix anchors, adjacent runs and exact matches.
func subsequenceScore(label, query string) (bool, int) {
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	searchFrom := 0
	for i := 0; i < len(queryLower); i++ {
		ch := queryLower[i]
		found := false
		for j := searchFrom; j < len(labelLower); j++ {
			if labelLower[j] == ch {
				matchIdx = append(matchIdx, j)
				searchFrom = j + 1
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}

	score := len(queryLower)
	if len(matchIdx) > 0 && matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}
