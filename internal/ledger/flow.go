package ledger

import "sort"

// FlowNode is one labelled node of the money-flow (Sankey) graph.
type FlowNode struct {
	Name string `json:"name"`
}

// FlowLink is a weighted edge between two node indices.
type FlowLink struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Value  float64 `json:"value"`
}

// FlowGraph is the deduplicated weighted graph of money movement.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

// IncomeNodeLabel is the shared source node all income flows out of.
const IncomeNodeLabel = "Income"

const (
	roleIncome = iota
	roleAccount
	roleCategory
)

// BuildFlowGraph builds the flow graph for visualization. Income
// transactions flow Income -> account, expenses flow account ->
// category, transfers flow account -> account. Edges sharing a
// (source, target) name pair merge into a single link. Node order is
// deterministic: Income first, then accounts by descending total
// touched flow, then expense categories the same way, names ascending
// on ties, so identical stores always render identically.
func BuildFlowGraph(s *Store) FlowGraph {
	type edgeKey struct{ source, target string }
	edges := make(map[edgeKey]float64)
	roles := make(map[string]int)

	mark := func(name string, role int) {
		if cur, ok := roles[name]; !ok || role < cur {
			roles[name] = role
		}
	}
	add := func(source string, sourceRole int, target string, targetRole int, value float64) {
		mark(source, sourceRole)
		mark(target, targetRole)
		edges[edgeKey{source, target}] += value
	}

	for _, tx := range s.Transactions {
		switch tx.Type {
		case TxIncome:
			add(IncomeNodeLabel, roleIncome, s.AccountName(tx.AccountID), roleAccount, tx.Amount)
		case TxExpense:
			add(s.AccountName(tx.AccountID), roleAccount, s.CategoryName(tx.CategoryID), roleCategory, tx.Amount)
		case TxTransfer:
			add(s.AccountName(tx.FromAccountID), roleAccount, s.AccountName(tx.ToAccountID), roleAccount, tx.Amount)
		}
	}

	// Total flow touching each node, used to order peers within a role.
	flow := make(map[string]float64)
	for k, v := range edges {
		flow[k.source] += v
		flow[k.target] += v
	}

	names := make([]string, 0, len(roles))
	for name := range roles {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if roles[names[i]] != roles[names[j]] {
			return roles[names[i]] < roles[names[j]]
		}
		if flow[names[i]] != flow[names[j]] {
			return flow[names[i]] > flow[names[j]]
		}
		return names[i] < names[j]
	})

	index := make(map[string]int, len(names))
	nodes := make([]FlowNode, len(names))
	for i, name := range names {
		index[name] = i
		nodes[i] = FlowNode{Name: name}
	}

	keys := make([]edgeKey, 0, len(edges))
	for k := range edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if edges[keys[i]] != edges[keys[j]] {
			return edges[keys[i]] > edges[keys[j]]
		}
		if keys[i].source != keys[j].source {
			return keys[i].source < keys[j].source
		}
		return keys[i].target < keys[j].target
	})

	links := make([]FlowLink, 0, len(keys))
	for _, k := range keys {
		links = append(links, FlowLink{Source: index[k.source], Target: index[k.target], Value: edges[k]})
	}
	return FlowGraph{Nodes: nodes, Links: links}
}
