package core

import (
	"sort"
	"strings"
)

// TransactionFilter narrows a transaction listing. Zero values mean "all".
type TransactionFilter struct {
	Type       TransactionType
	CategoryID string
	Search     string
}

// FilterTransactions applies the filter and returns matches newest first.
func FilterTransactions(transactions []Transaction, f TransactionFilter) []Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.CategoryID != "" && t.CategoryID != f.CategoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}
	sortByDateDesc(out)
	return out
}

func sortByDateDesc(transactions []Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date.Time)
	})
}
