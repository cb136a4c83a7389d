package core

import "time"

// Summary is the dashboard headline: all-time balance plus the current
// month's income and expense totals.
type Summary struct {
	Balance       Money `json:"balance"`
	MonthIncome   Money `json:"monthIncome"`
	MonthExpenses Money `json:"monthExpenses"`
}

// Summarize computes the dashboard totals in a single pass.
func Summarize(transactions []Transaction, now time.Time) Summary {
	var income, expenses, monthIncome, monthExpenses int64
	for _, t := range transactions {
		inMonth := t.Date.Month() == now.Month() && t.Date.Year() == now.Year()
		if t.Type == Income {
			income += t.Amount.Cents
			if inMonth {
				monthIncome += t.Amount.Cents
			}
		} else {
			expenses += t.Amount.Cents
			if inMonth {
				monthExpenses += t.Amount.Cents
			}
		}
	}
	return Summary{
		Balance:       Money{Cents: income - expenses},
		MonthIncome:   Money{Cents: monthIncome},
		MonthExpenses: Money{Cents: monthExpenses},
	}
}

// RecentTransactions returns the n newest transactions by date, input order
// breaking ties. The input slice is not modified.
func RecentTransactions(transactions []Transaction, n int) []Transaction {
	ordered := make([]Transaction, len(transactions))
	copy(ordered, transactions)
	sortByDateDesc(ordered)
	if len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}
