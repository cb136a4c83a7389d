package core

import (
	"fmt"
	"sort"
	"time"
)

const (
	PeriodCurrentMonth ReportPeriod = "current-month"
	PeriodLast3Months  ReportPeriod = "last-3-months"
	PeriodCurrentYear  ReportPeriod = "current-year"
	PeriodAllTime      ReportPeriod = "all-time"
)

// ReportPeriod selects the date range a report covers.
type ReportPeriod string

func ParseReportPeriod(s string) (ReportPeriod, error) {
	switch ReportPeriod(s) {
	case PeriodCurrentMonth, PeriodLast3Months, PeriodCurrentYear, PeriodAllTime:
		return ReportPeriod(s), nil
	case "":
		return PeriodCurrentMonth, nil
	default:
		return "", Invalid("unknown report period: " + s)
	}
}

type (
	Totals struct {
		TotalIncome   Money `json:"totalIncome"`
		TotalExpenses Money `json:"totalExpenses"`
		Balance       Money `json:"balance"`
	}

	// CategoryAmount is one slice of the expense distribution. Share is the
	// percentage of total expenses, populated only for the top-categories view.
	CategoryAmount struct {
		CategoryID string  `json:"categoryId"`
		Name       string  `json:"name"`
		Color      string  `json:"color"`
		Amount     Money   `json:"amount"`
		Share      float64 `json:"share,omitempty"`
	}

	MonthlyPoint struct {
		Month    string `json:"month"` // YYYY-MM
		Income   Money  `json:"income"`
		Expenses Money  `json:"expenses"`
	}

	BalancePoint struct {
		Date    string `json:"date"` // YYYY-MM-DD
		Balance Money  `json:"balance"`
	}

	Report struct {
		Period               ReportPeriod     `json:"period"`
		Totals               Totals           `json:"totals"`
		CategoryDistribution []CategoryAmount `json:"categoryDistribution"`
		TopCategories        []CategoryAmount `json:"topCategories"`
		MonthlySeries        []MonthlyPoint   `json:"monthlySeries"`
		BalanceSeries        []BalancePoint   `json:"balanceSeries"`
	}
)

const (
	maxMonthlyPoints = 6
	maxBalancePoints = 30
	topCategoryCount = 5
)

// AggregateReport derives the reporting views from one user's transactions at
// time now. It is a pure function: same inputs, same report. An empty filtered
// set yields zero totals and empty series.
func AggregateReport(transactions []Transaction, categories []Category, period ReportPeriod, now time.Time) Report {
	filtered := filterByPeriod(transactions, period, now)

	report := Report{
		Period:               period,
		Totals:               sumTotals(filtered),
		CategoryDistribution: distributeByCategory(filtered, categories),
		MonthlySeries:        monthlySeries(filtered),
		BalanceSeries:        balanceSeries(filtered),
	}
	report.TopCategories = topCategories(report.CategoryDistribution, report.Totals.TotalExpenses)
	return report
}

func filterByPeriod(transactions []Transaction, period ReportPeriod, now time.Time) []Transaction {
	if period == PeriodAllTime {
		return transactions
	}
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		switch period {
		case PeriodCurrentMonth:
			if t.Date.Month() == now.Month() && t.Date.Year() == now.Year() {
				out = append(out, t)
			}
		case PeriodLast3Months:
			cutoff := time.Date(now.Year(), now.Month()-3, 1, 0, 0, 0, 0, now.Location())
			if !t.Date.Before(cutoff) {
				out = append(out, t)
			}
		case PeriodCurrentYear:
			if t.Date.Year() == now.Year() {
				out = append(out, t)
			}
		}
	}
	return out
}

func sumTotals(transactions []Transaction) Totals {
	var income, expenses int64
	for _, t := range transactions {
		if t.Type == Income {
			income += t.Amount.Cents
		} else {
			expenses += t.Amount.Cents
		}
	}
	return Totals{
		TotalIncome:   Money{Cents: income},
		TotalExpenses: Money{Cents: expenses},
		Balance:       Money{Cents: income - expenses},
	}
}

// distributeByCategory sums expense transactions per category, dropping
// categories with nothing spent, sorted by amount descending.
func distributeByCategory(transactions []Transaction, categories []Category) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(categories))
	for _, c := range categories {
		var total int64
		for _, t := range transactions {
			if t.Type == Expense && t.CategoryID == c.ID {
				total += t.Amount.Cents
			}
		}
		if total <= 0 {
			continue
		}
		out = append(out, CategoryAmount{
			CategoryID: c.ID,
			Name:       c.Name,
			Color:      c.Color,
			Amount:     Money{Cents: total},
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

// topCategories takes the largest slices of the distribution and attaches
// each one's share of total expenses. The share is guarded against a zero
// denominator so an expense-free period never produces NaN.
func topCategories(distribution []CategoryAmount, totalExpenses Money) []CategoryAmount {
	n := len(distribution)
	if n > topCategoryCount {
		n = topCategoryCount
	}
	out := make([]CategoryAmount, n)
	copy(out, distribution[:n])
	if totalExpenses.Cents > 0 {
		for i := range out {
			out[i].Share = float64(out[i].Amount.Cents) / float64(totalExpenses.Cents) * 100
		}
	}
	return out
}

func monthlySeries(transactions []Transaction) []MonthlyPoint {
	type sums struct{ income, expenses int64 }
	months := make(map[string]*sums)
	for _, t := range transactions {
		key := fmt.Sprintf("%04d-%02d", t.Date.Year(), int(t.Date.Month()))
		s, ok := months[key]
		if !ok {
			s = &sums{}
			months[key] = s
		}
		if t.Type == Income {
			s.income += t.Amount.Cents
		} else {
			s.expenses += t.Amount.Cents
		}
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	// Most recent months only, still ascending.
	if len(keys) > maxMonthlyPoints {
		keys = keys[len(keys)-maxMonthlyPoints:]
	}

	out := make([]MonthlyPoint, 0, len(keys))
	for _, k := range keys {
		s := months[k]
		out = append(out, MonthlyPoint{
			Month:    k,
			Income:   Money{Cents: s.income},
			Expenses: Money{Cents: s.expenses},
		})
	}
	return out
}

// balanceSeries walks transactions in date order keeping a running balance.
// The series is keyed by date, so several transactions on one day collapse to
// the last running value for that day.
func balanceSeries(transactions []Transaction) []BalancePoint {
	ordered := make([]Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date.Time)
	})

	var running int64
	byDate := make(map[string]int64)
	dates := make([]string, 0, len(ordered))
	for _, t := range ordered {
		if t.Type == Income {
			running += t.Amount.Cents
		} else {
			running -= t.Amount.Cents
		}
		key := t.Date.String()
		if _, seen := byDate[key]; !seen {
			dates = append(dates, key)
		}
		byDate[key] = running
	}

	if len(dates) > maxBalancePoints {
		dates = dates[len(dates)-maxBalancePoints:]
	}
	out := make([]BalancePoint, 0, len(dates))
	for _, d := range dates {
		out = append(out, BalancePoint{Date: d, Balance: Money{Cents: byDate[d]}})
	}
	return out
}
