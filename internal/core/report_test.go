package core

import (
	"testing"
	"time"
)

func incomeOn(cents int64, d Date) Transaction {
	return Transaction{
		ID:          "i-" + d.String(),
		UserID:      "u1",
		Type:        Income,
		Description: "income",
		Amount:      Money{Cents: cents},
		Date:        d,
		CategoryID:  "salary",
	}
}

func TestAggregateReportCurrentMonthTotals(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		incomeOn(100000, NewDate(2025, 6, 1)),
		expenseOn("food", 30000, NewDate(2025, 5, 20)), // last month, excluded
	}

	r := AggregateReport(transactions, nil, PeriodCurrentMonth, now)
	if r.Totals.TotalIncome.Cents != 100000 {
		t.Fatalf("expected income 100000, got %d", r.Totals.TotalIncome.Cents)
	}
	if r.Totals.TotalExpenses.Cents != 0 {
		t.Fatalf("expected zero expenses, got %d", r.Totals.TotalExpenses.Cents)
	}
	if r.Totals.Balance.Cents != 100000 {
		t.Fatalf("expected balance 100000, got %d", r.Totals.Balance.Cents)
	}
}

func TestAggregateReportBalanceIdentity(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		incomeOn(50000, NewDate(2025, 1, 10)),
		incomeOn(20000, NewDate(2025, 6, 1)),
		expenseOn("food", 12345, NewDate(2025, 4, 2)),
		expenseOn("fun", 999, NewDate(2024, 12, 31)),
	}
	for _, period := range []ReportPeriod{PeriodCurrentMonth, PeriodLast3Months, PeriodCurrentYear, PeriodAllTime} {
		r := AggregateReport(transactions, nil, period, now)
		if got := r.Totals.TotalIncome.Cents - r.Totals.TotalExpenses.Cents; got != r.Totals.Balance.Cents {
			t.Fatalf("period %s: balance %d != income-expenses %d", period, r.Totals.Balance.Cents, got)
		}
	}
}

func TestAggregateReportPeriodFilters(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		incomeOn(100, NewDate(2025, 6, 10)),  // current month
		incomeOn(200, NewDate(2025, 3, 1)),   // first day of month-3, inside last-3-months
		incomeOn(400, NewDate(2025, 2, 28)),  // before cutoff
		incomeOn(800, NewDate(2024, 11, 30)), // previous year
	}

	cases := []struct {
		period ReportPeriod
		want   int64
	}{
		{PeriodCurrentMonth, 100},
		{PeriodLast3Months, 300},
		{PeriodCurrentYear, 700},
		{PeriodAllTime, 1500},
	}
	for _, tc := range cases {
		t.Run(string(tc.period), func(t *testing.T) {
			r := AggregateReport(transactions, nil, tc.period, now)
			if r.Totals.TotalIncome.Cents != tc.want {
				t.Fatalf("expected income %d, got %d", tc.want, r.Totals.TotalIncome.Cents)
			}
		})
	}
}

func TestCategoryDistributionDropsZeroAndSorts(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	categories := []Category{
		{ID: "food", Name: "Food", Color: "#ef4444"},
		{ID: "fun", Name: "Fun", Color: "#8b5cf6"},
		{ID: "idle", Name: "Idle", Color: "#6b7280"},
	}
	transactions := []Transaction{
		expenseOn("food", 3000, NewDate(2025, 6, 1)),
		expenseOn("fun", 7000, NewDate(2025, 6, 2)),
		incomeOn(99999, NewDate(2025, 6, 3)),
	}

	r := AggregateReport(transactions, categories, PeriodCurrentMonth, now)
	if len(r.CategoryDistribution) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(r.CategoryDistribution))
	}
	if r.CategoryDistribution[0].CategoryID != "fun" || r.CategoryDistribution[1].CategoryID != "food" {
		t.Fatalf("distribution not sorted descending: %+v", r.CategoryDistribution)
	}
	for _, e := range r.CategoryDistribution {
		if e.Amount.Cents <= 0 {
			t.Fatalf("zero-sum entry leaked into distribution: %+v", e)
		}
	}

	if len(r.TopCategories) != 2 {
		t.Fatalf("expected 2 top categories, got %d", len(r.TopCategories))
	}
	if r.TopCategories[0].Share != 70 || r.TopCategories[1].Share != 30 {
		t.Fatalf("unexpected shares: %+v", r.TopCategories)
	}
}

func TestTopCategoriesTruncatesToFive(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	var categories []Category
	var transactions []Transaction
	for i := 0; i < 7; i++ {
		id := string(rune('a' + i))
		categories = append(categories, Category{ID: id, Name: id})
		transactions = append(transactions, expenseOn(id, int64(100*(i+1)), NewDate(2025, 6, 1)))
	}

	r := AggregateReport(transactions, categories, PeriodCurrentMonth, now)
	if len(r.CategoryDistribution) != 7 {
		t.Fatalf("expected full distribution, got %d", len(r.CategoryDistribution))
	}
	if len(r.TopCategories) != 5 {
		t.Fatalf("expected top 5, got %d", len(r.TopCategories))
	}
}

func TestNoShareWhenNoExpenses(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	r := AggregateReport([]Transaction{incomeOn(100, NewDate(2025, 6, 1))}, nil, PeriodCurrentMonth, now)
	if len(r.TopCategories) != 0 {
		t.Fatalf("expected no top categories, got %+v", r.TopCategories)
	}
}

func TestMonthlySeriesAscendingCappedAtSix(t *testing.T) {
	now := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	var transactions []Transaction
	for m := 1; m <= 9; m++ {
		transactions = append(transactions, incomeOn(int64(m*100), NewDate(2025, m, 5)))
		transactions = append(transactions, expenseOn("food", int64(m*10), NewDate(2025, m, 6)))
	}

	r := AggregateReport(transactions, nil, PeriodCurrentYear, now)
	if len(r.MonthlySeries) != 6 {
		t.Fatalf("expected 6 monthly points, got %d", len(r.MonthlySeries))
	}
	if r.MonthlySeries[0].Month != "2025-04" || r.MonthlySeries[5].Month != "2025-09" {
		t.Fatalf("series window wrong: %+v", r.MonthlySeries)
	}
	for i := 1; i < len(r.MonthlySeries); i++ {
		if r.MonthlySeries[i-1].Month >= r.MonthlySeries[i].Month {
			t.Fatalf("series not ascending: %+v", r.MonthlySeries)
		}
	}
	if r.MonthlySeries[0].Income.Cents != 400 || r.MonthlySeries[0].Expenses.Cents != 40 {
		t.Fatalf("unexpected first point: %+v", r.MonthlySeries[0])
	}
}

func TestBalanceSeriesRunningBalanceAndCollapse(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		expenseOn("food", 300, NewDate(2025, 6, 3)),
		incomeOn(1000, NewDate(2025, 6, 1)),
		expenseOn("fun", 200, NewDate(2025, 6, 3)), // same day, collapses
	}

	r := AggregateReport(transactions, nil, PeriodCurrentMonth, now)
	if len(r.BalanceSeries) != 2 {
		t.Fatalf("expected 2 points, got %+v", r.BalanceSeries)
	}
	if r.BalanceSeries[0].Date != "2025-06-01" || r.BalanceSeries[0].Balance.Cents != 1000 {
		t.Fatalf("unexpected first point: %+v", r.BalanceSeries[0])
	}
	// 2025-06-03 keeps only the last running value: 1000 - 300 - 200.
	if r.BalanceSeries[1].Date != "2025-06-03" || r.BalanceSeries[1].Balance.Cents != 500 {
		t.Fatalf("unexpected second point: %+v", r.BalanceSeries[1])
	}
}

func TestBalanceSeriesCappedAtThirtyDates(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	var transactions []Transaction
	for d := 1; d <= 28; d++ {
		transactions = append(transactions, incomeOn(100, NewDate(2025, 1, d)))
		if d <= 14 {
			transactions = append(transactions, incomeOn(100, NewDate(2025, 2, d)))
		}
	}

	r := AggregateReport(transactions, nil, PeriodAllTime, now)
	if len(r.BalanceSeries) != 30 {
		t.Fatalf("expected 30 points, got %d", len(r.BalanceSeries))
	}
	if r.BalanceSeries[0].Date != "2025-01-13" || r.BalanceSeries[29].Date != "2025-02-14" {
		t.Fatalf("window wrong: first %s last %s", r.BalanceSeries[0].Date, r.BalanceSeries[29].Date)
	}
	// Last point carries the full running balance.
	if r.BalanceSeries[29].Balance.Cents != 4200 {
		t.Fatalf("expected final balance 4200, got %d", r.BalanceSeries[29].Balance.Cents)
	}
}

func TestAggregateReportEmptyInput(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	r := AggregateReport(nil, nil, PeriodAllTime, now)
	if r.Totals.Balance.Cents != 0 || len(r.CategoryDistribution) != 0 || len(r.MonthlySeries) != 0 || len(r.BalanceSeries) != 0 {
		t.Fatalf("empty input must yield empty report, got %+v", r)
	}
}

func TestParseReportPeriod(t *testing.T) {
	if p, err := ParseReportPeriod(""); err != nil || p != PeriodCurrentMonth {
		t.Fatalf("empty period should default to current-month, got %v %v", p, err)
	}
	if _, err := ParseReportPeriod("fortnight"); err == nil {
		t.Fatal("expected error for unknown period")
	}
}
