package core

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		incomeOn(100000, NewDate(2025, 6, 1)),
		expenseOn("food", 25000, NewDate(2025, 6, 5)),
		incomeOn(50000, NewDate(2025, 5, 1)),  // counts in balance only
		expenseOn("fun", 10000, NewDate(2024, 6, 5)), // same month last year
	}

	s := Summarize(transactions, now)
	if s.Balance.Cents != 115000 {
		t.Fatalf("expected balance 115000, got %d", s.Balance.Cents)
	}
	if s.MonthIncome.Cents != 100000 {
		t.Fatalf("expected month income 100000, got %d", s.MonthIncome.Cents)
	}
	if s.MonthExpenses.Cents != 25000 {
		t.Fatalf("expected month expenses 25000, got %d", s.MonthExpenses.Cents)
	}
}

func TestRecentTransactions(t *testing.T) {
	transactions := []Transaction{
		expenseOn("a", 100, NewDate(2025, 6, 1)),
		expenseOn("b", 100, NewDate(2025, 6, 9)),
		expenseOn("c", 100, NewDate(2025, 6, 5)),
		expenseOn("d", 100, NewDate(2025, 6, 9)), // same date as b, keeps input order
	}

	recent := RecentTransactions(transactions, 3)
	if len(recent) != 3 {
		t.Fatalf("expected 3, got %d", len(recent))
	}
	if recent[0].CategoryID != "b" || recent[1].CategoryID != "d" || recent[2].CategoryID != "c" {
		t.Fatalf("unexpected order: %s %s %s", recent[0].CategoryID, recent[1].CategoryID, recent[2].CategoryID)
	}
	if transactions[0].CategoryID != "a" {
		t.Fatal("input slice was reordered")
	}
}

func TestFilterTransactions(t *testing.T) {
	transactions := []Transaction{
		expenseOn("food", 100, NewDate(2025, 6, 1)),
		incomeOn(200, NewDate(2025, 6, 2)),
		expenseOn("fun", 300, NewDate(2025, 6, 3)),
	}
	transactions[0].Description = "Mercado da esquina"
	transactions[2].Description = "Cinema"

	byType := FilterTransactions(transactions, TransactionFilter{Type: Expense})
	if len(byType) != 2 || byType[0].CategoryID != "fun" {
		t.Fatalf("type filter wrong: %+v", byType)
	}

	byCategory := FilterTransactions(transactions, TransactionFilter{CategoryID: "food"})
	if len(byCategory) != 1 || byCategory[0].Description != "Mercado da esquina" {
		t.Fatalf("category filter wrong: %+v", byCategory)
	}

	bySearch := FilterTransactions(transactions, TransactionFilter{Search: "MERCADO"})
	if len(bySearch) != 1 {
		t.Fatalf("search should be case-insensitive: %+v", bySearch)
	}

	all := FilterTransactions(transactions, TransactionFilter{})
	if len(all) != 3 || all[0].CategoryID != "fun" {
		t.Fatalf("empty filter should return all newest first: %+v", all)
	}
}
