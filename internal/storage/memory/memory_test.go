package memory

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
)

func TestCategoryCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpsertCategory(ctx, "u1", core.Category{ID: "c1", Name: "Mercado"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertCategory(ctx, "u1", core.Category{ID: "c2", Name: "Lazer"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c1" || got[1].ID != "c2" {
		t.Fatalf("insertion order lost: %+v", got)
	}

	// Update keeps position.
	if err := s.UpsertCategory(ctx, "u1", core.Category{ID: "c1", Name: "Supermercado"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.ListCategories(ctx, "u1")
	if got[0].Name != "Supermercado" {
		t.Fatalf("update lost: %+v", got[0])
	}

	if err := s.DeleteCategory(ctx, "u1", "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteCategory(ctx, "u1", "c1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetCategory(ctx, "u1", "c1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpsertTransaction(ctx, "alice", core.Transaction{ID: "t1", Description: "lunch"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := s.GetTransaction(ctx, "bob", "t1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected other user's lookup to miss, got %v", err)
	}
	bobs, err := s.ListTransactions(ctx, "bob")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bobs) != 0 {
		t.Fatalf("expected empty list for bob, got %+v", bobs)
	}
	if err := s.DeleteTransaction(ctx, "bob", "t1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-user delete, got %v", err)
	}
	if _, err := s.GetTransaction(ctx, "alice", "t1"); err != nil {
		t.Fatalf("alice's transaction should survive: %v", err)
	}
}

func TestGoalAndLimitRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	g := core.Goal{ID: "g1", Title: "viagem", TargetAmount: core.Money{Cents: 500000}, Status: core.GoalActive}
	if err := s.UpsertGoal(ctx, "u1", g); err != nil {
		t.Fatalf("upsert goal: %v", err)
	}
	stored, err := s.GetGoal(ctx, "u1", "g1")
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if stored.Title != "viagem" || stored.TargetAmount.Cents != 500000 {
		t.Fatalf("goal round trip lost data: %+v", stored)
	}

	l := core.SpendingLimit{ID: "l1", CategoryID: "c1", LimitAmount: core.Money{Cents: 30000}, Period: core.Monthly}
	if err := s.UpsertLimit(ctx, "u1", l); err != nil {
		t.Fatalf("upsert limit: %v", err)
	}
	limits, err := s.ListLimits(ctx, "u1")
	if err != nil {
		t.Fatalf("list limits: %v", err)
	}
	if len(limits) != 1 || limits[0].Period != core.Monthly {
		t.Fatalf("limit round trip lost data: %+v", limits)
	}
}
