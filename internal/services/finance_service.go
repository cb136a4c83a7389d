// Package services holds the business rules on top of the storage port. The
// store persists whatever it is given; every invariant is enforced here.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// EventPublisher is the slice of the AMQP client the service needs. Nil-able:
// the API runs without a broker.
type EventPublisher interface {
	PublishEntityEvent(ctx context.Context, event *amqp.EntityEvent) error
}

// FinanceService orchestrates the repository and the event publisher.
type FinanceService struct {
	repo   storage.Repository
	events EventPublisher
	now    func() time.Time
}

func NewFinanceService(repo storage.Repository, events EventPublisher) *FinanceService {
	return &FinanceService{
		repo:   repo,
		events: events,
		now:    time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *FinanceService) WithClock(now func() time.Time) *FinanceService {
	s.now = now
	return s
}

func (s *FinanceService) Close() error {
	var errs []error
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.events.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close finance service: %v", errs)
	}
	return nil
}

// ensureDefaults seeds the fixed category set the first time a user shows up.
func (s *FinanceService) ensureDefaults(ctx context.Context, userID string) error {
	existing, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, c := range core.DefaultCategories() {
		if err := s.repo.UpsertCategory(ctx, userID, c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}
	slog.InfoContext(ctx, "Seeded default categories", "user_id", userID)
	return nil
}

func (s *FinanceService) Categories(ctx context.Context, userID string) ([]core.Category, error) {
	if err := s.ensureDefaults(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx, userID)
}

func (s *FinanceService) CreateCategory(ctx context.Context, userID string, c core.Category) (core.Category, error) {
	if err := s.ensureDefaults(ctx, userID); err != nil {
		return core.Category{}, err
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.checkNameUnique(ctx, userID, c.Name, ""); err != nil {
		return core.Category{}, err
	}
	c.ID = uuid.NewString()
	c.IsDefault = false
	if err := s.repo.UpsertCategory(ctx, userID, c); err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	s.publish(ctx, userID, amqp.KindCategory, c.ID, amqp.ActionCreated)
	return c, nil
}

func (s *FinanceService) UpdateCategory(ctx context.Context, userID string, c core.Category) (core.Category, error) {
	stored, err := s.repo.GetCategory(ctx, userID, c.ID)
	if err != nil {
		return core.Category{}, err
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.checkNameUnique(ctx, userID, c.Name, c.ID); err != nil {
		return core.Category{}, err
	}
	c.IsDefault = stored.IsDefault
	if err := s.repo.UpsertCategory(ctx, userID, c); err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	s.publish(ctx, userID, amqp.KindCategory, c.ID, amqp.ActionUpdated)
	return c, nil
}

// DeleteCategory refuses while any transaction still references the category.
// Spending limits on a deleted category become orphans and are skipped by the
// alert evaluator.
func (s *FinanceService) DeleteCategory(ctx context.Context, userID, id string) error {
	if _, err := s.repo.GetCategory(ctx, userID, id); err != nil {
		return err
	}
	transactions, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	for _, t := range transactions {
		if t.CategoryID == id {
			return &core.ReferentialError{Msg: "category is referenced by transactions"}
		}
	}
	if err := s.repo.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, userID, amqp.KindCategory, id, amqp.ActionDeleted)
	return nil
}

func (s *FinanceService) checkNameUnique(ctx context.Context, userID, name, excludeID string) error {
	existing, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, c := range existing {
		if c.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(c.Name)) == want {
			return core.Invalid("a category with this name already exists")
		}
	}
	return nil
}

func (s *FinanceService) Transactions(ctx context.Context, userID string, filter core.TransactionFilter) ([]core.Transaction, error) {
	all, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.FilterTransactions(all, filter), nil
}

func (s *FinanceService) CreateTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	if err := s.ensureDefaults(ctx, userID); err != nil {
		return core.Transaction{}, err
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.resolveCategory(ctx, userID, t.CategoryID); err != nil {
		return core.Transaction{}, err
	}
	t.ID = uuid.NewString()
	t.UserID = userID
	t.CreatedAt = s.now()
	if err := s.repo.UpsertTransaction(ctx, userID, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.publish(ctx, userID, amqp.KindTransaction, t.ID, amqp.ActionCreated)
	return t, nil
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	stored, err := s.repo.GetTransaction(ctx, userID, t.ID)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.resolveCategory(ctx, userID, t.CategoryID); err != nil {
		return core.Transaction{}, err
	}
	t.UserID = userID
	t.CreatedAt = stored.CreatedAt
	if err := s.repo.UpsertTransaction(ctx, userID, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.publish(ctx, userID, amqp.KindTransaction, t.ID, amqp.ActionUpdated)
	return t, nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, userID, amqp.KindTransaction, id, amqp.ActionDeleted)
	return nil
}

func (s *FinanceService) resolveCategory(ctx context.Context, userID, categoryID string) error {
	_, err := s.repo.GetCategory(ctx, userID, categoryID)
	if errors.Is(err, core.ErrNotFound) {
		return core.Invalid("unknown category")
	}
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}
	return nil
}

func (s *FinanceService) Goals(ctx context.Context, userID string) ([]core.Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

func (s *FinanceService) CreateGoal(ctx context.Context, userID string, g core.Goal) (core.Goal, error) {
	if g.Status == "" {
		g.Status = core.GoalActive
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	g.ID = uuid.NewString()
	g.UserID = userID
	g.CreatedAt = s.now()
	if err := s.repo.UpsertGoal(ctx, userID, g); err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	s.publish(ctx, userID, amqp.KindGoal, g.ID, amqp.ActionCreated)
	return g, nil
}

func (s *FinanceService) UpdateGoal(ctx context.Context, userID string, g core.Goal) (core.Goal, error) {
	stored, err := s.repo.GetGoal(ctx, userID, g.ID)
	if err != nil {
		return core.Goal{}, err
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	g.UserID = userID
	g.CreatedAt = stored.CreatedAt
	if err := s.repo.UpsertGoal(ctx, userID, g); err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	s.publish(ctx, userID, amqp.KindGoal, g.ID, amqp.ActionUpdated)
	return g, nil
}

func (s *FinanceService) DeleteGoal(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteGoal(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, userID, amqp.KindGoal, id, amqp.ActionDeleted)
	return nil
}

// ToggleGoal flips a goal between active and completed. Completing snaps the
// saved amount to the target; the stored goal is not re-validated, so a goal
// whose progress drifted stays toggleable.
func (s *FinanceService) ToggleGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	g, err := s.repo.GetGoal(ctx, userID, id)
	if err != nil {
		return core.Goal{}, err
	}
	switch g.Status {
	case core.GoalActive:
		g.Status = core.GoalCompleted
		g.CurrentAmount = g.TargetAmount
	case core.GoalCompleted:
		g.Status = core.GoalActive
	default:
		return core.Goal{}, core.Invalid("only active or completed goals can be toggled")
	}
	if err := s.repo.UpsertGoal(ctx, userID, g); err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	s.publish(ctx, userID, amqp.KindGoal, id, amqp.ActionUpdated)
	return g, nil
}

func (s *FinanceService) Limits(ctx context.Context, userID string) ([]core.SpendingLimit, error) {
	return s.repo.ListLimits(ctx, userID)
}

func (s *FinanceService) CreateLimit(ctx context.Context, userID string, l core.SpendingLimit) (core.SpendingLimit, error) {
	if err := s.ensureDefaults(ctx, userID); err != nil {
		return core.SpendingLimit{}, err
	}
	if err := l.Validate(); err != nil {
		return core.SpendingLimit{}, err
	}
	if err := s.resolveCategory(ctx, userID, l.CategoryID); err != nil {
		return core.SpendingLimit{}, err
	}
	if err := s.checkLimitUnique(ctx, userID, l.CategoryID, l.Period, ""); err != nil {
		return core.SpendingLimit{}, err
	}
	l.ID = uuid.NewString()
	l.UserID = userID
	l.CreatedAt = s.now()
	if err := s.repo.UpsertLimit(ctx, userID, l); err != nil {
		return core.SpendingLimit{}, fmt.Errorf("save limit: %w", err)
	}
	s.publish(ctx, userID, amqp.KindLimit, l.ID, amqp.ActionCreated)
	return l, nil
}

func (s *FinanceService) UpdateLimit(ctx context.Context, userID string, l core.SpendingLimit) (core.SpendingLimit, error) {
	stored, err := s.repo.GetLimit(ctx, userID, l.ID)
	if err != nil {
		return core.SpendingLimit{}, err
	}
	if err := l.Validate(); err != nil {
		return core.SpendingLimit{}, err
	}
	if err := s.resolveCategory(ctx, userID, l.CategoryID); err != nil {
		return core.SpendingLimit{}, err
	}
	if err := s.checkLimitUnique(ctx, userID, l.CategoryID, l.Period, l.ID); err != nil {
		return core.SpendingLimit{}, err
	}
	l.UserID = userID
	l.CreatedAt = stored.CreatedAt
	if err := s.repo.UpsertLimit(ctx, userID, l); err != nil {
		return core.SpendingLimit{}, fmt.Errorf("save limit: %w", err)
	}
	s.publish(ctx, userID, amqp.KindLimit, l.ID, amqp.ActionUpdated)
	return l, nil
}

func (s *FinanceService) DeleteLimit(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteLimit(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, userID, amqp.KindLimit, id, amqp.ActionDeleted)
	return nil
}

func (s *FinanceService) checkLimitUnique(ctx context.Context, userID, categoryID string, period core.Period, excludeID string) error {
	existing, err := s.repo.ListLimits(ctx, userID)
	if err != nil {
		return fmt.Errorf("list limits: %w", err)
	}
	for _, l := range existing {
		if l.ID == excludeID {
			continue
		}
		if l.CategoryID == categoryID && l.Period == period {
			return core.Invalid("a limit for this category and period already exists")
		}
	}
	return nil
}

// Alerts evaluates spending limits on demand. Results are never cached.
func (s *FinanceService) Alerts(ctx context.Context, userID string) ([]core.Alert, error) {
	if err := s.ensureDefaults(ctx, userID); err != nil {
		return nil, err
	}
	limits, err := s.repo.ListLimits(ctx, userID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.EvaluateAlerts(limits, transactions, categories, s.now()), nil
}

func (s *FinanceService) Report(ctx context.Context, userID string, period core.ReportPeriod) (core.Report, error) {
	if err := s.ensureDefaults(ctx, userID); err != nil {
		return core.Report{}, err
	}
	transactions, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return core.Report{}, err
	}
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return core.Report{}, err
	}
	return core.AggregateReport(transactions, categories, period, s.now()), nil
}

// Dashboard is the landing-page payload: headline totals, the five most
// recent transactions and the current alerts.
type Dashboard struct {
	Summary core.Summary       `json:"summary"`
	Recent  []core.Transaction `json:"recentTransactions"`
	Alerts  []core.Alert       `json:"alerts"`
}

func (s *FinanceService) DashboardView(ctx context.Context, userID string) (Dashboard, error) {
	if err := s.ensureDefaults(ctx, userID); err != nil {
		return Dashboard{}, err
	}
	transactions, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	limits, err := s.repo.ListLimits(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	now := s.now()
	return Dashboard{
		Summary: core.Summarize(transactions, now),
		Recent:  core.RecentTransactions(transactions, 5),
		Alerts:  core.EvaluateAlerts(limits, transactions, categories, now),
	}, nil
}

// publish sends a change event. Failures are logged and swallowed: the write
// already succeeded and the worker sweeps pending rows as backup.
func (s *FinanceService) publish(ctx context.Context, userID string, kind amqp.EntityKind, id string, action amqp.EventAction) {
	if s.events == nil {
		return
	}
	event := amqp.NewEntityEvent(userID, kind, id, action)
	if err := s.events.PublishEntityEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entity event",
			"user_id", userID, "kind", kind, "entity_id", id, "error", err)
	}
}
