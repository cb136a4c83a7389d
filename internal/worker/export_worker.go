// Package worker consumes entity events and keeps the external sheet in step
// with storage. It also watches spending limits and logs breaches.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets"
	"fintrack/internal/storage"
)

// SyncRepository is the storage slice the worker needs: full reads plus the
// pending-sync bookkeeping.
type SyncRepository interface {
	storage.Repository
	storage.SyncStore
}

// ExportWorker exports transactions to Google Sheets and re-evaluates alerts
// after expense-affecting changes.
type ExportWorker struct {
	repo      SyncRepository
	appender  sheets.TransactionAppender
	batchSize int
	now       func() time.Time
}

func NewExportWorker(repo SyncRepository, appender sheets.TransactionAppender, batchSize int) *ExportWorker {
	return &ExportWorker{
		repo:      repo,
		appender:  appender,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// HandleEvent processes one entity event. Transaction creations and updates
// are exported; every expense-affecting event triggers an alert check.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.EntityEvent) error {
	slog.InfoContext(ctx, "Processing entity event",
		"user_id", event.UserID,
		"kind", event.Kind,
		"entity_id", event.ID,
		"action", event.Action)

	if event.Kind == amqp.KindTransaction && event.Action != amqp.ActionDeleted {
		if err := w.exportTransaction(ctx, event.UserID, event.ID); err != nil {
			return err
		}
	}

	switch event.Kind {
	case amqp.KindTransaction, amqp.KindLimit, amqp.KindCategory:
		w.checkAlerts(ctx, event.UserID)
	}

	return nil
}

// exportTransaction looks the row up and appends it to the sheet. A row that
// disappeared between event and processing is treated as done.
func (w *ExportWorker) exportTransaction(ctx context.Context, userID, id string) error {
	t, err := w.repo.GetTransaction(ctx, userID, id)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Transaction vanished before export",
			"user_id", userID, "entity_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	if w.appender == nil {
		slog.WarnContext(ctx, "No sheet appender configured, skipping export",
			"entity_id", id)
		return nil
	}

	categoryName := ""
	if c, err := w.repo.GetCategory(ctx, userID, t.CategoryID); err == nil {
		categoryName = c.Name
	}

	ref, err := w.appender.AppendTransaction(ctx, t, categoryName)
	if err != nil {
		if markErr := w.repo.MarkSyncError(ctx, userID, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"entity_id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.repo.MarkSynced(ctx, userID, id); err != nil {
		// The export itself worked; the sweep will retry the bookkeeping.
		slog.ErrorContext(ctx, "Failed to mark as synced",
			"entity_id", id, "error", err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"user_id", userID,
		"entity_id", id,
		"sheets_ref", ref,
		"amount_cents", t.Amount.Cents)

	return nil
}

// ProcessPending sweeps rows still marked pending. Backup for lost events.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.repo.PendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.UserID, p.TransactionID); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction",
				"user_id", p.UserID, "entity_id", p.TransactionID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains a larger pending batch once at startup, recovering
// from worker downtime.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.repo.PendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup", "count", len(pending))

	synced, failed := 0, 0
	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.UserID, p.TransactionID); err != nil {
			slog.ErrorContext(ctx, "Failed to export during startup sync",
				"user_id", p.UserID, "entity_id", p.TransactionID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending), "synced", synced, "errors", failed)

	return nil
}

// checkAlerts re-evaluates the user's limits and logs breaches. Warnings at
// warn level, exceeded limits at error level. Failures here never fail the
// event: alerting is advisory.
func (w *ExportWorker) checkAlerts(ctx context.Context, userID string) {
	limits, err := w.repo.ListLimits(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list limits for alert check",
			"user_id", userID, "error", err)
		return
	}
	if len(limits) == 0 {
		return
	}
	transactions, err := w.repo.ListTransactions(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list transactions for alert check",
			"user_id", userID, "error", err)
		return
	}
	categories, err := w.repo.ListCategories(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list categories for alert check",
			"user_id", userID, "error", err)
		return
	}

	for _, a := range core.EvaluateAlerts(limits, transactions, categories, w.now()) {
		level := slog.LevelWarn
		if a.Severity == core.SeverityDanger {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "Spending limit breached",
			"user_id", userID,
			"category", a.CategoryName,
			"period", string(a.Period),
			"percentage", a.Percentage,
			"severity", string(a.Severity))
	}
}
