package storage

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// Repository is the persistence port. Every method is scoped to a single
// user; implementations return core.ErrNotFound when an id does not exist
// for that user. No business rules live here, only storage.
type Repository interface {
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
	GetCategory(ctx context.Context, userID, id string) (core.Category, error)
	UpsertCategory(ctx context.Context, userID string, c core.Category) error
	DeleteCategory(ctx context.Context, userID, id string) error

	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
	UpsertTransaction(ctx context.Context, userID string, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error

	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	GetGoal(ctx context.Context, userID, id string) (core.Goal, error)
	UpsertGoal(ctx context.Context, userID string, g core.Goal) error
	DeleteGoal(ctx context.Context, userID, id string) error

	ListLimits(ctx context.Context, userID string) ([]core.SpendingLimit, error)
	GetLimit(ctx context.Context, userID, id string) (core.SpendingLimit, error)
	UpsertLimit(ctx context.Context, userID string, l core.SpendingLimit) error
	DeleteLimit(ctx context.Context, userID, id string) error

	Close() error
}

// SyncStore is implemented by backends that track which transactions still
// need to be exported. The in-memory backend does not implement it.
type SyncStore interface {
	PendingSyncTransactions(ctx context.Context, limit int) ([]PendingSync, error)
	MarkSynced(ctx context.Context, userID, id string) error
	MarkSyncError(ctx context.Context, userID, id string) error
}

// PendingSync identifies a transaction waiting for export.
type PendingSync struct {
	UserID        string
	TransactionID string
	CreatedAt     time.Time
}
