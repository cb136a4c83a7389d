package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

// syncRepo wraps the memory store with in-process sync bookkeeping.
type syncRepo struct {
	*memory.Store
	mu      sync.Mutex
	pending []storage.PendingSync
	status  map[string]string
}

func newSyncRepo() *syncRepo {
	return &syncRepo{Store: memory.New(), status: make(map[string]string)}
}

func (r *syncRepo) addPending(userID, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, storage.PendingSync{UserID: userID, TransactionID: id, CreatedAt: time.Now()})
}

func (r *syncRepo) PendingSyncTransactions(_ context.Context, limit int) ([]storage.PendingSync, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	if len(out) > limit {
		out = out[:limit]
	}
	return append([]storage.PendingSync(nil), out...), nil
}

func (r *syncRepo) MarkSynced(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[userID+"/"+id] = "synced"
	return nil
}

func (r *syncRepo) MarkSyncError(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[userID+"/"+id] = "error"
	return nil
}

type fakeAppender struct {
	mu   sync.Mutex
	rows []core.Transaction
	fail bool
}

func (a *fakeAppender) AppendTransaction(_ context.Context, t core.Transaction, _ string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return "", errors.New("sheets unavailable")
	}
	a.rows = append(a.rows, t)
	return "Transactions!A2:G2", nil
}

func seedTransaction(t *testing.T, repo *syncRepo, userID, id string) core.Transaction {
	t.Helper()
	tx := core.Transaction{
		ID:          id,
		UserID:      userID,
		Type:        core.Expense,
		Description: "mercado",
		Amount:      core.Money{Cents: 5000},
		Date:        core.NewDate(2025, 6, 10),
		CategoryID:  "1",
	}
	if err := repo.UpsertTransaction(context.Background(), userID, tx); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return tx
}

func TestHandleEventExportsTransaction(t *testing.T) {
	repo := newSyncRepo()
	appender := &fakeAppender{}
	w := NewExportWorker(repo, appender, 10)
	ctx := context.Background()

	seedTransaction(t, repo, "u1", "t1")

	event := amqp.NewEntityEvent("u1", amqp.KindTransaction, "t1", amqp.ActionCreated)
	if err := w.HandleEvent(ctx, event); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	if len(appender.rows) != 1 || appender.rows[0].ID != "t1" {
		t.Fatalf("expected one exported row, got %+v", appender.rows)
	}
	if repo.status["u1/t1"] != "synced" {
		t.Fatalf("expected synced status, got %q", repo.status["u1/t1"])
	}
}

func TestHandleEventAppendFailureMarksError(t *testing.T) {
	repo := newSyncRepo()
	appender := &fakeAppender{fail: true}
	w := NewExportWorker(repo, appender, 10)
	ctx := context.Background()

	seedTransaction(t, repo, "u1", "t1")

	event := amqp.NewEntityEvent("u1", amqp.KindTransaction, "t1", amqp.ActionCreated)
	if err := w.HandleEvent(ctx, event); err == nil {
		t.Fatal("expected error so the delivery is requeued")
	}
	if repo.status["u1/t1"] != "error" {
		t.Fatalf("expected error status, got %q", repo.status["u1/t1"])
	}
}

func TestHandleEventMissingTransactionIsDone(t *testing.T) {
	repo := newSyncRepo()
	w := NewExportWorker(repo, &fakeAppender{}, 10)

	event := amqp.NewEntityEvent("u1", amqp.KindTransaction, "ghost", amqp.ActionUpdated)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("vanished transaction must not requeue: %v", err)
	}
}

func TestHandleEventDeletionSkipsExport(t *testing.T) {
	repo := newSyncRepo()
	appender := &fakeAppender{}
	w := NewExportWorker(repo, appender, 10)

	event := amqp.NewEntityEvent("u1", amqp.KindTransaction, "t1", amqp.ActionDeleted)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(appender.rows) != 0 {
		t.Fatalf("deletion must not export rows, got %+v", appender.rows)
	}
}

func TestProcessPendingSweep(t *testing.T) {
	repo := newSyncRepo()
	appender := &fakeAppender{}
	w := NewExportWorker(repo, appender, 10)
	ctx := context.Background()

	seedTransaction(t, repo, "u1", "t1")
	seedTransaction(t, repo, "u2", "t2")
	repo.addPending("u1", "t1")
	repo.addPending("u2", "t2")

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(appender.rows) != 2 {
		t.Fatalf("expected 2 exported rows, got %d", len(appender.rows))
	}
	if repo.status["u1/t1"] != "synced" || repo.status["u2/t2"] != "synced" {
		t.Fatalf("expected both synced, got %+v", repo.status)
	}
}

func TestProcessPendingRespectsBatchSize(t *testing.T) {
	repo := newSyncRepo()
	appender := &fakeAppender{}
	w := NewExportWorker(repo, appender, 1)
	ctx := context.Background()

	seedTransaction(t, repo, "u1", "t1")
	seedTransaction(t, repo, "u1", "t2")
	repo.addPending("u1", "t1")
	repo.addPending("u1", "t2")

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(appender.rows) != 1 {
		t.Fatalf("expected batch of 1, got %d", len(appender.rows))
	}
}

func TestHandleEventWithoutAppender(t *testing.T) {
	repo := newSyncRepo()
	w := NewExportWorker(repo, nil, 10)
	seedTransaction(t, repo, "u1", "t1")

	event := amqp.NewEntityEvent("u1", amqp.KindTransaction, "t1", amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("missing appender must not fail the event: %v", err)
	}
}
