package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists all entities in a single SQLite file. Lists come
// back in insertion order (rowid), which the service layer relies on for
// stable output.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, icon, is_default FROM categories WHERE user_id = ? ORDER BY rowid`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.IsDefault); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color, icon, is_default FROM categories WHERE user_id = ? AND id = ?`,
		userID, id).Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.IsDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpsertCategory(ctx context.Context, userID string, c core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, id, name, color, icon, is_default)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, id) DO UPDATE SET
		   name = excluded.name, color = excluded.color,
		   icon = excluded.icon, is_default = excluded.is_default`,
		userID, c.ID, c.Name, c.Color, c.Icon, c.IsDefault)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id string) error {
	return r.deleteRow(ctx, "categories", userID, id)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, description, amount_cents, date, category_id,
		        payment_method, is_recurring, recurrence_frequency, created_at
		 FROM transactions WHERE user_id = ? ORDER BY rowid`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, type, description, amount_cents, date, category_id,
		        payment_method, is_recurring, recurrence_frequency, created_at
		 FROM transactions WHERE user_id = ? AND id = ?`,
		userID, id)
	t, err := scanTransaction(row, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, err
}

func (r *SQLiteRepository) UpsertTransaction(ctx context.Context, userID string, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, id, type, description, amount_cents, date,
		                           category_id, payment_method, is_recurring,
		                           recurrence_frequency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, id) DO UPDATE SET
		   type = excluded.type, description = excluded.description,
		   amount_cents = excluded.amount_cents, date = excluded.date,
		   category_id = excluded.category_id, payment_method = excluded.payment_method,
		   is_recurring = excluded.is_recurring,
		   recurrence_frequency = excluded.recurrence_frequency,
		   sync_status = 'pending'`,
		userID, t.ID, string(t.Type), t.Description, t.Amount.Cents, t.Date.String(),
		t.CategoryID, t.PaymentMethod, t.IsRecurring, string(t.RecurrenceFrequency), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	return r.deleteRow(ctx, "transactions", userID, id)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, target_cents, current_cents,
		        start_date, end_date, category_id, status, created_at
		 FROM goals WHERE user_id = ? ORDER BY rowid`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, target_cents, current_cents,
		        start_date, end_date, category_id, status, created_at
		 FROM goals WHERE user_id = ? AND id = ?`,
		userID, id)
	g, err := scanGoal(row, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	return g, err
}

func (r *SQLiteRepository) UpsertGoal(ctx context.Context, userID string, g core.Goal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, id, title, description, target_cents, current_cents,
		                    start_date, end_date, category_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, id) DO UPDATE SET
		   title = excluded.title, description = excluded.description,
		   target_cents = excluded.target_cents, current_cents = excluded.current_cents,
		   start_date = excluded.start_date, end_date = excluded.end_date,
		   category_id = excluded.category_id, status = excluded.status`,
		userID, g.ID, g.Title, g.Description, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		g.StartDate.String(), g.EndDate.String(), g.CategoryID, string(g.Status), g.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id string) error {
	return r.deleteRow(ctx, "goals", userID, id)
}

func (r *SQLiteRepository) ListLimits(ctx context.Context, userID string) ([]core.SpendingLimit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category_id, limit_cents, period, created_at
		 FROM spending_limits WHERE user_id = ? ORDER BY rowid`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list limits: %w", err)
	}
	defer rows.Close()

	var out []core.SpendingLimit
	for rows.Next() {
		var l core.SpendingLimit
		var period string
		if err := rows.Scan(&l.ID, &l.CategoryID, &l.LimitAmount.Cents, &period, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan limit: %w", err)
		}
		l.UserID = userID
		l.Period = core.Period(period)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetLimit(ctx context.Context, userID, id string) (core.SpendingLimit, error) {
	var l core.SpendingLimit
	var period string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, category_id, limit_cents, period, created_at
		 FROM spending_limits WHERE user_id = ? AND id = ?`,
		userID, id).Scan(&l.ID, &l.CategoryID, &l.LimitAmount.Cents, &period, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SpendingLimit{}, core.ErrNotFound
	}
	if err != nil {
		return core.SpendingLimit{}, fmt.Errorf("get limit: %w", err)
	}
	l.UserID = userID
	l.Period = core.Period(period)
	return l, nil
}

func (r *SQLiteRepository) UpsertLimit(ctx context.Context, userID string, l core.SpendingLimit) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO spending_limits (user_id, id, category_id, limit_cents, period, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, id) DO UPDATE SET
		   category_id = excluded.category_id, limit_cents = excluded.limit_cents,
		   period = excluded.period`,
		userID, l.ID, l.CategoryID, l.LimitAmount.Cents, string(l.Period), l.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert limit: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteLimit(ctx context.Context, userID, id string) error {
	return r.deleteRow(ctx, "spending_limits", userID, id)
}

// PendingSyncTransactions implements SyncStore.
func (r *SQLiteRepository) PendingSyncTransactions(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, id, created_at FROM transactions
		 WHERE sync_status = 'pending' ORDER BY created_at LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingSync
	for rows.Next() {
		var p PendingSync
		if err := rows.Scan(&p.UserID, &p.TransactionID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, userID, id string) error {
	return r.setSyncStatus(ctx, userID, id, "synced")
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, userID, id string) error {
	return r.setSyncStatus(ctx, userID, id, "error")
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, userID, id, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE user_id = ? AND id = ?`,
		status, userID, id)
	if err != nil {
		return fmt.Errorf("set sync status: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) deleteRow(ctx context.Context, table, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner, userID string) (core.Transaction, error) {
	var t core.Transaction
	var typ, date, freq string
	if err := row.Scan(&t.ID, &typ, &t.Description, &t.Amount.Cents, &date,
		&t.CategoryID, &t.PaymentMethod, &t.IsRecurring, &freq, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.UserID = userID
	t.Type = core.TransactionType(typ)
	t.RecurrenceFrequency = core.Period(freq)
	parsed, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	t.Date = parsed
	return t, nil
}

func scanGoal(row rowScanner, userID string) (core.Goal, error) {
	var g core.Goal
	var start, end, status string
	if err := row.Scan(&g.ID, &g.Title, &g.Description, &g.TargetAmount.Cents,
		&g.CurrentAmount.Cents, &start, &end, &g.CategoryID, &status, &g.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Goal{}, err
		}
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	g.UserID = userID
	g.Status = core.GoalStatus(status)
	startDate, err := core.ParseDate(start)
	if err != nil {
		return core.Goal{}, fmt.Errorf("parse stored start date %q: %w", start, err)
	}
	endDate, err := core.ParseDate(end)
	if err != nil {
		return core.Goal{}, fmt.Errorf("parse stored end date %q: %w", end, err)
	}
	g.StartDate, g.EndDate = startDate, endDate
	return g, nil
}
