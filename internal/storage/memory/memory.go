// Package memory implements the storage port with in-process maps. It backs
// tests and the memory backend of the server; lists preserve insertion order
// just like the SQLite backend.
package memory

import (
	"context"
	"sync"

	"fintrack/internal/core"
)

type Store struct {
	mu           sync.Mutex
	categories   map[string]*bucket[core.Category]
	transactions map[string]*bucket[core.Transaction]
	goals        map[string]*bucket[core.Goal]
	limits       map[string]*bucket[core.SpendingLimit]
}

// bucket keeps one user's entities with stable insertion order.
type bucket[T any] struct {
	order []string
	items map[string]T
}

func newBucket[T any]() *bucket[T] {
	return &bucket[T]{items: make(map[string]T)}
}

func (b *bucket[T]) list() []T {
	out := make([]T, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.items[id])
	}
	return out
}

func (b *bucket[T]) upsert(id string, v T) {
	if _, ok := b.items[id]; !ok {
		b.order = append(b.order, id)
	}
	b.items[id] = v
}

func (b *bucket[T]) delete(id string) bool {
	if _, ok := b.items[id]; !ok {
		return false
	}
	delete(b.items, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

func New() *Store {
	return &Store{
		categories:   make(map[string]*bucket[core.Category]),
		transactions: make(map[string]*bucket[core.Transaction]),
		goals:        make(map[string]*bucket[core.Goal]),
		limits:       make(map[string]*bucket[core.SpendingLimit]),
	}
}

func (s *Store) Close() error { return nil }

func userBucket[T any](m map[string]*bucket[T], userID string) *bucket[T] {
	b, ok := m[userID]
	if !ok {
		b = newBucket[T]()
		m[userID] = b
	}
	return b
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return userBucket(s.categories, userID).list(), nil
}

func (s *Store) GetCategory(_ context.Context, userID, id string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := userBucket(s.categories, userID).items[id]
	if !ok {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (s *Store) UpsertCategory(_ context.Context, userID string, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	userBucket(s.categories, userID).upsert(c.ID, c)
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !userBucket(s.categories, userID).delete(id) {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return userBucket(s.transactions, userID).list(), nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := userBucket(s.transactions, userID).items[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (s *Store) UpsertTransaction(_ context.Context, userID string, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	userBucket(s.transactions, userID).upsert(t.ID, t)
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !userBucket(s.transactions, userID).delete(id) {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return userBucket(s.goals, userID).list(), nil
}

func (s *Store) GetGoal(_ context.Context, userID, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := userBucket(s.goals, userID).items[id]
	if !ok {
		return core.Goal{}, core.ErrNotFound
	}
	return g, nil
}

func (s *Store) UpsertGoal(_ context.Context, userID string, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	userBucket(s.goals, userID).upsert(g.ID, g)
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !userBucket(s.goals, userID).delete(id) {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ListLimits(_ context.Context, userID string) ([]core.SpendingLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return userBucket(s.limits, userID).list(), nil
}

func (s *Store) GetLimit(_ context.Context, userID, id string) (core.SpendingLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := userBucket(s.limits, userID).items[id]
	if !ok {
		return core.SpendingLimit{}, core.ErrNotFound
	}
	return l, nil
}

func (s *Store) UpsertLimit(_ context.Context, userID string, l core.SpendingLimit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	userBucket(s.limits, userID).upsert(l.ID, l)
	return nil
}

func (s *Store) DeleteLimit(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !userBucket(s.limits, userID).delete(id) {
		return core.ErrNotFound
	}
	return nil
}
