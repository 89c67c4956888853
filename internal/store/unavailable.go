package store

import (
	"context"
	"fmt"

	"realtime_kanban/internal/domain"
)

var _ TaskStore = unavailableStore{}

// unavailableStore stands in for a backend that could not be opened at
// startup. Every call fails with the original cause.
type unavailableStore struct {
	cause error
}

// Unavailable returns a store whose operations all fail with cause.
func Unavailable(cause error) TaskStore {
	return unavailableStore{cause: cause}
}

func (u unavailableStore) err() error {
	return fmt.Errorf("task store unavailable: %w", u.cause)
}

func (u unavailableStore) List(context.Context) ([]domain.Task, error) { return nil, u.err() }

func (u unavailableStore) Create(context.Context, string, domain.Status) (domain.Task, error) {
	return domain.Task{}, u.err()
}

func (u unavailableStore) UpdateStatus(context.Context, string, domain.Status) (domain.Task, error) {
	return domain.Task{}, u.err()
}

func (u unavailableStore) Delete(context.Context, string) error { return u.err() }
func (u unavailableStore) DeleteAll(context.Context) error      { return u.err() }
func (u unavailableStore) Ping(context.Context) error           { return u.err() }
func (u unavailableStore) Close() error                         { return nil }
