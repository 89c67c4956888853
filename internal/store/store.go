// Package store persists board tasks. Every backend generates the task id
// and treats each call as a single-document atomic operation.
package store

import (
	"context"
	"errors"

	"realtime_kanban/internal/domain"
)

var ErrNotFound = errors.New("task not found")

// TaskStore is the durable record of tasks keyed by id.
type TaskStore interface {
	List(ctx context.Context) ([]domain.Task, error)
	// Create assigns a new id and returns the stored record.
	Create(ctx context.Context, title string, status domain.Status) (domain.Task, error)
	// UpdateStatus returns ErrNotFound when no task has the id.
	UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error)
	// Delete succeeds for ids that do not exist.
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
