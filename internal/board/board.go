// Package board is the client-side view model of the kanban board: a local
// ordered task list seeded by one full fetch and kept current by broadcast
// events and optimistic local edits.
package board

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"realtime_kanban/internal/domain"
	"realtime_kanban/internal/logger"
)

// API is the subset of the server the board calls.
type API interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, title string, status domain.Status) (domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ClearBoard(ctx context.Context) error
}

// Board serializes event application and user actions behind one mutex, so
// the only nondeterminism is arrival order. Both the add and the update path
// tolerate the same change arriving twice (HTTP response and broadcast echo).
type Board struct {
	api      API
	log      *slog.Logger
	onChange func()

	mu    sync.Mutex
	tasks []domain.Task
}

type Option func(*Board)

// WithLogger sets where client-side failures are logged.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.log = l }
}

// OnChange registers fn to run after every change to the local list.
// fn runs without the board lock held.
func OnChange(fn func()) Option {
	return func(b *Board) { b.onChange = fn }
}

func New(api API, opts ...Option) *Board {
	b := &Board{api: api, log: logger.Get()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the local list with the server's.
func (b *Board) Load(ctx context.Context) error {
	tasks, err := b.api.ListTasks(ctx)
	if err != nil {
		b.log.Error("error loading tasks", "error", err)
		return err
	}
	b.update(func() bool {
		b.tasks = slices.Clone(tasks)
		return true
	})
	return nil
}

// Apply folds one broadcast event into the local list.
func (b *Board) Apply(ev domain.Event) {
	switch ev.Type {
	case domain.EventTaskAdded:
		t, err := ev.Task()
		if err != nil || t == nil {
			b.log.Warn("ignoring taskAdded event", "error", err)
			return
		}
		b.update(func() bool { return b.insertLocked(*t) })

	case domain.EventTaskUpdated:
		t, err := ev.Task()
		if err != nil {
			b.log.Warn("ignoring taskUpdated event", "error", err)
			return
		}
		if t == nil {
			return
		}
		b.update(func() bool {
			i := b.indexLocked(t.ID)
			if i < 0 {
				return false
			}
			b.tasks[i] = *t
			return true
		})

	case domain.EventTaskDeleted:
		id, err := ev.TaskID()
		if err != nil {
			b.log.Warn("ignoring taskDeleted event", "error", err)
			return
		}
		b.update(func() bool { return b.removeLocked(id) })

	case domain.EventBoardCleared:
		b.update(func() bool {
			b.tasks = nil
			return true
		})

	default:
		b.log.Debug("ignoring unknown event", "type", ev.Type)
	}
}

// Follow applies events until the channel closes or ctx is done.
func (b *Board) Follow(ctx context.Context, events <-chan domain.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.Apply(ev)
		}
	}
}

// Add creates a task in the given column and inserts the server's record
// unless the broadcast already did. Blank titles are ignored.
func (b *Board) Add(ctx context.Context, status domain.Status, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	t, err := b.api.CreateTask(ctx, title, status)
	if err != nil {
		b.log.Error("error adding task", "error", err)
		return err
	}
	b.update(func() bool { return b.insertLocked(t) })
	return nil
}

// Move sets the task's column locally first, then tells the server. The
// request is sent even when the column is unchanged, like a drop within the
// same column. A failed request is not rolled back; the list stays divergent
// until the next Load.
func (b *Board) Move(ctx context.Context, id string, status domain.Status) error {
	b.update(func() bool {
		i := b.indexLocked(id)
		if i < 0 || b.tasks[i].Status == status {
			return false
		}
		b.tasks[i].Status = status
		return true
	})

	if _, err := b.api.UpdateStatus(ctx, id, status); err != nil {
		b.log.Error("error updating status", "task_id", id, "error", err)
		return err
	}
	return nil
}

// Delete removes the task locally once the server confirms.
func (b *Board) Delete(ctx context.Context, id string) error {
	if err := b.api.DeleteTask(ctx, id); err != nil {
		b.log.Error("error deleting task", "task_id", id, "error", err)
		return err
	}
	b.update(func() bool { return b.removeLocked(id) })
	return nil
}

// Clear empties the board once the server confirms.
func (b *Board) Clear(ctx context.Context) error {
	if err := b.api.ClearBoard(ctx); err != nil {
		b.log.Error("error clearing board", "error", err)
		return err
	}
	b.update(func() bool {
		b.tasks = nil
		return true
	})
	return nil
}

// Tasks returns a copy of the local list in order.
func (b *Board) Tasks() []domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.tasks)
}

// update runs fn under the lock and fires onChange if fn reports a change.
func (b *Board) update(fn func() bool) {
	b.mu.Lock()
	changed := fn()
	b.mu.Unlock()

	if changed && b.onChange != nil {
		b.onChange()
	}
}

func (b *Board) indexLocked(id string) int {
	return slices.IndexFunc(b.tasks, func(t domain.Task) bool { return t.ID == id })
}

func (b *Board) insertLocked(t domain.Task) bool {
	if b.indexLocked(t.ID) >= 0 {
		return false
	}
	b.tasks = append(b.tasks, t)
	return true
}

func (b *Board) removeLocked(id string) bool {
	i := b.indexLocked(id)
	if i < 0 {
		return false
	}
	b.tasks = slices.Delete(b.tasks, i, i+1)
	return true
}
