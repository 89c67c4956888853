package store

import (
	"context"
	"sync"

	"realtime_kanban/internal/domain"

	"github.com/google/uuid"
)

var _ TaskStore = (*MemoryStore)(nil)

// MemoryStore keeps tasks in insertion order inside the process.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]domain.Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]domain.Task)}
}

func (s *MemoryStore) List(_ context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out, nil
}

func (s *MemoryStore) Create(_ context.Context, title string, status domain.Status) (domain.Task, error) {
	t := domain.Task{ID: uuid.NewString(), Title: title, Status: status}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	return t, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status domain.Status) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	t.Status = status
	s.tasks[id] = t
	return t, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return nil
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]domain.Task)
	s.order = nil
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
