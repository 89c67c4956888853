package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"realtime_kanban/internal/domain"
	"realtime_kanban/internal/store"
)

var ErrInvalidTitle = errors.New("task title must not be empty")

// Publisher delivers a board event to every connected client.
type Publisher interface {
	Publish(ev domain.Event)
}

// TaskService applies board mutations to the store and announces each
// successful one with exactly one event. The origin client is not excluded.
type TaskService struct {
	store  store.TaskStore
	events Publisher
	log    *slog.Logger
}

func NewTaskService(s store.TaskStore, events Publisher, log *slog.Logger) *TaskService {
	return &TaskService{store: s, events: events, log: log}
}

func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, title string, status domain.Status) (domain.Task, error) {
	if strings.TrimSpace(title) == "" {
		return domain.Task{}, ErrInvalidTitle
	}
	if !status.Valid() {
		return domain.Task{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	task, err := s.store.Create(ctx, title, status)
	if err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}

	s.log.Debug("task created", "task_id", task.ID, "status", task.Status)
	s.events.Publish(domain.NewTaskAdded(task))
	return task, nil
}

// UpdateStatus moves a task to another column. A missing id returns
// store.ErrNotFound and publishes nothing.
func (s *TaskService) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error) {
	if !status.Valid() {
		return domain.Task{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	task, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}

	s.log.Debug("task updated", "task_id", task.ID, "status", task.Status)
	s.events.Publish(domain.NewTaskUpdated(task))
	return task, nil
}

// Delete removes one task. Unknown ids succeed and are still announced.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}

	s.log.Debug("task deleted", "task_id", id)
	s.events.Publish(domain.NewTaskDeleted(id))
	return nil
}

func (s *TaskService) DeleteAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear board: %w", err)
	}

	s.log.Debug("board cleared")
	s.events.Publish(domain.NewBoardCleared())
	return nil
}

// Ready reports whether the store answers.
func (s *TaskService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
