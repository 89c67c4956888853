package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"realtime_kanban/internal/domain"
	"realtime_kanban/internal/logger"
	"realtime_kanban/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(ev domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// failingStore fails every call with err.
type failingStore struct {
	store.TaskStore
	err error
}

func (f failingStore) List(context.Context) ([]domain.Task, error) { return nil, f.err }
func (f failingStore) Create(context.Context, string, domain.Status) (domain.Task, error) {
	return domain.Task{}, f.err
}
func (f failingStore) UpdateStatus(context.Context, string, domain.Status) (domain.Task, error) {
	return domain.Task{}, f.err
}
func (f failingStore) Delete(context.Context, string) error { return f.err }
func (f failingStore) DeleteAll(context.Context) error      { return f.err }

func newService(t *testing.T) (*TaskService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return NewTaskService(store.NewMemoryStore(), pub, logger.Discard()), pub
}

func TestCreatePublishesTaskAdded(t *testing.T) {
	svc, pub := newService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "Write spec", domain.StatusTodo)
	require.NoError(t, err)
	assert.Equal(t, "Write spec", task.Title)
	assert.Equal(t, domain.StatusTodo, task.Status)

	require.Equal(t, []domain.EventType{domain.EventTaskAdded}, pub.types())
	got, err := pub.events[0].Task()
	require.NoError(t, err)
	assert.Equal(t, task, *got)
}

func TestCreateKeepsTitleAsGiven(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "  Write spec  ", domain.StatusTodo)
	require.NoError(t, err)
	assert.Equal(t, "  Write spec  ", task.Title)

	tasks, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "  Write spec  ", tasks[0].Title)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, pub := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "   ", domain.StatusTodo)
	assert.True(t, errors.Is(err, ErrInvalidTitle))

	_, err = svc.Create(ctx, "x", domain.Status("archived"))
	assert.True(t, errors.Is(err, domain.ErrInvalidStatus))

	_, err = svc.Create(ctx, "x", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidStatus))

	assert.Empty(t, pub.types())
}

func TestUpdateStatus(t *testing.T) {
	svc, pub := newService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "Write spec", domain.StatusTodo)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, task.ID, domain.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, updated.Status)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusDone, list[0].Status)

	require.Equal(t, []domain.EventType{domain.EventTaskAdded, domain.EventTaskUpdated}, pub.types())
	ev, err := pub.events[1].Task()
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, ev.Status)
}

func TestUpdateStatusMissingIDPublishesNothing(t *testing.T) {
	svc, pub := newService(t)

	_, err := svc.UpdateStatus(context.Background(), "missing", domain.StatusDone)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Empty(t, pub.types())
}

func TestDeleteIsRepeatable(t *testing.T) {
	svc, pub := newService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "temp", domain.StatusInProgress)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, task.ID))
	require.NoError(t, svc.Delete(ctx, task.ID))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.Equal(t, []domain.EventType{domain.EventTaskAdded, domain.EventTaskDeleted, domain.EventTaskDeleted}, pub.types())
	id, err := pub.events[2].TaskID()
	require.NoError(t, err)
	assert.Equal(t, task.ID, id)
}

func TestDeleteAll(t *testing.T) {
	svc, pub := newService(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b"} {
		_, err := svc.Create(ctx, title, domain.StatusTodo)
		require.NoError(t, err)
	}
	require.NoError(t, svc.DeleteAll(ctx))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.Equal(t, domain.EventBoardCleared, pub.types()[2])
}

func TestStoreFailuresPublishNothing(t *testing.T) {
	boom := errors.New("connection refused")
	pub := &recordingPublisher{}
	svc := NewTaskService(failingStore{err: boom}, pub, logger.Discard())
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.True(t, errors.Is(err, boom))
	_, err = svc.Create(ctx, "x", domain.StatusTodo)
	assert.True(t, errors.Is(err, boom))
	_, err = svc.UpdateStatus(ctx, "id", domain.StatusTodo)
	assert.True(t, errors.Is(err, boom))
	assert.True(t, errors.Is(svc.Delete(ctx, "id"), boom))
	assert.True(t, errors.Is(svc.DeleteAll(ctx), boom))

	assert.Empty(t, pub.types())
}
