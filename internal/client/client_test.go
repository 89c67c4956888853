package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"realtime_kanban/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesURL(t *testing.T) {
	_, err := New("ftp://example.com")
	require.Error(t, err)

	c, err := New("https://board.example.com/kanban/")
	require.NoError(t, err)
	assert.Equal(t, "wss://board.example.com/kanban/ws", c.wsURL())
}

func TestRESTCalls(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b, _ := json.Marshal(body)
		gotBody = string(b)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`[{"id":"1","title":"a","status":"todo"}]`))
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"2","title":"b","status":"done"}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/tasks/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Task not found"}`))
		case r.Method == http.MethodPut:
			_, _ = w.Write([]byte(`{"id":"1","title":"a","status":"in-progress"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/tasks":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Failed to clear board"}`))
		default:
			_, _ = w.Write([]byte(`{"message":"Task deleted successfully"}`))
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Task{{ID: "1", Title: "a", Status: domain.StatusTodo}}, tasks)

	created, err := c.CreateTask(ctx, "b", domain.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, "2", created.ID)
	assert.JSONEq(t, `{"title":"b","status":"done"}`, gotBody)

	updated, err := c.UpdateStatus(ctx, "1", domain.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.Equal(t, "/api/tasks/1", gotPath)

	_, err = c.UpdateStatus(ctx, "missing", domain.StatusDone)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, c.DeleteTask(ctx, "1"))
	assert.Equal(t, http.MethodDelete, gotMethod)

	err = c.ClearBoard(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Failed to clear board", apiErr.Message)
}

func TestSubscribeStreamsEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"taskDeleted","payload":"abc"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`garbage`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"boardCleared"}`))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	sub, err := c.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	var got []domain.EventType
	for ev := range sub.Events() {
		got = append(got, ev.Type)
	}
	assert.Equal(t, []domain.EventType{domain.EventTaskDeleted, domain.EventBoardCleared}, got)
	assert.NoError(t, sub.Err())
}

func TestCloseReleasesUndrainedSubscription(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for i := 0; i < 80; i++ {
			frame := fmt.Sprintf(`{"type":"taskDeleted","payload":"t%d"}`, i)
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		// hold the connection until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := c.Subscribe(ctx)
	require.NoError(t, err)

	// nobody drains; the reader fills the buffer and has more to deliver
	require.Eventually(t, func() bool { return len(sub.Events()) == cap(sub.Events()) },
		2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, sub.Close())

	n := 0
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				assert.LessOrEqual(t, n, 80)
				assert.NoError(t, sub.Err())
				return
			}
			n++
		case <-timeout:
			t.Fatalf("events channel still open after Close; reader is stuck")
		}
	}
}
