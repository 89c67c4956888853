package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"realtime_kanban/internal/domain"

	"github.com/gorilla/websocket"
)

// Subscription streams broadcast events from one websocket connection.
// There is no reconnect; Events closes when the connection ends.
type Subscription struct {
	conn   *websocket.Conn
	events chan domain.Event
	done   chan struct{} // closed by Close
	ended  chan struct{} // closed when read returns
	once   sync.Once
	mu     sync.Mutex
	closed bool
	err    error
}

// Subscribe connects to the realtime channel. Cancelling ctx closes it.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.wsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.wsURL(), err)
	}

	s := &Subscription{
		conn:   conn,
		events: make(chan domain.Event, 64),
		done:   make(chan struct{}),
		ended:  make(chan struct{}),
	}
	go s.read()
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		case <-s.ended:
		}
	}()
	return s, nil
}

// Events yields events in arrival order. After Close the reader stops
// delivering; already buffered events stay readable until the channel closes.
func (s *Subscription) Events() <-chan domain.Event {
	return s.events
}

// Err reports why the stream ended, nil after a normal Close.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = s.conn.Close()
	})
	return err
}

func (s *Subscription) read() {
	defer close(s.ended)
	defer close(s.events)

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			if !s.closed && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.err = err
			}
			s.mu.Unlock()
			return
		}

		var ev domain.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			continue
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}
