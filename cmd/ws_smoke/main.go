package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"realtime_kanban/internal/client"
	"realtime_kanban/internal/domain"
)

// ws_smoke connects two websocket clients to a running server, creates and
// deletes a task over REST and checks both clients saw both events.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "5001"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := fmt.Sprintf("http://127.0.0.1:%s", port)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	api, err := client.New(base)
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	// A speaks the raw wire protocol, B goes through the client package.
	connA, _, err := websocket.DefaultDialer.DialContext(ctx, fmt.Sprintf("ws://127.0.0.1:%s/ws", port), nil)
	if err != nil {
		log.Fatalf("dial A: %v", err)
	}
	defer connA.Close()

	subB, err := api.Subscribe(ctx)
	if err != nil {
		log.Fatalf("dial B: %v", err)
	}
	defer subB.Close()

	task, err := api.CreateTask(ctx, "ws smoke "+time.Now().Format(time.RFC3339), domain.StatusTodo)
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	if err := api.DeleteTask(ctx, task.ID); err != nil {
		log.Fatalf("delete: %v", err)
	}

	want := []domain.EventType{domain.EventTaskAdded, domain.EventTaskDeleted}

	readRaw := func(conn *websocket.Conn, name string) {
		for _, typ := range want {
			conn.SetReadDeadline(time.Now().Add(3 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Fatalf("%s read error: %v", name, err)
			}
			var ev domain.Event
			if err := json.Unmarshal(msg, &ev); err != nil {
				log.Fatalf("%s bad frame %s: %v", name, msg, err)
			}
			if ev.Type != typ {
				log.Fatalf("%s got %s, want %s", name, ev.Type, typ)
			}
			log.Printf("%s got: %s", name, string(msg))
		}
	}

	readSub := func(sub *client.Subscription, name string) {
		for _, typ := range want {
			select {
			case ev, ok := <-sub.Events():
				if !ok {
					log.Fatalf("%s stream closed: %v", name, sub.Err())
				}
				if ev.Type != typ {
					log.Fatalf("%s got %s, want %s", name, ev.Type, typ)
				}
				log.Printf("%s got: %s %s", name, ev.Type, string(ev.Payload))
			case <-time.After(3 * time.Second):
				log.Fatalf("%s timed out waiting for %s", name, typ)
			}
		}
	}

	readRaw(connA, "A")
	readSub(subB, "B")

	log.Println("smoke test finished")
}
