package core

import (
	"context"
	"testing"
	"time"
)

func startHub(t *testing.T, opts Options) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(opts, nil)
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func connect(t *testing.T, hub *Hub, connID, userID, name string) *Client {
	t.Helper()

	c := NewClient(connID, Identity{UserID: userID, DisplayName: name}, 512)
	if err := hub.RegisterClient(c); err != nil {
		t.Fatalf("register %s: %v", connID, err)
	}
	return c
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// drain discards everything currently buffered for the client.
func drain(c *Client) {
	for {
		select {
		case <-c.Events:
		default:
			return
		}
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func join(t *testing.T, hub *Hub, c *Client, room string) *Event {
	t.Helper()

	settle(hub)
	drain(c)
	c.Commands <- &Command{Kind: CommandJoinRoom, Room: room}
	ev := mustEvent(t, c.Events, EventHistory)
	settle(hub)
	return ev
}

func leave(t *testing.T, hub *Hub, c *Client, room string) {
	t.Helper()

	settle(hub)
	drain(c)
	c.Commands <- &Command{Kind: CommandLeaveRoom, Room: room}
	mustEvent(t, c.Events, EventRoomList)
	settle(hub)
}

// settle blocks until the hub has finished every request submitted so far.
// Unregistering a client the hub never saw is a no-op that still round-trips the inbox.
func settle(hub *Hub) {
	hub.UnregisterClient(NewClient("settle", Identity{}, 1))
}
