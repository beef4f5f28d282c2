package stream

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("trip-1")
	defer hub.Unregister(client)

	hub.Broadcast("trip-1", Event{Type: EventInsert, Table: "spots", Record: map[string]string{"id": "spot-1"}})

	select {
	case msg := <-client.Send:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != EventInsert || ev.Table != "spots" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestHubBroadcastNoSubscribers(t *testing.T) {
	hub := NewHub(nil)
	// no topic exists for this trip; must not panic or block
	hub.Broadcast("trip-empty", Event{Type: EventDelete, Table: "trips"})
}

func TestHubIsolatesTopics(t *testing.T) {
	hub := NewHub(nil)
	a := hub.Register("trip-a")
	b := hub.Register("trip-b")
	defer hub.Unregister(a)
	defer hub.Unregister(b)

	hub.Broadcast("trip-a", Event{Type: EventUpdate, Table: "trips"})

	select {
	case <-a.Send:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("subscriber of trip-a should receive")
	}

	select {
	case <-b.Send:
		t.Fatalf("subscriber of trip-b should not receive")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("trip-2")
	hub.Unregister(client)
	if _, ok := <-client.Send; ok {
		t.Fatalf("expected channel closed")
	}

	// second call is a no-op, not a double close
	hub.Unregister(client)
}

func TestHubSlowSubscriberDropped(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("trip-slow")
	defer hub.Unregister(client)

	for i := 0; i < cap(client.Send)+10; i++ {
		hub.Broadcast("trip-slow", Event{Type: EventInsert, Table: "spots"})
	}
	// overflow is dropped, not blocking the broadcaster
	if len(client.Send) != cap(client.Send) {
		t.Fatalf("expected full buffer, got %d", len(client.Send))
	}
}

func TestHubRedisRelay(t *testing.T) {
	s := miniredis.RunT(t)
	a := redis.NewClient(&redis.Options{Addr: s.Addr()})
	b := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer a.Close()
	defer b.Close()

	hubA := NewHub(a)
	hubB := NewHub(b)

	local := hubA.Register("trip-1")
	remote := hubB.Register("trip-1")
	defer hubA.Unregister(local)
	defer hubB.Unregister(remote)

	// give both relays time to subscribe
	time.Sleep(50 * time.Millisecond)

	hubA.Broadcast("trip-1", Event{Type: EventInsert, Table: "trips", Record: map[string]string{"id": "trip-1"}})

	select {
	case <-local.Send:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for local delivery")
	}

	select {
	case msg := <-remote.Send:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("unmarshal relayed event: %v", err)
		}
		if ev.Table != "trips" {
			t.Fatalf("unexpected relayed event: %+v", ev)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for relayed delivery")
	}

	// the publisher's own relay must not deliver a duplicate
	select {
	case <-local.Send:
		t.Fatalf("publisher received its own relayed copy")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubRedisPublishError(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	sub := hub.Register("trip-bad")
	defer hub.Unregister(sub)

	// publish failure is logged, local delivery still happens
	hub.Broadcast("trip-bad", Event{Type: EventInsert, Table: "spots"})

	select {
	case <-sub.Send:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("local delivery should survive redis failure")
	}
}

func TestTopicChannelHelpers(t *testing.T) {
	if topicChannel("abc") != "trip:abc" {
		t.Fatalf("unexpected channel name")
	}
	if tripIDFromChannel("trip:abc") != "abc" {
		t.Fatalf("unexpected trip id")
	}
}

func TestHubBroadcastDuringChurn(t *testing.T) {
	hub := NewHub(nil)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			client := hub.Register("trip-churn")
			hub.Unregister(client)
		}
	}()

	for i := 0; i < 500; i++ {
		hub.Broadcast("trip-churn", Event{Type: EventUpdate, Table: "spots"})
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for churn goroutine")
	}
}
