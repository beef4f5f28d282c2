package stream

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans mutation events out to every socket subscribed to a trip.
// Topics are created lazily on first subscribe and vanish when the last
// subscriber leaves. With a redis client attached, events are also relayed
// to peer instances over pub/sub channels named trip:{tripId}.
type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	TripID string
	Send   chan []byte
}

// envelope wraps a relayed payload with the publishing hub's identity so
// an instance can skip messages it already delivered locally.
type envelope struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.relay()
	}
	return h
}

func (h *Hub) Register(tripID string) *Client {
	client := &Client{
		TripID: tripID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[tripID] == nil {
		h.clients[tripID] = map[*Client]struct{}{}
	}
	h.clients[tripID][client] = struct{}{}
	return client
}

// Unregister is idempotent; a second call for the same client is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.clients[client.TripID]
	if !ok {
		return
	}
	if _, ok := subs[client]; !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.clients, client.TripID)
	}
	close(client.Send)
}

// Broadcast delivers the event to every local subscriber of the trip and
// relays it to peer instances. Fire-and-forget: it never blocks the caller
// and a topic with zero subscribers is a no-op.
func (h *Hub) Broadcast(tripID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("stream: marshal event: %v", err)
		return
	}

	h.deliver(tripID, payload)

	if h.redis != nil {
		msg, _ := json.Marshal(envelope{Origin: h.id, Payload: payload})
		if err := h.redis.Publish(context.Background(), topicChannel(tripID), msg).Err(); err != nil {
			log.Printf("stream: redis publish: %v", err)
		}
	}
}

// deliver holds the read lock across the sends so Unregister cannot close
// a channel mid-iteration. The sends never block, so the hold is bounded.
func (h *Hub) deliver(tripID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[tripID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) relay() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "trip:*")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			continue
		}
		if env.Origin == h.id {
			continue
		}
		h.deliver(tripIDFromChannel(msg.Channel), env.Payload)
	}
}

func topicChannel(tripID string) string {
	return "trip:" + tripID
}

func tripIDFromChannel(ch string) string {
	return strings.TrimPrefix(ch, "trip:")
}
