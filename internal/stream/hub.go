// Package stream fans out analysis lifecycle events to websocket
// subscribers. Events also pass through redis pub/sub so subscribers on
// other instances receive them.
package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

// Client is one websocket subscriber, keyed by the route whose analyses it
// watches.
type Client struct {
	RouteID string
	Send    chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(routeID string) *Client {
	client := &Client{
		RouteID: routeID,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[routeID] == nil {
		h.clients[routeID] = map[*Client]struct{}{}
	}
	h.clients[routeID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if routeClients, ok := h.clients[client.RouteID]; ok {
		delete(routeClients, client)
		if len(routeClients) == 0 {
			delete(h.clients, client.RouteID)
		}
	}
	close(client.Send)
}

// Broadcast delivers a payload to every subscriber of the route. With redis
// attached the event goes through pub/sub only; the pattern subscription
// loops it back to local clients, so instances with and without a direct
// connection to the publisher see the same stream. Without redis (and as a
// fallback when the publish fails) delivery is local.
func (h *Hub) Broadcast(routeID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(routeID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}

	h.deliver(routeID, payload)
}

func (h *Hub) deliver(routeID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[routeID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "analysis:*:broadcast")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(routeIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(routeID string) string {
	return "analysis:" + routeID + ":broadcast"
}

func routeIDFromChannel(ch string) string {
	// analysis:{route}:broadcast
	const prefix = "analysis:"
	const suffix = ":broadcast"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
