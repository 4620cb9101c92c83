package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/zeeverify/backend/internal/cache"
	"github.com/zeeverify/backend/internal/models"
)

// Hub fans brand score updates out to connected subscribers. Updates
// arrive over Redis pub/sub so every server instance sees recomputes
// performed by any of them.
type Hub struct {
	// Connected subscribers keyed by connection ID
	clients map[uuid.UUID]*Client

	broadcast  chan models.ScoreUpdate
	register   chan *Client
	unregister chan *Client

	redis  *cache.RedisClient
	logger *slog.Logger

	mu sync.RWMutex
}

func NewHub(redis *cache.RedisClient, logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		broadcast:  make(chan models.ScoreUpdate, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		redis:      redis,
		logger:     logger,
	}
}

// Run starts the hub loop. It blocks, so call it in its own goroutine.
func (h *Hub) Run() {
	go h.subscribeToScores()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			h.logger.Debug("score feed client connected", "client_id", client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("score feed client disconnected", "client_id", client.id)

		case update := <-h.broadcast:
			h.Publish(update)
		}
	}
}

// Publish delivers one score update to every subscriber watching the
// brand (or watching all brands). Slow subscribers are dropped rather
// than allowed to stall the feed.
func (h *Hub) Publish(update models.ScoreUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		h.logger.Error("failed to encode score update", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		if !client.wants(update.BrandID) {
			continue
		}
		select {
		case client.send <- data:
		default:
			delete(h.clients, id)
			close(client.send)
		}
	}
}

// SubscriberCount returns the number of connected subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) subscribeToScores() {
	pubsub := h.redis.SubscribeToScores()
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var update models.ScoreUpdate
		if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
			h.logger.Warn("dropping malformed score update", "error", err)
			continue
		}
		h.broadcast <- update
	}
}
