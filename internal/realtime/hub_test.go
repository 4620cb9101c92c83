package realtime

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/zeeverify/backend/internal/models"
)

func testHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		broadcast:  make(chan models.ScoreUpdate, 10),
		register:   make(chan *Client, 1),
		unregister: make(chan *Client, 1),
		logger:     slog.Default(),
	}
}

func TestPublishRoutesByBrandFilter(t *testing.T) {
	h := testHub()

	brandA := uuid.New()
	brandB := uuid.New()

	all := &Client{id: uuid.New(), send: make(chan []byte, 4)}
	onlyA := &Client{id: uuid.New(), send: make(chan []byte, 4), brandID: &brandA}
	onlyB := &Client{id: uuid.New(), send: make(chan []byte, 4), brandID: &brandB}

	h.clients[all.id] = all
	h.clients[onlyA.id] = onlyA
	h.clients[onlyB.id] = onlyB

	h.Publish(models.ScoreUpdate{BrandID: brandA, ZScore: 3.75, TotalReviews: 12})

	for _, c := range []*Client{all, onlyA} {
		select {
		case data := <-c.send:
			var got models.ScoreUpdate
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("failed to decode update: %v", err)
			}
			if got.BrandID != brandA || got.ZScore != 3.75 {
				t.Fatalf("unexpected update: %+v", got)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timed out waiting for score update")
		}
	}

	select {
	case <-onlyB.send:
		t.Fatal("client filtered to another brand received the update")
	default:
	}
}

func TestPublishDropsSlowSubscriber(t *testing.T) {
	h := testHub()

	slow := &Client{id: uuid.New(), send: make(chan []byte)}
	h.clients[slow.id] = slow

	h.Publish(models.ScoreUpdate{BrandID: uuid.New()})

	if h.SubscriberCount() != 0 {
		t.Fatalf("expected slow subscriber to be dropped, have %d", h.SubscriberCount())
	}
}
