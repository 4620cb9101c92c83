package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Subscribers only send small control frames
	maxMessageSize = 1024
)

// Client is one websocket subscriber on the score feed. A client with a
// nil brand filter receives every brand's updates.
type Client struct {
	id   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	brandID *uuid.UUID
}

func NewClient(hub *Hub, conn *websocket.Conn, brandID *uuid.UUID) *Client {
	return &Client{
		id:      uuid.New(),
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 16),
		brandID: brandID,
	}
}

func (c *Client) wants(brandID uuid.UUID) bool {
	return c.brandID == nil || *c.brandID == brandID
}

// subscribeFrame is the only inbound message a client may send, to
// narrow or widen its brand filter after connecting.
type subscribeFrame struct {
	BrandID *uuid.UUID `json:"brand_id"`
}

// ReadPump consumes control frames until the connection closes.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame subscribeFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}

		c.hub.mu.Lock()
		c.brandID = frame.BrandID
		c.hub.mu.Unlock()
	}
}

// WritePump pushes score updates and keepalive pings to the peer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
