package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Inbound messages are tiny JSON commands.
	maxMessageSize = 1024
	sendBufferSize = 64
)

// Client is one WebSocket connection. The connection ID is minted at
// upgrade time and never reused; roomCode and playerID are set once the
// client joins or reconnects.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	connID   string
	roomCode string
	playerID string
}

// readPump feeds inbound messages to the hub until the connection
// drops, then triggers the disconnect bookkeeping.
func (c *Client) readPump() {
	defer func() {
		c.hub.dropClient(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.log.Debug("malformed message",
				zap.String("conn", c.connID),
				zap.Error(err),
			)
			c.sendEvent(Event{Type: EventError, Message: "malformed message"})
			continue
		}
		c.hub.handleMessage(c, msg)
	}
}

// writePump drains the send channel onto the wire. Closing the channel
// closes the connection.
func (c *Client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// sendEvent queues an event for delivery. A client too slow to drain
// its buffer loses events rather than stalling the room.
func (c *Client) sendEvent(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		c.hub.log.Error("encoding event", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
		c.hub.log.Warn("dropping event for slow client",
			zap.String("conn", c.connID),
			zap.String("event", ev.Type),
		)
	}
}
