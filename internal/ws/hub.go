package ws

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jules19/canadian-salad/internal/config"
	"github.com/jules19/canadian-salad/internal/game"
	"github.com/jules19/canadian-salad/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Room codes gate access; the origin carries no trust.
		return true
	},
}

// Hub tracks live connections and translates wire messages into
// registry and game operations. All game mutation happens inside the
// store and room; the hub only routes and fans out views.
type Hub struct {
	store *store.MemoryStore
	cfg   *config.ServerConfig
	log   *zap.Logger

	mu      sync.RWMutex
	clients map[string]*Client // by connection ID
}

// NewHub creates a hub over the given registry.
func NewHub(st *store.MemoryStore, cfg *config.ServerConfig, log *zap.Logger) *Hub {
	return &Hub{
		store:   st,
		cfg:     cfg,
		log:     log,
		clients: make(map[string]*Client),
	}
}

// ServeWS upgrades an HTTP request and starts the connection's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		connID: uuid.NewString(),
	}

	h.mu.Lock()
	h.clients[client.connID] = client
	h.mu.Unlock()
	h.log.Info("client connected", zap.String("conn", client.connID))

	go client.writePump()
	go client.readPump()
}

func (h *Hub) handleMessage(c *Client, msg Message) {
	switch msg.Type {
	case MsgJoinRoom:
		h.handleJoin(c, msg)
	case MsgReconnect:
		h.handleReconnect(c, msg)
	case MsgStartGame:
		h.handleStart(c)
	case MsgPlayCard:
		h.handlePlay(c, msg)
	case MsgNextRound:
		h.handleNextRound(c)
	default:
		c.sendEvent(Event{Type: EventError, Message: "unknown message type"})
	}
}

// handleJoin creates a room when no code is given, otherwise joins the
// existing one.
func (h *Hub) handleJoin(c *Client, msg Message) {
	name := strings.TrimSpace(msg.Name)
	if name == "" {
		c.sendEvent(Event{Type: EventError, Message: "a player name is required"})
		return
	}

	var room *game.Room
	var err error
	if msg.RoomCode == "" {
		room, err = h.store.CreateRoom(c.connID, name)
	} else {
		room, err = h.store.JoinRoom(msg.RoomCode, c.connID, name)
	}
	if err != nil {
		c.sendEvent(Event{Type: EventError, Message: err.Error()})
		return
	}

	player := room.PlayerByConn(c.connID)
	c.roomCode = room.Code
	c.playerID = player.ID

	c.sendEvent(Event{Type: EventJoined, RoomCode: room.Code, PlayerID: player.ID})
	h.broadcastState(room)
}

// handleReconnect rebinds a seat to this connection using the stable
// player ID from a previous session.
func (h *Hub) handleReconnect(c *Client, msg Message) {
	room, player := h.store.Reconnect(msg.RoomCode, msg.PlayerID, c.connID)
	if room == nil {
		c.sendEvent(Event{Type: EventError, Message: store.ErrRoomNotFound.Error()})
		return
	}

	c.roomCode = room.Code
	c.playerID = player.ID

	c.sendEvent(Event{Type: EventJoined, RoomCode: room.Code, PlayerID: player.ID})
	h.broadcastState(room)
}

func (h *Hub) handleStart(c *Client) {
	room := h.store.GetRoom(c.roomCode)
	if room == nil {
		c.sendEvent(Event{Type: EventError, Message: store.ErrRoomNotFound.Error()})
		return
	}
	if room.HostID != c.playerID {
		c.sendEvent(Event{Type: EventError, Message: "only the host can start the game"})
		return
	}
	if _, err := h.store.StartGame(c.roomCode); err != nil {
		c.sendEvent(Event{Type: EventError, Message: err.Error()})
		return
	}
	h.broadcastState(room)
}

func (h *Hub) handlePlay(c *Client, msg Message) {
	card, err := game.ParseCard(msg.Card)
	if err != nil {
		c.sendEvent(Event{Type: EventError, Message: err.Error()})
		return
	}

	room := h.store.GetRoom(c.roomCode)
	if room == nil {
		c.sendEvent(Event{Type: EventError, Message: store.ErrRoomNotFound.Error()})
		return
	}

	if err := room.PlayCard(c.playerID, card); err != nil {
		c.sendEvent(Event{Type: EventError, Message: err.Error()})
		return
	}

	h.broadcastState(room)
	if room.CurrentStatus() == game.StatusFinished {
		h.broadcastGameOver(room)
	}
}

func (h *Hub) handleNextRound(c *Client) {
	room, err := h.store.NextRound(c.roomCode)
	if err != nil {
		c.sendEvent(Event{Type: EventError, Message: err.Error()})
		return
	}

	h.broadcastState(room)
	if room.CurrentStatus() == game.StatusFinished {
		h.broadcastGameOver(room)
	}
}

// dropClient runs when a connection closes: flag the player
// disconnected, tell the room, and start the grace clock that will
// eventually free the seat.
func (h *Hub) dropClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.connID]; ok {
		delete(h.clients, c.connID)
		close(c.send)
	}
	h.mu.Unlock()
	h.log.Info("client disconnected", zap.String("conn", c.connID))

	if c.roomCode == "" {
		return
	}

	h.store.SetConnected(c.roomCode, c.playerID, false)
	if room := h.store.GetRoom(c.roomCode); room != nil {
		h.broadcastState(room)
	}

	roomCode := c.roomCode
	time.AfterFunc(h.cfg.Game.DisconnectGrace, func() {
		removed := h.store.ExpireDisconnected(roomCode)
		if len(removed) == 0 {
			return
		}
		room := h.store.GetRoom(roomCode)
		if room == nil {
			return
		}
		h.broadcastState(room)
		h.broadcastEvent(room, Event{
			Type:     EventPlayersRemoved,
			RoomCode: roomCode,
			Removed:  removed,
		})
		if room.CurrentStatus() == game.StatusFinished {
			h.broadcastGameOver(room)
		}
	})
}

// broadcastState pushes each seated player their own filtered view.
// Opponent hands never leave the server; ViewFor is the chokepoint.
func (h *Hub) broadcastState(room *game.Room) {
	for _, seat := range room.Seats() {
		if client := h.clientByConn(seat.ConnID); client != nil {
			view := room.ViewFor(seat.PlayerID)
			client.sendEvent(Event{Type: EventState, RoomCode: room.Code, State: &view})
		}
	}
}

func (h *Hub) broadcastGameOver(room *game.Room) {
	over := room.GameOver()
	h.broadcastEvent(room, Event{Type: EventGameOver, RoomCode: room.Code, GameOver: &over})
}

func (h *Hub) broadcastEvent(room *game.Room, ev Event) {
	for _, seat := range room.Seats() {
		if client := h.clientByConn(seat.ConnID); client != nil {
			client.sendEvent(ev)
		}
	}
}

func (h *Hub) clientByConn(connID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[connID]
}
