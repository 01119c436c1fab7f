package store

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jules19/canadian-salad/internal/config"
	"github.com/jules19/canadian-salad/internal/game"
)

// Room codes come from a restricted alphabet with the easily-confused
// glyphs (O, 0, 1) removed: 33 characters.
const codeAlphabet = "ABCDEFGHIJKLMNPQRSTUVWXYZ23456789"

var (
	// ErrRoomNotFound is returned when a room code matches nothing.
	ErrRoomNotFound = errors.New("room not found")

	// ErrNoRoomCodes is returned when code generation keeps colliding
	// with live rooms.
	ErrNoRoomCodes = errors.New("could not allocate a room code")
)

// Collision retries before CreateRoom gives up.
const maxCodeAttempts = 10

// MemoryStore owns every in-progress room, keyed by room code. Mutating
// a room serializes on that room's own lock; the store lock only guards
// the map.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room
	cfg   *config.ServerConfig
	log   *zap.Logger
}

// NewMemoryStore creates an empty registry.
func NewMemoryStore(cfg *config.ServerConfig, log *zap.Logger) *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]*game.Room),
		cfg:   cfg,
		log:   log,
	}
}

// CreateRoom opens a new WAITING room hosted by the given connection.
// Colliding codes are regenerated; a code is never reused while its
// room lives.
func (s *MemoryStore) CreateRoom(connID, hostName string) (*game.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for i := 0; i < maxCodeAttempts; i++ {
		candidate := generateRoomCode(s.cfg.Game.RoomCodeLength)
		if _, exists := s.rooms[candidate]; !exists {
			code = candidate
			break
		}
	}
	if code == "" {
		s.log.Error("room code space exhausted",
			zap.Int("attempts", maxCodeAttempts),
		)
		return nil, ErrNoRoomCodes
	}

	host := game.NewPlayer(connID, hostName)
	room := game.NewRoom(code, host, s.log)
	s.rooms[code] = room

	s.log.Info("room created",
		zap.String("room", code),
		zap.String("host", host.ID),
	)
	return room, nil
}

// GetRoom returns the room for a code, or nil. Codes are
// case-insensitive on input.
func (s *MemoryStore) GetRoom(code string) *game.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[CanonicalCode(code)]
}

// JoinRoom seats a player in a WAITING room. Joining with a connection
// already seated is idempotent and returns the room unchanged.
func (s *MemoryStore) JoinRoom(code, connID, name string) (*game.Room, error) {
	room := s.GetRoom(code)
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if err := room.AddPlayer(game.NewPlayer(connID, name)); err != nil {
		return nil, err
	}
	return room, nil
}

// StartGame deals round 1 for a full room.
func (s *MemoryStore) StartGame(code string) (*game.Room, error) {
	room := s.GetRoom(code)
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if err := room.Start(); err != nil {
		return nil, err
	}
	s.log.Info("game started",
		zap.String("room", room.Code),
		zap.Int("players", room.PlayerCount()),
	)
	return room, nil
}

// NextRound advances a room past a finished round, finalizing the game
// after round 6.
func (s *MemoryStore) NextRound(code string) (*game.Room, error) {
	room := s.GetRoom(code)
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if err := room.AdvanceRound(); err != nil {
		return nil, err
	}
	return room, nil
}

// SetConnected flips a player's connection flag without unseating them.
func (s *MemoryStore) SetConnected(code, playerID string, connected bool) {
	if room := s.GetRoom(code); room != nil {
		room.SetConnected(playerID, connected)
	}
}

// Reconnect rebinds a seat to a new connection, preserving hand, score
// and tricks.
func (s *MemoryStore) Reconnect(code, playerID, connID string) (*game.Room, *game.Player) {
	room := s.GetRoom(code)
	if room == nil {
		return nil, nil
	}
	player := room.Rebind(playerID, connID)
	if player == nil {
		return nil, nil
	}
	s.log.Info("player reconnected",
		zap.String("room", room.Code),
		zap.String("player", player.ID),
	)
	return room, player
}

// ExpireDisconnected removes players past the disconnect grace period
// and returns their IDs for notification.
func (s *MemoryStore) ExpireDisconnected(code string) []string {
	room := s.GetRoom(code)
	if room == nil {
		return nil
	}
	removed := room.ExpireDisconnected(s.cfg.Game.DisconnectGrace)
	if len(removed) > 0 {
		s.log.Info("removed disconnected players",
			zap.String("room", room.Code),
			zap.Int("count", len(removed)),
		)
	}
	return removed
}

// DeleteRoom destroys a room. Deleted rooms are never resurrected.
func (s *MemoryStore) DeleteRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, CanonicalCode(code))
}

// Rooms returns a snapshot of all live rooms.
func (s *MemoryStore) Rooms() []*game.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]*game.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Count returns the number of live rooms.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// SweepExpired deletes rooms idle past the configured timeout,
// regardless of status. Returns the deleted codes.
func (s *MemoryStore) SweepExpired() []string {
	cutoff := time.Now().Add(-s.cfg.Game.RoomTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted []string
	for code, room := range s.rooms {
		if room.IdleSince(cutoff) {
			delete(s.rooms, code)
			deleted = append(deleted, code)
			s.log.Info("swept expired room", zap.String("room", code))
		}
	}
	return deleted
}

// RunSweeper garbage-collects stale rooms on an interval until ctx is
// cancelled.
func (s *MemoryStore) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Game.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepExpired()
		}
	}
}

// CanonicalCode uppercases and trims a room code as entered by a
// player.
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func generateRoomCode(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}
