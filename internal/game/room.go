package game

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status is the lifecycle state of a room.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusPlaying  Status = "PLAYING"
	StatusRoundEnd Status = "ROUND_END"
	StatusFinished Status = "FINISHED"
)

const (
	// MinPlayers and MaxPlayers bound a started game. A room that falls
	// below MinPlayers mid-game is finished on the spot.
	MinPlayers = 3
	MaxPlayers = 4
)

// TrickCard is one card played into the current trick.
type TrickCard struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

// Room is the aggregate root for one game. Every mutating operation
// holds mu for its whole duration, so each action runs to completion
// before the next one is observable.
type Room struct {
	Code         string      `json:"roomId"`
	Status       Status      `json:"status"`
	Round        Round       `json:"roundInfo"`
	Players      []*Player   `json:"players"`
	CurrentTrick []TrickCard `json:"currentTrick"`
	ActiveIndex  int         `json:"activePlayerIndex"`
	LeadSuit     Suit        `json:"leadSuit"`
	HostID       string      `json:"hostId"`
	CreatedAt    time.Time   `json:"createdAt"`
	LastActivity time.Time   `json:"lastActivity"`
	TrickNumber  int         `json:"trickNumber"`
	TotalTricks  int         `json:"totalTricks"`

	mu  sync.RWMutex
	log *zap.Logger
}

// NewRoom creates a room in WAITING with the host as its only player.
func NewRoom(code string, host *Player, log *zap.Logger) *Room {
	now := time.Now()
	return &Room{
		Code:         code,
		Status:       StatusWaiting,
		Round:        Rounds[0],
		Players:      []*Player{host},
		HostID:       host.ID,
		CreatedAt:    now,
		LastActivity: now,
		log:          log,
	}
}

// AddPlayer seats a player. Joining is idempotent: a connection already
// seated gets the room back unchanged.
func (r *Room) AddPlayer(p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, seated := range r.Players {
		if seated.ConnID == p.ConnID {
			return nil
		}
	}
	if r.Status != StatusWaiting {
		return ErrGameAlreadyStarted
	}
	if len(r.Players) >= MaxPlayers {
		return ErrRoomFull
	}

	r.Players = append(r.Players, p)
	r.LastActivity = time.Now()
	return nil
}

// Start deals round 1 and moves the room to PLAYING. Cumulative scores
// are zeroed; a started game always has 3 or 4 players.
func (r *Room) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusWaiting {
		return ErrGameAlreadyStarted
	}
	if len(r.Players) < MinPlayers || len(r.Players) > MaxPlayers {
		return ErrWrongPlayerCount
	}

	for _, p := range r.Players {
		p.Score = 0
	}
	r.startRound(Rounds[0])
	return nil
}

// AdvanceRound deals the next round, or finalizes the game after round
// 6 without dealing.
func (r *Room) AdvanceRound() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusRoundEnd {
		return ErrRoundNotEnded
	}

	next := r.Round.Number + 1
	if next > len(Rounds) {
		r.Status = StatusFinished
		r.LastActivity = time.Now()
		return nil
	}
	r.startRound(Rounds[next-1])
	return nil
}

// startRound deals fresh hands and resets all per-round state. Callers
// hold mu.
func (r *Room) startRound(round Round) {
	hands := Deal(len(r.Players))
	for i, p := range r.Players {
		p.Hand = SortHand(hands[i])
		p.RoundScore = 0
		p.TricksTaken = nil
	}
	r.Round = round
	r.Status = StatusPlaying
	r.ActiveIndex = 0
	r.CurrentTrick = nil
	r.LeadSuit = 0
	r.TrickNumber = 1
	r.TotalTricks = len(r.Players[0].Hand)
	r.LastActivity = time.Now()
}

// SetConnected updates a player's connection flag and last-seen time.
// The player keeps their seat; removal happens only through
// ExpireDisconnected.
func (r *Room) SetConnected(playerID string, connected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.playerByID(playerID); p != nil {
		p.Connected = connected
		p.LastSeen = time.Now()
	}
}

// Rebind points the seat identified by playerID at a new connection.
// All game state stays with the seat; the turn pointer is seat-indexed
// so an active player's reconnect needs no fix-up.
func (r *Room) Rebind(playerID, connID string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerByID(playerID)
	if p == nil {
		return nil
	}
	p.ConnID = connID
	p.Connected = true
	p.LastSeen = time.Now()
	r.LastActivity = time.Now()
	return p
}

// ExpireDisconnected removes players disconnected for longer than
// grace and returns their IDs. A game left with fewer than MinPlayers
// is finished; one that keeps enough seats plays on with the trick and
// turn state repaired around the vanished players.
func (r *Room) ExpireDisconnected(grace time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	expired := func(p *Player) bool {
		return !p.Connected && now.Sub(p.LastSeen) > grace
	}

	// The first surviving seat at or after the turn pointer is due next.
	// Resolved before the slice shrinks so the index is still valid.
	nextID := ""
	if r.Status == StatusPlaying {
		for i := 0; i < len(r.Players); i++ {
			if p := r.Players[(r.ActiveIndex+i)%len(r.Players)]; !expired(p) {
				nextID = p.ID
				break
			}
		}
	}

	var removed []string
	kept := r.Players[:0]
	for _, p := range r.Players {
		if expired(p) {
			removed = append(removed, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	r.Players = kept

	if r.Status == StatusPlaying && len(r.Players) < MinPlayers {
		r.Status = StatusFinished
	}
	if r.Status == StatusPlaying && len(removed) > 0 {
		r.repairAfterRemoval(nextID)
	}
	return removed
}

// repairAfterRemoval rebuilds trick and turn state after seats vanish
// from a PLAYING room. Cards played by removed players leave the trick
// with them; the lead suit follows the trick's new first card. When the
// survivors have all contributed already, the trick resolves on the
// spot. Callers hold mu.
func (r *Room) repairAfterRemoval(nextID string) {
	trick := r.CurrentTrick[:0]
	for _, tc := range r.CurrentTrick {
		if r.playerByID(tc.PlayerID) != nil {
			trick = append(trick, tc)
		}
	}
	r.CurrentTrick = trick
	r.LeadSuit = 0
	if len(r.CurrentTrick) > 0 {
		r.LeadSuit = r.CurrentTrick[0].Card.Suit
	}

	if len(r.CurrentTrick) > 0 && len(r.CurrentTrick) == len(r.Players) {
		r.resolveTrick()
		return
	}
	r.ActiveIndex = 0
	if seat := r.seatOf(nextID); seat >= 0 {
		r.ActiveIndex = seat
	}
}

// IdleSince reports whether the room has seen no activity since the
// given cutoff.
func (r *Room) IdleSince(cutoff time.Time) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.LastActivity.Before(cutoff)
}

// PlayerCount returns the number of seated players.
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Players)
}

// PlayerByConn returns the seat currently bound to a connection, or
// nil.
func (r *Room) PlayerByConn(connID string) *Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// Seat pairs a stable player ID with its current connection.
type Seat struct {
	PlayerID string
	ConnID   string
}

// Seats returns the identity of every seated player, in turn order.
func (r *Room) Seats() []Seat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seats := make([]Seat, len(r.Players))
	for i, p := range r.Players {
		seats[i] = Seat{PlayerID: p.ID, ConnID: p.ConnID}
	}
	return seats
}

// CurrentStatus returns the room's lifecycle status.
func (r *Room) CurrentStatus() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}

func (r *Room) playerByID(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) seatOf(playerID string) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// roomJSON mirrors Room's exported fields so snapshots marshal under
// the room lock.
type roomJSON struct {
	Code         string      `json:"roomId"`
	Status       Status      `json:"status"`
	Round        Round       `json:"roundInfo"`
	Players      []*Player   `json:"players"`
	CurrentTrick []TrickCard `json:"currentTrick"`
	ActiveIndex  int         `json:"activePlayerIndex"`
	LeadSuit     Suit        `json:"leadSuit"`
	HostID       string      `json:"hostId"`
	CreatedAt    time.Time   `json:"createdAt"`
	LastActivity time.Time   `json:"lastActivity"`
	TrickNumber  int         `json:"trickNumber"`
	TotalTricks  int         `json:"totalTricks"`
}

// MarshalJSON serializes a consistent view of the room: the lock is
// held so a snapshot never observes a half-applied play.
func (r *Room) MarshalJSON() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return json.Marshal(roomJSON{
		Code:         r.Code,
		Status:       r.Status,
		Round:        r.Round,
		Players:      r.Players,
		CurrentTrick: r.CurrentTrick,
		ActiveIndex:  r.ActiveIndex,
		LeadSuit:     r.LeadSuit,
		HostID:       r.HostID,
		CreatedAt:    r.CreatedAt,
		LastActivity: r.LastActivity,
		TrickNumber:  r.TrickNumber,
		TotalTricks:  r.TotalTricks,
	})
}

// UnmarshalJSON restores a room from a snapshot. Restored rooms carry a
// no-op logger until re-adopted by a registry.
func (r *Room) UnmarshalJSON(data []byte) error {
	var raw roomJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Code = raw.Code
	r.Status = raw.Status
	r.Round = Rounds[0]
	if raw.Round.Number >= 1 && raw.Round.Number <= len(Rounds) {
		r.Round = Rounds[raw.Round.Number-1]
	}
	r.Players = raw.Players
	r.CurrentTrick = raw.CurrentTrick
	r.ActiveIndex = raw.ActiveIndex
	r.LeadSuit = raw.LeadSuit
	r.HostID = raw.HostID
	r.CreatedAt = raw.CreatedAt
	r.LastActivity = raw.LastActivity
	r.TrickNumber = raw.TrickNumber
	r.TotalTricks = raw.TotalTricks
	r.log = zap.NewNop()
	return nil
}
