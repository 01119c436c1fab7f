package game

import (
	"time"

	"github.com/google/uuid"
)

// Player is one seat in a room. ID is stable for the life of the seat;
// ConnID tracks whichever connection currently drives it and is the
// only identity a reconnect rebinds.
type Player struct {
	ID          string    `json:"id"`
	ConnID      string    `json:"connId"`
	Name        string    `json:"name"`
	Hand        []Card    `json:"hand"`
	Score       int       `json:"score"`
	RoundScore  int       `json:"roundScore"`
	TricksTaken [][]Card  `json:"tricksTaken"`
	Connected   bool      `json:"connected"`
	LastSeen    time.Time `json:"lastSeen"`
}

// NewPlayer creates a connected player bound to the given connection.
func NewPlayer(connID, name string) *Player {
	return &Player{
		ID:        uuid.NewString(),
		ConnID:    connID,
		Name:      name,
		Connected: true,
		LastSeen:  time.Now(),
	}
}
