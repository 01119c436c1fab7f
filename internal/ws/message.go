package ws

import "github.com/jules19/canadian-salad/internal/game"

// Inbound message types.
const (
	MsgJoinRoom  = "join_room"
	MsgReconnect = "reconnect"
	MsgStartGame = "start_game"
	MsgPlayCard  = "play_card"
	MsgNextRound = "next_round"
)

// Outbound event types.
const (
	EventJoined         = "joined"
	EventState          = "state"
	EventGameOver       = "game_over"
	EventPlayersRemoved = "players_removed"
	EventError          = "error"
)

// Message is a client request. Type selects the action; the other
// fields apply per type: join_room takes name and an optional roomCode
// (absent means create), reconnect takes roomCode plus the stable
// playerId from an earlier state push, play_card takes a card in wire
// format ("H2", "SK").
type Message struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	RoomCode string `json:"roomCode,omitempty"`
	Card     string `json:"card,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
}

// Event is a server push. State events carry the per-player projection
// and are the only shape game state ever takes on the wire.
type Event struct {
	Type     string             `json:"type"`
	RoomCode string             `json:"roomCode,omitempty"`
	PlayerID string             `json:"playerId,omitempty"`
	State    *game.View         `json:"state,omitempty"`
	GameOver *game.GameOverView `json:"gameOver,omitempty"`
	Removed  []string           `json:"removed,omitempty"`
	Message  string             `json:"message,omitempty"`
}
