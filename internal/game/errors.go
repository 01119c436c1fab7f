package game

import "errors"

// Rejected actions. Each leaves the room untouched; callers surface the
// message to the player who asked.
var (
	ErrRoomFull           = errors.New("room is full")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrWrongPlayerCount   = errors.New("need 3 or 4 players to start")
	ErrRoundNotEnded      = errors.New("round has not ended")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrCardNotHeld        = errors.New("you do not have that card")
	ErrMustFollowSuit     = errors.New("you must follow suit")
)
