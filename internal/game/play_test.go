package game

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
)

// playingRoom builds a room mid-game with the given hands, seat 0 to
// lead. Bypasses dealing so tests control every card.
func playingRoom(hands ...[]Card) *Room {
	players := make([]*Player, len(hands))
	for i, hand := range hands {
		p := NewPlayer(fmt.Sprintf("conn-%d", i), fmt.Sprintf("Player %d", i))
		p.Hand = hand
		players[i] = p
	}
	return &Room{
		Code:        "TEST",
		Status:      StatusPlaying,
		Round:       Rounds[0],
		Players:     players,
		HostID:      players[0].ID,
		TrickNumber: 1,
		TotalTricks: len(hands[0]),
		log:         zap.NewNop(),
	}
}

func TestPlayCardNotYourTurn(t *testing.T) {
	room := playingRoom(
		[]Card{{Hearts, Two}},
		[]Card{{Hearts, Three}},
		[]Card{{Hearts, Four}},
	)

	err := room.PlayCard(room.Players[1].ID, Card{Hearts, Three})
	if err != ErrNotYourTurn {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	if len(room.CurrentTrick) != 0 || len(room.Players[1].Hand) != 1 || room.ActiveIndex != 0 {
		t.Error("rejected play mutated room state")
	}
}

func TestPlayCardNotHeld(t *testing.T) {
	room := playingRoom(
		[]Card{{Hearts, Two}},
		[]Card{{Hearts, Three}},
		[]Card{{Hearts, Four}},
	)

	err := room.PlayCard(room.Players[0].ID, Card{Spades, Ace})
	if err != ErrCardNotHeld {
		t.Fatalf("err = %v, want ErrCardNotHeld", err)
	}
	if len(room.CurrentTrick) != 0 || len(room.Players[0].Hand) != 1 {
		t.Error("rejected play mutated room state")
	}
}

func TestPlayCardMustFollowSuit(t *testing.T) {
	room := playingRoom(
		[]Card{{Hearts, Two}, {Hearts, King}},
		[]Card{{Hearts, Five}, {Clubs, Two}},
		[]Card{{Hearts, Nine}, {Clubs, Three}},
	)

	if err := room.PlayCard(room.Players[0].ID, Card{Hearts, Two}); err != nil {
		t.Fatalf("lead play failed: %v", err)
	}
	if room.LeadSuit != Hearts {
		t.Fatalf("lead suit = %v, want Hearts", room.LeadSuit)
	}

	// Seat 1 holds a heart and must play it.
	err := room.PlayCard(room.Players[1].ID, Card{Clubs, Two})
	if err != ErrMustFollowSuit {
		t.Fatalf("err = %v, want ErrMustFollowSuit", err)
	}
	if len(room.CurrentTrick) != 1 || len(room.Players[1].Hand) != 2 {
		t.Error("rejected play mutated room state")
	}
}

func TestTrickResolution(t *testing.T) {
	room := playingRoom(
		[]Card{{Hearts, Two}, {Clubs, Two}},
		[]Card{{Hearts, King}, {Clubs, Three}},
		[]Card{{Hearts, Five}, {Clubs, Four}},
	)

	plays := []Card{{Hearts, Two}, {Hearts, King}, {Hearts, Five}}
	for i, c := range plays {
		if err := room.PlayCard(room.Players[i].ID, c); err != nil {
			t.Fatalf("play %d failed: %v", i, err)
		}
	}

	winner := room.Players[1] // king of hearts
	if len(winner.TricksTaken) != 1 {
		t.Fatalf("winner has %d tricks, want 1", len(winner.TricksTaken))
	}
	if len(winner.TricksTaken[0]) != 3 {
		t.Errorf("captured trick has %d cards, want 3", len(winner.TricksTaken[0]))
	}
	// No Tricks: 10 points per captured card.
	if winner.RoundScore != 30 {
		t.Errorf("winner round score = %d, want 30", winner.RoundScore)
	}
	if room.ActiveIndex != 1 {
		t.Errorf("active index = %d, want winner seat 1", room.ActiveIndex)
	}
	if room.TrickNumber != 2 {
		t.Errorf("trick number = %d, want 2", room.TrickNumber)
	}
	if room.LeadSuit != 0 {
		t.Errorf("lead suit not cleared: %v", room.LeadSuit)
	}
	if len(room.CurrentTrick) != 0 {
		t.Errorf("current trick not reset: %d cards", len(room.CurrentTrick))
	}
	if room.Status != StatusPlaying {
		t.Errorf("status = %v, want PLAYING", room.Status)
	}
}

func TestRoundEnd(t *testing.T) {
	room := playingRoom(
		[]Card{{Hearts, Two}},
		[]Card{{Hearts, King}},
		[]Card{{Hearts, Five}},
	)
	room.Round = Rounds[4] // Last Trick
	room.Players[0].Score = 20

	plays := []Card{{Hearts, Two}, {Hearts, King}, {Hearts, Five}}
	for i, c := range plays {
		if err := room.PlayCard(room.Players[i].ID, c); err != nil {
			t.Fatalf("play %d failed: %v", i, err)
		}
	}

	if room.Status != StatusRoundEnd {
		t.Fatalf("status = %v, want ROUND_END", room.Status)
	}
	// The single trick was the last trick: 100 penalty to the winner.
	if room.Players[1].RoundScore != 100 {
		t.Errorf("winner round score = %d, want 100", room.Players[1].RoundScore)
	}
	if room.Players[1].Score != 100 {
		t.Errorf("winner total = %d, want 100", room.Players[1].Score)
	}
	if room.Players[0].Score != 20 {
		t.Errorf("loser total = %d, want prior 20 preserved", room.Players[0].Score)
	}
}

func TestViewForHidesOpponentHands(t *testing.T) {
	room := playingRoom(
		[]Card{{Hearts, Two}, {Spades, Nine}},
		[]Card{{Hearts, King}, {Clubs, Four}},
		[]Card{{Hearts, Five}, {Diamonds, Six}},
	)

	view := room.ViewFor(room.Players[0].ID)

	if view.MyPlayerID != room.Players[0].ID {
		t.Errorf("myPlayerId = %q", view.MyPlayerID)
	}
	if len(view.MyHand) != 2 {
		t.Fatalf("own hand has %d cards, want 2", len(view.MyHand))
	}
	for _, c := range view.MyHand {
		if !handContains(room.Players[0].Hand, c) {
			t.Errorf("view hand contains %v not held by player", c)
		}
	}
	for _, pv := range view.Players {
		if pv.HandCount != 2 {
			t.Errorf("player %s hand count = %d, want 2", pv.Name, pv.HandCount)
		}
	}

	// The projection is the whole contract: no opponent cards anywhere.
	other := room.ViewFor(room.Players[1].ID)
	for _, c := range other.MyHand {
		if handContains(room.Players[0].Hand, c) {
			t.Errorf("player 1 view leaked player 0 card %v", c)
		}
	}
}

func TestViewForUnknownPlayer(t *testing.T) {
	room := playingRoom(
		[]Card{{Hearts, Two}},
		[]Card{{Hearts, King}},
		[]Card{{Hearts, Five}},
	)

	view := room.ViewFor("nobody")
	if view.MyHand != nil {
		t.Error("unknown player got a hand")
	}
	if len(view.Players) != 3 {
		t.Errorf("players = %d, want 3", len(view.Players))
	}
}

func TestGameOverStandings(t *testing.T) {
	room := playingRoom(
		[]Card{},
		[]Card{},
		[]Card{},
	)
	room.Status = StatusFinished
	room.Players[0].Score = 120
	room.Players[1].Score = 45
	room.Players[2].Score = 90

	over := room.GameOver()
	if over.Winner.ID != room.Players[1].ID {
		t.Errorf("winner = %s, want lowest-scoring player", over.Winner.Name)
	}
	scores := []int{45, 90, 120}
	for i, pv := range over.FinalScores {
		if pv.Score != scores[i] {
			t.Errorf("standings[%d] = %d, want %d", i, pv.Score, scores[i])
		}
	}
}

// TestFullGame plays all 6 rounds to completion with each seat playing
// its first legal card, for both supported table sizes.
func TestFullGame(t *testing.T) {
	for _, playerCount := range []int{3, 4} {
		t.Run(fmt.Sprintf("%d players", playerCount), func(t *testing.T) {
			host := NewPlayer("conn-0", "Host")
			room := NewRoom("GAME", host, zap.NewNop())
			for i := 1; i < playerCount; i++ {
				p := NewPlayer(fmt.Sprintf("conn-%d", i), fmt.Sprintf("Player %d", i))
				if err := room.AddPlayer(p); err != nil {
					t.Fatalf("adding player %d: %v", i, err)
				}
			}
			if err := room.Start(); err != nil {
				t.Fatalf("start: %v", err)
			}

			wantTricks := 13
			if playerCount == 3 {
				wantTricks = 17
			}

			prevScores := make([]int, playerCount)
			for round := 1; round <= 6; round++ {
				if room.Round.Number != round {
					t.Fatalf("round = %d, want %d", room.Round.Number, round)
				}
				if room.TotalTricks != wantTricks {
					t.Fatalf("total tricks = %d, want %d", room.TotalTricks, wantTricks)
				}

				playOutRound(t, room)

				if room.Status != StatusRoundEnd {
					t.Fatalf("status after round %d = %v", round, room.Status)
				}
				tricks := 0
				for i, p := range room.Players {
					tricks += len(p.TricksTaken)
					if p.Score < prevScores[i] {
						t.Errorf("player %d score decreased: %d -> %d", i, prevScores[i], p.Score)
					}
					prevScores[i] = p.Score
				}
				if tricks != wantTricks {
					t.Errorf("round %d had %d tricks, want %d", round, tricks, wantTricks)
				}

				if err := room.AdvanceRound(); err != nil {
					t.Fatalf("advance after round %d: %v", round, err)
				}
			}

			// The sixth advance finalizes without dealing.
			if room.Status != StatusFinished {
				t.Fatalf("status = %v, want FINISHED", room.Status)
			}
			for i, p := range room.Players {
				if len(p.Hand) != 0 {
					t.Errorf("player %d was dealt cards after round 6", i)
				}
			}

			over := room.GameOver()
			if len(over.FinalScores) != playerCount {
				t.Errorf("standings have %d entries, want %d", len(over.FinalScores), playerCount)
			}
			for i := 1; i < len(over.FinalScores); i++ {
				if over.FinalScores[i].Score < over.FinalScores[i-1].Score {
					t.Error("standings not ascending by score")
				}
			}
		})
	}
}

// playOutRound drives a round to ROUND_END, asserting card conservation
// after every trick.
func playOutRound(t *testing.T, room *Room) {
	t.Helper()
	dealt := room.TotalTricks * len(room.Players)

	for room.Status == StatusPlaying {
		active := room.Players[room.ActiveIndex]
		played := false
		for _, c := range append([]Card(nil), active.Hand...) {
			if err := room.PlayCard(active.ID, c); err == nil {
				played = true
				break
			}
		}
		if !played {
			t.Fatalf("player %s has no legal play", active.Name)
		}

		inHands := 0
		captured := 0
		for _, p := range room.Players {
			inHands += len(p.Hand)
			for _, trick := range p.TricksTaken {
				captured += len(trick)
			}
		}
		if inHands+captured+len(room.CurrentTrick) != dealt {
			t.Fatalf("card conservation broken: %d held + %d captured + %d in trick != %d dealt",
				inHands, captured, len(room.CurrentTrick), dealt)
		}
	}
}
