package game

import (
	"time"

	"go.uber.org/zap"
)

// PlayCard applies a single play by the given player. On any rejection
// the room is left untouched and the caller gets a sentinel error; on
// success the card moves into the current trick and the trick resolves
// once every player has contributed.
func (r *Room) PlayCard(playerID string, card Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusPlaying {
		return ErrNotYourTurn
	}
	active := r.Players[r.ActiveIndex]
	if active.ID != playerID {
		return ErrNotYourTurn
	}
	if !handContains(active.Hand, card) {
		return ErrCardNotHeld
	}
	if !CanPlay(card, active.Hand, r.LeadSuit) {
		return ErrMustFollowSuit
	}

	active.Hand = removeCard(active.Hand, card)
	r.CurrentTrick = append(r.CurrentTrick, TrickCard{PlayerID: playerID, Card: card})
	if len(r.CurrentTrick) == 1 {
		r.LeadSuit = card.Suit
	}

	if len(r.CurrentTrick) == len(r.Players) {
		r.resolveTrick()
	} else {
		r.ActiveIndex = (r.ActiveIndex + 1) % len(r.Players)
	}

	r.LastActivity = time.Now()
	return nil
}

// resolveTrick awards the completed trick, scores it under the round
// rule, and either opens the next trick with the winner leading or
// ends the round when every hand is empty. Callers hold mu.
func (r *Room) resolveTrick() {
	winner, matched := TrickWinner(r.CurrentTrick, r.LeadSuit)
	if !matched && r.log != nil {
		// Cannot happen under follow-suit validation.
		r.log.Warn("trick contains no card of the lead suit",
			zap.String("room", r.Code),
			zap.String("lead_suit", r.LeadSuit.String()),
		)
	}

	seat := r.seatOf(r.CurrentTrick[winner].PlayerID)
	cards := make([]Card, len(r.CurrentTrick))
	for i, tc := range r.CurrentTrick {
		cards[i] = tc.Card
	}

	p := r.Players[seat]
	p.TricksTaken = append(p.TricksTaken, cards)
	p.RoundScore += r.Round.Score(cards, r.TrickNumber == r.TotalTricks)

	for _, q := range r.Players {
		if len(q.Hand) > 0 {
			// More tricks to play; the winner leads the next one.
			r.CurrentTrick = nil
			r.LeadSuit = 0
			r.ActiveIndex = seat
			r.TrickNumber++
			return
		}
	}

	// All hands empty: fold round scores into the totals.
	for _, q := range r.Players {
		q.Score += q.RoundScore
	}
	r.Status = StatusRoundEnd
}
