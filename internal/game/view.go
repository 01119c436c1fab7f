package game

import "sort"

// PlayerView is the public face of a player: everything except the
// hand itself.
type PlayerView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HandCount  int    `json:"handCount"`
	Score      int    `json:"score"`
	RoundScore int    `json:"roundScore"`
	TrickCount int    `json:"trickCount"`
	Connected  bool   `json:"connected"`
}

// View is the player-specific projection of a room. It is the only
// shape that ever leaves the server, so opponents' hands appear here
// as counts alone.
type View struct {
	RoomCode     string       `json:"roomId"`
	Status       Status       `json:"status"`
	Round        Round        `json:"roundInfo"`
	Players      []PlayerView `json:"players"`
	CurrentTrick []TrickCard  `json:"currentTrick"`
	ActiveIndex  int          `json:"activePlayerIndex"`
	LeadSuit     Suit         `json:"leadSuit"`
	MyPlayerID   string       `json:"myPlayerId"`
	MyHand       []Card       `json:"myHand"`
	ValidCards   []Card       `json:"validCards"`
	TrickNumber  int          `json:"trickNumber"`
	TotalTricks  int          `json:"totalTricks"`
}

// GameOverView is the final standings, winner first. Lower is better:
// penalties are liabilities.
type GameOverView struct {
	Winner      PlayerView   `json:"winner"`
	FinalScores []PlayerView `json:"finalScores"`
}

// ViewFor builds the projection for one player. The requesting player's
// hand comes back sorted for display, with the currently playable
// subset alongside as a hint.
func (r *Room) ViewFor(playerID string) View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v := View{
		RoomCode:     r.Code,
		Status:       r.Status,
		Round:        r.Round,
		Players:      make([]PlayerView, len(r.Players)),
		CurrentTrick: append([]TrickCard(nil), r.CurrentTrick...),
		ActiveIndex:  r.ActiveIndex,
		LeadSuit:     r.LeadSuit,
		MyPlayerID:   playerID,
		TrickNumber:  r.TrickNumber,
		TotalTricks:  r.TotalTricks,
	}
	for i, p := range r.Players {
		v.Players[i] = publicView(p)
	}
	if me := r.playerByID(playerID); me != nil {
		v.MyHand = SortHand(me.Hand)
		if r.Status == StatusPlaying {
			v.ValidCards = ValidCards(me.Hand, r.LeadSuit)
		}
	}
	return v
}

// GameOver returns the standings sorted ascending by cumulative score,
// stable across equal scores by seat order.
func (r *Room) GameOver() GameOverView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.Players) == 0 {
		return GameOverView{}
	}
	standings := make([]PlayerView, len(r.Players))
	for i, p := range r.Players {
		standings[i] = publicView(p)
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score < standings[j].Score
	})

	return GameOverView{
		Winner:      standings[0],
		FinalScores: standings,
	}
}

func publicView(p *Player) PlayerView {
	return PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		HandCount:  len(p.Hand),
		Score:      p.Score,
		RoundScore: p.RoundScore,
		TrickCount: len(p.TricksTaken),
		Connected:  p.Connected,
	}
}
