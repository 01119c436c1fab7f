package game

// CanPlay reports whether card may legally be played from hand given
// the suit led this trick. A zero leadSuit means the trick is empty and
// any held card opens it; otherwise the lead suit must be followed
// whenever the hand still holds it.
func CanPlay(card Card, hand []Card, leadSuit Suit) bool {
	if !handContains(hand, card) {
		return false
	}
	if leadSuit == 0 || card.Suit == leadSuit {
		return true
	}
	return !hasSuit(hand, leadSuit)
}

// ValidCards returns the subset of hand that CanPlay would accept.
// Used for client-side hinting only; PlayCard revalidates.
func ValidCards(hand []Card, leadSuit Suit) []Card {
	if leadSuit != 0 && hasSuit(hand, leadSuit) {
		matching := make([]Card, 0, len(hand))
		for _, c := range hand {
			if c.Suit == leadSuit {
				matching = append(matching, c)
			}
		}
		return matching
	}
	all := make([]Card, len(hand))
	copy(all, hand)
	return all
}

// TrickWinner returns the index of the winning entry: the highest rank
// among cards matching the lead suit. Off-suit cards never win. The
// second return is false when no entry matches the lead suit, a state
// legal play cannot produce; the winner then defaults to index 0.
func TrickWinner(trick []TrickCard, leadSuit Suit) (int, bool) {
	winner := 0
	best := Rank(0)
	matched := false
	for i, tc := range trick {
		if tc.Card.Suit != leadSuit {
			continue
		}
		if tc.Card.Rank > best {
			best = tc.Card.Rank
			winner = i
			matched = true
		}
	}
	return winner, matched
}

func handContains(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

func hasSuit(hand []Card, suit Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

func removeCard(hand []Card, card Card) []Card {
	for i, c := range hand {
		if c == card {
			return append(hand[:i], hand[i+1:]...)
		}
	}
	return hand
}
