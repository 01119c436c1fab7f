package game

import "math/rand"

// NewDeck returns all 52 cards in suit-major order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range suits {
		for _, r := range ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Deal shuffles a fresh deck and splits it into contiguous equal hands.
// A three-player deal drops the two of diamonds first so 51 cards split
// evenly into 17 per hand; four players get 13 each.
func Deal(playerCount int) [][]Card {
	deck := NewDeck()
	if playerCount == 3 {
		kept := deck[:0]
		for _, c := range deck {
			if c != TwoOfDiamonds {
				kept = append(kept, c)
			}
		}
		deck = kept
	}

	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	perHand := len(deck) / playerCount
	hands := make([][]Card, playerCount)
	for i := range hands {
		hands[i] = deck[i*perHand : (i+1)*perHand]
	}
	return hands
}
