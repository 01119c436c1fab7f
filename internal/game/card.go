package game

import (
	"fmt"
	"sort"
	"strconv"
)

// Suit is one of the four French suits, encoded by its initial letter.
// The zero value means "no suit" and is used for an empty lead.
type Suit byte

const (
	Hearts   Suit = 'H'
	Diamonds Suit = 'D'
	Clubs    Suit = 'C'
	Spades   Suit = 'S'
)

var suits = [4]Suit{Hearts, Diamonds, Clubs, Spades}

// Display order for sorted hands: Clubs < Diamonds < Hearts < Spades.
var suitOrder = map[Suit]int{Clubs: 0, Diamonds: 1, Hearts: 2, Spades: 3}

func (s Suit) String() string {
	if s == 0 {
		return ""
	}
	return string(byte(s))
}

func (s Suit) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = 0
		return nil
	}
	switch Suit(text[0]) {
	case Hearts, Diamonds, Clubs, Spades:
		*s = Suit(text[0])
		return nil
	}
	return fmt.Errorf("invalid suit %q", text)
}

// Rank is a card rank with Ace high: 2 < 3 < ... < 10 < J < Q < K < A.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var ranks = [13]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return strconv.Itoa(int(r))
	}
}

func parseRank(s string) (Rank, error) {
	switch s {
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 2 || n > 10 {
		return 0, fmt.Errorf("invalid rank %q", s)
	}
	return Rank(n), nil
}

// Card identifies one of the 52 playing cards. Cards are plain values
// compared with ==; the wire format is suit letter plus rank symbol,
// e.g. "H2" or "SK".
type Card struct {
	Suit Suit
	Rank Rank
}

var (
	TwoOfDiamonds = Card{Suit: Diamonds, Rank: Two}
	KingOfSpades  = Card{Suit: Spades, Rank: King}
)

func (c Card) String() string {
	return c.Suit.String() + c.Rank.String()
}

// ParseCard parses the wire format, e.g. "D10" or "SQ".
func ParseCard(s string) (Card, error) {
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	var suit Suit
	if err := suit.UnmarshalText([]byte{s[0]}); err != nil || suit == 0 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank, err := parseRank(s[1:])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// SortHand returns a copy of hand ordered by suit then rank. Display
// only; nothing in the rules depends on hand order.
func SortHand(hand []Card) []Card {
	sorted := make([]Card, len(hand))
	copy(sorted, hand)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Suit != sorted[j].Suit {
			return suitOrder[sorted[i].Suit] < suitOrder[sorted[j].Suit]
		}
		return sorted[i].Rank < sorted[j].Rank
	})
	return sorted
}
