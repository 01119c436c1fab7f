package game

// scoreFunc computes the penalty awarded to the winner of one captured
// trick under a single round's rule.
type scoreFunc func(cards []Card, lastTrick bool) int

// Round describes one of the six fixed rounds of a game.
type Round struct {
	Number      int    `json:"roundNumber"`
	Name        string `json:"ruleName"`
	Description string `json:"description"`

	score scoreFunc
}

// Score returns the penalty for a captured trick under this round's
// rule. lastTrick marks the final trick of the round.
func (r Round) Score(cards []Card, lastTrick bool) int {
	return r.score(cards, lastTrick)
}

// Rounds is the fixed, ordered sequence of round definitions. Index by
// round number minus one.
var Rounds = [6]Round{
	{1, "No Tricks", "10 points per card taken in a trick", scoreNoTricks},
	{2, "No Hearts", "10 points per Heart taken", scoreNoHearts},
	{3, "No Queens", "25 points per Queen taken", scoreNoQueens},
	{4, "No King of Spades", "100 points for taking the King of Spades", scoreNoKingOfSpades},
	{5, "Last Trick", "100 points for taking the last trick", scoreLastTrick},
	{6, "The Salad", "All previous rules combined!", scoreSalad},
}

func scoreNoTricks(cards []Card, _ bool) int {
	return 10 * len(cards)
}

func scoreNoHearts(cards []Card, _ bool) int {
	hearts := 0
	for _, c := range cards {
		if c.Suit == Hearts {
			hearts++
		}
	}
	return 10 * hearts
}

func scoreNoQueens(cards []Card, _ bool) int {
	queens := 0
	for _, c := range cards {
		if c.Rank == Queen {
			queens++
		}
	}
	return 25 * queens
}

func scoreNoKingOfSpades(cards []Card, _ bool) int {
	for _, c := range cards {
		if c == KingOfSpades {
			return 100
		}
	}
	return 0
}

func scoreLastTrick(_ []Card, lastTrick bool) int {
	if lastTrick {
		return 100
	}
	return 0
}

// The Salad is not a rule of its own: it is the other five applied to
// the same trick and summed.
func scoreSalad(cards []Card, lastTrick bool) int {
	return scoreNoTricks(cards, lastTrick) +
		scoreNoHearts(cards, lastTrick) +
		scoreNoQueens(cards, lastTrick) +
		scoreNoKingOfSpades(cards, lastTrick) +
		scoreLastTrick(cards, lastTrick)
}
