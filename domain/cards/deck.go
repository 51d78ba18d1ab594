package cards

import (
	"math/rand"
	"time"
)

// RandomSource is the randomness a shuffle draws from. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// DeckSize is the number of cards in one standard deck
const DeckSize = 52

// NewDeck52 creates a standard deck of 52 cards
func NewDeck52() Stack {
	deck := make(Stack, 0, DeckSize)
	for _, suit := range Suits {
		for _, value := range Values {
			deck.AddCard(Card{Suit: suit, Value: value})
		}
	}
	return deck
}

// NewShoe concatenates deckCount standard decks. deckCount must be at least 1.
func NewShoe(deckCount int) Stack {
	shoe := make(Stack, 0, DeckSize*deckCount)
	for i := 0; i < deckCount; i++ {
		shoe.AddCards(NewDeck52()...)
	}
	return shoe
}

// NewRandomSource returns a source seeded from seed, or from the clock when
// seed is 0.
func NewRandomSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Shuffle permutes the stack in place (Fisher–Yates)
func (s Stack) Shuffle(rng RandomSource) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
