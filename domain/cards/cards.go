package cards

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
	Spades   Suit = "♠"
)

// Suits lists the suits in shoe order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Value is the rank of a card, 2 through 14 with the ace high
type Value int

const (
	Two   Value = 2
	Three Value = 3
	Four  Value = 4
	Five  Value = 5
	Six   Value = 6
	Seven Value = 7
	Eight Value = 8
	Nine  Value = 9
	Ten   Value = 10
	Jack  Value = 11
	Queen Value = 12
	King  Value = 13
	Ace   Value = 14
)

// Values lists the values from deuce to ace
var Values = []Value{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

func (v Value) String() string {
	switch v {
	case Ace:
		return "A"
	case King:
		return "K"
	case Queen:
		return "Q"
	case Jack:
		return "J"
	}
	return fmt.Sprint(int(v))
}

// Card represents a playing card
type Card struct {
	Suit  Suit  `json:"suit"`
	Value Value `json:"value"`
}

// String returns the string representation of a card
func (c Card) String() string {
	return c.Value.String() + string(c.Suit)
}

// Equals checks if two cards are equal. Copies from different decks of a shoe
// are indistinguishable.
func (c Card) Equals(other Card) bool {
	return c.Suit == other.Suit && c.Value == other.Value
}

// CardFromString creates a card from a string representation
// e.g., "10♠" or "10s" or "Ts" -> Card{Suit: Spades, Value: Ten}
func CardFromString(s string) (Card, error) {
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card shorthand: %s", s)
	}

	var suit Suit
	switch {
	case strings.HasSuffix(s, string(Spades)), strings.HasSuffix(s, "s"), strings.HasSuffix(s, "S"):
		suit = Spades
	case strings.HasSuffix(s, string(Hearts)), strings.HasSuffix(s, "h"), strings.HasSuffix(s, "H"):
		suit = Hearts
	case strings.HasSuffix(s, string(Diamonds)), strings.HasSuffix(s, "d"), strings.HasSuffix(s, "D"):
		suit = Diamonds
	case strings.HasSuffix(s, string(Clubs)), strings.HasSuffix(s, "c"), strings.HasSuffix(s, "C"):
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid card suit: %s", s)
	}

	rest := strings.TrimSuffix(s, string(suit))
	if rest == s {
		rest = s[:len(s)-1]
	}

	var value Value
	switch strings.ToUpper(rest) {
	case "A":
		value = Ace
	case "K":
		value = King
	case "Q":
		value = Queen
	case "J":
		value = Jack
	case "10", "T":
		value = Ten
	case "9":
		value = Nine
	case "8":
		value = Eight
	case "7":
		value = Seven
	case "6":
		value = Six
	case "5":
		value = Five
	case "4":
		value = Four
	case "3":
		value = Three
	case "2":
		value = Two
	default:
		return Card{}, fmt.Errorf("invalid card value: %s", rest)
	}

	return Card{Suit: suit, Value: value}, nil
}

// MustParse parses space separated cards and panics on a bad one. Meant for
// fixtures and tools.
func MustParse(s string) Stack {
	var stack Stack
	for _, f := range strings.Fields(s) {
		c, err := CardFromString(f)
		if err != nil {
			panic(err)
		}
		stack = append(stack, c)
	}
	return stack
}
