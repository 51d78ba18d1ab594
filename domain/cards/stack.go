package cards

import (
	"errors"
	"strings"
)

// ErrNotEnoughCards is returned when a deal asks for more cards than remain
var ErrNotEnoughCards = errors.New("not enough cards left in stack")

// Stack represents an ordered pile of cards. Index 0 is the top (head).
type Stack []Card

// NewStack creates a new stack holding a copy of the given cards
func NewStack(cards ...Card) Stack {
	return append(Stack(nil), cards...)
}

// String returns the cards separated by spaces
func (s Stack) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Clone returns a copy that shares no backing array with s
func (s Stack) Clone() Stack {
	if s == nil {
		return nil
	}
	out := make(Stack, len(s))
	copy(out, s)
	return out
}

// AddCard adds a card to the bottom of the stack
func (s *Stack) AddCard(card Card) {
	*s = append(*s, card)
}

// AddCards adds cards to the bottom of the stack
func (s *Stack) AddCards(cards ...Card) {
	*s = append(*s, cards...)
}

// DealCards removes count cards from the top of the stack. Nothing is removed
// when fewer than count cards remain.
func (s *Stack) DealCards(count int) (Stack, error) {
	if count < 0 || count > len(*s) {
		return nil, ErrNotEnoughCards
	}

	dealt := make(Stack, count)
	copy(dealt, (*s)[:count])
	*s = (*s)[count:]

	return dealt, nil
}

// DealFromTail removes and returns the bottom card of the stack
func (s *Stack) DealFromTail() (Card, error) {
	n := len(*s)
	if n == 0 {
		return Card{}, ErrNotEnoughCards
	}

	card := (*s)[n-1]
	*s = (*s)[:n-1]

	return card, nil
}
