package domain

import (
	"fmt"
	"time"

	"github.com/lazharichir/multiboard/domain/cards"
)

// Upper bounds on hand settings
const (
	MaxDeckCount     = 16
	MaxBoards        = 16
	MaxPlayerCards   = 16
	MaxStages        = 16
	MaxCardsPerStage = cards.DeckSize
)

// Settings shape a single hand. They are fixed once the hand starts.
type Settings struct {
	DeckCount      int   `json:"deckCount"`
	NumBoards      int   `json:"numBoards"`
	NumPlayerCards int   `json:"numPlayerCards"`
	CardsPerStage  []int `json:"cardsPerStage"`
}

// DefaultSettings is single board hold'em from one deck
func DefaultSettings() Settings {
	return Settings{
		DeckCount:      1,
		NumBoards:      1,
		NumPlayerCards: 2,
		CardsPerStage:  []int{3, 1, 1},
	}
}

// Validate checks the ranges of every field
func (s Settings) Validate() error {
	if s.DeckCount < 1 || s.DeckCount > MaxDeckCount {
		return fmt.Errorf("%w: deck count must be between 1 and %d, got %d", ErrInvalidSettings, MaxDeckCount, s.DeckCount)
	}
	if s.NumBoards < 1 || s.NumBoards > MaxBoards {
		return fmt.Errorf("%w: number of boards must be between 1 and %d, got %d", ErrInvalidSettings, MaxBoards, s.NumBoards)
	}
	if s.NumPlayerCards < 1 || s.NumPlayerCards > MaxPlayerCards {
		return fmt.Errorf("%w: player cards must be between 1 and %d, got %d", ErrInvalidSettings, MaxPlayerCards, s.NumPlayerCards)
	}
	if len(s.CardsPerStage) > MaxStages {
		return fmt.Errorf("%w: at most %d stages, got %d", ErrInvalidSettings, MaxStages, len(s.CardsPerStage))
	}
	for i, n := range s.CardsPerStage {
		if n < 0 || n > MaxCardsPerStage {
			return fmt.Errorf("%w: stage %d deals %d cards", ErrInvalidSettings, i, n)
		}
	}
	return nil
}

// CommunityCardCount is the number of community cards dealt to one board over
// a full hand.
func (s Settings) CommunityCardCount() int {
	total := 0
	for _, n := range s.CardsPerStage {
		total += n
	}
	return total
}

// CardsNeeded is the number of cards a full hand consumes with the given
// number of dealt-in players.
func (s Settings) CardsNeeded(players int) int {
	return players*s.NumPlayerCards + s.NumBoards*s.CommunityCardCount()
}

// ShoeSize is the number of cards in the shoe the settings build
func (s Settings) ShoeSize() int {
	return cards.DeckSize * s.DeckCount
}

func (s Settings) clone() Settings {
	s.CardsPerStage = append([]int(nil), s.CardsPerStage...)
	return s
}

// DefaultStartingChips is the stack a player receives before their first hand
const DefaultStartingChips = 2000

// TableRules holds the table-wide configuration that outlives a hand
type TableRules struct {
	StartingChips int           `json:"startingChips"`
	Blinds        BlindSchedule `json:"blinds"`
	TurnTimeout   time.Duration `json:"turnTimeout"`
	// Seed fixes the shuffle sequence. Zero seeds from the clock.
	Seed int64 `json:"seed,omitempty"`
}

// DefaultTableRules returns 2000 chip stacks with 10/20 blinds that never
// escalate and a 30 second turn clock.
func DefaultTableRules() TableRules {
	return TableRules{
		StartingChips: DefaultStartingChips,
		Blinds:        DefaultBlindSchedule(),
		TurnTimeout:   30 * time.Second,
	}
}
