package domain

import "errors"

var (
	// ErrInvalidAction covers acting out of turn, an unknown action type, a
	// board index out of range and acting on a folded board.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidBetAmount is returned for raises that are not a positive
	// multiple of the wager unit.
	ErrInvalidBetAmount = errors.New("invalid bet amount")
	// ErrInsufficientChips is returned when a raise increment exceeds the
	// player's stack. Raises are never capped.
	ErrInsufficientChips = errors.New("insufficient chips")
	// ErrEmptyDeck is returned when a deal needs more cards than remain.
	ErrEmptyDeck = errors.New("not enough cards in deck")

	ErrTableNotFound       = errors.New("table not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerAlreadySeated = errors.New("player already at table")
	ErrHandInProgress      = errors.New("a hand is already in progress")
	ErrNoActiveHand        = errors.New("no hand in progress")
	ErrInvalidSettings     = errors.New("invalid settings")
)
