package domain

import "github.com/lazharichir/multiboard/domain/cards"

// Player represents a poker player at a table. Chips persist across hands,
// everything else is reset when a hand starts.
type Player struct {
	ID                string
	Name              string
	Chips             int
	SessionStartChips int
	Hand              cards.Stack
	IsFolded          []bool
	CurrentBets       []int
	HasActed          []bool
	SittingOut        bool

	chipsAssigned bool
}

// NewPlayer creates a new player with the given ID and name. A zero stack is
// topped up to the table's starting chips before the first hand.
func NewPlayer(id string, name string, chips int) *Player {
	p := &Player{
		ID:    id,
		Name:  name,
		Chips: chips,
	}
	if chips > 0 {
		p.assignChips(chips)
	}
	return p
}

func (p *Player) assignChips(chips int) {
	p.Chips = chips
	p.SessionStartChips = chips
	p.chipsAssigned = true
}

// ResetForNewHand sizes the per-board state for numBoards and clears it
func (p *Player) ResetForNewHand(numBoards int) {
	p.Hand = nil
	p.IsFolded = make([]bool, numBoards)
	p.CurrentBets = make([]int, numBoards)
	p.HasActed = make([]bool, numBoards)
	p.SittingOut = false
}

// sitOut keeps a player without chips out of the hand
func (p *Player) sitOut() {
	p.SittingOut = true
	for b := range p.IsFolded {
		p.IsFolded[b] = true
	}
}

// resetRound clears per-round bets and action flags
func (p *Player) resetRound() {
	for b := range p.CurrentBets {
		p.CurrentBets[b] = 0
		p.HasActed[b] = false
	}
}

// IsFoldedEverywhere reports whether the player has no live board
func (p *Player) IsFoldedEverywhere() bool {
	for _, folded := range p.IsFolded {
		if !folded {
			return false
		}
	}
	return true
}

// IsContender reports whether the player is still live on board b
func (p *Player) IsContender(b int) bool {
	return b >= 0 && b < len(p.IsFolded) && !p.IsFolded[b]
}

// IsAllIn reports whether the player is live somewhere with nothing behind
func (p *Player) IsAllIn() bool {
	return p.Chips == 0 && !p.IsFoldedEverywhere()
}
