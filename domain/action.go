package domain

import "fmt"

// WagerUnit is the step every raise amount must be a multiple of
const WagerUnit = 25

type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionRaise ActionType = "raise"
)

// Action is a player's decision on one board
type Action struct {
	Type       ActionType `json:"type"`
	BoardIndex int        `json:"boardIndex"`
	Amount     int        `json:"amount,omitempty"`
}

func (a Action) String() string {
	if a.Type == ActionRaise {
		return fmt.Sprintf("%s %d on board %d", a.Type, a.Amount, a.BoardIndex)
	}
	return fmt.Sprintf("%s on board %d", a.Type, a.BoardIndex)
}

func Fold(board int) Action  { return Action{Type: ActionFold, BoardIndex: board} }
func Check(board int) Action { return Action{Type: ActionCheck, BoardIndex: board} }
func Call(board int) Action  { return Action{Type: ActionCall, BoardIndex: board} }

func Raise(board, amount int) Action {
	return Action{Type: ActionRaise, BoardIndex: board, Amount: amount}
}
