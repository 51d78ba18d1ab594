package commands

type Command interface {
	Name() string
}

type JoinTable struct {
	TableID    string `json:"tableId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Chips      int    `json:"chips,omitempty"`
}

func (c JoinTable) Name() string { return "join-table" }

type LeaveTable struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
}

func (c LeaveTable) Name() string { return "leave-table" }

type StartHand struct {
	TableID        string `json:"tableId"`
	DeckCount      int    `json:"deckCount,omitempty"`
	NumBoards      int    `json:"numBoards,omitempty"`
	NumPlayerCards int    `json:"numPlayerCards,omitempty"`
	CardsPerStage  []int  `json:"cardsPerStage,omitempty"`
}

func (c StartHand) Name() string { return "start-hand" }

type SubmitAction struct {
	TableID    string `json:"tableId"`
	PlayerID   string `json:"playerId"`
	Type       string `json:"type"`
	BoardIndex int    `json:"boardIndex"`
	Amount     int    `json:"amount"`
}

func (c SubmitAction) Name() string { return "submit-action" }
