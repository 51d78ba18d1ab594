package events

import (
	"time"

	"github.com/lazharichir/multiboard/domain/cards"
)

type EventHandler func(event Event)

// Event is a notification emitted by a table. Events are broadcast to
// listeners as they happen and are not kept for replay.
type Event interface {
	Name() string
}

// Table membership

type PlayerJoinedTable struct {
	TableID  string
	PlayerID string
	Chips    int
	At       time.Time
}

func (e PlayerJoinedTable) Name() string { return "PLAYER_JOINED_TABLE" }

type PlayerLeftTable struct {
	TableID  string
	PlayerID string
	Chips    int
	At       time.Time
}

func (e PlayerLeftTable) Name() string { return "PLAYER_LEFT_TABLE" }

// Hand structure

type HandStarted struct {
	TableID    string
	HandID     string
	HandNumber int
	DealerID   string
	Players    []string
	SmallBlind int
	BigBlind   int
	At         time.Time
}

func (e HandStarted) Name() string { return "HAND_STARTED" }

type BlindsIncreased struct {
	TableID    string
	SmallBlind int
	BigBlind   int
	At         time.Time
}

func (e BlindsIncreased) Name() string { return "BLINDS_INCREASED" }

type HoleCardsDealt struct {
	TableID  string
	HandID   string
	PlayerID string
	Count    int
	At       time.Time
}

func (e HoleCardsDealt) Name() string { return "HOLE_CARDS_DEALT" }

type PlayerSatOut struct {
	TableID  string
	HandID   string
	PlayerID string
	At       time.Time
}

func (e PlayerSatOut) Name() string { return "PLAYER_SAT_OUT" }

type BlindPosted struct {
	TableID  string
	HandID   string
	PlayerID string
	Blind    string // "small" or "big"
	Amount   int
	At       time.Time
}

func (e BlindPosted) Name() string { return "BLIND_POSTED" }

type CommunityCardsDealt struct {
	TableID    string
	HandID     string
	Stage      int
	BoardIndex int
	Cards      cards.Stack
	At         time.Time
}

func (e CommunityCardsDealt) Name() string { return "COMMUNITY_CARDS_DEALT" }

// Betting

type BettingRoundStarted struct {
	TableID    string
	HandID     string
	Stage      int
	FirstToAct string
	At         time.Time
}

func (e BettingRoundStarted) Name() string { return "BETTING_ROUND_STARTED" }

type BettingRoundEnded struct {
	TableID string
	HandID  string
	Stage   int
	Pots    []int
	At      time.Time
}

func (e BettingRoundEnded) Name() string { return "BETTING_ROUND_ENDED" }

type PlayerTurnStarted struct {
	TableID  string
	HandID   string
	PlayerID string
	At       time.Time
}

func (e PlayerTurnStarted) Name() string { return "PLAYER_TURN_STARTED" }

type PlayerFolded struct {
	TableID    string
	HandID     string
	PlayerID   string
	BoardIndex int
	At         time.Time
}

func (e PlayerFolded) Name() string { return "PLAYER_FOLDED" }

type PlayerChecked struct {
	TableID    string
	HandID     string
	PlayerID   string
	BoardIndex int
	At         time.Time
}

func (e PlayerChecked) Name() string { return "PLAYER_CHECKED" }

type PlayerCalled struct {
	TableID    string
	HandID     string
	PlayerID   string
	BoardIndex int
	Amount     int
	AllIn      bool
	At         time.Time
}

func (e PlayerCalled) Name() string { return "PLAYER_CALLED" }

type PlayerRaised struct {
	TableID    string
	HandID     string
	PlayerID   string
	BoardIndex int
	Amount     int // the raise on top of the previous table bet
	Increment  int // chips moved from the player's stack
	TableBet   int
	At         time.Time
}

func (e PlayerRaised) Name() string { return "PLAYER_RAISED" }

type PlayerTimedOut struct {
	TableID    string
	HandID     string
	PlayerID   string
	BoardIndex int
	At         time.Time
}

func (e PlayerTimedOut) Name() string { return "PLAYER_TIMED_OUT" }

// Showdown and payout

type BoardResult struct {
	PlayerID string
	HandName string
	Place    int
}

type BoardShowdown struct {
	TableID    string
	HandID     string
	BoardIndex int
	Results    []BoardResult
	Winners    []string
	At         time.Time
}

func (e BoardShowdown) Name() string { return "BOARD_SHOWDOWN" }

type ChipsReturned struct {
	TableID    string
	HandID     string
	PlayerID   string
	BoardIndex int
	Amount     int
	At         time.Time
}

func (e ChipsReturned) Name() string { return "CHIPS_RETURNED" }

type PotAwarded struct {
	TableID    string
	HandID     string
	PlayerID   string
	BoardIndex int
	Amount     int
	At         time.Time
}

func (e PotAwarded) Name() string { return "POT_AWARDED" }

type HandEnded struct {
	TableID  string
	HandID   string
	Duration time.Duration
	Winners  [][]string
	At       time.Time
}

func (e HandEnded) Name() string { return "HAND_ENDED" }

type HandVoided struct {
	TableID  string
	HandID   string
	Reason   string
	Refunded int
	At       time.Time
}

func (e HandVoided) Name() string { return "HAND_VOIDED" }
