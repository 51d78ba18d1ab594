package domain

import (
	"time"

	"github.com/lazharichir/multiboard/domain/cards"
)

// TableSnapshot is a copy of a table's state safe to hand to other
// goroutines and to serialise for clients.
type TableSnapshot struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	SmallBlind  int              `json:"smallBlind"`
	BigBlind    int              `json:"bigBlind"`
	HandsPlayed int              `json:"handsPlayed"`
	DealerID    string           `json:"dealerId"`
	TurnTimeout time.Duration    `json:"turnTimeout"`
	Players     []PlayerSnapshot `json:"players"`
	Hand        *HandSnapshot    `json:"hand,omitempty"`
}

type PlayerSnapshot struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Chips             int         `json:"chips"`
	SessionStartChips int         `json:"sessionStartChips"`
	HoleCards         cards.Stack `json:"holeCards,omitempty"`
	HasCards          bool        `json:"hasCards"`
	IsFolded          []bool      `json:"isFolded"`
	CurrentBets       []int       `json:"currentBets"`
	HasActed          []bool      `json:"hasActed"`
	SittingOut        bool        `json:"sittingOut"`
	IsDealer          bool        `json:"isDealer"`
	IsTurn            bool        `json:"isTurn"`
	OwedBoards        []int       `json:"owedBoards,omitempty"` // boards still owing action this round
}

type HandSnapshot struct {
	ID             string              `json:"id"`
	Number         int                 `json:"number"`
	Status         HandStatus          `json:"status"`
	Settings       Settings            `json:"settings"`
	CurrentStage   int                 `json:"currentStage"`
	SmallBlind     int                 `json:"smallBlind"`
	BigBlind       int                 `json:"bigBlind"`
	DealerID       string              `json:"dealerId"`
	TurnID         string              `json:"turnId"`
	CommunityCards []cards.Stack       `json:"communityCards"`
	Pot            []int               `json:"pot"`
	CurrentBets    []int               `json:"currentBets"`
	Winners        [][]string          `json:"winners"`
	HandNames      []map[string]string `json:"handNames,omitempty"`
	DeckRemaining  int                 `json:"deckRemaining"`
	StartedAt      time.Time           `json:"startedAt"`
}

// Snapshot copies the table state
func (t *Table) Snapshot() TableSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.snapshot()
}

func (t *Table) snapshot() TableSnapshot {
	s := TableSnapshot{
		ID:          t.ID,
		Name:        t.Name,
		SmallBlind:  t.blinds.SmallBlind,
		BigBlind:    t.blinds.BigBlind,
		HandsPlayed: t.HandsPlayed,
		DealerID:    t.DealerID,
		TurnTimeout: t.Rules.TurnTimeout,
		Players:     make([]PlayerSnapshot, len(t.Players)),
	}

	h := t.ActiveHand
	for i, p := range t.Players {
		ps := PlayerSnapshot{
			ID:                p.ID,
			Name:              p.Name,
			Chips:             p.Chips,
			SessionStartChips: p.SessionStartChips,
			HoleCards:         p.Hand.Clone(),
			HasCards:          len(p.Hand) > 0,
			IsFolded:          append([]bool(nil), p.IsFolded...),
			CurrentBets:       append([]int(nil), p.CurrentBets...),
			HasActed:          append([]bool(nil), p.HasActed...),
			SittingOut:        p.SittingOut,
			IsDealer:          p.ID == t.DealerID,
		}
		if h != nil && !h.IsOver() && h.player(p.ID) != nil {
			ps.IsTurn = p.ID == h.TurnID
			for b := 0; b < h.Settings.NumBoards; b++ {
				if h.owesActionOn(p, b) {
					ps.OwedBoards = append(ps.OwedBoards, b)
				}
			}
		}
		s.Players[i] = ps
	}

	if h != nil {
		hs := &HandSnapshot{
			ID:             h.ID,
			Number:         h.Number,
			Status:         h.Status,
			Settings:       h.Settings.clone(),
			CurrentStage:   h.CurrentStage,
			SmallBlind:     h.SmallBlind,
			BigBlind:       h.BigBlind,
			DealerID:       h.DealerID,
			TurnID:         h.TurnID,
			CommunityCards: make([]cards.Stack, len(h.CommunityCards)),
			Pot:            append([]int(nil), h.Pot...),
			CurrentBets:    append([]int(nil), h.CurrentBets...),
			Winners:        make([][]string, len(h.Winners)),
			DeckRemaining:  len(h.Deck),
			StartedAt:      h.StartedAt,
		}
		for b, cc := range h.CommunityCards {
			hs.CommunityCards[b] = cc.Clone()
		}
		for b, w := range h.Winners {
			hs.Winners[b] = append([]string(nil), w...)
		}
		if h.Results != nil {
			hs.HandNames = make([]map[string]string, len(h.Results))
			for b, results := range h.Results {
				names := make(map[string]string, len(results))
				for _, r := range results {
					names[r.PlayerID] = r.Evaluation.Name()
				}
				hs.HandNames[b] = names
			}
		}
		s.Hand = hs
	}

	return s
}

// ForPlayer returns the snapshot as viewerID may see it. Other players' hole
// cards stay hidden until the hand is resolved, and folded hands are never
// shown.
func (s TableSnapshot) ForPlayer(viewerID string) TableSnapshot {
	out := s
	out.Players = make([]PlayerSnapshot, len(s.Players))

	revealed := s.Hand != nil && s.Hand.Status == HandStatusResolved
	for i, p := range s.Players {
		if p.ID != viewerID && !(revealed && !allTrue(p.IsFolded)) {
			p.HoleCards = nil
		}
		out.Players[i] = p
	}
	return out
}

func allTrue(flags []bool) bool {
	for _, f := range flags {
		if !f {
			return false
		}
	}
	return true
}
