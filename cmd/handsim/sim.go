package main

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lazharichir/multiboard/domain"
)

// errStalled is returned when a hand does not finish within the action limit
var errStalled = errors.New("hand did not finish")

// strategy picks loose-passive actions: mostly calls and checks, with the
// occasional fold or minimum raise.
type strategy struct {
	rng       *rand.Rand
	foldRate  float64
	raiseRate float64
}

// choose returns the action for the player on turn, on the first board where
// they still owe action
func (s strategy) choose(snapshot domain.TableSnapshot) (domain.Action, bool) {
	hand := snapshot.Hand
	if hand == nil || hand.TurnID == "" {
		return domain.Action{}, false
	}

	var me domain.PlayerSnapshot
	for _, p := range snapshot.Players {
		if p.ID == hand.TurnID {
			me = p
		}
	}
	if len(me.OwedBoards) == 0 {
		return domain.Action{}, false
	}

	b := me.OwedBoards[0]
	facing := hand.CurrentBets[b] - me.CurrentBets[b]
	roll := s.rng.Float64()

	switch {
	case facing > 0 && roll < s.foldRate:
		return domain.Fold(b), true
	case roll > 1-s.raiseRate && facing+domain.WagerUnit <= me.Chips:
		return domain.Raise(b, domain.WagerUnit), true
	case facing > 0:
		return domain.Call(b), true
	}
	return domain.Check(b), true
}

// fallback is always legal for a player owing action on board b
func fallback(snapshot domain.TableSnapshot, b int) domain.Action {
	for _, p := range snapshot.Players {
		if p.ID == snapshot.Hand.TurnID && p.CurrentBets[b] < snapshot.Hand.CurrentBets[b] {
			return domain.Call(b)
		}
	}
	return domain.Check(b)
}

// playHand starts a hand and plays it out with s. It returns the number of
// actions taken.
func playHand(table *domain.Table, settings domain.Settings, s strategy, maxActions int) (int, error) {
	if err := table.StartHand(settings); err != nil {
		return 0, err
	}

	for n := 0; n < maxActions; n++ {
		snapshot := table.Snapshot()
		action, ok := s.choose(snapshot)
		if !ok {
			return n, nil
		}

		playerID := snapshot.Hand.TurnID
		if err := table.SubmitAction(playerID, action); err != nil {
			// a fold is refused for the last player on a board
			action = fallback(snapshot, action.BoardIndex)
			if err := table.SubmitAction(playerID, action); err != nil {
				return n, fmt.Errorf("%s %s: %w", playerID, action, err)
			}
		}
	}

	if table.Snapshot().Hand.Status == domain.HandStatusBetting {
		return maxActions, errStalled
	}
	return maxActions, nil
}
