package domain

import (
	"fmt"
	"testing"

	"github.com/lazharichir/multiboard/domain/cards"
	"github.com/lazharichir/multiboard/domain/events"
	"github.com/stretchr/testify/require"
)

func testRules() TableRules {
	rules := DefaultTableRules()
	rules.Seed = 42
	return rules
}

// newTestTable seats players p1..pn with the table's starting chips
func newTestTable(t *testing.T, n int, rules TableRules) *Table {
	t.Helper()

	table := NewTable("Test Table", rules)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		require.NoError(t, table.SeatPlayer(NewPlayer(id, "Player "+id, 0)))
	}
	return table
}

// riggedDeck puts the hole cards on top of the deck, in seat order, and
// arranges the tail so community cards come out in the given deal order.
func riggedDeck(hole, community string) func(Settings) cards.Stack {
	return func(Settings) cards.Stack {
		head := cards.MustParse(hole)
		tail := cards.MustParse(community)

		used := make(map[cards.Card]bool)
		for _, c := range head {
			used[c] = true
		}
		for _, c := range tail {
			used[c] = true
		}

		deck := head.Clone()
		for _, c := range cards.NewDeck52() {
			if !used[c] {
				deck = append(deck, c)
			}
		}
		for i := len(tail) - 1; i >= 0; i-- {
			deck = append(deck, tail[i])
		}
		return deck
	}
}

type eventRecorder struct {
	events []events.Event
}

func recordEvents(table *Table) *eventRecorder {
	r := &eventRecorder{}
	table.RegisterEventHandler(func(e events.Event) {
		r.events = append(r.events, e)
	})
	return r
}

func (r *eventRecorder) count(name string) int {
	n := 0
	for _, e := range r.events {
		if e.Name() == name {
			n++
		}
	}
	return n
}

func (r *eventRecorder) last(name string) events.Event {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Name() == name {
			return r.events[i]
		}
	}
	return nil
}

// totalChips is every chip at the table, in stacks or in pots
func totalChips(table *Table) int {
	total := 0
	for _, p := range table.Players {
		total += p.Chips
	}
	if table.ActiveHand != nil {
		total += table.ActiveHand.TotalPot()
	}
	return total
}

// act submits an action and fails the test if it is rejected
func act(t *testing.T, table *Table, playerID string, action Action) {
	t.Helper()
	require.NoError(t, table.SubmitAction(playerID, action), "%s: %s", playerID, action)
}

// checkDown checks every owed board until the hand is over
func checkDown(t *testing.T, table *Table) {
	t.Helper()

	for i := 0; !table.ActiveHand.IsOver(); i++ {
		require.Less(t, i, 1000, "hand did not finish")

		h := table.ActiveHand
		p := h.player(h.TurnID)
		require.NotNil(t, p, "turn holder %q", h.TurnID)

		board := h.firstOwedBoard(p)
		require.GreaterOrEqual(t, board, 0)
		act(t, table, p.ID, Check(board))
	}
}
