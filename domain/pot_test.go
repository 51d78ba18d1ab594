package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newPotHand(dealerID string, ids ...string) *Hand {
	players := make([]*Player, len(ids))
	for i, id := range ids {
		players[i] = &Player{ID: id}
		players[i].ResetForNewHand(1)
	}

	h := newHand("hand", "table", 1, DefaultSettings(), players, nil)
	h.DealerID = dealerID
	return h
}

func chipsOf(h *Hand) map[string]int {
	out := make(map[string]int, len(h.players))
	for _, p := range h.players {
		out[p.ID] = p.Chips
	}
	return out
}

func TestDistributePot(t *testing.T) {
	tests := []struct {
		name      string
		dealer    string
		committed map[string]int
		folded    []string
		winners   []string
		want      map[string]int
	}{
		{
			name:      "single winner takes all",
			dealer:    "a",
			committed: map[string]int{"a": 50, "b": 50, "c": 50, "d": 0},
			winners:   []string{"b"},
			want:      map[string]int{"a": 0, "b": 150, "c": 0, "d": 0},
		},
		{
			name:      "even split",
			dealer:    "a",
			committed: map[string]int{"a": 20, "b": 20, "c": 0, "d": 0},
			winners:   []string{"a", "b"},
			want:      map[string]int{"a": 20, "b": 20, "c": 0, "d": 0},
		},
		{
			name:      "odd chip goes left of the dealer first",
			dealer:    "a",
			committed: map[string]int{"a": 25, "b": 25, "c": 25, "d": 25},
			winners:   []string{"b", "c", "d"},
			want:      map[string]int{"a": 0, "b": 34, "c": 33, "d": 33},
		},
		{
			name:      "odd chip order wraps around the table",
			dealer:    "c",
			committed: map[string]int{"a": 25, "b": 25, "c": 25, "d": 25},
			winners:   []string{"b", "c", "d"},
			want:      map[string]int{"a": 0, "b": 33, "c": 33, "d": 34},
		},
		{
			name:      "two odd chips",
			dealer:    "d",
			committed: map[string]int{"a": 30, "b": 30, "c": 30, "d": 11},
			winners:   []string{"a", "b", "c"},
			want:      map[string]int{"a": 34, "b": 34, "c": 33, "d": 0},
		},
		{
			name:      "excess above a short winner goes back",
			dealer:    "a",
			committed: map[string]int{"a": 100, "b": 40, "c": 100, "d": 0},
			winners:   []string{"b"},
			want:      map[string]int{"a": 60, "b": 120, "c": 60, "d": 0},
		},
		{
			name:      "cap is the largest winner commitment",
			dealer:    "a",
			committed: map[string]int{"a": 100, "b": 40, "c": 70, "d": 0},
			winners:   []string{"b", "c"},
			want:      map[string]int{"a": 30, "b": 90, "c": 90, "d": 0},
		},
		{
			name:      "folded contributor gets excess above the cap back",
			dealer:    "a",
			committed: map[string]int{"a": 150, "b": 60, "c": 60, "d": 0},
			folded:    []string{"a", "c"},
			winners:   []string{"b"},
			want:      map[string]int{"a": 90, "b": 180, "c": 0, "d": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newPotHand(tt.dealer, "a", "b", "c", "d")
			pot := 0
			for id, amount := range tt.committed {
				h.Committed[id][0] = amount
				pot += amount
			}
			h.Pot[0] = pot
			h.Winners[0] = tt.winners
			for _, id := range tt.folded {
				h.player(id).IsFolded[0] = true
			}

			h.distributePot(0)

			assert.Equal(t, tt.want, chipsOf(h))
			assert.Equal(t, 0, h.Pot[0])

			paid := 0
			for _, chips := range chipsOf(h) {
				paid += chips
			}
			assert.Equal(t, pot, paid, "no chip is lost")
		})
	}
}

func TestDistributePot_NoOp(t *testing.T) {
	h := newPotHand("a", "a", "b")

	h.Winners[0] = []string{"a"}
	h.distributePot(0)
	assert.Equal(t, map[string]int{"a": 0, "b": 0}, chipsOf(h))

	h.Pot[0] = 40
	h.Winners[0] = nil
	h.distributePot(0)
	assert.Equal(t, 40, h.Pot[0], "a pot without winners is left alone")
}
