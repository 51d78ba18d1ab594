package domain

import (
	"time"

	"github.com/lazharichir/multiboard/domain/events"
)

// distributePot pays board b. No side pots are built: the most any winner
// put into the board caps what can be won from each contributor, and chips
// committed above the cap go back to whoever committed them. The rest is
// split evenly between the winners; odd chips go one at a time to winners in
// seat order starting left of the dealer.
func (h *Hand) distributePot(b int) {
	pot := h.Pot[b]
	winners := h.Winners[b]
	if pot <= 0 || len(winners) == 0 {
		return
	}

	callCap := 0
	for _, id := range winners {
		callCap = max(callCap, h.Committed[id][b])
	}

	for _, p := range h.players {
		excess := h.Committed[p.ID][b] - callCap
		if excess <= 0 {
			continue
		}

		p.Chips += excess
		pot -= excess

		h.emitEvent(events.ChipsReturned{
			TableID:    h.TableID,
			HandID:     h.ID,
			PlayerID:   p.ID,
			BoardIndex: b,
			Amount:     excess,
			At:         time.Now(),
		})
	}

	order := h.payoutOrder(winners)
	if len(order) == 0 {
		return
	}
	share, remainder := pot/len(order), pot%len(order)
	for i, p := range order {
		amount := share
		if i < remainder {
			amount++
		}
		p.Chips += amount

		h.emitEvent(events.PotAwarded{
			TableID:    h.TableID,
			HandID:     h.ID,
			PlayerID:   p.ID,
			BoardIndex: b,
			Amount:     amount,
			At:         time.Now(),
		})
	}

	h.Pot[b] = 0
}

// payoutOrder returns the winners in seat order starting left of the dealer
func (h *Hand) payoutOrder(winners []string) []*Player {
	wanted := make(map[string]bool, len(winners))
	for _, id := range winners {
		wanted[id] = true
	}

	n := len(h.players)
	dealer := h.seatIndex(h.DealerID)

	order := make([]*Player, 0, len(winners))
	for i := 1; i <= n; i++ {
		p := h.players[((dealer+i)%n+n)%n]
		if wanted[p.ID] {
			order = append(order, p)
		}
	}
	return order
}
