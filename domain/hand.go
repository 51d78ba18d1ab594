package domain

import (
	"fmt"
	"time"

	"github.com/lazharichir/multiboard/domain/cards"
	"github.com/lazharichir/multiboard/domain/events"
	"github.com/lazharichir/multiboard/domain/hands"
)

type HandStatus string

const (
	HandStatusBetting  HandStatus = "betting"
	HandStatusResolved HandStatus = "resolved"
	HandStatusVoided   HandStatus = "voided"
)

// Hand is the state of one hand of multi-board poker. Per-board slices are
// all NumBoards long.
type Hand struct {
	ID        string
	TableID   string
	Number    int
	Settings  Settings
	Status    HandStatus
	StartedAt time.Time
	EndedAt   time.Time

	Deck            cards.Stack
	CurrentStage    int
	SmallBlind      int
	BigBlind        int
	DealerID        string
	TurnID          string
	ActivePlayerIDs []string

	CommunityCards []cards.Stack
	Winners        [][]string
	Pot            []int
	CurrentBets    []int // the table bet each board's contenders must match
	Committed      map[string][]int
	Results        [][]hands.HandComparisonResult

	// seat order, shared with the table
	players       []*Player
	eventHandlers []events.EventHandler
}

func newHand(id, tableID string, number int, settings Settings, players []*Player, deck cards.Stack) *Hand {
	n := settings.NumBoards
	h := &Hand{
		ID:             id,
		TableID:        tableID,
		Number:         number,
		Settings:       settings,
		Status:         HandStatusBetting,
		StartedAt:      time.Now(),
		Deck:           deck,
		CommunityCards: make([]cards.Stack, n),
		Winners:        make([][]string, n),
		Pot:            make([]int, n),
		CurrentBets:    make([]int, n),
		Committed:      make(map[string][]int, len(players)),
		players:        players,
	}
	for b := range h.CommunityCards {
		h.CommunityCards[b] = cards.Stack{}
	}
	for _, p := range players {
		h.Committed[p.ID] = make([]int, n)
	}
	return h
}

// RegisterEventHandler registers a callback function that will be called when events occur
func (h *Hand) RegisterEventHandler(handler events.EventHandler) {
	h.eventHandlers = append(h.eventHandlers, handler)
}

func (h *Hand) emitEvent(event events.Event) {
	for _, handler := range h.eventHandlers {
		handler(event)
	}
}

// IsOver reports whether the hand reached a terminal state
func (h *Hand) IsOver() bool {
	return h.Status != HandStatusBetting
}

// TotalPot sums the pots of every board
func (h *Hand) TotalPot() int {
	total := 0
	for _, p := range h.Pot {
		total += p
	}
	return total
}

func (h *Hand) dealHoleCards() error {
	for _, p := range h.players {
		if p.SittingOut {
			continue
		}

		dealt, err := h.Deck.DealCards(h.Settings.NumPlayerCards)
		if err != nil {
			return fmt.Errorf("%w: dealing to %s: %v", ErrEmptyDeck, p.ID, err)
		}
		p.Hand = dealt

		h.emitEvent(events.HoleCardsDealt{
			TableID:  h.TableID,
			HandID:   h.ID,
			PlayerID: p.ID,
			Count:    len(dealt),
			At:       time.Now(),
		})
	}
	return nil
}

// start opens the first betting round with blinds on board 0
func (h *Hand) start() error {
	h.ActivePlayerIDs = h.activePlayerIDs()
	if len(h.ActivePlayerIDs) < 2 {
		h.void("fewer than two players with chips")
		return nil
	}

	sb, bb := h.blindPosters()
	h.postBlind(sb, "small", h.SmallBlind)
	h.postBlind(bb, "big", h.BigBlind)
	h.CurrentBets[0] = h.BigBlind
	// the big blind's post is its action, so a limped pot gives it no option
	bb.HasActed[0] = true

	from := h.seatIndex(bb.ID)
	h.emitEvent(events.BettingRoundStarted{
		TableID:    h.TableID,
		HandID:     h.ID,
		Stage:      h.CurrentStage,
		FirstToAct: h.firstToAct(from),
		At:         time.Now(),
	})

	return h.advance(from)
}

// openBettingRound starts a round without blinds. Action starts left of the
// dealer; the returned seat is where the search for the next actor begins.
func (h *Hand) openBettingRound() int {
	h.ActivePlayerIDs = h.activePlayerIDs()

	from := h.seatIndex(h.DealerID)
	h.emitEvent(events.BettingRoundStarted{
		TableID:    h.TableID,
		HandID:     h.ID,
		Stage:      h.CurrentStage,
		FirstToAct: h.firstToAct(from),
		At:         time.Now(),
	})
	return from
}

func (h *Hand) firstToAct(from int) string {
	if p := h.nextToAct(from); p != nil {
		return p.ID
	}
	return ""
}

// activePlayerIDs lists, in seat order, players with chips and a live board
func (h *Hand) activePlayerIDs() []string {
	var ids []string
	for _, p := range h.players {
		if p.Chips > 0 && !p.IsFoldedEverywhere() {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// blindPosters picks the blinds relative to the dealer among active players.
// Heads-up the dealer posts the small blind.
func (h *Hand) blindPosters() (small, big *Player) {
	active := h.ActivePlayerIDs
	n := len(active)

	dealerPos := 0
	for i, id := range active {
		if id == h.DealerID {
			dealerPos = i
			break
		}
	}

	if n == 2 {
		return h.player(active[dealerPos]), h.player(active[(dealerPos+1)%n])
	}
	return h.player(active[(dealerPos+1)%n]), h.player(active[(dealerPos+2)%n])
}

func (h *Hand) postBlind(p *Player, kind string, blind int) {
	amount := min(blind, p.Chips)
	h.commit(p, 0, amount)

	h.emitEvent(events.BlindPosted{
		TableID:  h.TableID,
		HandID:   h.ID,
		PlayerID: p.ID,
		Blind:    kind,
		Amount:   amount,
		At:       time.Now(),
	})
}

// commit moves chips from a player's stack into a board's pot
func (h *Hand) commit(p *Player, board, amount int) {
	p.Chips -= amount
	p.CurrentBets[board] += amount
	h.Pot[board] += amount
	h.Committed[p.ID][board] += amount
}

// applyAction validates an action completely before touching any state
func (h *Hand) applyAction(playerID string, action Action) error {
	if h.IsOver() {
		return fmt.Errorf("%w: hand %s is %s", ErrNoActiveHand, h.ID, h.Status)
	}
	if playerID == "" || playerID != h.TurnID {
		return fmt.Errorf("%w: it is not %s's turn", ErrInvalidAction, playerID)
	}

	p := h.player(playerID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	b := action.BoardIndex
	if b < 0 || b >= h.Settings.NumBoards {
		return fmt.Errorf("%w: board %d out of range", ErrInvalidAction, b)
	}
	if p.IsFolded[b] {
		return fmt.Errorf("%w: %s has folded board %d", ErrInvalidAction, playerID, b)
	}

	switch action.Type {
	case ActionFold:
		if h.contenderCount(b) == 1 {
			return fmt.Errorf("%w: %s is the last player on board %d", ErrInvalidAction, playerID, b)
		}
		p.IsFolded[b] = true

		h.emitEvent(events.PlayerFolded{
			TableID:    h.TableID,
			HandID:     h.ID,
			PlayerID:   playerID,
			BoardIndex: b,
			At:         time.Now(),
		})

	case ActionCheck:
		if p.CurrentBets[b] != h.CurrentBets[b] {
			return fmt.Errorf("%w: cannot check facing a bet of %d on board %d", ErrInvalidAction, h.CurrentBets[b], b)
		}

		h.emitEvent(events.PlayerChecked{
			TableID:    h.TableID,
			HandID:     h.ID,
			PlayerID:   playerID,
			BoardIndex: b,
			At:         time.Now(),
		})

	case ActionCall:
		amount := max(0, min(p.Chips, h.CurrentBets[b]-p.CurrentBets[b]))
		h.commit(p, b, amount)

		h.emitEvent(events.PlayerCalled{
			TableID:    h.TableID,
			HandID:     h.ID,
			PlayerID:   playerID,
			BoardIndex: b,
			Amount:     amount,
			AllIn:      p.Chips == 0,
			At:         time.Now(),
		})

	case ActionRaise:
		if action.Amount <= 0 || action.Amount%WagerUnit != 0 {
			return fmt.Errorf("%w: raise must be a positive multiple of %d, got %d", ErrInvalidBetAmount, WagerUnit, action.Amount)
		}

		// toCall and p.Chips are never negative, so this cannot overflow
		toCall := h.CurrentBets[b] - p.CurrentBets[b]
		if action.Amount > p.Chips-toCall {
			return fmt.Errorf("%w: raise of %d needs more than the %d chips %s has", ErrInsufficientChips, action.Amount, p.Chips, playerID)
		}
		increment := toCall + action.Amount
		target := h.CurrentBets[b] + action.Amount

		h.commit(p, b, increment)
		h.CurrentBets[b] = target
		for _, other := range h.players {
			if other != p && other.IsContender(b) {
				other.HasActed[b] = false
			}
		}

		h.emitEvent(events.PlayerRaised{
			TableID:    h.TableID,
			HandID:     h.ID,
			PlayerID:   playerID,
			BoardIndex: b,
			Amount:     action.Amount,
			Increment:  increment,
			TableBet:   target,
			At:         time.Now(),
		})

	default:
		return fmt.Errorf("%w: unknown action type %q", ErrInvalidAction, action.Type)
	}

	p.HasActed[b] = true

	return h.advance(h.seatIndex(playerID))
}

// advance hands the turn to the next player owing action. When nobody owes
// action the round is over: the next stage is dealt, and once the stages run
// out (or no board is contested any more) the hand goes to showdown. With no
// bettor left on any board the remaining stages are dealt back to back.
func (h *Hand) advance(from int) error {
	for {
		if h.isUncontested() {
			return h.showdown()
		}

		if !h.IsRoundComplete() {
			next := h.nextToAct(from)
			h.TurnID = next.ID
			h.emitEvent(events.PlayerTurnStarted{
				TableID:  h.TableID,
				HandID:   h.ID,
				PlayerID: next.ID,
				At:       time.Now(),
			})
			return nil
		}

		h.endBettingRound()

		if h.CurrentStage >= len(h.Settings.CardsPerStage) {
			return h.showdown()
		}

		if err := h.dealStage(); err != nil {
			h.void("deck exhausted")
			return err
		}

		from = h.openBettingRound()
	}
}

// nextToAct searches seat order after from, wrapping back to from itself
func (h *Hand) nextToAct(from int) *Player {
	n := len(h.players)
	for i := 1; i <= n; i++ {
		p := h.players[((from+i)%n+n)%n]
		if h.owesAction(p) {
			return p
		}
	}
	return nil
}

func (h *Hand) owesAction(p *Player) bool {
	for b := 0; b < h.Settings.NumBoards; b++ {
		if h.owesActionOn(p, b) {
			return true
		}
	}
	return false
}

// owesActionOn reports whether p must still act on board b this round. Only
// contested boards need action and a player with no chips behind never acts.
// A player facing a bet owes a call or fold; otherwise they owe a first
// action only while someone else could still bet against them.
func (h *Hand) owesActionOn(p *Player, b int) bool {
	if !p.IsContender(b) || p.IsAllIn() || h.contenderCount(b) < 2 {
		return false
	}
	if p.CurrentBets[b] < h.CurrentBets[b] {
		return true
	}
	return !p.HasActed[b] && h.bettorCount(b) >= 2
}

// firstOwedBoard is the lowest board on which p owes action, or -1
func (h *Hand) firstOwedBoard(p *Player) int {
	for b := 0; b < h.Settings.NumBoards; b++ {
		if h.owesActionOn(p, b) {
			return b
		}
	}
	return -1
}

// IsRoundComplete reports whether no player owes action on any board
func (h *Hand) IsRoundComplete() bool {
	for _, p := range h.players {
		if h.owesAction(p) {
			return false
		}
	}
	return true
}

func (h *Hand) isUncontested() bool {
	for b := 0; b < h.Settings.NumBoards; b++ {
		if h.contenderCount(b) > 1 {
			return false
		}
	}
	return true
}

func (h *Hand) contenders(b int) []*Player {
	var out []*Player
	for _, p := range h.players {
		if p.IsContender(b) {
			out = append(out, p)
		}
	}
	return out
}

func (h *Hand) contenderCount(b int) int {
	n := 0
	for _, p := range h.players {
		if p.IsContender(b) {
			n++
		}
	}
	return n
}

// bettorCount counts contenders on b with chips behind
func (h *Hand) bettorCount(b int) int {
	n := 0
	for _, p := range h.players {
		if p.IsContender(b) && p.Chips > 0 {
			n++
		}
	}
	return n
}

func (h *Hand) endBettingRound() {
	h.emitEvent(events.BettingRoundEnded{
		TableID: h.TableID,
		HandID:  h.ID,
		Stage:   h.CurrentStage,
		Pots:    append([]int(nil), h.Pot...),
		At:      time.Now(),
	})

	for _, p := range h.players {
		p.resetRound()
	}
	for b := range h.CurrentBets {
		h.CurrentBets[b] = 0
	}
}

// dealStage deals the current stage to every board from the tail of the
// deck, one board at a time. Nothing is dealt if the deck is too short.
func (h *Hand) dealStage() error {
	count := h.Settings.CardsPerStage[h.CurrentStage]
	needed := count * h.Settings.NumBoards
	if needed > len(h.Deck) {
		return fmt.Errorf("%w: stage %d needs %d cards, %d left", ErrEmptyDeck, h.CurrentStage, needed, len(h.Deck))
	}

	for b := 0; b < h.Settings.NumBoards; b++ {
		dealt := make(cards.Stack, 0, count)
		for i := 0; i < count; i++ {
			card, err := h.Deck.DealFromTail()
			if err != nil {
				return fmt.Errorf("%w: %v", ErrEmptyDeck, err)
			}
			dealt = append(dealt, card)
		}
		h.CommunityCards[b] = append(h.CommunityCards[b], dealt...)

		h.emitEvent(events.CommunityCardsDealt{
			TableID:    h.TableID,
			HandID:     h.ID,
			Stage:      h.CurrentStage,
			BoardIndex: b,
			Cards:      dealt,
			At:         time.Now(),
		})
	}

	h.CurrentStage++
	return nil
}

// showdown ranks the contenders of every board, pays the pots and resolves
// the hand.
func (h *Hand) showdown() error {
	h.TurnID = ""
	h.Results = make([][]hands.HandComparisonResult, h.Settings.NumBoards)

	for b := 0; b < h.Settings.NumBoards; b++ {
		contenders := h.contenders(b)

		switch len(contenders) {
		case 0:
		case 1:
			h.Winners[b] = []string{contenders[0].ID}
		default:
			playerCards := make(map[string]cards.Stack, len(contenders))
			for _, p := range contenders {
				all := cards.NewStack(p.Hand...)
				all.AddCards(h.CommunityCards[b]...)
				playerCards[p.ID] = all
			}

			results := hands.CompareHands(playerCards)
			h.Results[b] = results
			h.Winners[b] = h.inSeatOrder(hands.Winners(results))
		}

		h.emitEvent(events.BoardShowdown{
			TableID:    h.TableID,
			HandID:     h.ID,
			BoardIndex: b,
			Results:    boardResults(h.Results[b]),
			Winners:    h.Winners[b],
			At:         time.Now(),
		})
	}

	for b := 0; b < h.Settings.NumBoards; b++ {
		h.distributePot(b)
	}

	h.Status = HandStatusResolved
	h.EndedAt = time.Now()

	h.emitEvent(events.HandEnded{
		TableID:  h.TableID,
		HandID:   h.ID,
		Duration: h.EndedAt.Sub(h.StartedAt),
		Winners:  h.Winners,
		At:       h.EndedAt,
	})

	return nil
}

func boardResults(results []hands.HandComparisonResult) []events.BoardResult {
	if len(results) == 0 {
		return nil
	}
	out := make([]events.BoardResult, len(results))
	for i, r := range results {
		out[i] = events.BoardResult{
			PlayerID: r.PlayerID,
			HandName: r.Evaluation.Name(),
			Place:    r.PlaceIndex,
		}
	}
	return out
}

// void ends a hand that cannot be played. Every committed chip goes back to
// the player who put it in.
func (h *Hand) void(reason string) {
	refunded := 0
	for _, p := range h.players {
		for b, amount := range h.Committed[p.ID] {
			p.Chips += amount
			refunded += amount
			h.Committed[p.ID][b] = 0
		}
		p.resetRound()
	}
	for b := range h.Pot {
		h.Pot[b] = 0
		h.CurrentBets[b] = 0
	}

	h.TurnID = ""
	h.Status = HandStatusVoided
	h.EndedAt = time.Now()

	h.emitEvent(events.HandVoided{
		TableID:  h.TableID,
		HandID:   h.ID,
		Reason:   reason,
		Refunded: refunded,
		At:       h.EndedAt,
	})
}

func (h *Hand) player(id string) *Player {
	for _, p := range h.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (h *Hand) seatIndex(id string) int {
	for i, p := range h.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (h *Hand) inSeatOrder(ids []string) []string {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	out := make([]string, 0, len(ids))
	for _, p := range h.players {
		if wanted[p.ID] {
			out = append(out, p.ID)
		}
	}
	return out
}
