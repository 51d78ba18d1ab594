package domain

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lazharichir/multiboard/domain/cards"
	"github.com/lazharichir/multiboard/domain/events"
	"github.com/sanity-io/litter"
	"go.uber.org/zap"
)

func NewTable(name string, rules TableRules) *Table {
	if rules.StartingChips <= 0 {
		rules.StartingChips = DefaultStartingChips
	}

	return &Table{
		ID:            uuid.NewString(),
		Name:          name,
		Rules:         rules,
		Players:       []*Player{},
		CreatedAt:     time.Now(),
		blinds:        newBlindLevel(rules.Blinds),
		rng:           cards.NewRandomSource(rules.Seed),
		logger:        zap.NewNop(),
		eventHandlers: []events.EventHandler{},
	}
}

// Table represents a poker table. Players are kept in registration order,
// which is also the seating and turn order.
type Table struct {
	ID          string
	Name        string
	Rules       TableRules
	Players     []*Player
	ActiveHand  *Hand
	DealerID    string
	HandsPlayed int
	CreatedAt   time.Time

	mu     sync.Mutex
	blinds blindLevel
	rng    cards.RandomSource
	logger *zap.Logger

	// deckBuilder replaces the shuffled shoe in tests
	deckBuilder func(Settings) cards.Stack

	eventHandlers []events.EventHandler
}

// SeatPlayer adds a player to the table. Players who arrive during a hand sit
// out until the next one.
func (t *Table) SeatPlayer(player *Player) error {
	if player == nil || player.ID == "" {
		return fmt.Errorf("%w: player needs an id", ErrPlayerNotFound)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.findPlayer(player.ID) != nil {
		return fmt.Errorf("%w: %s", ErrPlayerAlreadySeated, player.ID)
	}

	if t.handInProgress() {
		player.ResetForNewHand(t.ActiveHand.Settings.NumBoards)
		player.sitOut()
	}

	t.Players = append(t.Players, player)

	t.emitEvent(events.PlayerJoinedTable{
		TableID:  t.ID,
		PlayerID: player.ID,
		Chips:    player.Chips,
		At:       time.Now(),
	})

	return nil
}

// PlayerLeaves removes a player from the table. A player dealt into the
// current hand has to wait for it to finish.
func (t *Table) PlayerLeaves(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	playerIndex := -1
	for i, p := range t.Players {
		if p.ID == playerID {
			playerIndex = i
			break
		}
	}

	if playerIndex == -1 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	player := t.Players[playerIndex]
	if t.handInProgress() && t.ActiveHand.player(playerID) != nil {
		return fmt.Errorf("%w: %s is dealt in", ErrHandInProgress, playerID)
	}

	// the button moves on from the seat the dealer left
	if t.DealerID == playerID {
		t.DealerID = ""
		if playerIndex > 0 {
			t.DealerID = t.Players[playerIndex-1].ID
		} else if len(t.Players) > 1 {
			t.DealerID = t.Players[len(t.Players)-1].ID
		}
	}

	t.Players = append(t.Players[:playerIndex], t.Players[playerIndex+1:]...)

	t.emitEvent(events.PlayerLeftTable{
		TableID:  t.ID,
		PlayerID: playerID,
		Chips:    player.Chips,
		At:       time.Now(),
	})

	return nil
}

// StartHand deals a new hand with the given settings. Nothing changes when
// the settings are rejected.
func (t *Table) StartHand(settings Settings) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := settings.Validate(); err != nil {
		return err
	}
	if t.handInProgress() {
		return fmt.Errorf("%w: %s", ErrHandInProgress, t.ActiveHand.ID)
	}
	settings = settings.clone()

	dealtIn := 0
	for _, p := range t.Players {
		if p.Chips > 0 || (!p.chipsAssigned && t.Rules.StartingChips > 0) {
			dealtIn++
		}
	}

	if needed := settings.CardsNeeded(dealtIn); needed > settings.ShoeSize() {
		return fmt.Errorf("%w: a hand needs %d cards, the shoe has %d", ErrEmptyDeck, needed, settings.ShoeSize())
	}
	deck := t.buildDeck(settings)

	for _, p := range t.Players {
		if !p.chipsAssigned {
			p.assignChips(t.Rules.StartingChips)
		}
	}

	if t.blinds.escalate(t.Rules.Blinds) {
		t.emitEvent(events.BlindsIncreased{
			TableID:    t.ID,
			SmallBlind: t.blinds.SmallBlind,
			BigBlind:   t.blinds.BigBlind,
			At:         time.Now(),
		})
	}

	t.DealerID = t.nextDealer()

	players := make([]*Player, len(t.Players))
	copy(players, t.Players)

	hand := newHand(uuid.NewString(), t.ID, t.HandsPlayed+1, settings, players, deck)
	hand.SmallBlind = t.blinds.SmallBlind
	hand.BigBlind = t.blinds.BigBlind
	hand.DealerID = t.DealerID
	hand.RegisterEventHandler(t.handleHandEvent)
	t.ActiveHand = hand

	var playerIDs, sittingOut []string
	for _, p := range players {
		p.ResetForNewHand(settings.NumBoards)
		if p.Chips == 0 {
			p.sitOut()
			sittingOut = append(sittingOut, p.ID)
			continue
		}
		playerIDs = append(playerIDs, p.ID)
	}

	hand.emitEvent(events.HandStarted{
		TableID:    t.ID,
		HandID:     hand.ID,
		HandNumber: hand.Number,
		DealerID:   hand.DealerID,
		Players:    playerIDs,
		SmallBlind: hand.SmallBlind,
		BigBlind:   hand.BigBlind,
		At:         hand.StartedAt,
	})

	for _, id := range sittingOut {
		hand.emitEvent(events.PlayerSatOut{
			TableID:  t.ID,
			HandID:   hand.ID,
			PlayerID: id,
			At:       time.Now(),
		})
	}

	if err := hand.dealHoleCards(); err != nil {
		hand.void("deck exhausted")
		return err
	}

	return hand.start()
}

// SubmitAction applies a player's action to the hand in progress
func (t *Table) SubmitAction(playerID string, action Action) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.handInProgress() {
		return ErrNoActiveHand
	}

	err := t.ActiveHand.applyAction(playerID, action)
	if err != nil {
		t.logger.Debug("action rejected",
			zap.String("hand_id", t.ActiveHand.ID),
			zap.String("player_id", playerID),
			zap.Stringer("action", action),
			zap.Error(err),
		)
	}
	return err
}

// ForfeitTurn folds the player whose turn has run out, on the first board
// where they still owe action.
func (t *Table) ForfeitTurn(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.handInProgress() {
		return ErrNoActiveHand
	}

	hand := t.ActiveHand
	if playerID == "" || hand.TurnID != playerID {
		return fmt.Errorf("%w: it is not %s's turn", ErrInvalidAction, playerID)
	}

	board := hand.firstOwedBoard(hand.player(playerID))
	if board < 0 {
		return fmt.Errorf("%w: %s owes no action", ErrInvalidAction, playerID)
	}

	hand.emitEvent(events.PlayerTimedOut{
		TableID:    t.ID,
		HandID:     hand.ID,
		PlayerID:   playerID,
		BoardIndex: board,
		At:         time.Now(),
	})

	return hand.applyAction(playerID, Fold(board))
}

// Turn returns the player whose turn it is, or "" when nobody has to act
func (t *Table) Turn() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.handInProgress() {
		return ""
	}
	return t.ActiveHand.TurnID
}

// RegisterEventHandler registers a callback function that will be called when events occur.
// Handlers run while the table is locked and must not call back into it.
func (t *Table) RegisterEventHandler(handler events.EventHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventHandlers = append(t.eventHandlers, handler)
}

func (t *Table) handleHandEvent(event events.Event) {
	if ce := t.logger.Check(zap.DebugLevel, "table received event"); ce != nil {
		ce.Write(zap.String("event", event.Name()), zap.String("detail", litter.Sdump(event)))
	}

	switch ev := event.(type) {
	case events.HandEnded:
		t.HandsPlayed++
		t.blinds.HandsPlayedSinceIncrease++
		t.logger.Info("hand ended",
			zap.String("hand_id", ev.HandID),
			zap.Int("hands_played", t.HandsPlayed),
			zap.Duration("duration", ev.Duration),
		)
	case events.HandVoided:
		t.logger.Warn("hand voided",
			zap.String("hand_id", ev.HandID),
			zap.String("reason", ev.Reason),
			zap.Int("refunded", ev.Refunded),
		)
	}

	t.emitEvent(event)
}

// emitEvent notifies all registered handlers of a new event
func (t *Table) emitEvent(event events.Event) {
	for _, handler := range t.eventHandlers {
		handler(event)
	}
}

func (t *Table) handInProgress() bool {
	return t.ActiveHand != nil && !t.ActiveHand.IsOver()
}

func (t *Table) findPlayer(id string) *Player {
	for _, p := range t.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// nextDealer moves the button to the next seat with chips. The first button
// goes to the first registered player with chips.
func (t *Table) nextDealer() string {
	n := len(t.Players)
	current := -1
	for i, p := range t.Players {
		if p.ID == t.DealerID {
			current = i
			break
		}
	}

	for i := 1; i <= n; i++ {
		p := t.Players[((current+i)%n+n)%n]
		if p.Chips > 0 {
			return p.ID
		}
	}
	return ""
}

func (t *Table) buildDeck(settings Settings) cards.Stack {
	if t.deckBuilder != nil {
		return t.deckBuilder(settings)
	}

	shoe := cards.NewShoe(settings.DeckCount)
	shoe.Shuffle(t.rng)
	return shoe
}
