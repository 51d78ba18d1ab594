package domain

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/lazharichir/multiboard/domain/cards"
	"github.com/lazharichir/multiboard/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatPlayer(t *testing.T) {
	table := NewTable("Test Table", testRules())
	player := NewPlayer(uuid.NewString(), "Test Player", 0)

	err := table.SeatPlayer(player)
	assert.NoError(t, err)
	assert.Len(t, table.Players, 1)
	assert.Equal(t, player.ID, table.Players[0].ID)

	err = table.SeatPlayer(NewPlayer(player.ID, "Again", 0))
	assert.ErrorIs(t, err, ErrPlayerAlreadySeated)
	assert.Len(t, table.Players, 1)

	err = table.SeatPlayer(&Player{})
	assert.Error(t, err)
}

func TestSeatPlayer_DuringHandSitsOut(t *testing.T) {
	table := newTestTable(t, 2, testRules())
	require.NoError(t, table.StartHand(DefaultSettings()))

	late := NewPlayer("late", "Late", 0)
	require.NoError(t, table.SeatPlayer(late))

	assert.True(t, late.SittingOut)
	assert.Len(t, late.IsFolded, 1)
	assert.True(t, late.IsFoldedEverywhere())
	assert.Empty(t, late.Hand)
	assert.Nil(t, table.ActiveHand.player("late"))
}

func TestPlayerLeaves(t *testing.T) {
	table := newTestTable(t, 3, testRules())
	rec := recordEvents(table)

	err := table.PlayerLeaves("nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	require.NoError(t, table.StartHand(DefaultSettings()))

	err = table.PlayerLeaves("p2")
	assert.ErrorIs(t, err, ErrHandInProgress)
	assert.Len(t, table.Players, 3)

	// p1 deals and folds; p2 and p3 finish the hand
	act(t, table, "p1", Fold(0))
	act(t, table, "p2", Fold(0))
	require.True(t, table.ActiveHand.IsOver())

	require.NoError(t, table.PlayerLeaves("p2"))
	assert.Len(t, table.Players, 2)
	assert.Equal(t, 1, rec.count("PLAYER_LEFT_TABLE"))

	left := rec.last("PLAYER_LEFT_TABLE").(events.PlayerLeftTable)
	assert.Equal(t, "p2", left.PlayerID)
	assert.Equal(t, 1990, left.Chips)
}

func TestPlayerLeaves_DealerMovesButton(t *testing.T) {
	table := newTestTable(t, 3, testRules())
	require.NoError(t, table.StartHand(DefaultSettings()))
	require.Equal(t, "p1", table.DealerID)

	act(t, table, "p1", Fold(0))
	act(t, table, "p2", Fold(0))
	require.True(t, table.ActiveHand.IsOver())

	require.NoError(t, table.PlayerLeaves("p1"))

	require.NoError(t, table.StartHand(DefaultSettings()))
	assert.Equal(t, "p2", table.DealerID, "the seat after the departed dealer takes the button")
}

func TestStartHand_TwoPlayerScenario(t *testing.T) {
	tests := []struct {
		name      string
		hole      string
		community string
		wantP1    int
		wantP2    int
		winners   []string
	}{
		{
			name:      "better hand takes the pot",
			hole:      "As Ah Kd Kc",
			community: "2c 7d 9h Js 3s",
			wantP1:    2020,
			wantP2:    1980,
			winners:   []string{"p1"},
		},
		{
			name:      "equal hands split the pot",
			hole:      "2c 3d 2d 3c",
			community: "As Ks Qh Jd 10c",
			wantP1:    2000,
			wantP2:    2000,
			winners:   []string{"p1", "p2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTestTable(t, 2, testRules())
			table.deckBuilder = riggedDeck(tt.hole, tt.community)

			require.NoError(t, table.StartHand(DefaultSettings()))
			h := table.ActiveHand

			assert.Equal(t, "p1", h.DealerID)
			assert.Equal(t, 10, table.Players[0].CurrentBets[0], "dealer posts the small blind heads-up")
			assert.Equal(t, 20, table.Players[1].CurrentBets[0])
			assert.Equal(t, 30, h.Pot[0])
			assert.Equal(t, 20, h.CurrentBets[0])
			assert.Equal(t, "p1", h.TurnID)

			act(t, table, "p1", Call(0))
			assert.Equal(t, 40, h.Pot[0])
			assert.Len(t, h.CommunityCards[0], 3, "flop")
			assert.Equal(t, 1, h.CurrentStage)

			for _, want := range []int{4, 5} {
				act(t, table, "p2", Check(0))
				act(t, table, "p1", Check(0))
				assert.Len(t, h.CommunityCards[0], want)
			}

			act(t, table, "p2", Check(0))
			act(t, table, "p1", Check(0))

			assert.Equal(t, HandStatusResolved, h.Status)
			assert.Equal(t, "", h.TurnID)
			assert.Equal(t, cards.MustParse(tt.community), h.CommunityCards[0])
			assert.Equal(t, tt.winners, h.Winners[0])
			assert.Equal(t, 0, h.Pot[0])
			assert.Equal(t, tt.wantP1, table.Players[0].Chips)
			assert.Equal(t, tt.wantP2, table.Players[1].Chips)
			assert.Equal(t, 1, table.HandsPlayed)
		})
	}
}

func TestStartHand_ThreePlayerBlinds(t *testing.T) {
	table := newTestTable(t, 3, testRules())
	rec := recordEvents(table)

	require.NoError(t, table.StartHand(DefaultSettings()))
	h := table.ActiveHand

	assert.Equal(t, "p1", h.DealerID)
	assert.Equal(t, []int{0, 10, 20}, []int{
		table.Players[0].CurrentBets[0],
		table.Players[1].CurrentBets[0],
		table.Players[2].CurrentBets[0],
	})
	assert.Equal(t, "p1", h.TurnID, "first to act is the seat after the big blind")
	assert.Equal(t, []string{"p1", "p2", "p3"}, h.ActivePlayerIDs)
	assert.Equal(t, 2, rec.count("BLIND_POSTED"))
	assert.Equal(t, 3, rec.count("HOLE_CARDS_DEALT"))

	for _, p := range table.Players {
		assert.Len(t, p.Hand, 2)
		assert.Equal(t, 2000, p.SessionStartChips)
	}
	assert.Len(t, h.Deck, 52-6)
}

func TestStartHand_ShortBlindIsAllIn(t *testing.T) {
	table := NewTable("Short", testRules())
	require.NoError(t, table.SeatPlayer(NewPlayer("p1", "P1", 0)))
	require.NoError(t, table.SeatPlayer(NewPlayer("p2", "P2", 0)))
	require.NoError(t, table.SeatPlayer(NewPlayer("p3", "P3", 15)))

	require.NoError(t, table.StartHand(DefaultSettings()))
	h := table.ActiveHand

	p3 := table.findPlayer("p3")
	assert.Equal(t, 15, p3.CurrentBets[0])
	assert.Equal(t, 0, p3.Chips)
	assert.Equal(t, 20, h.CurrentBets[0], "the table bet is the full big blind")
	assert.Equal(t, 25, h.Pot[0])
}

func TestStartHand_InvalidSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
	}{
		{"no deck", Settings{DeckCount: 0, NumBoards: 1, NumPlayerCards: 2, CardsPerStage: []int{3, 1, 1}}},
		{"no board", Settings{DeckCount: 1, NumBoards: 0, NumPlayerCards: 2, CardsPerStage: []int{3, 1, 1}}},
		{"no hole cards", Settings{DeckCount: 1, NumBoards: 1, NumPlayerCards: 0, CardsPerStage: []int{3, 1, 1}}},
		{"negative stage", Settings{DeckCount: 1, NumBoards: 1, NumPlayerCards: 2, CardsPerStage: []int{3, -1}}},
		{"huge deck count", Settings{DeckCount: math.MaxInt / 26, NumBoards: 1, NumPlayerCards: 2, CardsPerStage: []int{3, 1, 1}}},
		{"too many decks", Settings{DeckCount: MaxDeckCount + 1, NumBoards: 1, NumPlayerCards: 2, CardsPerStage: []int{3, 1, 1}}},
		{"huge board count", Settings{DeckCount: 1, NumBoards: math.MaxInt, NumPlayerCards: 2, CardsPerStage: []int{3, 1, 1}}},
		{"huge hole card count", Settings{DeckCount: 1, NumBoards: 1, NumPlayerCards: math.MaxInt, CardsPerStage: []int{3, 1, 1}}},
		{"huge stage", Settings{DeckCount: 1, NumBoards: 1, NumPlayerCards: 2, CardsPerStage: []int{3, math.MaxInt}}},
		{"too many stages", Settings{DeckCount: 1, NumBoards: 1, NumPlayerCards: 2, CardsPerStage: make([]int, MaxStages+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTestTable(t, 2, testRules())

			err := table.StartHand(tt.settings)

			assert.ErrorIs(t, err, ErrInvalidSettings)
			assert.Nil(t, table.ActiveHand)
			assert.Equal(t, 0, table.Players[0].SessionStartChips, "chips are not handed out")
		})
	}
}

func TestStartHand_DeckTooSmall(t *testing.T) {
	table := newTestTable(t, 2, testRules())
	settings := Settings{DeckCount: 1, NumBoards: 10, NumPlayerCards: 2, CardsPerStage: []int{3, 1, 1}}

	err := table.StartHand(settings)
	assert.ErrorIs(t, err, ErrEmptyDeck)
	assert.Nil(t, table.ActiveHand)
	assert.Equal(t, "", table.DealerID)

	settings.DeckCount = 2
	assert.NoError(t, table.StartHand(settings))
}

func TestStartHand_LargestShoe(t *testing.T) {
	table := newTestTable(t, 2, testRules())
	settings := Settings{DeckCount: MaxDeckCount, NumBoards: MaxBoards, NumPlayerCards: MaxPlayerCards, CardsPerStage: []int{3, 1, 1}}

	require.NoError(t, table.StartHand(settings))
	assert.Len(t, table.ActiveHand.Deck, MaxDeckCount*cards.DeckSize-2*MaxPlayerCards)
}

func TestStartHand_HandInProgress(t *testing.T) {
	table := newTestTable(t, 2, testRules())
	require.NoError(t, table.StartHand(DefaultSettings()))
	first := table.ActiveHand.ID

	err := table.StartHand(DefaultSettings())
	assert.ErrorIs(t, err, ErrHandInProgress)
	assert.Equal(t, first, table.ActiveHand.ID)
}

func TestStartHand_VoidedWithoutOpponent(t *testing.T) {
	table := newTestTable(t, 1, testRules())
	rec := recordEvents(table)

	require.NoError(t, table.StartHand(DefaultSettings()))
	h := table.ActiveHand

	assert.Equal(t, HandStatusVoided, h.Status)
	assert.Equal(t, "", h.TurnID)
	assert.Equal(t, 2000, table.Players[0].Chips)
	assert.Equal(t, 0, h.TotalPot())
	assert.Equal(t, 1, rec.count("HAND_VOIDED"))
	assert.Equal(t, 0, table.HandsPlayed)

	// a voided hand does not block the next one
	require.NoError(t, table.SeatPlayer(NewPlayer("p2", "P2", 0)))
	require.NoError(t, table.StartHand(DefaultSettings()))
	assert.Equal(t, HandStatusBetting, table.ActiveHand.Status)
}

func TestStartHand_BrokePlayerSitsOut(t *testing.T) {
	table := newTestTable(t, 3, testRules())
	rec := recordEvents(table)
	broke := table.findPlayer("p1")
	broke.assignChips(100)
	broke.Chips = 0

	require.NoError(t, table.StartHand(DefaultSettings()))
	h := table.ActiveHand

	assert.True(t, broke.SittingOut)
	assert.Empty(t, broke.Hand)
	assert.True(t, broke.IsFoldedEverywhere())
	assert.Equal(t, "p2", h.DealerID, "the button skips players without chips")
	assert.Equal(t, []string{"p2", "p3"}, h.ActivePlayerIDs)
	assert.Equal(t, "p2", h.TurnID)
	assert.Equal(t, 1, rec.count("PLAYER_SAT_OUT"))

	started := rec.last("HAND_STARTED").(events.HandStarted)
	assert.Equal(t, []string{"p2", "p3"}, started.Players)
}

func TestStartHand_DealerRotates(t *testing.T) {
	table := newTestTable(t, 2, testRules())

	require.NoError(t, table.StartHand(DefaultSettings()))
	assert.Equal(t, "p1", table.DealerID)
	act(t, table, "p1", Fold(0))
	require.True(t, table.ActiveHand.IsOver())
	assert.Equal(t, 1990, table.Players[0].Chips)
	assert.Equal(t, 2010, table.Players[1].Chips)

	require.NoError(t, table.StartHand(DefaultSettings()))
	assert.Equal(t, "p2", table.DealerID)
	assert.Equal(t, 10, table.Players[1].CurrentBets[0])
	assert.Equal(t, "p2", table.ActiveHand.TurnID)
	assert.Equal(t, 2, table.ActiveHand.Number)
}

func TestStartHand_BlindsEscalate(t *testing.T) {
	rules := testRules()
	rules.Blinds = BlindSchedule{SmallBlind: 10, BigBlind: 20, HandsPerLevel: 1, Multiplier: 2}
	table := newTestTable(t, 2, rules)
	rec := recordEvents(table)

	require.NoError(t, table.StartHand(DefaultSettings()))
	assert.Equal(t, 20, table.ActiveHand.BigBlind)
	act(t, table, "p1", Fold(0))

	require.NoError(t, table.StartHand(DefaultSettings()))
	assert.Equal(t, 20, table.ActiveHand.SmallBlind)
	assert.Equal(t, 40, table.ActiveHand.BigBlind)
	assert.Equal(t, 60, table.ActiveHand.Pot[0])
	assert.Equal(t, 1, rec.count("BLINDS_INCREASED"))
	snapshot := table.Snapshot()
	assert.Equal(t, 40, snapshot.BigBlind)
	assert.Equal(t, 20, snapshot.SmallBlind)
}

func TestStartHand_ChipsAssignedOnce(t *testing.T) {
	table := newTestTable(t, 2, testRules())
	require.NoError(t, table.StartHand(DefaultSettings()))
	act(t, table, "p1", Fold(0))

	require.NoError(t, table.StartHand(DefaultSettings()))

	p1 := table.findPlayer("p1")
	assert.Equal(t, 2000, p1.SessionStartChips)
	assert.Equal(t, 1990-20, p1.Chips, "p1 posts the big blind in the second hand")
}

func TestSubmitAction_NoHand(t *testing.T) {
	table := newTestTable(t, 2, testRules())

	err := table.SubmitAction("p1", Call(0))
	assert.ErrorIs(t, err, ErrNoActiveHand)
}
