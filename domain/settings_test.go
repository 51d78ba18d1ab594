package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())
	assert.NoError(t, Settings{DeckCount: 2, NumBoards: 4, NumPlayerCards: 1}.Validate(), "a hand may have no community cards")

	bad := DefaultSettings()
	bad.NumBoards = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSettings)

	bad = DefaultSettings()
	bad.DeckCount = MaxDeckCount + 1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSettings)
}

func TestSettings_ShoeSize(t *testing.T) {
	assert.Equal(t, 104, Settings{DeckCount: 2}.ShoeSize())
}

func TestSettings_CardsNeeded(t *testing.T) {
	s := Settings{DeckCount: 1, NumBoards: 3, NumPlayerCards: 2, CardsPerStage: []int{3, 1, 1}}

	assert.Equal(t, 5, s.CommunityCardCount())
	assert.Equal(t, 4*2+3*5, s.CardsNeeded(4))
}

func TestSettings_CloneIsIndependent(t *testing.T) {
	s := DefaultSettings()
	c := s.clone()
	c.CardsPerStage[0] = 9

	assert.Equal(t, 3, s.CardsPerStage[0])
}

func TestBlindLevel_Escalate(t *testing.T) {
	tests := []struct {
		name     string
		schedule BlindSchedule
		played   int
		want     bool
		wantSB   int
		wantBB   int
	}{
		{"never escalates", BlindSchedule{SmallBlind: 10, BigBlind: 20}, 50, false, 10, 20},
		{"level not finished", BlindSchedule{SmallBlind: 10, BigBlind: 20, HandsPerLevel: 5, Multiplier: 2}, 4, false, 10, 20},
		{"level finished", BlindSchedule{SmallBlind: 10, BigBlind: 20, HandsPerLevel: 5, Multiplier: 2}, 5, true, 20, 40},
		{"triple", BlindSchedule{SmallBlind: 25, BigBlind: 50, HandsPerLevel: 1, Multiplier: 3}, 1, true, 75, 150},
		{"zero multiplier keeps the blinds", BlindSchedule{SmallBlind: 10, BigBlind: 20, HandsPerLevel: 1}, 1, true, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := newBlindLevel(tt.schedule)
			level.HandsPlayedSinceIncrease = tt.played

			got := level.escalate(tt.schedule)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSB, level.SmallBlind)
			assert.Equal(t, tt.wantBB, level.BigBlind)
			if got {
				assert.Equal(t, 0, level.HandsPlayedSinceIncrease)
			}
		})
	}
}
