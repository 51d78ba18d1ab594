package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lazharichir/multiboard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Port)
	assert.Equal(t, ":7777", cfg.Addr())
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.Equal(t, domain.DefaultTableRules(), cfg.Rules)
	assert.Equal(t, domain.DefaultSettings(), cfg.Settings)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":                  "9000",
		"LOG_LEVEL":             "debug",
		"STARTING_CHIPS":        "500",
		"SMALL_BLIND":           "25",
		"BIG_BLIND":             "50",
		"BLIND_HANDS_PER_LEVEL": "10",
		"BLIND_MULTIPLIER":      "3",
		"TURN_TIMEOUT":          "1m30s",
		"SHUFFLE_SEED":          "99",
		"DECK_COUNT":            "2",
		"NUM_BOARDS":            "3",
		"NUM_PLAYER_CARDS":      "4",
		"CARDS_PER_STAGE":       "3, 2",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal(t, domain.TableRules{
		StartingChips: 500,
		Blinds:        domain.BlindSchedule{SmallBlind: 25, BigBlind: 50, HandsPerLevel: 10, Multiplier: 3},
		TurnTimeout:   90 * time.Second,
		Seed:          99,
	}, cfg.Rules)
	assert.Equal(t, domain.Settings{DeckCount: 2, NumBoards: 3, NumPlayerCards: 4, CardsPerStage: []int{3, 2}}, cfg.Settings)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"bad int", map[string]string{"STARTING_CHIPS": "lots"}, "STARTING_CHIPS"},
		{"bad duration", map[string]string{"TURN_TIMEOUT": "30"}, "TURN_TIMEOUT"},
		{"bad stage list", map[string]string{"CARDS_PER_STAGE": "3,x"}, "CARDS_PER_STAGE"},
		{"zero boards", map[string]string{"NUM_BOARDS": "0"}, "number of boards"},
		{"negative stage", map[string]string{"CARDS_PER_STAGE": "3,-1"}, "stage 1"},
		{"blinds reversed", map[string]string{"SMALL_BLIND": "40", "BIG_BLIND": "20"}, "BIG_BLIND"},
		{"negative timeout", map[string]string{"TURN_TIMEOUT": "-1s"}, "TURN_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(env(tt.vars))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MULTIBOARD_TEST_UNUSED=1\nNUM_BOARDS=2\n"), 0o600))

	t.Setenv("NUM_BOARDS", "")
	os.Unsetenv("NUM_BOARDS")
	t.Setenv("PORT", "8123")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Settings.NumBoards)
	assert.Equal(t, "8123", cfg.Port)

	t.Cleanup(func() { os.Unsetenv("MULTIBOARD_TEST_UNUSED") })
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLogger(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"LOG_LEVEL": "warn"}))
	require.NoError(t, err)

	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}
