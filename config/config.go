package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lazharichir/multiboard/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the server configuration
type Config struct {
	Port     string
	LogLevel zapcore.Level
	Rules    domain.TableRules // defaults for new tables
	Settings domain.Settings   // defaults for new hands
}

// Load reads the optional env files (".env" when none are given) and then the
// environment. Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the configuration from lookup
func FromEnv(lookup func(key string) (string, bool)) (Config, error) {
	r := reader{lookup: lookup}

	cfg := Config{
		Port:     r.get("PORT", "7777"),
		Rules:    domain.DefaultTableRules(),
		Settings: domain.DefaultSettings(),
	}

	level := r.get("LOG_LEVEL", "info")
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		r.fail("LOG_LEVEL", level, err)
	}

	cfg.Rules.StartingChips = r.getInt("STARTING_CHIPS", cfg.Rules.StartingChips)
	cfg.Rules.Blinds.SmallBlind = r.getInt("SMALL_BLIND", cfg.Rules.Blinds.SmallBlind)
	cfg.Rules.Blinds.BigBlind = r.getInt("BIG_BLIND", cfg.Rules.Blinds.BigBlind)
	cfg.Rules.Blinds.HandsPerLevel = r.getInt("BLIND_HANDS_PER_LEVEL", cfg.Rules.Blinds.HandsPerLevel)
	cfg.Rules.Blinds.Multiplier = r.getInt("BLIND_MULTIPLIER", cfg.Rules.Blinds.Multiplier)
	cfg.Rules.TurnTimeout = r.getDuration("TURN_TIMEOUT", cfg.Rules.TurnTimeout)
	cfg.Rules.Seed = int64(r.getInt("SHUFFLE_SEED", 0))

	cfg.Settings.DeckCount = r.getInt("DECK_COUNT", cfg.Settings.DeckCount)
	cfg.Settings.NumBoards = r.getInt("NUM_BOARDS", cfg.Settings.NumBoards)
	cfg.Settings.NumPlayerCards = r.getInt("NUM_PLAYER_CARDS", cfg.Settings.NumPlayerCards)
	cfg.Settings.CardsPerStage = r.getInts("CARDS_PER_STAGE", cfg.Settings.CardsPerStage)

	if r.err != nil {
		return Config{}, r.err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	switch {
	case c.Rules.StartingChips < 0:
		return fmt.Errorf("STARTING_CHIPS cannot be negative, got %d", c.Rules.StartingChips)
	case c.Rules.Blinds.SmallBlind < 0:
		return fmt.Errorf("SMALL_BLIND cannot be negative, got %d", c.Rules.Blinds.SmallBlind)
	case c.Rules.Blinds.BigBlind < c.Rules.Blinds.SmallBlind:
		return fmt.Errorf("BIG_BLIND %d is below SMALL_BLIND %d", c.Rules.Blinds.BigBlind, c.Rules.Blinds.SmallBlind)
	case c.Rules.Blinds.HandsPerLevel < 0:
		return fmt.Errorf("BLIND_HANDS_PER_LEVEL cannot be negative, got %d", c.Rules.Blinds.HandsPerLevel)
	case c.Rules.TurnTimeout < 0:
		return fmt.Errorf("TURN_TIMEOUT cannot be negative, got %s", c.Rules.TurnTimeout)
	}
	return nil
}

// Addr is the listen address
func (c Config) Addr() string {
	return ":" + c.Port
}

// Logger builds a production zap logger at the configured level
func (c Config) Logger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(c.LogLevel)
	return zc.Build()
}

// reader keeps the first parse failure
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
}

func (r *reader) get(key, fallback string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (r *reader) getInt(key string, fallback int) int {
	v := r.get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return fallback
	}
	return n
}

func (r *reader) getDuration(key string, fallback time.Duration) time.Duration {
	v := r.get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return fallback
	}
	return d
}

// getInts parses a comma separated list
func (r *reader) getInts(key string, fallback []int) []int {
	v := r.get(key, "")
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			r.fail(key, v, err)
			return fallback
		}
		out = append(out, n)
	}
	return out
}
