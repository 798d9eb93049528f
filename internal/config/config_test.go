package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/game"
)

const sample = `
table {
  small_blind    = 25
  big_blind      = 50
  starting_stack = 5000
  seed           = 42
  button         = 1
  min_raise      = "big_blind"
  odd_chip       = "lowest_seat"
  burn_cards     = false
}

seat "Hero" {
  policy = "human"
}

seat "Shark" {
  policy = "heuristic"
  stack  = 8000
}

seat "Fish" {
  policy = "calling"
}

equity {
  iterations = 800
}

log {
  level = "debug"
}

tui {
  turn_timeout_seconds = 30
  timeout_action       = "call"
}
`

func TestParse(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(sample), "holdem.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 25, cfg.Table.SmallBlind)
	assert.Equal(t, 50, cfg.Table.BigBlind)
	assert.Equal(t, int64(42), cfg.Table.Seed)
	assert.Equal(t, 1000, cfg.Table.Hands, "unset values keep their defaults")
	require.Len(t, cfg.Seats, 3)
	assert.Equal(t, SeatConfig{Name: "Shark", Policy: "heuristic", Stack: 8000}, cfg.Seats[1])
	assert.Equal(t, 800, cfg.Equity.Iterations)
	assert.Equal(t, 50000, cfg.Equity.ExhaustiveLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "holdem.log", cfg.Log.File)
	assert.Equal(t, 30, cfg.TUI.TurnTimeoutSeconds)
	assert.Equal(t, TimeoutCall, cfg.TUI.TimeoutAction)

	hc, err := cfg.HandConfig()
	require.NoError(t, err)
	assert.Equal(t, 25, hc.SmallBlind)
	assert.Equal(t, 1, hc.Button)
	assert.Equal(t, game.Rules{MinRaise: game.MinRaiseBigBlind, OddChip: game.OddChipLowestSeat, BurnCards: false}, *hc.Rules)
}

func TestEngineSeats(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(sample), "holdem.hcl")
	require.NoError(t, err)

	seats, err := cfg.EngineSeats(log.NewWithOptions(io.Discard, log.Options{}))
	require.NoError(t, err)
	require.Len(t, seats, 3)

	assert.Equal(t, "hero", seats[0].ID)
	assert.Equal(t, 5000, seats[0].Stack)
	assert.IsType(t, &bot.HumanProxy{}, seats[0].Policy)
	assert.Equal(t, 8000, seats[1].Stack)
	assert.IsType(t, &bot.Heuristic{}, seats[1].Policy)
	assert.IsType(t, bot.CallingStation{}, seats[2].Policy)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "holdem.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Hero", cfg.Seats[0].Name)
}

func TestSeatPolicyDefaultsToHeuristic(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(`
seat "a" {}
seat "b" {}
`), "seats.hcl")
	require.NoError(t, err)
	assert.Equal(t, "heuristic", cfg.Seats[0].Policy)
	assert.NoError(t, cfg.Validate())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte(`table {`), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Parse([]byte(`table { ante = 5 }`), "unknown.hcl")
	assert.ErrorContains(t, err, "failed to decode HCL")

	_, err = Parse([]byte(`table { big_blind = "lots" }`), "type.hcl")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero big blind", func(c *Config) { c.Table.BigBlind = 0 }, "big blind must be positive"},
		{"small blind above big", func(c *Config) { c.Table.SmallBlind = 20 }, "small blind"},
		{"one seat", func(c *Config) { c.Seats = c.Seats[:1] }, "need between 2 and 10 seats"},
		{"button off table", func(c *Config) { c.Table.Button = 4 }, "button 4"},
		{"bad min raise", func(c *Config) { c.Table.MinRaise = "pot" }, "min raise"},
		{"bad odd chip", func(c *Config) { c.Table.OddChip = "dealer" }, "odd chip"},
		{"duplicate seat", func(c *Config) { c.Seats[1].Name = "you" }, "duplicate seat"},
		{"unknown policy", func(c *Config) { c.Seats[1].Policy = "shark" }, "unknown bot kind"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "log level"},
		{"bad timeout action", func(c *Config) { c.TUI.TimeoutAction = "shove" }, "timeout action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalid)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
