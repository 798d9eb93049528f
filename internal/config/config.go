// Package config loads table, seat and presentation settings from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/equity"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Timeout actions for the interactive turn timer
const (
	TimeoutCheckFold = "check_fold"
	TimeoutCall      = "call"
)

// Config is the complete configuration after defaults are applied
type Config struct {
	Table  TableConfig
	Seats  []SeatConfig
	Equity EquityConfig
	Log    LogConfig
	TUI    TUIConfig
}

// TableConfig holds the stakes and rules of the table
type TableConfig struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingStack int    `hcl:"starting_stack,optional"`
	Seed          int64  `hcl:"seed,optional"`
	Button        int    `hcl:"button,optional"`
	MinRaise      string `hcl:"min_raise,optional"`
	OddChip       string `hcl:"odd_chip,optional"`
	BurnCards     *bool  `hcl:"burn_cards,optional"`
	Hands         int    `hcl:"hands,optional"`
}

// SeatConfig describes one player
type SeatConfig struct {
	Name   string `hcl:"name,label"`
	Policy string `hcl:"policy,optional"`
	Stack  int    `hcl:"stack,optional"`
}

// EquityConfig tunes the equity estimator used by heuristic bots
type EquityConfig struct {
	Iterations      int `hcl:"iterations,optional"`
	ExhaustiveLimit int `hcl:"exhaustive_limit,optional"`
}

// LogConfig sets the log level and the file the terminal UI logs to
type LogConfig struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// TUIConfig configures the interactive turn timer. A zero timeout disables it.
type TUIConfig struct {
	TurnTimeoutSeconds int    `hcl:"turn_timeout_seconds,optional"`
	TimeoutAction      string `hcl:"timeout_action,optional"`
}

// file mirrors the HCL layout; every block is optional
type file struct {
	Table  *TableConfig  `hcl:"table,block"`
	Seats  []SeatConfig  `hcl:"seat,block"`
	Equity *EquityConfig `hcl:"equity,block"`
	Log    *LogConfig    `hcl:"log,block"`
	TUI    *TUIConfig    `hcl:"tui,block"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	burn := true
	eq := equity.DefaultOptions()
	return &Config{
		Table: TableConfig{
			SmallBlind:    5,
			BigBlind:      10,
			StartingStack: 1000,
			Seed:          1,
			MinRaise:      game.MinRaiseLastIncrement.String(),
			OddChip:       game.OddChipLeftOfButton.String(),
			BurnCards:     &burn,
			Hands:         1000,
		},
		Seats: []SeatConfig{
			{Name: "You", Policy: string(bot.KindHuman)},
			{Name: "Ada", Policy: string(bot.KindHeuristic)},
			{Name: "Ben", Policy: string(bot.KindHeuristic)},
			{Name: "Cy", Policy: string(bot.KindCalling)},
		},
		Equity: EquityConfig{Iterations: eq.Iterations, ExhaustiveLimit: eq.ExhaustiveLimit},
		Log:    LogConfig{Level: "info", File: "holdem.log"},
		TUI:    TUIConfig{TurnTimeoutSeconds: 0, TimeoutAction: TimeoutCheckFold},
	}
}

// Load reads filename, returning the defaults when it does not exist
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills unset values with defaults
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if t := raw.Table; t != nil {
		mergeTable(&cfg.Table, *t)
	}
	if len(raw.Seats) > 0 {
		cfg.Seats = raw.Seats
	}
	for i := range cfg.Seats {
		if cfg.Seats[i].Policy == "" {
			cfg.Seats[i].Policy = string(bot.KindHeuristic)
		}
	}
	if e := raw.Equity; e != nil {
		if e.Iterations != 0 {
			cfg.Equity.Iterations = e.Iterations
		}
		if e.ExhaustiveLimit != 0 {
			cfg.Equity.ExhaustiveLimit = e.ExhaustiveLimit
		}
	}
	if l := raw.Log; l != nil {
		if l.Level != "" {
			cfg.Log.Level = l.Level
		}
		if l.File != "" {
			cfg.Log.File = l.File
		}
	}
	if u := raw.TUI; u != nil {
		cfg.TUI.TurnTimeoutSeconds = u.TurnTimeoutSeconds
		if u.TimeoutAction != "" {
			cfg.TUI.TimeoutAction = u.TimeoutAction
		}
	}
	return cfg, nil
}

func mergeTable(dst *TableConfig, src TableConfig) {
	if src.SmallBlind != 0 {
		dst.SmallBlind = src.SmallBlind
	}
	if src.BigBlind != 0 {
		dst.BigBlind = src.BigBlind
	}
	if src.StartingStack != 0 {
		dst.StartingStack = src.StartingStack
	}
	if src.Seed != 0 {
		dst.Seed = src.Seed
	}
	dst.Button = src.Button
	if src.MinRaise != "" {
		dst.MinRaise = src.MinRaise
	}
	if src.OddChip != "" {
		dst.OddChip = src.OddChip
	}
	if src.BurnCards != nil {
		dst.BurnCards = src.BurnCards
	}
	if src.Hands != 0 {
		dst.Hands = src.Hands
	}
}

// Validate reports every bad value in the configuration
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	t := c.Table
	if t.BigBlind <= 0 {
		fail("big blind must be positive")
	}
	if t.SmallBlind < 0 || t.SmallBlind > t.BigBlind {
		fail("small blind must be between 0 and the big blind")
	}
	if t.StartingStack <= 0 {
		fail("starting stack must be positive")
	}
	if t.Hands < 0 {
		fail("hands must not be negative")
	}
	if len(c.Seats) < 2 || len(c.Seats) > game.MaxSeats {
		fail("need between 2 and %d seats, got %d", game.MaxSeats, len(c.Seats))
	} else if t.Button < 0 || t.Button >= len(c.Seats) {
		fail("button %d is not a seat", t.Button)
	}
	if _, err := game.ParseMinRaiseRule(t.MinRaise); err != nil {
		fail("%v", err)
	}
	if _, err := game.ParseOddChipRule(t.OddChip); err != nil {
		fail("%v", err)
	}

	names := map[string]bool{}
	for _, s := range c.Seats {
		if s.Name == "" {
			fail("seat with empty name")
		}
		if names[strings.ToLower(s.Name)] {
			fail("duplicate seat %q", s.Name)
		}
		names[strings.ToLower(s.Name)] = true
		if _, err := bot.ParseKind(s.Policy); err != nil {
			fail("seat %q: %v", s.Name, err)
		}
		if s.Stack < 0 {
			fail("seat %q: stack must not be negative", s.Name)
		}
	}

	if c.Equity.Iterations <= 0 {
		fail("equity iterations must be positive")
	}
	if c.Equity.ExhaustiveLimit < 0 {
		fail("equity exhaustive limit must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		fail("log level %q: %v", c.Log.Level, err)
	}
	if c.TUI.TurnTimeoutSeconds < 0 {
		fail("turn timeout must not be negative")
	}
	if c.TUI.TimeoutAction != TimeoutCheckFold && c.TUI.TimeoutAction != TimeoutCall {
		fail("timeout action must be %q or %q", TimeoutCheckFold, TimeoutCall)
	}
	return errors.Join(errs...)
}

// Rules converts the table settings into engine rules
func (c *Config) Rules() (game.Rules, error) {
	rules := game.DefaultRules()
	var err error
	if rules.MinRaise, err = game.ParseMinRaiseRule(c.Table.MinRaise); err != nil {
		return rules, err
	}
	if rules.OddChip, err = game.ParseOddChipRule(c.Table.OddChip); err != nil {
		return rules, err
	}
	if c.Table.BurnCards != nil {
		rules.BurnCards = *c.Table.BurnCards
	}
	return rules, nil
}

// HandConfig converts the table settings into the engine's hand configuration
func (c *Config) HandConfig() (game.HandConfig, error) {
	rules, err := c.Rules()
	if err != nil {
		return game.HandConfig{}, err
	}
	return game.HandConfig{
		SmallBlind: c.Table.SmallBlind,
		BigBlind:   c.Table.BigBlind,
		Seed:       c.Table.Seed,
		Button:     c.Table.Button,
		Rules:      &rules,
	}, nil
}

// EquityOptions returns the estimator options
func (c *Config) EquityOptions() equity.Options {
	return equity.Options{Iterations: c.Equity.Iterations, ExhaustiveLimit: c.Equity.ExhaustiveLimit}
}

// EngineSeats builds the engine seats with their policies. Each seat draws randomness
// from its own stream of the table seed, so seat policies are reproducible.
func (c *Config) EngineSeats(logger *log.Logger) ([]game.Seat, error) {
	seats := make([]game.Seat, 0, len(c.Seats))
	for i, s := range c.Seats {
		kind, err := bot.ParseKind(s.Policy)
		if err != nil {
			return nil, fmt.Errorf("seat %q: %w", s.Name, err)
		}
		rng := randutil.NewStream(c.Table.Seed, uint64(1000+i))
		policy, err := bot.New(kind, rng, logger, c.EquityOptions())
		if err != nil {
			return nil, fmt.Errorf("seat %q: %w", s.Name, err)
		}
		stack := s.Stack
		if stack == 0 {
			stack = c.Table.StartingStack
		}
		seats = append(seats, game.Seat{
			ID:     strings.ToLower(s.Name),
			Name:   s.Name,
			Stack:  stack,
			Policy: policy,
		})
	}
	return seats, nil
}
