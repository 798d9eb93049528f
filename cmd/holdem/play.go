package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/tui"
)

// PlayCmd runs the interactive table
type PlayCmd struct {
	Seed    *int64 `help:"Session seed, overrides the config file"`
	Timeout *int   `help:"Seconds allowed per decision, 0 disables the timer"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Seed != nil {
		cfg.Table.Seed = *c.Seed
	}
	if c.Timeout != nil {
		cfg.TUI.TurnTimeoutSeconds = *c.Timeout
	}

	// The terminal belongs to the table, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, cfg)
	logger.Info("Starting interactive game", "seats", len(cfg.Seats), "seed", cfg.Table.Seed)

	seats, err := cfg.EngineSeats(logger)
	if err != nil {
		return err
	}
	if _, _, ok := tui.FindHuman(seats); !ok {
		return errors.New("no seat in the config has policy \"human\", use simulate to watch bots play")
	}
	hc, err := cfg.HandConfig()
	if err != nil {
		return err
	}

	engine := game.NewEngine(logger)
	if err := engine.StartHand(seats, hc); err != nil {
		return err
	}
	model, err := tui.NewModel(engine, logger, tui.Options{
		TurnTimeout:   time.Duration(cfg.TUI.TurnTimeoutSeconds) * time.Second,
		TimeoutAction: cfg.TUI.TimeoutAction,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(g.stdout, titleStyle.Render(" ♠ ♥ Texas Hold'em ♦ ♣ "))
	if err := tui.Run(model); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}

	for _, s := range engine.Seats() {
		logger.Info("Final stack", "player", s.Name, "stack", s.Stack)
	}
	return nil
}
