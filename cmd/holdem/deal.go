package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sanity-io/litter"

	"github.com/lox/holdem/internal/fileutil"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/poker"
)

// DealCmd plays hands between bots and dumps the final state of the last one
type DealCmd struct {
	Seed    *int64 `help:"Session seed, overrides the config file"`
	Hands   int    `short:"n" default:"1" help:"Hands to play before dumping"`
	Compact bool   `help:"Dump the snapshot on one line"`
	Out     string `short:"o" type:"path" help:"Write the hand and dump to this file instead of stdout"`
}

func (c *DealCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Seed != nil {
		cfg.Table.Seed = *c.Seed
	}
	logger := newLogger(g.stderr, cfg)

	seats, err := botSeats(cfg, logger).EngineSeats(logger)
	if err != nil {
		return err
	}
	hc, err := cfg.HandConfig()
	if err != nil {
		return err
	}

	engine := game.NewEngine(logger)
	if err := engine.StartHand(seats, hc); err != nil {
		return err
	}
	for n := 1; ; n++ {
		if err := engine.Advance(); err != nil {
			return err
		}
		if n >= c.Hands {
			break
		}
		if err := engine.NextHand(); errors.Is(err, game.ErrNotEnoughPlayers) {
			logger.Warn("Session ended early", "hands", n)
			break
		} else if err != nil {
			return err
		}
	}

	snap := engine.CurrentState()
	write := func(w io.Writer) error {
		printHand(w, snap)
		opts := litter.Options{Compact: c.Compact, StripPackageNames: true}
		_, err := fmt.Fprintln(w, opts.Sdump(snap))
		return err
	}
	if c.Out == "" {
		return write(g.stdout)
	}
	if err := fileutil.WriteAtomic(c.Out, 0o644, write); err != nil {
		return err
	}
	logger.Info("Wrote hand", "file", c.Out, "hand", snap.HandID)
	return nil
}

// printHand writes a short hand history
func printHand(out io.Writer, s game.Snapshot) {
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Hand #%d %s", s.HandNumber, s.HandID)))
	for _, p := range s.Players {
		fmt.Fprintf(out, "  %-10s %s  stack %d\n", p.Name, poker.FormatCards(p.HoleCards), p.Stack)
	}
	street := game.Preflop
	for _, r := range s.History {
		if r.Street != street {
			street = r.Street
			fmt.Fprintf(out, "%s\n", street)
		}
		fmt.Fprintf(out, "  %s\n", r)
	}
	if len(s.Board) > 0 {
		fmt.Fprintf(out, "board %s\n", poker.FormatCards(s.Board))
	}
	for _, p := range s.Payouts {
		line := fmt.Sprintf("%s wins %d", p.Player, p.Amount)
		if p.Description != "" {
			line += fmt.Sprintf(" with %s (%s)", p.Description, poker.FormatCards(p.BestFive))
		}
		fmt.Fprintln(out, winStyle.Render(line))
	}
	if s.Aborted {
		fmt.Fprintln(out, lossStyle.Render("aborted: "+s.AbortReason))
	}
	fmt.Fprintln(out)
}
