package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/fileutil"
	"github.com/lox/holdem/internal/simulator"
)

// SimulateCmd plays many independent hands between bots
type SimulateCmd struct {
	Hands   int      `short:"n" help:"Number of hands, overrides the config file"`
	Seed    *int64   `help:"Simulation seed, overrides the config file"`
	Workers int      `short:"w" help:"Hands played in parallel (0 = one per CPU)"`
	Bots    []string `short:"b" help:"Bot kinds to seat instead of the config seats, e.g. -b heuristic,calling,maniac"`
	Out     string   `short:"o" type:"path" help:"Also write the summary to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(g.stderr, cfg)

	simCfg, err := c.simulation(botSeats(cfg, logger))
	if err != nil {
		return err
	}
	simCfg.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return err
	}
	simulator.PrintSummary(g.stdout, res)
	if c.Out != "" {
		return fileutil.WriteAtomic(c.Out, 0o644, func(w io.Writer) error {
			simulator.PrintSummary(w, res)
			return nil
		})
	}
	return nil
}

// simulation builds the simulator config from the table config and flags
func (c *SimulateCmd) simulation(cfg *config.Config) (simulator.Config, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return simulator.Config{}, err
	}
	sim := simulator.Config{
		Hands:      cfg.Table.Hands,
		Seed:       cfg.Table.Seed,
		Workers:    c.Workers,
		SmallBlind: cfg.Table.SmallBlind,
		BigBlind:   cfg.Table.BigBlind,
		Stack:      cfg.Table.StartingStack,
		Rules:      &rules,
		Equity:     cfg.EquityOptions(),
	}
	if c.Hands > 0 {
		sim.Hands = c.Hands
	}
	if c.Seed != nil {
		sim.Seed = *c.Seed
	}

	if len(c.Bots) > 0 {
		for i, name := range c.Bots {
			kind, err := bot.ParseKind(name)
			if err != nil {
				return simulator.Config{}, err
			}
			sim.Seats = append(sim.Seats, simulator.SeatSpec{Name: seatName(i, kind), Kind: kind})
		}
		return sim, nil
	}
	for _, s := range cfg.Seats {
		kind, err := bot.ParseKind(s.Policy)
		if err != nil {
			return simulator.Config{}, err
		}
		sim.Seats = append(sim.Seats, simulator.SeatSpec{Name: s.Name, Kind: kind, Stack: s.Stack})
	}
	return sim, nil
}

func seatName(i int, kind bot.Kind) string {
	return fmt.Sprintf("%s-%d", kind, i+1)
}
