// Package simulator plays many independent seeded hands between bots and reports
// per-seat results in big blinds per hand.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/equity"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/internal/statistics"
	"github.com/lox/holdem/poker"
)

// ErrInvalidConfig is returned by Run for a configuration that cannot be simulated
var ErrInvalidConfig = errors.New("invalid simulation config")

// SeatSpec names a seat and the policy that plays it
type SeatSpec struct {
	Name  string
	Kind  bot.Kind
	Stack int // Zero uses Config.Stack
}

// stack returns the chips the seat starts every hand with
func (s SeatSpec) stack(fallback int) int {
	if s.Stack > 0 {
		return s.Stack
	}
	return fallback
}

// Config holds configuration for running simulations
type Config struct {
	Hands      int
	Seed       int64
	Workers    int // Zero uses GOMAXPROCS
	SmallBlind int
	BigBlind   int
	Stack      int         // Starting stack of every seat without its own
	Rules      *game.Rules // nil selects game.DefaultRules
	Seats      []SeatSpec
	Equity     equity.Options
	Logger     *log.Logger
	Clock      quartz.Clock // nil uses the real clock
}

// SeatResult holds the accumulated results of one seat
type SeatResult struct {
	Name  string
	Kind  bot.Kind
	Stats *statistics.Statistics
}

// Result is the outcome of a simulation
type Result struct {
	Hands   int
	Aborted int
	Seats   []SeatResult
	Elapsed time.Duration
}

// Simulator runs poker hand simulations
type Simulator struct {
	config Config
	logger *log.Logger
	quiet  *log.Logger
	clock  quartz.Clock
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	logger := config.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	clock := config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}

	// Per hand engine and bot logging drowns the summary unless debugging
	quiet := logger.With()
	if logger.GetLevel() > log.DebugLevel {
		quiet.SetLevel(log.WarnLevel)
	}
	return &Simulator{
		config: config,
		logger: logger.WithPrefix("simulator"),
		quiet:  quiet,
		clock:  clock,
	}
}

// Validate reports whether the configuration can be simulated
func (c Config) Validate() error {
	switch {
	case c.Hands <= 0:
		return fmt.Errorf("%w: hands must be positive", ErrInvalidConfig)
	case len(c.Seats) < 2 || len(c.Seats) > game.MaxSeats:
		return fmt.Errorf("%w: need between 2 and %d seats, got %d", ErrInvalidConfig, game.MaxSeats, len(c.Seats))
	case c.BigBlind <= 0 || c.SmallBlind < 0 || c.SmallBlind > c.BigBlind:
		return fmt.Errorf("%w: blinds %d/%d", ErrInvalidConfig, c.SmallBlind, c.BigBlind)
	case c.Stack <= 0:
		return fmt.Errorf("%w: stack must be positive", ErrInvalidConfig)
	}
	for _, s := range c.Seats {
		if s.Stack < 0 {
			return fmt.Errorf("%w: seat %q has a negative stack", ErrInvalidConfig, s.Name)
		}
		if s.Kind == bot.KindHuman {
			return fmt.Errorf("%w: seat %q needs a bot policy", ErrInvalidConfig, s.Name)
		}
		if _, err := bot.ParseKind(string(s.Kind)); err != nil {
			return fmt.Errorf("%w: seat %q: %w", ErrInvalidConfig, s.Name, err)
		}
	}
	return nil
}

// handOutcome is the result of one hand for every seat, in table order
type handOutcome struct {
	seed    int64
	results []statistics.HandResult
	aborted bool
}

// Run plays the configured number of hands on a pool of workers. Every hand is
// independent and seeded from the simulation seed and its number, and results are
// combined in hand order, so the output does not depend on the number of workers.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	cfg := s.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := s.clock.Now()
	s.logger.Info("Starting simulation",
		"hands", cfg.Hands,
		"seats", len(cfg.Seats),
		"workers", cfg.Workers,
		"seed", cfg.Seed)

	outcomes := make([]handOutcome, cfg.Hands)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for hand := range cfg.Hands {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := s.playHand(hand)
			if err != nil {
				return fmt.Errorf("hand %d (seed %d): %w", hand+1, out.seed, err)
			}
			outcomes[hand] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Hands: cfg.Hands}
	for _, spec := range cfg.Seats {
		res.Seats = append(res.Seats, SeatResult{Name: spec.Name, Kind: spec.Kind, Stats: &statistics.Statistics{}})
	}
	for _, out := range outcomes {
		if out.aborted {
			res.Aborted++
			continue
		}
		for i, r := range out.results {
			res.Seats[i].Stats.Add(r)
		}
	}
	for _, seat := range res.Seats {
		if seat.Stats.Hands == 0 {
			continue
		}
		if err := seat.Stats.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed for %s: %w", seat.Name, err)
		}
	}
	res.Elapsed = s.clock.Since(start)

	s.logger.Info("Simulation complete",
		"hands", res.Hands,
		"aborted", res.Aborted,
		"elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

// playHand deals one hand with fresh stacks and the button rotated by hand number
func (s *Simulator) playHand(hand int) (handOutcome, error) {
	cfg := s.config
	seed := randutil.Derive(cfg.Seed, uint64(hand))
	out := handOutcome{seed: seed}
	n := len(cfg.Seats)

	seats := make([]game.Seat, n)
	for i, spec := range cfg.Seats {
		policy, err := bot.New(spec.Kind, randutil.NewStream(seed, uint64(i+1)), s.quiet, cfg.Equity)
		if err != nil {
			return out, err
		}
		seats[i] = game.Seat{
			ID:     fmt.Sprintf("seat%d", i),
			Name:   spec.Name,
			Stack:  spec.stack(cfg.Stack),
			Policy: policy,
		}
	}

	button := hand % n
	engine := game.NewEngine(s.quiet)
	err := engine.StartHand(seats, game.HandConfig{
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
		Seed:       seed,
		Button:     button,
		Rules:      cfg.Rules,
	})
	if errors.Is(err, poker.ErrDeckExhausted) {
		out.aborted = true
		return out, nil
	}
	if err != nil {
		return out, err
	}
	if err := engine.Advance(); err != nil {
		return out, err
	}
	if !engine.IsHandComplete() {
		return out, fmt.Errorf("hand stopped at %s waiting for input", engine.CurrentState().Street)
	}

	snap := engine.CurrentState()
	if snap.Aborted {
		out.aborted = true
		return out, nil
	}

	showdown := false
	pot := 0
	for _, p := range snap.Payouts {
		pot += p.Amount
		if p.Description != "" {
			showdown = true
		}
	}
	street := streetReached(len(snap.Board))
	bb := float64(cfg.BigBlind)

	net := 0
	out.results = make([]statistics.HandResult, n)
	for i, p := range snap.Players {
		delta := p.Stack - seats[i].Stack
		net += delta
		out.results[i] = statistics.HandResult{
			NetBB:          float64(delta) / bb,
			Seed:           seed,
			Position:       (i - button + n) % n,
			WentToShowdown: showdown && p.Status != game.StatusFolded,
			PotBB:          float64(pot) / bb,
			Street:         street,
		}
	}
	if net != 0 {
		return out, fmt.Errorf("chips not conserved: net change %d", net)
	}
	return out, nil
}

func streetReached(board int) string {
	switch {
	case board >= 5:
		return game.River.String()
	case board == 4:
		return game.Turn.String()
	case board >= 3:
		return game.Flop.String()
	default:
		return game.Preflop.String()
	}
}

// PrintSummary writes a per-seat summary of the simulation results
func PrintSummary(w io.Writer, res *Result) {
	fmt.Fprintf(w, "\n=== SIMULATION RESULTS ===\n")
	fmt.Fprintf(w, "Hands played: %d", res.Hands)
	if res.Aborted > 0 {
		fmt.Fprintf(w, " (%d aborted)", res.Aborted)
	}
	if secs := res.Elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(w, " in %s, %.0f hands/sec", res.Elapsed.Round(time.Millisecond), float64(res.Hands)/secs)
	}
	fmt.Fprintln(w)

	for _, seat := range res.Seats {
		stats := seat.Stats
		low, high := stats.ConfidenceInterval95()
		fmt.Fprintf(w, "\n--- %s (%s) ---\n", seat.Name, seat.Kind)
		fmt.Fprintf(w, "Mean: %.4f bb/hand  Std Dev: %.4f bb  95%% CI: [%.4f, %.4f]\n",
			stats.Mean(), stats.StdDev(), low, high)
		fmt.Fprintf(w, "Percentiles: P5=%.2f, P25=%.2f, P50=%.2f, P75=%.2f, P95=%.2f\n",
			stats.Percentile(0.05), stats.Percentile(0.25), stats.Median(),
			stats.Percentile(0.75), stats.Percentile(0.95))
		if stats.Hands > 0 {
			fmt.Fprintf(w, "Showdown: %.3f bb/hand  Non-showdown: %.3f bb/hand  Wins: %d at showdown, %d uncontested\n",
				stats.ShowdownBB/float64(stats.Hands), stats.NonShowdownBB/float64(stats.Hands),
				stats.ShowdownWins, stats.NonShowdownWins)
			fmt.Fprintf(w, "Max pot: %.1f bb  Big pots (>=%dbb): %d, %.2f bb\n",
				stats.MaxPotBB, statistics.BigPotBB, stats.BigPots, stats.BigPotsBB)
		}

		var positions []string
		for pos, ps := range stats.PositionResults {
			if ps.Hands > 0 {
				positions = append(positions, fmt.Sprintf("%s %.2f", positionName(pos, len(res.Seats)), ps.Mean()))
			}
		}
		if len(positions) > 0 {
			fmt.Fprintf(w, "By position: %s\n", strings.Join(positions, ", "))
		}
	}
}

// positionName labels a position counted from the button
func positionName(pos, players int) string {
	switch {
	case pos == 0 && players == 2:
		return "BTN/SB"
	case pos == 0:
		return "BTN"
	case pos == 1 && players == 2:
		return "BB"
	case pos == 1:
		return "SB"
	case pos == 2:
		return "BB"
	default:
		return fmt.Sprintf("BTN+%d", pos)
	}
}
