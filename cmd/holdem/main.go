package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"holdem.hcl" help:"Path to the HCL config file (defaults are used when it does not exist)"`
	LogLevel string `help:"Log level (debug, info, warn, error), overrides the config file"`
	NoColor  bool   `help:"Disable colour output"`

	stdout io.Writer
	stderr io.Writer
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play at the table in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Run a batch of bot-only hands and report per-seat results"`
	Equity   EquityCmd        `cmd:"" help:"Estimate the equity of a hand against opponents"`
	Eval     EvalCmd          `cmd:"" help:"Evaluate the best five card hand from 5 to 7 cards"`
	Deal     DealCmd          `cmd:"" help:"Deal and play one bot-only hand and dump the final state"`
}

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

func main() {
	cli := CLI{Globals: Globals{stdout: os.Stdout, stderr: os.Stderr}}
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("No-limit Texas Hold'em against bots, with equity and simulation tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// loadConfig reads the config file and applies flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(g.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", g.Config, err)
	}
	return cfg, nil
}

// newLogger builds the root logger writing to w at the configured level
func newLogger(w io.Writer, cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// botSeats replaces human seats with heuristic bots for commands that play unattended
func botSeats(cfg *config.Config, logger *log.Logger) *config.Config {
	out := *cfg
	out.Seats = make([]config.SeatConfig, len(cfg.Seats))
	for i, s := range cfg.Seats {
		if kind, _ := bot.ParseKind(s.Policy); kind == bot.KindHuman {
			logger.Debug("Seating a bot for the human seat", "seat", s.Name)
			s.Policy = string(bot.KindHeuristic)
		}
		out.Seats[i] = s
	}
	return &out
}
