package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem/internal/equity"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// EquityCmd estimates how often a hand wins
type EquityCmd struct {
	Hand       string   `arg:"" help:"Hole cards, e.g. AsKs"`
	Board      string   `short:"b" help:"Community cards, e.g. 'Td 7s 8h'"`
	Opponents  int      `short:"o" default:"1" help:"Number of opponents holding random cards"`
	Vs         []string `sep:"none" help:"Opponent ranges, one flag per opponent, e.g. --vs QQ+,AK --vs 22-99 (replaces --opponents)"`
	Iterations int      `short:"i" help:"Monte Carlo samples, overrides the config file"`
	Seed       *int64   `help:"Sampling seed, overrides the config file"`
}

func (c *EquityCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.EquityOptions()
	if c.Iterations > 0 {
		opts.Iterations = c.Iterations
	}
	seed := cfg.Table.Seed
	if c.Seed != nil {
		seed = *c.Seed
	}

	hole, board, err := c.cards()
	if err != nil {
		return err
	}
	ranges, err := c.ranges()
	if err != nil {
		return err
	}

	est := equity.NewEstimator(randutil.New(seed), opts)
	res, err := est.Estimate(hole, board, ranges)
	if err != nil {
		return err
	}
	printEquity(g.stdout, hole, board, ranges, res)
	return nil
}

func (c *EquityCmd) cards() (hole, board []poker.Card, err error) {
	hole, err = poker.ParseCards(c.Hand)
	if err != nil {
		return nil, nil, fmt.Errorf("hand: %w", err)
	}
	if c.Board != "" {
		if board, err = poker.ParseCards(c.Board); err != nil {
			return nil, nil, fmt.Errorf("board: %w", err)
		}
	}
	return hole, board, nil
}

func (c *EquityCmd) ranges() ([]*equity.Range, error) {
	if len(c.Vs) == 0 {
		return make([]*equity.Range, c.Opponents), nil
	}
	ranges := make([]*equity.Range, len(c.Vs))
	for i, notation := range c.Vs {
		r, err := equity.ParseRange(notation)
		if err != nil {
			return nil, fmt.Errorf("opponent %d: %w", i+1, err)
		}
		ranges[i] = r
	}
	return ranges, nil
}

func printEquity(out io.Writer, hole, board []poker.Card, ranges []*equity.Range, res equity.Result) {
	fmt.Fprintf(out, "%s %s", headerStyle.Render("hand"), handStyle.Render(poker.FormatCards(hole)))
	if len(board) > 0 {
		fmt.Fprintf(out, "  %s %s", headerStyle.Render("board"), poker.FormatCards(board))
	}
	fmt.Fprintln(out)
	for i, r := range ranges {
		fmt.Fprintf(out, "%s %d: %s\n", headerStyle.Render("opponent"), i+1, r)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("equity"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"),
		headerStyle.Render("loss"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		handStyle.Render(fmt.Sprintf("%.2f%%", res.Equity*100)),
		winStyle.Render(fmt.Sprintf("%.2f%%", res.Win*100)),
		tieStyle.Render(fmt.Sprintf("%.2f%%", res.Tie*100)),
		lossStyle.Render(fmt.Sprintf("%.2f%%", res.Loss*100)))
	w.Flush()

	if res.Exact {
		fmt.Fprintf(out, "\nexact over %d deals\n", res.Samples)
		return
	}
	low, high := res.ConfidenceInterval()
	fmt.Fprintf(out, "\n%d samples, 95%% CI [%.2f%%, %.2f%%]\n", res.Samples, low*100, high*100)
	if res.Dropped > 0 {
		fmt.Fprintln(out, lossStyle.Render(fmt.Sprintf("%d samples dropped, opponent ranges kept colliding", res.Dropped)))
	}
}
