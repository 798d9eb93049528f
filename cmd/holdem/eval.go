package main

import (
	"fmt"
	"strings"

	"github.com/lox/holdem/poker"
)

// EvalCmd names the best hand made from a set of cards
type EvalCmd struct {
	Cards []string `arg:"" help:"Five to seven cards, e.g. As Ks Qs Js Ts 2c 3d"`
}

func (c *EvalCmd) Run(g *Globals) error {
	cards, err := poker.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}
	best, rank, err := poker.BestFive(cards)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout, "%s %s\n", handStyle.Render(rank.String()), poker.FormatCards(best))
	return nil
}
