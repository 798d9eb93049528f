package game

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/poker"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// seatsWithStacks creates seats p0, p1, ... with the given stacks and no policy
func seatsWithStacks(stacks ...int) []Seat {
	seats := make([]Seat, len(stacks))
	for i, s := range stacks {
		seats[i] = Seat{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Player%d", i), Stack: s}
	}
	return seats
}

// stackedDeck orders cards so that seat i receives holes[i] and the board comes out
// as given. Burn cards are filled with unused cards.
func stackedDeck(t *testing.T, button int, holes []string, board string) *poker.Deck {
	t.Helper()
	n := len(holes)
	hole := make([][]poker.Card, n)
	var used poker.CardSet
	for i, h := range holes {
		hole[i] = poker.MustParseCards(h)
		require.Len(t, hole[i], 2)
		used = used.Union(poker.NewCardSet(hole[i]...))
	}
	boardCards := poker.MustParseCards(board)
	used = used.Union(poker.NewCardSet(boardCards...))

	spare := used.Complement().Cards()
	burn := func() poker.Card {
		c := spare[0]
		spare = spare[1:]
		return c
	}

	var cards []poker.Card
	for round := 0; round < 2; round++ {
		for i := 1; i <= n; i++ {
			cards = append(cards, hole[(button+i)%n][round])
		}
	}
	if len(boardCards) >= 3 {
		cards = append(cards, burn())
		cards = append(cards, boardCards[:3]...)
	}
	for _, c := range boardCards[min(3, len(boardCards)):] {
		cards = append(cards, burn(), c)
	}

	deck, err := poker.NewStackedDeck(cards)
	require.NoError(t, err)
	return deck
}

func chipsInPlay(h *HandState) int {
	total := h.TotalPot()
	for _, p := range h.Players {
		total += p.Stack
	}
	return total
}

func mustApply(t *testing.T, h *HandState, seat int, typ ActionType, amount ...int) {
	t.Helper()
	a := Action{Type: typ}
	if len(amount) > 0 {
		a.Amount = amount[0]
	}
	require.NoError(t, h.Apply(seat, a), "seat %d %s", seat, a)
}
