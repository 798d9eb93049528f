package bot

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/lox/holdem/internal/equity"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/poker"
)

// BoardTexture describes how coordinated the board is
type BoardTexture int

const (
	DryBoard BoardTexture = iota
	SemiWetBoard
	WetBoard
	VeryWetBoard
)

func (bt BoardTexture) String() string {
	switch bt {
	case DryBoard:
		return "dry"
	case SemiWetBoard:
		return "semi-wet"
	case WetBoard:
		return "wet"
	case VeryWetBoard:
		return "very wet"
	default:
		return "unknown"
	}
}

// determineBoardTexture scores flush and straight potential of the board
func determineBoardTexture(board []poker.Card) BoardTexture {
	if len(board) < 3 {
		return DryBoard
	}

	wetness := 0
	var suits [4]int
	for _, c := range board {
		suits[c.Suit()]++
	}
	switch slices.Max(suits[:]) {
	case 2:
		wetness++
	case 3, 4, 5:
		wetness += 2
	}

	ranks := make([]int, 0, len(board))
	for _, c := range board {
		ranks = append(ranks, int(c.Rank()))
	}
	slices.Sort(ranks)
	ranks = slices.Compact(ranks)
	connected := 1
	for i := 1; i < len(ranks); i++ {
		if ranks[i]-ranks[i-1] <= 2 {
			connected++
		}
	}
	if connected >= 3 {
		wetness += 2
	}

	switch {
	case wetness >= 4:
		return VeryWetBoard
	case wetness >= 2:
		return WetBoard
	case wetness >= 1:
		return SemiWetBoard
	default:
		return DryBoard
	}
}

var (
	premiumRange = sync.OnceValue(func() *equity.Range {
		return mustCategories(poker.CategoryPremium)
	})
	tightRange = sync.OnceValue(func() *equity.Range {
		return mustCategories(poker.CategoryPremium, poker.CategoryStrong)
	})
	mediumRange = sync.OnceValue(func() *equity.Range {
		return mustCategories(poker.CategoryPremium, poker.CategoryStrong, poker.CategoryMedium)
	})
)

func mustCategories(categories ...poker.HoleCardCategory) *equity.Range {
	r, err := equity.RangeFromCategories(categories...)
	if err != nil {
		panic(err)
	}
	return r
}

// aggressive reports whether a record puts in more than a call
func aggressive(r game.ActionRecord) bool {
	if r.Kind != game.RecordAction {
		return false
	}
	switch r.Action.Type {
	case game.Bet, game.Raise, game.AllIn:
		return true
	}
	return false
}

// opponentRanges narrows each live opponent's range from their betting in this hand:
// a preflop raiser holds a tight range, a preflop raiser who keeps betting holds a
// premium one, and a player who only bets after the flop holds a medium range.
func opponentRanges(view game.Snapshot) ([]*equity.Range, string) {
	var ranges []*equity.Range
	reads := map[string]int{}
	for _, p := range view.Players {
		if p.Seat == view.Viewer || p.Status == game.StatusFolded {
			continue
		}
		preflop, postflop := false, false
		for _, r := range view.History {
			if r.Seat != p.Seat || !aggressive(r) {
				continue
			}
			if r.Street == game.Preflop {
				preflop = true
			} else {
				postflop = true
			}
		}

		switch {
		case preflop && postflop:
			ranges = append(ranges, premiumRange())
			reads["premium"]++
		case preflop:
			ranges = append(ranges, tightRange())
			reads["tight"]++
		case postflop:
			ranges = append(ranges, mediumRange())
			reads["medium"]++
		default:
			ranges = append(ranges, equity.AnyTwo)
			reads["random"]++
		}
	}
	if len(ranges) > equity.MaxOpponents {
		ranges = ranges[:equity.MaxOpponents]
	}

	var parts []string
	for _, name := range []string{"premium", "tight", "medium", "random"} {
		switch n := reads[name]; {
		case n == 1:
			parts = append(parts, name)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%s x%d", name, n))
		}
	}
	desc := strings.Join(parts, ", ")
	return ranges, desc
}
