package bot

import (
	rand "math/rand/v2"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/poker"
)

// CallingStation checks or calls whenever possible, including calling all-in
type CallingStation struct{}

func (CallingStation) Decide(view game.Snapshot) (game.Action, error) {
	if t, ok := first(view.Legal, game.Check, game.Call); ok {
		return game.Action{Type: t}, nil
	}
	// Short of the call: all-in is the only way to continue
	if view.Legal.Contains(game.AllIn) && !view.Legal.Contains(game.Bet) && !view.Legal.Contains(game.Raise) {
		return game.Action{Type: game.AllIn}, nil
	}
	return game.CheckOrFold(view.Legal), nil
}

// FoldBot checks when it can and folds otherwise
type FoldBot struct{}

func (FoldBot) Decide(view game.Snapshot) (game.Action, error) {
	return game.CheckOrFold(view.Legal), nil
}

// Random picks uniformly among legal actions, and uniformly among legal amounts
// for bets and raises
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random policy
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Decide(view game.Snapshot) (game.Action, error) {
	la := view.Legal
	if la.Empty() {
		return game.Action{Type: game.Fold}, nil
	}
	a := game.Action{Type: la.Actions[r.rng.IntN(len(la.Actions))]}
	if a.Type == game.Bet || a.Type == game.Raise {
		a.Amount = la.MinAmount + r.rng.IntN(la.MaxAmount-la.MinAmount+1)
	}
	return a, nil
}

// Maniac bets and raises big most of the time and rarely folds
type Maniac struct {
	rng *rand.Rand
}

// NewManiac creates a Maniac policy
func NewManiac(rng *rand.Rand) *Maniac {
	return &Maniac{rng: rng}
}

func (m *Maniac) Decide(view game.Snapshot) (game.Action, error) {
	la := view.Legal
	self, _ := view.Self()
	short := self.Stack <= 20*view.BigBlind

	if la.Contains(game.Check) {
		if m.rng.Float64() >= 0.85 {
			return game.Action{Type: game.Check}, nil
		}
		if (short || m.rng.Float64() < 0.3) && la.Contains(game.AllIn) {
			return game.Action{Type: game.AllIn}, nil
		}
		return sized(la, la.MinAmount+(la.MaxAmount-la.MinAmount)*3/4), nil
	}

	roll := m.rng.Float64()
	switch {
	case roll < 0.4 && la.Contains(game.AllIn):
		return game.Action{Type: game.AllIn}, nil
	case roll < 0.8 && la.Contains(game.Call):
		return game.Action{Type: game.Call}, nil
	default:
		return game.Action{Type: game.Fold}, nil
	}
}

// ChartBot pushes premium and strong hands preflop when short stacked, raises
// premium hands otherwise and checks or calls after the flop
type ChartBot struct{}

func (ChartBot) Decide(view game.Snapshot) (game.Action, error) {
	la := view.Legal
	self, _ := view.Self()
	if view.Street != game.Preflop || len(self.HoleCards) != 2 {
		return passive(la), nil
	}

	category := poker.CategorizeHoleCards(self.HoleCards[0], self.HoleCards[1])
	switch category {
	case poker.CategoryPremium, poker.CategoryStrong:
		if self.Stack <= 20*view.BigBlind && la.Contains(game.AllIn) {
			return game.Action{Type: game.AllIn}, nil
		}
		if category == poker.CategoryPremium {
			return sized(la, 3*view.CurrentBet), nil
		}
		return passive(la), nil
	case poker.CategoryMedium:
		if view.Raised() {
			return game.CheckOrFold(la), nil
		}
		return passive(la), nil
	default:
		return game.CheckOrFold(la), nil
	}
}
