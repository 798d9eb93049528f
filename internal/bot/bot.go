// Package bot provides the decision policies that play seats at the table.
// Every policy implements game.Policy and only ever returns actions from the
// legal set it is shown.
package bot

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/equity"
	"github.com/lox/holdem/internal/game"
)

// Kind names a policy implementation
type Kind string

const (
	KindHeuristic Kind = "heuristic"
	KindRandom    Kind = "random"
	KindCalling   Kind = "calling"
	KindHuman     Kind = "human"
	KindFold      Kind = "fold"
	KindManiac    Kind = "maniac"
	KindChart     Kind = "chart"
)

// ErrUnknownKind is returned by New and ParseKind for an unregistered policy name
var ErrUnknownKind = errors.New("unknown bot kind")

// Kinds lists every policy New can build
func Kinds() []Kind {
	return []Kind{KindHeuristic, KindRandom, KindCalling, KindHuman, KindFold, KindManiac, KindChart}
}

// ParseKind converts a configured name into a Kind
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if k == "call" || k == "station" {
		k = KindCalling
	}
	if !slices.Contains(Kinds(), k) {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return k, nil
}

// New builds the policy for kind. The rng drives any randomness in the policy
// and in its equity estimates; eq configures the estimator for the heuristic.
func New(kind Kind, rng *rand.Rand, logger *log.Logger, eq equity.Options) (game.Policy, error) {
	switch kind {
	case KindHeuristic:
		return NewHeuristic(rng, logger, equity.NewEstimator(rng, eq), DefaultHeuristicConfig()), nil
	case KindRandom:
		return NewRandom(rng), nil
	case KindCalling:
		return CallingStation{}, nil
	case KindHuman:
		return NewHumanProxy(), nil
	case KindFold:
		return FoldBot{}, nil
	case KindManiac:
		return NewManiac(rng), nil
	case KindChart:
		return ChartBot{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// first returns the first of the preferred action types that is legal
func first(la game.LegalActions, preferred ...game.ActionType) (game.ActionType, bool) {
	for _, t := range preferred {
		if la.Contains(t) {
			return t, true
		}
	}
	return 0, false
}

// sized turns a bet or raise target into a legal action, clamping to the legal range
func sized(la game.LegalActions, to int) game.Action {
	typ, ok := first(la, game.Bet, game.Raise)
	if !ok {
		if la.Contains(game.AllIn) {
			return game.Action{Type: game.AllIn}
		}
		return passive(la)
	}
	to = min(max(to, la.MinAmount), la.MaxAmount)
	if to == la.MaxAmount && la.Contains(game.AllIn) {
		return game.Action{Type: game.AllIn}
	}
	return game.Action{Type: typ, Amount: to}
}

// passive checks when free, otherwise calls, otherwise falls back to check-or-fold
func passive(la game.LegalActions) game.Action {
	if t, ok := first(la, game.Check, game.Call); ok {
		return game.Action{Type: t}
	}
	return game.CheckOrFold(la)
}
