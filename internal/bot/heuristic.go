package bot

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/equity"
	"github.com/lox/holdem/internal/game"
)

// HeuristicConfig tunes the heuristic policy
type HeuristicConfig struct {
	// CallMargin is the equity needed above pot odds to continue
	CallMargin float64
	// RaiseMargin places the raise threshold between a fair share of the pot
	// (1/players) and certainty, so it scales with the number of opponents
	RaiseMargin float64
	// BetFraction sizes bets and raises as a fraction of the pot after calling
	BetFraction float64
	// BluffFrequency is how often to bet a weak hand when checked to on a dry board
	BluffFrequency float64
}

// DefaultHeuristicConfig returns the standard tuning
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		CallMargin:     0.03,
		RaiseMargin:    0.35,
		BetFraction:    0.66,
		BluffFrequency: 0.08,
	}
}

// Heuristic compares estimated equity with pot odds: it raises above an
// opponent-scaled threshold, continues above pot odds plus a margin and folds
// otherwise
type Heuristic struct {
	rng       *rand.Rand
	logger    *log.Logger
	estimator *equity.Estimator
	cfg       HeuristicConfig
}

// NewHeuristic creates a heuristic policy
func NewHeuristic(rng *rand.Rand, logger *log.Logger, estimator *equity.Estimator, cfg HeuristicConfig) *Heuristic {
	return &Heuristic{
		rng:       rng,
		logger:    logger.WithPrefix("bot"),
		estimator: estimator,
		cfg:       cfg,
	}
}

// thinking accumulates the reasons behind a decision for the debug log
type thinking []string

func (t *thinking) add(format string, args ...any) {
	*t = append(*t, fmt.Sprintf(format, args...))
}

func (t thinking) String() string {
	if len(t) == 0 {
		return "no clear reasoning"
	}
	return strings.Join(t, ". ")
}

func (h *Heuristic) Decide(view game.Snapshot) (game.Action, error) {
	la := view.Legal
	self, ok := view.Self()
	if !ok || len(self.HoleCards) != 2 || la.Empty() {
		return game.CheckOrFold(la), nil
	}

	var thoughts thinking
	ranges, read := opponentRanges(view)
	if len(ranges) == 0 {
		return passive(la), nil
	}
	res, err := h.estimator.Estimate(self.HoleCards, view.Board, ranges)
	if err != nil {
		// Narrowed ranges can be blocked by our own cards
		thoughts.add("ranges %s unusable, assuming random hands", read)
		res, err = h.estimator.EstimateVsRandom(self.HoleCards, view.Board, len(ranges))
		if err != nil {
			return game.Action{}, fmt.Errorf("estimate equity: %w", err)
		}
	} else {
		thoughts.add("opponents read as %s", read)
	}

	pot := view.TotalPot()
	toCall := la.ToCall
	potOdds := 0.0
	if toCall > 0 {
		potOdds = float64(toCall) / float64(pot+toCall)
	}
	fair := 1 / float64(len(ranges)+1)
	raiseAt := fair + (1-fair)*h.cfg.RaiseMargin
	texture := determineBoardTexture(view.Board)
	thoughts.add("equity %.2f vs pot odds %.2f, raising above %.2f", res.Equity, potOdds, raiseAt)

	var a game.Action
	switch {
	case res.Equity >= raiseAt:
		thoughts.add("strong enough to build the pot")
		a = sized(la, view.CurrentBet+int(h.cfg.BetFraction*float64(pot+toCall)))
	case toCall == 0:
		if texture <= SemiWetBoard && len(view.Board) >= 3 && la.Contains(game.Bet) && h.rng.Float64() < h.cfg.BluffFrequency {
			thoughts.add("%s board, taking a stab", texture)
			a = sized(la, pot/2)
		} else {
			thoughts.add("checking")
			a = game.Action{Type: game.Check}
		}
	case res.Equity >= potOdds+h.cfg.CallMargin:
		thoughts.add("priced in")
		a = passive(la)
		if a.Type == game.Fold && la.Contains(game.AllIn) {
			a = game.Action{Type: game.AllIn}
		}
	default:
		thoughts.add("not enough equity")
		a = game.CheckOrFold(la)
	}

	h.logger.Debug("Bot decision",
		"player", self.Name,
		"street", view.Street,
		"hole", self.HoleCards,
		"equity", fmt.Sprintf("%.3f", res.Equity),
		"potOdds", fmt.Sprintf("%.3f", potOdds),
		"action", a,
		"reasoning", thoughts.String())
	return a, nil
}
