// Package equity estimates how often a hand wins against unknown or ranged
// opponents, by exhaustive enumeration of the unseen cards when that is small
// enough and by seeded Monte-Carlo sampling otherwise.
package equity

import (
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"

	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
)

// ErrInvalidInput is returned for malformed hole cards, boards or ranges
var ErrInvalidInput = errors.New("invalid equity input")

// MaxOpponents bounds the opponents of one estimate, a full ten handed table
const MaxOpponents = 9

// maxRejections bounds retries for one Monte-Carlo sample when ranges collide
const maxRejections = 100

// Options control the work done per estimate
type Options struct {
	Iterations      int // Monte-Carlo samples
	ExhaustiveLimit int // Enumerate when the number of possible deals is at most this
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{Iterations: 5000, ExhaustiveLimit: 50000}
}

// Result is the outcome distribution of an estimate
type Result struct {
	Win     float64
	Tie     float64
	Loss    float64
	Equity  float64 // Win plus each tie's share of the pot
	Samples int
	Dropped int  // Monte-Carlo iterations abandoned after maxRejections range collisions
	Exact   bool // Every possible deal was enumerated
}

// ConfidenceInterval returns the 95% confidence interval for Equity
func (r Result) ConfidenceInterval() (lower, upper float64) {
	if r.Samples == 0 {
		return 0, 0
	}
	if r.Exact {
		return r.Equity, r.Equity
	}
	se := math.Sqrt(r.Equity * (1 - r.Equity) / float64(r.Samples))
	margin := 1.96 * se
	return math.Max(0, r.Equity-margin), math.Min(1, r.Equity+margin)
}

func (r Result) String() string {
	return fmt.Sprintf("equity %.1f%% (win %.1f%%, tie %.1f%%, loss %.1f%%, %d samples)",
		r.Equity*100, r.Win*100, r.Tie*100, r.Loss*100, r.Samples)
}

// Estimator computes equity with an injected random source
type Estimator struct {
	rng  *rand.Rand
	opts Options
}

// NewEstimator returns an estimator. A nil rng uses a fixed seed.
func NewEstimator(rng *rand.Rand, opts Options) *Estimator {
	if rng == nil {
		rng = randutil.New(1)
	}
	def := DefaultOptions()
	if opts == (Options{}) {
		opts = def
	}
	if opts.Iterations <= 0 {
		opts.Iterations = def.Iterations
	}
	if opts.ExhaustiveLimit < 0 {
		opts.ExhaustiveLimit = 0
	}
	return &Estimator{rng: rng, opts: opts}
}

// Options returns the effective options
func (e *Estimator) Options() Options {
	return e.opts
}

// EstimateVsRandom estimates equity against n opponents holding any two cards
func (e *Estimator) EstimateVsRandom(hole, board []poker.Card, n int) (Result, error) {
	return e.Estimate(hole, board, make([]*Range, n))
}

// Estimate returns the equity of hole on board against one range per opponent.
// A nil range stands for any two unseen cards.
func (e *Estimator) Estimate(hole, board []poker.Card, opponents []*Range) (Result, error) {
	dead, err := validate(hole, board, len(opponents))
	if err != nil {
		return Result{}, err
	}

	s := &setup{
		hero:  poker.NewCardSet(hole...),
		board: poker.NewCardSet(board...),
		dead:  dead,
		need:  5 - len(board),
		live:  make([][]Combo, len(opponents)),
	}
	for i, r := range opponents {
		if r == nil {
			continue
		}
		s.live[i] = r.live(dead)
		if len(s.live[i]) == 0 {
			return Result{}, fmt.Errorf("%w: range for opponent %d has no combos without dealt cards", ErrInvalidInput, i+1)
		}
	}

	var t tally
	exact := s.deals() <= float64(e.opts.ExhaustiveLimit)
	if exact {
		s.enumerate(&t)
	} else {
		s.sample(e.rng, e.opts.Iterations, &t)
	}
	if t.samples == 0 {
		return Result{}, fmt.Errorf("%w: opponent ranges cannot all be dealt together", ErrInvalidInput)
	}
	return t.result(exact), nil
}

func validate(hole, board []poker.Card, opponents int) (poker.CardSet, error) {
	if len(hole) != 2 {
		return 0, fmt.Errorf("%w: need 2 hole cards, got %d", ErrInvalidInput, len(hole))
	}
	if len(board) > 5 {
		return 0, fmt.Errorf("%w: board has %d cards", ErrInvalidInput, len(board))
	}
	if opponents < 1 || opponents > MaxOpponents {
		return 0, fmt.Errorf("%w: opponents must be between 1 and %d, got %d", ErrInvalidInput, MaxOpponents, opponents)
	}
	var dead poker.CardSet
	for _, c := range append(append([]poker.Card(nil), hole...), board...) {
		if !c.Valid() {
			return 0, fmt.Errorf("%w: invalid card", ErrInvalidInput)
		}
		if dead.Contains(c) {
			return 0, fmt.Errorf("%w: duplicate card %s", ErrInvalidInput, c)
		}
		dead = dead.Add(c)
	}
	return dead, nil
}

type setup struct {
	hero  poker.CardSet
	board poker.CardSet
	dead  poker.CardSet
	need  int       // Board cards still to come
	live  [][]Combo // Per opponent; nil means any two
}

// deals estimates the number of complete deals, an upper bound when ranges overlap
func (s *setup) deals() float64 {
	pool := 52 - s.dead.Len()
	total := 1.0
	for _, combos := range s.live {
		if combos == nil {
			total *= choose(pool, 2)
		} else {
			total *= float64(len(combos))
		}
		pool -= 2
	}
	return total * choose(pool, s.need)
}

func choose(n, k int) float64 {
	if k < 0 || n < k {
		return 0
	}
	result := 1.0
	for i := range k {
		result = result * float64(n-i) / float64(i+1)
	}
	return result
}

// enumerate visits every consistent assignment of opponent holes and board runouts
func (s *setup) enumerate(t *tally) {
	hands := make([]poker.CardSet, len(s.live))
	var deal func(i int, used poker.CardSet)
	deal = func(i int, used poker.CardSet) {
		if i == len(s.live) {
			s.runouts(used, hands, t)
			return
		}
		combos := s.live[i]
		if combos == nil {
			combos = allCombos(used)
		}
		for _, c := range combos {
			cs := c.Set()
			if cs.Overlaps(used) {
				continue
			}
			hands[i] = cs
			deal(i+1, used.Union(cs))
		}
	}
	deal(0, s.dead)
}

func (s *setup) runouts(used poker.CardSet, hands []poker.CardSet, t *tally) {
	pool := used.Complement().Cards()
	var pick func(start, left int, board poker.CardSet)
	pick = func(start, left int, board poker.CardSet) {
		if left == 0 {
			t.record(s.hero, board, hands)
			return
		}
		for i := start; i <= len(pool)-left; i++ {
			pick(i+1, left-1, board.Add(pool[i]))
		}
	}
	pick(0, s.need, s.board)
}

// sample draws random deals, rejecting any where ranged opponents collide
func (s *setup) sample(rng *rand.Rand, iterations int, t *tally) {
	hands := make([]poker.CardSet, len(s.live))
	pool := make([]poker.Card, 0, 52)

	for range iterations {
		dealt := false
		for range maxRejections {
			used, ok := s.dealRanged(rng, hands)
			if !ok {
				continue
			}
			dealt = true

			pool = append(pool[:0], used.Complement().Cards()...)
			// Partial Fisher-Yates draws the unknown holes then the board
			draw := func() poker.Card {
				j := rng.IntN(len(pool))
				c := pool[j]
				pool[j] = pool[len(pool)-1]
				pool = pool[:len(pool)-1]
				return c
			}
			for i, combos := range s.live {
				if combos == nil {
					hands[i] = poker.NewCardSet(draw(), draw())
				}
			}
			board := s.board
			for range s.need {
				board = board.Add(draw())
			}
			t.record(s.hero, board, hands)
			break
		}
		if !dealt {
			t.dropped++
		}
	}
}

// dealRanged picks a combo for every ranged opponent
func (s *setup) dealRanged(rng *rand.Rand, hands []poker.CardSet) (poker.CardSet, bool) {
	used := s.dead
	for i, combos := range s.live {
		if combos == nil {
			continue
		}
		cs := combos[rng.IntN(len(combos))].Set()
		if cs.Overlaps(used) {
			return 0, false
		}
		hands[i] = cs
		used = used.Union(cs)
	}
	return used, true
}

type tally struct {
	wins, ties, losses int
	share              float64
	samples            int
	dropped            int
}

func (t *tally) record(hero, board poker.CardSet, opponents []poker.CardSet) {
	heroRank := poker.EvaluateSet(hero.Union(board))
	tied := 0
	for _, opp := range opponents {
		switch poker.EvaluateSet(opp.Union(board)).Compare(heroRank) {
		case 1:
			t.losses++
			t.samples++
			return
		case 0:
			tied++
		}
	}
	t.samples++
	if tied > 0 {
		t.ties++
		t.share += 1 / float64(tied+1)
		return
	}
	t.wins++
	t.share++
}

func (t *tally) result(exact bool) Result {
	n := float64(t.samples)
	return Result{
		Win:     float64(t.wins) / n,
		Tie:     float64(t.ties) / n,
		Loss:    float64(t.losses) / n,
		Equity:  t.share / n,
		Samples: t.samples,
		Dropped: t.dropped,
		Exact:   exact,
	}
}
