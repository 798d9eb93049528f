package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/sanity-io/litter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
)

func TestBlindsThreeHanded(t *testing.T) {
	t.Parallel()
	h, err := NewHand(randutil.New(1), seatsWithStacks(1000, 1000, 1000), 0, 5, 10)
	require.NoError(t, err)

	assert.Equal(t, 5, h.Players[1].Bet, "small blind left of button")
	assert.Equal(t, 10, h.Players[2].Bet, "big blind two left of button")
	assert.Equal(t, 0, h.ActionOn, "first to act is left of the big blind")
	assert.Equal(t, 10, h.CurrentBet)
	assert.Equal(t, 15, h.TotalPot())

	la := h.LegalActions()
	assert.Equal(t, []ActionType{Fold, Call, Raise, AllIn}, la.Actions)
	assert.Equal(t, 20, la.MinAmount)
	assert.Equal(t, 1000, la.MaxAmount)

	for _, p := range h.Players {
		assert.Len(t, p.HoleCards, 2)
	}
}

func TestBlindsHeadsUp(t *testing.T) {
	t.Parallel()
	h, err := NewHand(randutil.New(2), seatsWithStacks(1000, 1000), 0, 5, 10)
	require.NoError(t, err)

	assert.Equal(t, 5, h.Players[0].Bet, "button posts the small blind heads-up")
	assert.Equal(t, 10, h.Players[1].Bet)
	assert.Equal(t, 0, h.ActionOn, "button acts first preflop")

	mustApply(t, h, 0, Call)

	// Big blind keeps the option
	assert.Equal(t, 1, h.ActionOn)
	la := h.LegalActions()
	assert.True(t, la.Contains(Check))
	assert.True(t, la.Contains(Raise))

	mustApply(t, h, 1, Check)
	assert.Equal(t, Flop, h.Street)
	assert.Len(t, h.Board, 3)
	assert.Equal(t, 1, h.ActionOn, "big blind acts first after the flop")
	assert.Equal(t, []ActionType{Fold, Check, Bet, AllIn}, h.LegalActions().Actions)
}

func TestBigBlindOptionRaise(t *testing.T) {
	t.Parallel()
	h, err := NewHand(randutil.New(3), seatsWithStacks(1000, 1000, 1000), 0, 5, 10)
	require.NoError(t, err)

	mustApply(t, h, 0, Call)
	mustApply(t, h, 1, Call)
	require.Equal(t, 2, h.ActionOn)
	mustApply(t, h, 2, Raise, 30)

	assert.Equal(t, Preflop, h.Street)
	assert.Equal(t, 0, h.ActionOn, "raise re-opens the action")
	assert.Equal(t, 50, h.LegalActions().MinAmount)
}

func TestFoldWinsUncontested(t *testing.T) {
	t.Parallel()
	h, err := NewHand(randutil.New(4), seatsWithStacks(1000, 1000), 0, 5, 10)
	require.NoError(t, err)

	mustApply(t, h, 0, Fold)

	require.True(t, h.IsComplete())
	assert.Equal(t, 995, h.Players[0].Stack)
	assert.Equal(t, 1005, h.Players[1].Stack)
	assert.Equal(t, []Refund{{Seat: 1, Amount: 5}}, h.Refunds)
	require.Len(t, h.Payouts, 1)
	assert.Equal(t, 1, h.Payouts[0].Seat)
	assert.Equal(t, 10, h.Payouts[0].Amount)
	assert.Zero(t, h.Payouts[0].Rank)
	assert.Empty(t, h.Board)

	// Losing cards are not revealed without a showdown
	view := h.SnapshotFor(1)
	assert.Nil(t, view.Players[0].HoleCards)
}

func TestIllegalActionsLeaveStateUnchanged(t *testing.T) {
	t.Parallel()
	h, err := NewHand(randutil.New(5), seatsWithStacks(1000, 1000, 100), 0, 5, 10)
	require.NoError(t, err)
	mustApply(t, h, 0, Raise, 40)
	before := litter.Sdump(h.Snapshot())

	tests := []struct {
		name       string
		seat       int
		action     Action
		constraint Constraint
	}{
		{"wrong seat", 2, Action{Type: Call}, ConstraintNotYourTurn},
		{"unknown seat", 7, Action{Type: Call}, ConstraintUnknownSeat},
		{"check facing a bet", 1, Action{Type: Check}, ConstraintActionUnavailable},
		{"bet after a bet", 1, Action{Type: Bet, Amount: 100}, ConstraintActionUnavailable},
		{"raise below minimum", 1, Action{Type: Raise, Amount: 60}, ConstraintAmountOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Apply(tt.seat, tt.action)
			var illegal *IllegalActionError
			require.True(t, errors.As(err, &illegal), "got %v", err)
			assert.Equal(t, tt.constraint, illegal.Constraint)
			assert.True(t, errors.Is(err, ErrIllegalAction))
			assert.Equal(t, before, litter.Sdump(h.Snapshot()))
		})
	}

	err = h.Apply(1, Action{Type: Raise, Amount: 5000})
	assert.True(t, errors.Is(err, ErrInsufficientChips))
	assert.Equal(t, before, litter.Sdump(h.Snapshot()))

	// Folded seats cannot act
	mustApply(t, h, 1, Fold)
	err = h.Apply(1, Action{Type: Call})
	var illegal *IllegalActionError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, ConstraintSeatInactive, illegal.Constraint)
}

func TestActingAfterHandComplete(t *testing.T) {
	t.Parallel()
	h, err := NewHand(randutil.New(6), seatsWithStacks(1000, 1000), 0, 5, 10)
	require.NoError(t, err)
	mustApply(t, h, 0, Fold)

	err = h.Apply(1, Action{Type: Check})
	var illegal *IllegalActionError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, ConstraintHandComplete, illegal.Constraint)
	assert.True(t, h.LegalActions().Empty())
}

func TestShortAllInDoesNotReopenRaising(t *testing.T) {
	t.Parallel()
	h, err := NewHand(randutil.New(7), seatsWithStacks(1000, 45, 1000), 0, 5, 10)
	require.NoError(t, err)

	mustApply(t, h, 0, Raise, 30)
	// Small blind shoves to 45, an increase of 15 against a minimum raise of 20
	mustApply(t, h, 1, AllIn)
	assert.Equal(t, 45, h.CurrentBet)
	assert.Equal(t, 20, h.MinRaise)

	// The big blind has not acted yet and may still raise
	require.Equal(t, 2, h.ActionOn)
	assert.True(t, h.LegalActions().Contains(Raise))
	mustApply(t, h, 2, Call)

	// The original raiser may only call or fold
	require.Equal(t, 0, h.ActionOn)
	assert.Equal(t, []ActionType{Fold, Call}, h.LegalActions().Actions)
	err = h.Apply(0, Action{Type: Raise, Amount: 100})
	assert.True(t, errors.Is(err, ErrIllegalAction))

	mustApply(t, h, 0, Call)
	assert.Equal(t, Flop, h.Street)
}

func TestFullRaiseReopensRaising(t *testing.T) {
	t.Parallel()
	h, err := NewHand(randutil.New(8), seatsWithStacks(1000, 1000, 1000), 0, 5, 10)
	require.NoError(t, err)

	mustApply(t, h, 0, Raise, 30)
	mustApply(t, h, 1, Raise, 50)
	mustApply(t, h, 2, Call)

	require.Equal(t, 0, h.ActionOn)
	assert.True(t, h.LegalActions().Contains(Raise))
	assert.Equal(t, 70, h.LegalActions().MinAmount)
}

func TestMinRaiseRules(t *testing.T) {
	t.Parallel()
	for _, tt := range []struct {
		rule MinRaiseRule
		want int
	}{
		{MinRaiseLastIncrement, 100},
		{MinRaiseBigBlind, 60},
	} {
		t.Run(tt.rule.String(), func(t *testing.T) {
			rules := DefaultRules()
			rules.MinRaise = tt.rule
			h, err := NewHand(randutil.New(9), seatsWithStacks(1000, 1000), 0, 5, 10, WithRules(rules))
			require.NoError(t, err)

			mustApply(t, h, 0, Call)
			mustApply(t, h, 1, Check)
			require.Equal(t, Flop, h.Street)

			mustApply(t, h, 1, Bet, 50)
			assert.Equal(t, tt.want, h.LegalActions().MinAmount)
		})
	}
}

func TestSidePotsThreeAllIns(t *testing.T) {
	t.Parallel()
	// Shortest stack holds the best hand, the middle stack the second best
	deck := stackedDeck(t, 0, []string{"AsAh", "KsKh", "QsQh"}, "2c 7d 9h Jc 3d")
	h, err := NewHand(nil, seatsWithStacks(50, 100, 200), 0, 5, 10, WithDeck(deck))
	require.NoError(t, err)

	mustApply(t, h, 0, AllIn)
	mustApply(t, h, 1, AllIn)
	mustApply(t, h, 2, Call)

	require.True(t, h.IsComplete())
	assert.Len(t, h.Board, 5, "board runs out when nobody can act")
	assert.Empty(t, h.Refunds)
	assert.Equal(t, []Pot{
		{Amount: 150, Cap: 50, Eligible: []int{0, 1, 2}},
		{Amount: 100, Cap: 100, Eligible: []int{1, 2}},
	}, h.Snapshot().Awarded)

	assert.Equal(t, 150, h.Players[0].Stack)
	assert.Equal(t, 100, h.Players[1].Stack)
	assert.Equal(t, 100, h.Players[2].Stack)

	for _, p := range h.Payouts {
		if p.PotIndex > 0 {
			assert.NotEqual(t, 0, p.Seat, "short all-in never wins a later side pot")
		}
	}
	require.Len(t, h.Payouts, 2)
	assert.Equal(t, "Pair of Aces", h.Payouts[0].Description)
	assert.Len(t, h.Payouts[0].BestFive, 5)
}

func TestUncalledShoveIsReturned(t *testing.T) {
	t.Parallel()
	deck := stackedDeck(t, 0, []string{"AsAh", "KsKh", "QsQh"}, "2c 7d 9h Jc 3d")
	h, err := NewHand(nil, seatsWithStacks(50, 100, 200), 0, 5, 10, WithDeck(deck))
	require.NoError(t, err)

	mustApply(t, h, 0, AllIn)
	mustApply(t, h, 1, AllIn)
	mustApply(t, h, 2, AllIn)

	require.True(t, h.IsComplete())
	assert.Equal(t, []Refund{{Seat: 2, Amount: 100}}, h.Refunds)
	assert.Equal(t, 150, h.Players[0].Stack)
	assert.Equal(t, 100, h.Players[1].Stack)
	assert.Equal(t, 100, h.Players[2].Stack)
}

func TestSplitPotOddChip(t *testing.T) {
	t.Parallel()
	for _, tt := range []struct {
		rule      OddChipRule
		bonusSeat int
	}{
		{OddChipLeftOfButton, 2},
		{OddChipLowestSeat, 0},
	} {
		t.Run(tt.rule.String(), func(t *testing.T) {
			deck := stackedDeck(t, 0, []string{"2c3d", "4c5d", "2d3c"}, "As Ks Qs Js Ts")
			rules := DefaultRules()
			rules.OddChip = tt.rule
			h, err := NewHand(nil, seatsWithStacks(1000, 1000, 1000), 0, 5, 10, WithDeck(deck), WithRules(rules))
			require.NoError(t, err)

			mustApply(t, h, 0, Call)
			mustApply(t, h, 1, Fold)
			mustApply(t, h, 2, Check)
			for !h.IsComplete() {
				mustApply(t, h, h.ActionOn, Check)
			}

			// 25 chips split between the two remaining players, both playing the board
			require.Len(t, h.Payouts, 2)
			assert.Equal(t, "Royal Flush", h.Payouts[0].Description)
			for _, p := range h.Payouts {
				want := 12
				if p.Seat == tt.bonusSeat {
					want = 13
				}
				assert.Equal(t, want, p.Amount, "seat %d", p.Seat)
			}
			assert.Equal(t, 3000, h.Players[0].Stack+h.Players[1].Stack+h.Players[2].Stack)
		})
	}
}

func TestFastForwardWhenAllIn(t *testing.T) {
	t.Parallel()
	h, err := NewHand(randutil.New(10), seatsWithStacks(300, 500), 0, 5, 10)
	require.NoError(t, err)

	mustApply(t, h, 0, AllIn)
	mustApply(t, h, 1, Call)

	require.True(t, h.IsComplete())
	assert.Len(t, h.Board, 5)
	assert.Len(t, h.Burned, 3)
	assert.Equal(t, 800, h.Players[0].Stack+h.Players[1].Stack)

	// Both hands are shown at showdown
	view := h.SnapshotFor(0)
	assert.NotNil(t, view.Players[1].HoleCards)
}

func TestShortBlindsPostAllIn(t *testing.T) {
	t.Parallel()
	h, err := NewHand(randutil.New(11), seatsWithStacks(3, 7), 0, 5, 10)
	require.NoError(t, err)

	// Both blinds are all-in so the board is dealt straight away
	require.True(t, h.IsComplete())
	assert.Equal(t, []Refund{{Seat: 1, Amount: 4}}, h.Refunds)
	assert.Equal(t, 10, h.Players[0].Stack+h.Players[1].Stack)
}

func TestBurnCardsDisabled(t *testing.T) {
	t.Parallel()
	rules := DefaultRules()
	rules.BurnCards = false
	h, err := NewHand(randutil.New(12), seatsWithStacks(100, 200), 0, 5, 10, WithRules(rules))
	require.NoError(t, err)

	mustApply(t, h, 0, AllIn)
	mustApply(t, h, 1, Call)
	assert.Empty(t, h.Burned)
	assert.Len(t, h.Board, 5)
}

func TestDeckExhaustedAbortsHand(t *testing.T) {
	t.Parallel()
	deck, err := poker.NewStackedDeck(poker.MustParseCards("As Kd Qh Jc 2c 3d"))
	require.NoError(t, err)
	h, err := NewHand(nil, seatsWithStacks(1000, 1000), 0, 5, 10, WithDeck(deck))
	require.NoError(t, err)

	mustApply(t, h, 0, Call)
	err = h.Apply(1, Action{Type: Check})
	require.Error(t, err)
	assert.True(t, errors.Is(err, poker.ErrDeckExhausted))

	assert.True(t, h.IsComplete())
	assert.True(t, h.Aborted)
	assert.NotEmpty(t, h.AbortReason)
	assert.Equal(t, 1000, h.Players[0].Stack, "contributions are refunded")
	assert.Equal(t, 1000, h.Players[1].Stack)
	assert.Empty(t, h.Payouts)
	assert.Zero(t, h.TotalPot())
}

func TestNewHandValidation(t *testing.T) {
	t.Parallel()
	rng := randutil.New(1)
	tests := []struct {
		name   string
		seats  []Seat
		button int
		sb, bb int
	}{
		{"one player", seatsWithStacks(100), 0, 5, 10},
		{"button out of range", seatsWithStacks(100, 100), 2, 5, 10},
		{"no big blind", seatsWithStacks(100, 100), 0, 0, 0},
		{"small blind above big blind", seatsWithStacks(100, 100), 0, 20, 10},
		{"broke player", seatsWithStacks(100, 0), 0, 5, 10},
		{"duplicate ids", []Seat{{ID: "a", Stack: 10}, {ID: "a", Stack: 10}}, 0, 5, 10},
		{"too many seats", seatsWithStacks(1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1), 0, 5, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHand(rng, tt.seats, tt.button, tt.sb, tt.bb)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestChipConservationRandomPlay(t *testing.T) {
	t.Parallel()
	for seed := int64(0); seed < 300; seed++ {
		rng := randutil.New(seed)
		n := 2 + rng.IntN(5)
		stacks := make([]int, n)
		start := 0
		for i := range stacks {
			stacks[i] = 5 + rng.IntN(400)
			start += stacks[i]
		}

		h, err := NewHand(rng, seatsWithStacks(stacks...), rng.IntN(n), 5, 10)
		require.NoError(t, err)
		require.Equal(t, start, chipsInPlay(h))

		for steps := 0; !h.IsComplete(); steps++ {
			require.Less(t, steps, 1000, "hand did not terminate")
			la := h.LegalActions()
			require.False(t, la.Empty())
			if la.ToCall > 0 {
				require.False(t, la.Contains(Check))
			}

			require.NoError(t, h.Apply(la.Seat, randomAction(rng, la)))
			require.Equal(t, start, chipsInPlay(h), "seed %d", seed)
		}

		paid := 0
		for _, p := range h.Payouts {
			paid += p.Amount
		}
		contributed := 0
		for _, p := range h.Players {
			contributed += p.TotalBet
			assert.GreaterOrEqual(t, p.Stack, 0)
		}
		assert.Equal(t, contributed, paid, "seed %d: every contributed chip is paid out", seed)
		assert.Equal(t, start, chipsInPlay(h))
	}
}

func randomAction(rng *rand.Rand, la LegalActions) Action {
	typ := la.Actions[rng.IntN(len(la.Actions))]
	// Fold less often so hands reach later streets
	if typ == Fold && rng.IntN(3) > 0 {
		typ = la.Actions[len(la.Actions)-1]
		if la.Contains(Check) {
			typ = Check
		} else if la.Contains(Call) {
			typ = Call
		}
	}
	a := Action{Type: typ}
	if typ == Bet || typ == Raise {
		a.Amount = la.MinAmount + rng.IntN(la.MaxAmount-la.MinAmount+1)
	}
	return a
}
