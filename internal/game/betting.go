package game

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
	HandComplete
)

func (s Street) String() string {
	if s < Preflop || s > HandComplete {
		return "unknown"
	}
	return [...]string{"preflop", "flop", "turn", "river", "showdown", "complete"}[s]
}

// ActionType is the kind of a player action
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a ActionType) String() string {
	if a < Fold || a > AllIn {
		return "unknown"
	}
	return [...]string{"fold", "check", "call", "bet", "raise", "allin"}[a]
}

// Action is a player decision. For Bet and Raise, Amount is the player's total
// contribution for the round after the action ("raise to"). Other actions ignore it.
type Action struct {
	Type   ActionType
	Amount int
}

func (a Action) String() string {
	if a.Type == Bet || a.Type == Raise {
		return fmt.Sprintf("%s %d", a.Type, a.Amount)
	}
	return a.Type.String()
}

// ParseAction parses user input such as "fold", "c", "call", "bet 40", "r 120" or "allin".
func ParseAction(input string) (Action, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("empty action")
	}

	var typ ActionType
	switch fields[0] {
	case "f", "fold":
		typ = Fold
	case "k", "x", "check":
		typ = Check
	case "c", "call":
		typ = Call
	case "b", "bet":
		typ = Bet
	case "r", "raise":
		typ = Raise
	case "a", "allin", "all-in", "shove":
		typ = AllIn
	default:
		return Action{}, fmt.Errorf("unknown action %q", fields[0])
	}

	if typ != Bet && typ != Raise {
		if len(fields) > 1 {
			return Action{}, fmt.Errorf("%s takes no amount", typ)
		}
		return Action{Type: typ}, nil
	}

	if len(fields) != 2 {
		return Action{}, fmt.Errorf("%s requires an amount, e.g. %q", typ, typ.String()+" 40")
	}
	amount, err := strconv.Atoi(fields[1])
	if err != nil || amount <= 0 {
		return Action{}, fmt.Errorf("invalid amount %q", fields[1])
	}
	return Action{Type: typ, Amount: amount}, nil
}

// LegalInput holds the betting state that determines a player's legal actions
type LegalInput struct {
	Stack        int  // chips behind
	Contribution int  // chips already put in this round
	CurrentBet   int  // highest contribution this round
	BetOpened    bool // a bet (or the big blind) exists this round
	MinRaise     int  // minimum bet or raise increment
	RaiseAllowed bool // false once a short all-in has closed raising for this player
}

// LegalActions is the ordered set of actions available to the player whose turn it is.
// MinAmount and MaxAmount bound the "to" amount of the Bet or Raise in the set.
type LegalActions struct {
	Seat      int
	Actions   []ActionType
	ToCall    int
	MinAmount int
	MaxAmount int
}

// ComputeLegalActions is a pure function of the betting state. Fold is always available,
// Check only when nothing is owed, Bet only when no bet exists this round and Raise
// otherwise. Call requires chips left over after calling; a short stack calls by going AllIn.
func ComputeLegalActions(in LegalInput) LegalActions {
	la := LegalActions{Seat: -1}
	if in.Stack <= 0 {
		return la
	}

	toCall := max(0, in.CurrentBet-in.Contribution)
	la.ToCall = min(toCall, in.Stack)
	la.Actions = append(la.Actions, Fold)

	if toCall == 0 {
		la.Actions = append(la.Actions, Check)
	} else if in.Stack > toCall {
		la.Actions = append(la.Actions, Call)
	}

	canRaise := in.RaiseAllowed && in.Stack > toCall
	if canRaise {
		maxTo := in.Contribution + in.Stack
		minTo := in.MinRaise
		typ := Bet
		if in.BetOpened {
			minTo = in.CurrentBet + in.MinRaise
			typ = Raise
		}
		if maxTo >= minTo {
			la.Actions = append(la.Actions, typ)
			la.MinAmount = minTo
			la.MaxAmount = maxTo
		}
	}

	if canRaise || in.Stack <= toCall {
		la.Actions = append(la.Actions, AllIn)
	}
	return la
}

// Contains reports whether the action type is in the legal set
func (la LegalActions) Contains(t ActionType) bool {
	return slices.Contains(la.Actions, t)
}

// Empty reports whether no action is available
func (la LegalActions) Empty() bool {
	return len(la.Actions) == 0
}

// Validate checks an action against the legal set without changing any state
func (la LegalActions) Validate(a Action) error {
	if !la.Contains(a.Type) {
		return &IllegalActionError{
			Seat:       la.Seat,
			Action:     a,
			Constraint: ConstraintActionUnavailable,
			Detail:     fmt.Sprintf("legal actions are %s", la),
		}
	}
	if a.Type != Bet && a.Type != Raise {
		return nil
	}
	if a.Amount > la.MaxAmount {
		return fmt.Errorf("%s exceeds stack, maximum is %d: %w", a, la.MaxAmount, ErrInsufficientChips)
	}
	if a.Amount < la.MinAmount {
		return &IllegalActionError{
			Seat:       la.Seat,
			Action:     a,
			Constraint: ConstraintAmountOutOfRange,
			Detail:     fmt.Sprintf("amount must be between %d and %d", la.MinAmount, la.MaxAmount),
		}
	}
	return nil
}

func (la LegalActions) String() string {
	parts := make([]string, 0, len(la.Actions))
	for _, a := range la.Actions {
		switch a {
		case Call:
			parts = append(parts, fmt.Sprintf("call %d", la.ToCall))
		case Bet, Raise:
			parts = append(parts, fmt.Sprintf("%s %d-%d", a, la.MinAmount, la.MaxAmount))
		default:
			parts = append(parts, a.String())
		}
	}
	return strings.Join(parts, ", ")
}
