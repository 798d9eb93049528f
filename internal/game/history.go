package game

import (
	"fmt"

	"github.com/lox/holdem/poker"
)

// RecordKind distinguishes forced bets from decisions in the action history
type RecordKind int

const (
	RecordAction RecordKind = iota
	RecordSmallBlind
	RecordBigBlind
)

// ActionRecord is one entry of the hand's action history
type ActionRecord struct {
	Street Street
	Seat   int
	Player string
	Kind   RecordKind
	Action Action
	Paid   int // Chips moved from the stack by this entry
	Stack  int // Stack after the entry
}

func (r ActionRecord) String() string {
	switch r.Kind {
	case RecordSmallBlind:
		return fmt.Sprintf("%s posts small blind %d", r.Player, r.Paid)
	case RecordBigBlind:
		return fmt.Sprintf("%s posts big blind %d", r.Player, r.Paid)
	}

	switch r.Action.Type {
	case Call:
		return fmt.Sprintf("%s calls %d", r.Player, r.Paid)
	case Bet:
		return fmt.Sprintf("%s bets %d", r.Player, r.Action.Amount)
	case Raise:
		return fmt.Sprintf("%s raises to %d", r.Player, r.Action.Amount)
	case AllIn:
		return fmt.Sprintf("%s is all-in for %d", r.Player, r.Paid)
	case Fold:
		return r.Player + " folds"
	default:
		return r.Player + " checks"
	}
}

// Payout is the share of one pot awarded to one winner
type Payout struct {
	Seat        int
	Player      string
	PotIndex    int
	Amount      int
	Rank        poker.HandRank // Zero when the pot was won uncontested
	BestFive    []poker.Card
	Description string
}
