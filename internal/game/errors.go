package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalAction is wrapped by every *IllegalActionError
	ErrIllegalAction = errors.New("illegal action")

	// ErrInsufficientChips is returned when a bet or raise exceeds the player's stack
	ErrInsufficientChips = errors.New("insufficient chips")

	// ErrAwaitingInput is returned by a policy that has no decision yet. It is not a failure.
	ErrAwaitingInput = errors.New("awaiting input")

	// ErrInvalidConfig is returned when a hand cannot be started with the given seats or blinds
	ErrInvalidConfig = errors.New("invalid hand configuration")

	// ErrNoHand is returned by Engine methods that need a hand when none was started
	ErrNoHand = errors.New("no hand in progress")

	// ErrHandInProgress is returned by NextHand before the current hand is complete
	ErrHandInProgress = errors.New("hand still in progress")

	// ErrNotEnoughPlayers is returned by NextHand when fewer than two players have chips
	ErrNotEnoughPlayers = errors.New("not enough players with chips")
)

// Constraint names the rule an illegal action violated
type Constraint string

const (
	ConstraintNotYourTurn       Constraint = "not-your-turn"
	ConstraintUnknownSeat       Constraint = "unknown-seat"
	ConstraintSeatInactive      Constraint = "seat-inactive"
	ConstraintActionUnavailable Constraint = "action-unavailable"
	ConstraintAmountOutOfRange  Constraint = "amount-out-of-range"
	ConstraintHandComplete      Constraint = "hand-complete"
)

// IllegalActionError reports an action that was rejected. The hand state is unchanged.
type IllegalActionError struct {
	Seat       int
	Action     Action
	Constraint Constraint
	Detail     string
}

func (e *IllegalActionError) Error() string {
	msg := fmt.Sprintf("illegal action %s by seat %d: %s", e.Action, e.Seat, e.Constraint)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *IllegalActionError) Unwrap() error {
	return ErrIllegalAction
}
