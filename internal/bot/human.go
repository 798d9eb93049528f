package bot

import (
	"fmt"

	"github.com/lox/holdem/internal/game"
)

// HumanProxy hands over actions submitted by the presentation layer. It never
// blocks: without a submitted action Decide returns game.ErrAwaitingInput.
type HumanProxy struct {
	pending  *game.Action
	rejected error
}

// NewHumanProxy creates a proxy with no pending action
func NewHumanProxy() *HumanProxy {
	return &HumanProxy{}
}

// Submit queues the next action, replacing any earlier one
func (h *HumanProxy) Submit(a game.Action) {
	h.pending = &a
	h.rejected = nil
}

// Pending reports whether an action is waiting to be used
func (h *HumanProxy) Pending() bool {
	return h.pending != nil
}

// Rejected returns why the last submitted action was refused, if it was
func (h *HumanProxy) Rejected() error {
	return h.rejected
}

// Decide returns the submitted action when it is legal. An illegal submission
// is dropped and reported through Rejected so the player can be asked again.
func (h *HumanProxy) Decide(view game.Snapshot) (game.Action, error) {
	if h.pending == nil {
		return game.Action{}, game.ErrAwaitingInput
	}
	a := *h.pending
	h.pending = nil
	if err := view.Legal.Validate(a); err != nil {
		h.rejected = err
		return game.Action{}, fmt.Errorf("%w: %w", game.ErrAwaitingInput, err)
	}
	return a, nil
}
