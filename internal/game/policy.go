package game

// Policy decides the action for a seat from that seat's view of the hand.
// Decide must return synchronously. A policy with no decision yet (a human who has
// not typed anything) returns ErrAwaitingInput.
type Policy interface {
	Decide(view Snapshot) (Action, error)
}

// PolicyFunc adapts an ordinary function to the Policy interface
type PolicyFunc func(view Snapshot) (Action, error)

// Decide calls f(view)
func (f PolicyFunc) Decide(view Snapshot) (Action, error) {
	return f(view)
}

// Seat describes a player joining a hand
type Seat struct {
	ID     string
	Name   string
	Stack  int
	Policy Policy // nil for seats driven only through ApplyAction
}

// CheckOrFold checks when possible and folds otherwise
func CheckOrFold(la LegalActions) Action {
	if la.Contains(Check) {
		return Action{Type: Check}
	}
	return Action{Type: Fold}
}
