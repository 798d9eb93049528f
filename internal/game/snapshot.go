package game

import (
	"slices"

	"github.com/lox/holdem/poker"
)

// PlayerView is the read-only view of a player inside a Snapshot.
// HoleCards is nil when the cards are hidden from the viewer.
type PlayerView struct {
	Seat      int
	ID        string
	Name      string
	Stack     int
	Bet       int
	TotalBet  int
	Status    PlayerStatus
	HoleCards []poker.Card
}

// Snapshot is a deep copy of a hand's state. Changing it never affects the hand.
type Snapshot struct {
	HandID      string
	HandNumber  int
	Street      Street
	Button      int
	SmallBlind  int
	BigBlind    int
	Board       []poker.Card
	Players     []PlayerView
	Pots        []Pot // Live pots, empty once the hand is complete
	Awarded     []Pot // Pots as they were awarded
	CurrentBet  int
	MinRaise    int
	ActionOn    int
	Legal       LegalActions // Set when the viewer is the player to act, or for full views
	History     []ActionRecord
	Payouts     []Payout
	Refunds     []Refund
	Aborted     bool
	AbortReason string
	Viewer      int // Seat the snapshot was taken for, -1 for a full view
}

// Snapshot returns a full view including every player's hole cards
func (h *HandState) Snapshot() Snapshot {
	return h.snapshot(-1)
}

// SnapshotFor returns the view of one seat: other players' hole cards stay hidden
// unless they reach a showdown
func (h *HandState) SnapshotFor(seat int) Snapshot {
	return h.snapshot(seat)
}

func (h *HandState) snapshot(viewer int) Snapshot {
	s := Snapshot{
		HandID:      h.ID,
		HandNumber:  h.Number,
		Street:      h.Street,
		Button:      h.Button,
		SmallBlind:  h.SmallBlind,
		BigBlind:    h.BigBlind,
		Board:       slices.Clone(h.Board),
		Pots:        clonePots(h.pots),
		Awarded:     clonePots(h.awarded),
		CurrentBet:  h.CurrentBet,
		MinRaise:    h.MinRaise,
		ActionOn:    h.ActionOn,
		Legal:       LegalActions{Seat: -1},
		History:     slices.Clone(h.History),
		Refunds:     slices.Clone(h.Refunds),
		Aborted:     h.Aborted,
		AbortReason: h.AbortReason,
		Viewer:      viewer,
	}

	if viewer < 0 || viewer == h.ActionOn {
		la := h.LegalActions()
		la.Actions = slices.Clone(la.Actions)
		s.Legal = la
	}

	s.Players = make([]PlayerView, len(h.Players))
	for i, p := range h.Players {
		view := PlayerView{
			Seat:     p.Seat,
			ID:       p.ID,
			Name:     p.Name,
			Stack:    p.Stack,
			Bet:      p.Bet,
			TotalBet: p.TotalBet,
			Status:   p.Status,
		}
		if viewer < 0 || viewer == p.Seat || (h.showdown && p.InHand()) {
			view.HoleCards = slices.Clone(p.HoleCards)
		}
		s.Players[i] = view
	}

	for _, po := range h.Payouts {
		po.BestFive = slices.Clone(po.BestFive)
		s.Payouts = append(s.Payouts, po)
	}
	return s
}

func clonePots(pots []Pot) []Pot {
	if pots == nil {
		return nil
	}
	out := make([]Pot, len(pots))
	for i, p := range pots {
		p.Eligible = slices.Clone(p.Eligible)
		out[i] = p
	}
	return out
}

// IsComplete returns true once the hand is over
func (s Snapshot) IsComplete() bool {
	return s.Street == HandComplete
}

// TotalPot returns the chips in the live pots
func (s Snapshot) TotalPot() int {
	return potTotal(s.Pots)
}

// Player returns the view of a seat
func (s Snapshot) Player(seat int) (PlayerView, bool) {
	if seat < 0 || seat >= len(s.Players) {
		return PlayerView{}, false
	}
	return s.Players[seat], true
}

// Self returns the viewer's own player view
func (s Snapshot) Self() (PlayerView, bool) {
	return s.Player(s.Viewer)
}

// ToCall returns the chips the seat must add to match the current bet
func (s Snapshot) ToCall(seat int) int {
	p, ok := s.Player(seat)
	if !ok {
		return 0
	}
	return min(max(0, s.CurrentBet-p.Bet), p.Stack)
}

// Opponents counts the other players still in the hand
func (s Snapshot) Opponents(seat int) int {
	count := 0
	for _, p := range s.Players {
		if p.Seat != seat && p.Status != StatusFolded {
			count++
		}
	}
	return count
}

// Raised reports whether anyone has made a voluntary bet or raise on the current street
func (s Snapshot) Raised() bool {
	for _, r := range s.History {
		if r.Street == s.Street && r.Kind == RecordAction && (r.Action.Type == Bet || r.Action.Type == Raise) {
			return true
		}
	}
	return false
}
