package game

import "github.com/lox/holdem/poker"

// PlayerStatus tracks whether a player is still contesting the hand
type PlayerStatus int

const (
	StatusActive PlayerStatus = iota
	StatusFolded
	StatusAllIn
)

func (s PlayerStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	default:
		return "unknown"
	}
}

// Player represents a player in a hand
type Player struct {
	Seat      int
	ID        string
	Name      string
	Stack     int
	HoleCards []poker.Card
	Bet       int // Contribution this round
	TotalBet  int // Contribution this hand
	Status    PlayerStatus
}

// CanAct returns true if the player can still make decisions
func (p *Player) CanAct() bool {
	return p.Status == StatusActive
}

// InHand returns true if the player has not folded
func (p *Player) InHand() bool {
	return p.Status != StatusFolded
}

// put moves chips from the stack into the pot, marking the player all-in when the stack runs out
func (p *Player) put(amount int) int {
	amount = min(amount, p.Stack)
	p.Stack -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Stack == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
	return amount
}
