package game

import "slices"

// Pot represents a pot (main or side). Pots are rebuilt from total contributions
// and are ordered main pot first.
type Pot struct {
	Amount   int
	Cap      int   // Contribution level that bounds this pot
	Eligible []int // Seats that may win this pot, in seat order
}

// Refund records uncalled chips returned to their owner before the pots are awarded
type Refund struct {
	Seat   int
	Amount int
}

// buildPots layers total contributions into a main pot and side pots. There is one
// layer per distinct all-in level of a player still in the hand, plus a top layer.
// Each layer is eligible to non-folded seats that contributed at least its cap.
// A layer nobody can win is merged into the pot below it.
func buildPots(players []*Player) []Pot {
	top := 0
	for _, p := range players {
		top = max(top, p.TotalBet)
	}
	if top == 0 {
		return nil
	}

	levels := []int{top}
	for _, p := range players {
		if p.Status == StatusAllIn && p.TotalBet > 0 && !slices.Contains(levels, p.TotalBet) {
			levels = append(levels, p.TotalBet)
		}
	}
	slices.Sort(levels)

	var pots []Pot
	carry := 0
	prev := 0
	for _, level := range levels {
		pot := Pot{Cap: level, Amount: carry}
		carry = 0
		for _, p := range players {
			pot.Amount += min(p.TotalBet, level) - min(p.TotalBet, prev)
			if p.InHand() && p.TotalBet >= level {
				pot.Eligible = append(pot.Eligible, p.Seat)
			}
		}
		prev = level

		switch {
		case pot.Amount == 0:
			continue
		case len(pot.Eligible) == 0 && len(pots) > 0:
			pots[len(pots)-1].Amount += pot.Amount
		case len(pot.Eligible) == 0:
			carry = pot.Amount
		default:
			pots = append(pots, pot)
		}
	}

	if carry > 0 {
		pot := Pot{Cap: top, Amount: carry}
		for _, p := range players {
			if p.InHand() {
				pot.Eligible = append(pot.Eligible, p.Seat)
			}
		}
		pots = append(pots, pot)
	}
	return pots
}

// uncalledRefund returns the chips the top contributor put in beyond what anyone else
// matched. It reports a zero Refund when the top contribution is matched.
func uncalledRefund(players []*Player) Refund {
	refund := Refund{Seat: -1}
	first, second := 0, 0
	for _, p := range players {
		switch {
		case p.TotalBet > first:
			second = first
			first = p.TotalBet
			refund.Seat = p.Seat
		case p.TotalBet > second:
			second = p.TotalBet
		}
	}
	if first == second {
		return Refund{Seat: -1}
	}
	refund.Amount = first - second
	return refund
}

// potTotal sums pot amounts
func potTotal(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}
