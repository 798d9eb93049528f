package game

import "fmt"

// MinRaiseRule selects how the minimum raise increment is sized
type MinRaiseRule int

const (
	// MinRaiseLastIncrement uses the size of the last full bet or raise this round,
	// starting each street at the big blind
	MinRaiseLastIncrement MinRaiseRule = iota
	// MinRaiseBigBlind always uses the big blind
	MinRaiseBigBlind
)

func (r MinRaiseRule) String() string {
	if r == MinRaiseBigBlind {
		return "big_blind"
	}
	return "last_increment"
}

// ParseMinRaiseRule parses "last_increment" or "big_blind"
func ParseMinRaiseRule(s string) (MinRaiseRule, error) {
	switch s {
	case "", "last_increment":
		return MinRaiseLastIncrement, nil
	case "big_blind":
		return MinRaiseBigBlind, nil
	default:
		return 0, fmt.Errorf("unknown min raise rule %q", s)
	}
}

// OddChipRule selects who receives remainder chips when a pot is split
type OddChipRule int

const (
	// OddChipLeftOfButton awards odd chips one at a time starting with the
	// first tied winner left of the button
	OddChipLeftOfButton OddChipRule = iota
	// OddChipLowestSeat awards odd chips starting with the lowest seat number
	OddChipLowestSeat
)

func (r OddChipRule) String() string {
	if r == OddChipLowestSeat {
		return "lowest_seat"
	}
	return "left_of_button"
}

// ParseOddChipRule parses "left_of_button" or "lowest_seat"
func ParseOddChipRule(s string) (OddChipRule, error) {
	switch s {
	case "", "left_of_button":
		return OddChipLeftOfButton, nil
	case "lowest_seat":
		return OddChipLowestSeat, nil
	default:
		return 0, fmt.Errorf("unknown odd chip rule %q", s)
	}
}

// Rules holds the table conventions that vary between card rooms
type Rules struct {
	MinRaise  MinRaiseRule
	OddChip   OddChipRule
	BurnCards bool
}

// DefaultRules returns standard no-limit conventions
func DefaultRules() Rules {
	return Rules{
		MinRaise:  MinRaiseLastIncrement,
		OddChip:   OddChipLeftOfButton,
		BurnCards: true,
	}
}
