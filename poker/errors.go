package poker

import "errors"

var (
	// ErrDeckExhausted is returned when more cards are requested than remain in the deck
	ErrDeckExhausted = errors.New("deck exhausted")

	// ErrInvalidHandInput is returned when the evaluator is given fewer than 5,
	// more than 7, duplicate or malformed cards
	ErrInvalidHandInput = errors.New("invalid hand input")
)
