package game

import "github.com/lox/holdem/poker"

// HandOption configures a HandState during creation.
type HandOption func(*handConfig)

// handConfig holds the optional configuration for creating a hand.
type handConfig struct {
	deck   *poker.Deck // If provided, deals from this deck instead of a shuffled one
	rules  Rules
	id     string
	number int
}

// WithDeck deals from a prepared deck, typically a stacked deck in tests
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}

// WithRules overrides the default table rules
func WithRules(rules Rules) HandOption {
	return func(c *handConfig) {
		c.rules = rules
	}
}

// WithHandID sets the identifier reported in snapshots
func WithHandID(id string) HandOption {
	return func(c *handConfig) {
		c.id = id
	}
}

// WithHandNumber sets the session hand counter reported in snapshots
func WithHandNumber(n int) HandOption {
	return func(c *handConfig) {
		c.number = n
	}
}
