package poker

import (
	"fmt"
	"math/rand/v2"
)

// Deck represents a standard 52-card deck dealt from the top.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck creates an ordered, unshuffled 52-card deck
func NewDeck() *Deck {
	d := &Deck{cards: make([]Card, 52)}
	for i := range d.cards {
		d.cards[i] = CardFromIndex(i)
	}
	return d
}

// NewShuffledDeck creates a deck shuffled with the given RNG
func NewShuffledDeck(rng *rand.Rand) *Deck {
	d := NewDeck()
	d.Shuffle(rng)
	return d
}

// NewStackedDeck creates a deck that deals the given cards in order, top first.
// It is intended for tests that need an exact run of cards.
func NewStackedDeck(cards []Card) (*Deck, error) {
	var seen CardSet
	for _, c := range cards {
		if !c.Valid() {
			return nil, fmt.Errorf("stacked deck: invalid card %d", c)
		}
		if seen.Contains(c) {
			return nil, fmt.Errorf("stacked deck: duplicate card %s", c)
		}
		seen = seen.Add(c)
	}
	return &Deck{cards: append([]Card(nil), cards...)}, nil
}

// Shuffle permutes the undealt cards using Fisher-Yates
func (d *Deck) Shuffle(rng *rand.Rand) {
	rest := d.cards[d.next:]
	for i := len(rest) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		rest[i], rest[j] = rest[j], rest[i]
	}
}

// Draw removes and returns n cards from the top of the deck.
// If fewer than n cards remain nothing is removed and ErrDeckExhausted is returned.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("draw %d cards: negative count", n)
	}
	if d.next+n > len(d.cards) {
		return nil, fmt.Errorf("draw %d cards with %d remaining: %w", n, d.Remaining(), ErrDeckExhausted)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// DrawOne removes and returns the top card
func (d *Deck) DrawOne() (Card, error) {
	cards, err := d.Draw(1)
	if err != nil {
		return 0, err
	}
	return cards[0], nil
}

// Burn discards the top card face down and returns it
func (d *Deck) Burn() (Card, error) {
	c, err := d.DrawOne()
	if err != nil {
		return 0, fmt.Errorf("burn: %w", err)
	}
	return c, nil
}

// Remaining returns the number of undealt cards
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Cards returns a copy of the undealt cards, top first
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards[d.next:]...)
}
