package poker

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// Suit is one of the four card suits.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

const suitChars = "cdhs"

// String returns the single letter form of the suit (c, d, h, s)
func (s Suit) String() string {
	if s > Spades {
		return "?"
	}
	return suitChars[s : s+1]
}

// Symbol returns the unicode symbol for the suit
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true for hearts and diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank is a card rank from Two (2) to Ace (14).
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

// String returns the single character form of the rank
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return rankChars[r-Two : r-Two+1]
}

// Name returns the spoken name of the rank ("Ace", "Seven")
func (r Rank) Name() string {
	names := [...]string{"Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten", "Jack", "Queen", "King", "Ace"}
	if r < Two || r > Ace {
		return "Unknown"
	}
	return names[r-Two]
}

// plural returns the plural spoken name ("Sixes", "Kings")
func (r Rank) plural() string {
	if r == Six {
		return "Sixes"
	}
	return r.Name() + "s"
}

// Card is an immutable playing card packed as rank<<2 | suit.
// The zero value is not a valid card.
type Card uint8

// NewCard creates a card from a rank and suit
func NewCard(rank Rank, suit Suit) Card {
	return Card(uint8(rank)<<2 | uint8(suit&3))
}

// CardFromIndex returns the card at position 0-51 in canonical order
// (deuces first, clubs before spades).
func CardFromIndex(i int) Card {
	return NewCard(Rank(i/4)+Two, Suit(i%4))
}

// Rank returns the rank of the card
func (c Card) Rank() Rank {
	return Rank(c >> 2)
}

// Suit returns the suit of the card
func (c Card) Suit() Suit {
	return Suit(c & 3)
}

// Index returns the canonical position of the card, 0-51
func (c Card) Index() int {
	return int(c.Rank()-Two)*4 + int(c.Suit())
}

// Valid reports whether the card has a real rank and suit
func (c Card) Valid() bool {
	r := c.Rank()
	return r >= Two && r <= Ace
}

// String returns the two character form ("As", "Td", "2c")
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// Pretty returns the rank followed by the suit symbol ("A♠")
func (c Card) Pretty() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().Symbol()
}

// ParseCard parses a card such as "As", "td", "10h" or "KH".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q", s)
	}

	idx := strings.IndexByte(rankChars, upper(s[0]))
	if idx < 0 {
		return 0, fmt.Errorf("invalid rank in card %q", s)
	}
	suit := strings.IndexByte(suitChars, lower(s[1]))
	if suit < 0 {
		return 0, fmt.Errorf("invalid suit in card %q", s)
	}
	return NewCard(Two+Rank(idx), Suit(suit)), nil
}

// ParseCards parses a list of cards separated by spaces or commas ("As Kd", "As,Kd"),
// or concatenated without separators ("AsKd").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	var cards []Card
	for _, field := range fields {
		if len(field) > 3 {
			// Concatenated form, split into two character chunks
			for i := 0; i < len(field); i += 2 {
				end := min(i+2, len(field))
				card, err := ParseCard(field[i:end])
				if err != nil {
					return nil, err
				}
				cards = append(cards, card)
			}
			continue
		}
		card, err := ParseCard(field)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on malformed input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards renders cards separated by spaces
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// CardSet is a set of cards using one bit per card index.
type CardSet uint64

// fullSet has all 52 card bits set.
const fullSet CardSet = 1<<52 - 1

// NewCardSet builds a set from cards
func NewCardSet(cards ...Card) CardSet {
	var cs CardSet
	for _, c := range cards {
		cs = cs.Add(c)
	}
	return cs
}

// Add returns the set with the card included
func (cs CardSet) Add(c Card) CardSet {
	return cs | 1<<uint(c.Index())
}

// Remove returns the set without the card
func (cs CardSet) Remove(c Card) CardSet {
	return cs &^ (1 << uint(c.Index()))
}

// Contains reports whether the card is in the set
func (cs CardSet) Contains(c Card) bool {
	return cs&(1<<uint(c.Index())) != 0
}

// Len returns the number of cards in the set
func (cs CardSet) Len() int {
	return bits.OnesCount64(uint64(cs))
}

// Union returns the cards in either set
func (cs CardSet) Union(other CardSet) CardSet {
	return cs | other
}

// Overlaps reports whether the sets share any card
func (cs CardSet) Overlaps(other CardSet) bool {
	return cs&other != 0
}

// Complement returns every card of the deck not in the set
func (cs CardSet) Complement() CardSet {
	return fullSet &^ cs
}

// Cards returns the cards in canonical order
func (cs CardSet) Cards() []Card {
	cards := make([]Card, 0, cs.Len())
	for rest := uint64(cs & fullSet); rest != 0; rest &= rest - 1 {
		cards = append(cards, CardFromIndex(bits.TrailingZeros64(rest)))
	}
	return cards
}

// suitMasks returns a 13-bit rank mask (bit 0 = deuce) for each suit
func (cs CardSet) suitMasks() [4]uint16 {
	var masks [4]uint16
	for rest := uint64(cs & fullSet); rest != 0; rest &= rest - 1 {
		idx := bits.TrailingZeros64(rest)
		masks[idx%4] |= 1 << (idx / 4)
	}
	return masks
}

// String renders the set in canonical order
func (cs CardSet) String() string {
	return FormatCards(cs.Cards())
}

// SortCards sorts cards by descending rank then suit, in place
func SortCards(cards []Card) {
	slices.SortFunc(cards, func(a, b Card) int {
		if a.Rank() != b.Rank() {
			return int(b.Rank()) - int(a.Rank())
		}
		return int(b.Suit()) - int(a.Suit())
	})
}
