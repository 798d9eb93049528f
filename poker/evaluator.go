package poker

import (
	"fmt"
	"math/bits"
	"slices"
)

// HandRank represents the strength of a poker hand. Higher values are stronger,
// and equal values are exact ties.
//
// The layout is category<<20 followed by up to five 4-bit tiebreak ranks, most
// significant first.
type HandRank uint32

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name
func (t HandType) String() string {
	switch t {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

const wheelMask = 0x100F // Ace + 2-3-4-5

func makeRank(t HandType, ranks ...Rank) HandRank {
	hr := HandRank(t) << 20
	for i, r := range ranks {
		hr |= HandRank(r) << (16 - 4*uint(i))
	}
	return hr
}

// Type returns the category of the hand
func (hr HandRank) Type() HandType {
	return HandType(hr >> 20)
}

// Kickers returns the tiebreak ranks in significance order. For straights and
// straight flushes this is the high card only (Five for the wheel).
func (hr HandRank) Kickers() []Rank {
	var ranks []Rank
	for i := 0; i < 5; i++ {
		r := Rank(hr >> (16 - 4*uint(i)) & 0xF)
		if r == 0 {
			break
		}
		ranks = append(ranks, r)
	}
	return ranks
}

// Compare returns 1 if hr beats other, -1 if it loses and 0 for a tie
func (hr HandRank) Compare(other HandRank) int {
	switch {
	case hr > other:
		return 1
	case hr < other:
		return -1
	default:
		return 0
	}
}

// CompareHands compares two hands and returns 1 if a wins, -1 if b wins, 0 for tie
func CompareHands(a, b HandRank) int {
	return a.Compare(b)
}

// String returns a description such as "Full House, Kings full of Sevens"
func (hr HandRank) String() string {
	k := hr.Kickers()
	if len(k) == 0 {
		return "Unknown"
	}
	switch hr.Type() {
	case StraightFlush:
		if k[0] == Ace {
			return "Royal Flush"
		}
		return fmt.Sprintf("Straight Flush, %s high", k[0].Name())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", k[0].plural())
	case FullHouse:
		return fmt.Sprintf("Full House, %s full of %s", k[0].plural(), k[1].plural())
	case Flush:
		return fmt.Sprintf("Flush, %s high", k[0].Name())
	case Straight:
		return fmt.Sprintf("Straight, %s high", k[0].Name())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", k[0].plural())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", k[0].plural(), k[1].plural())
	case Pair:
		return fmt.Sprintf("Pair of %s", k[0].plural())
	default:
		return fmt.Sprintf("High Card, %s", k[0].Name())
	}
}

// validateHand checks that cards hold 5 to 7 distinct valid cards
func validateHand(cards []Card) (CardSet, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return 0, fmt.Errorf("%w: need 5 to 7 cards, got %d", ErrInvalidHandInput, len(cards))
	}
	var cs CardSet
	for _, c := range cards {
		if !c.Valid() {
			return 0, fmt.Errorf("%w: malformed card %d", ErrInvalidHandInput, c)
		}
		if cs.Contains(c) {
			return 0, fmt.Errorf("%w: duplicate card %s", ErrInvalidHandInput, c)
		}
		cs = cs.Add(c)
	}
	return cs, nil
}

// Evaluate returns the best five card HandRank available from 5, 6 or 7 cards.
// The result depends only on the set of cards, never on their order.
func Evaluate(cards []Card) (HandRank, error) {
	cs, err := validateHand(cards)
	if err != nil {
		return 0, err
	}
	return EvaluateSet(cs), nil
}

// EvaluateSet ranks a set of 5 to 7 cards without validating the count.
// It is the hot path used by equity estimation.
func EvaluateSet(cs CardSet) HandRank {
	masks := cs.suitMasks()
	s0, s1, s2, s3 := masks[0], masks[1], masks[2], masks[3]
	rankMask := s0 | s1 | s2 | s3

	var flush HandRank
	for _, m := range masks {
		if bits.OnesCount16(m) < 5 {
			continue
		}
		if high := straightHigh(m); high != 0 {
			return makeRank(StraightFlush, high)
		}
		if hr := makeRank(Flush, topRanks(m, 5)...); hr > flush {
			flush = hr
		}
	}

	quads := s0 & s1 & s2 & s3
	trips := ((s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)) &^ quads
	pairs := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ (trips | quads)

	if quads != 0 {
		q := highestRank(quads)
		return makeRank(FourOfAKind, q, highestRank(rankMask&^rankBit(q)))
	}

	if trips != 0 {
		t := highestRank(trips)
		if rest := (trips &^ rankBit(t)) | pairs; rest != 0 {
			return makeRank(FullHouse, t, highestRank(rest))
		}
	}

	if flush != 0 {
		return flush
	}

	if high := straightHigh(rankMask); high != 0 {
		return makeRank(Straight, high)
	}

	if trips != 0 {
		t := highestRank(trips)
		kickers := topRanks(rankMask&^rankBit(t), 2)
		return makeRank(ThreeOfAKind, append([]Rank{t}, kickers...)...)
	}

	if bits.OnesCount16(pairs) >= 2 {
		high := highestRank(pairs)
		low := highestRank(pairs &^ rankBit(high))
		kicker := highestRank(rankMask &^ rankBit(high) &^ rankBit(low))
		return makeRank(TwoPair, high, low, kicker)
	}

	if pairs != 0 {
		p := highestRank(pairs)
		kickers := topRanks(rankMask&^rankBit(p), 3)
		return makeRank(Pair, append([]Rank{p}, kickers...)...)
	}

	return makeRank(HighCard, topRanks(rankMask, 5)...)
}

// BestFive returns the five cards forming the best hand, strongest rank groups
// first, together with their rank. All C(n,5) subsets are examined.
func BestFive(cards []Card) ([]Card, HandRank, error) {
	cs, err := validateHand(cards)
	if err != nil {
		return nil, 0, err
	}

	sorted := cs.Cards()
	n := len(sorted)
	var best HandRank
	var bestSet CardSet
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for d := c + 1; d < n; d++ {
					for e := d + 1; e < n; e++ {
						sub := NewCardSet(sorted[a], sorted[b], sorted[c], sorted[d], sorted[e])
						if hr := EvaluateSet(sub); hr > best {
							best = hr
							bestSet = sub
						}
					}
				}
			}
		}
	}

	five := bestSet.Cards()
	orderScoringCards(five, best)
	return five, best, nil
}

// orderScoringCards sorts cards so that the groups that define the hand come first
// (the trips of a full house before its pair, the wheel's ace last).
func orderScoringCards(cards []Card, hr HandRank) {
	var counts [15]int
	for _, c := range cards {
		counts[c.Rank()]++
	}
	wheel := (hr.Type() == Straight || hr.Type() == StraightFlush) && hr.Kickers()[0] == Five
	value := func(c Card) int {
		r := int(c.Rank())
		if wheel && c.Rank() == Ace {
			r = 1
		}
		return counts[c.Rank()]*16 + r
	}
	slices.SortStableFunc(cards, func(a, b Card) int {
		if va, vb := value(a), value(b); va != vb {
			return vb - va
		}
		return int(b.Suit()) - int(a.Suit())
	})
}

func rankBit(r Rank) uint16 {
	return 1 << (r - Two)
}

// highestRank returns the highest rank present in the mask (0 when empty)
func highestRank(mask uint16) Rank {
	if mask == 0 {
		return 0
	}
	return Rank(bits.Len16(mask)-1) + Two
}

// topRanks returns the n highest ranks in the mask in descending order
func topRanks(mask uint16, n int) []Rank {
	ranks := make([]Rank, 0, n)
	for len(ranks) < n && mask != 0 {
		r := highestRank(mask)
		ranks = append(ranks, r)
		mask &^= rankBit(r)
	}
	return ranks
}

// straightHigh returns the high card of the best straight in the mask, or 0.
func straightHigh(mask uint16) Rank {
	mask &= 0x1FFF
	// Bitwise cascade identifies five consecutive ranks in one pass.
	if seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4); seq != 0 {
		return Rank(bits.Len16(seq)-1) + 4 + Two
	}
	if mask&wheelMask == wheelMask {
		return Five
	}
	return 0
}
