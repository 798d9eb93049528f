package equity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/holdem/poker"
)

// Combo is one concrete pair of hole cards
type Combo [2]poker.Card

// Set returns the combo as a CardSet
func (c Combo) Set() poker.CardSet {
	return poker.NewCardSet(c[0], c[1])
}

func (c Combo) String() string {
	return c[0].String() + c[1].String()
}

// normalize orders the higher card first so equal combos compare equal
func (c Combo) normalize() Combo {
	if c[1].Index() > c[0].Index() {
		c[0], c[1] = c[1], c[0]
	}
	return c
}

// Range is an explicit set of hole-card combos an opponent may hold.
// A nil *Range means any two unseen cards.
type Range struct {
	combos []Combo
	seen   map[Combo]struct{}
}

// AnyTwo is the range of any two unseen cards
var AnyTwo *Range

// NewRange creates a range from explicit combos. Duplicates are ignored.
func NewRange(combos ...Combo) (*Range, error) {
	r := &Range{seen: make(map[Combo]struct{})}
	for _, c := range combos {
		if err := r.add(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Range) add(c Combo) error {
	if !c[0].Valid() || !c[1].Valid() || c[0] == c[1] {
		return fmt.Errorf("%w: bad combo %v", ErrInvalidInput, c)
	}
	c = c.normalize()
	if _, ok := r.seen[c]; ok {
		return nil
	}
	r.seen[c] = struct{}{}
	r.combos = append(r.combos, c)
	return nil
}

// Size returns the number of combos, 1326 for AnyTwo
func (r *Range) Size() int {
	if r == nil {
		return 1326
	}
	return len(r.combos)
}

// Contains reports whether the hole cards are in the range
func (r *Range) Contains(c1, c2 poker.Card) bool {
	if r == nil {
		return c1 != c2
	}
	_, ok := r.seen[Combo{c1, c2}.normalize()]
	return ok
}

// Combos returns the combos in a stable order
func (r *Range) Combos() []Combo {
	if r == nil {
		return allCombos(0)
	}
	out := slices.Clone(r.combos)
	slices.SortFunc(out, func(a, b Combo) int {
		if a[0] != b[0] {
			return b[0].Index() - a[0].Index()
		}
		return b[1].Index() - a[1].Index()
	})
	return out
}

func (r *Range) String() string {
	if r == nil {
		return "any two"
	}
	parts := make([]string, 0, len(r.combos))
	for _, c := range r.Combos() {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}

// live returns combos that do not use any dead card
func (r *Range) live(dead poker.CardSet) []Combo {
	if r == nil {
		return allCombos(dead)
	}
	out := make([]Combo, 0, len(r.combos))
	for _, c := range r.combos {
		if !c.Set().Overlaps(dead) {
			out = append(out, c)
		}
	}
	return out
}

// allCombos enumerates every pair of cards outside dead
func allCombos(dead poker.CardSet) []Combo {
	cards := dead.Complement().Cards()
	out := make([]Combo, 0, len(cards)*(len(cards)-1)/2)
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			out = append(out, Combo{cards[i], cards[j]}.normalize())
		}
	}
	return out
}

// RangeFromCategories builds the range of every combo in the given preflop categories
func RangeFromCategories(categories ...poker.HoleCardCategory) (*Range, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidInput)
	}
	r := &Range{seen: make(map[Combo]struct{})}
	for _, c := range allCombos(0) {
		if slices.Contains(categories, poker.CategorizeHoleCards(c[0], c[1])) {
			if err := r.add(c); err != nil {
				return nil, err
			}
		}
	}
	if len(r.combos) == 0 {
		return nil, fmt.Errorf("%w: categories %v match no hands", ErrInvalidInput, categories)
	}
	return r, nil
}

// ParseRange parses standard range notation plus explicit combos.
// Examples: "AA,KK", "AKs,AKo", "AK", "TT+", "ATs+", "A5s-A2s", "22-66", "AhKh".
func ParseRange(notation string) (*Range, error) {
	r := &Range{seen: make(map[Combo]struct{})}
	for part := range strings.SplitSeq(notation, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := r.addPart(part); err != nil {
			return nil, fmt.Errorf("%w: range part %q: %v", ErrInvalidInput, part, err)
		}
	}
	if len(r.combos) == 0 {
		return nil, fmt.Errorf("%w: empty range %q", ErrInvalidInput, notation)
	}
	return r, nil
}

func (r *Range) addPart(part string) error {
	switch {
	case strings.HasSuffix(part, "+"):
		return r.addPlus(strings.TrimSuffix(part, "+"))
	case strings.Contains(part, "-"):
		return r.addDash(part)
	case len(part) == 4:
		cards, err := poker.ParseCards(part)
		if err != nil {
			return err
		}
		if len(cards) != 2 {
			return fmt.Errorf("want two cards in %q", part)
		}
		return r.add(Combo{cards[0], cards[1]})
	default:
		return r.addHand(part)
	}
}

type handClass struct {
	high, low poker.Rank
	suited    bool
	offsuit   bool
}

func parseHandClass(s string) (handClass, error) {
	if len(s) < 2 || len(s) > 3 {
		return handClass{}, fmt.Errorf("bad hand %q", s)
	}
	r1, ok1 := parseRank(s[0])
	r2, ok2 := parseRank(s[1])
	if !ok1 || !ok2 {
		return handClass{}, fmt.Errorf("bad rank in %q", s)
	}
	hc := handClass{high: max(r1, r2), low: min(r1, r2), suited: true, offsuit: true}
	if len(s) == 3 {
		switch s[2] {
		case 's', 'S':
			hc.offsuit = false
		case 'o', 'O':
			hc.suited = false
		default:
			return handClass{}, fmt.Errorf("bad modifier in %q", s)
		}
		if hc.high == hc.low {
			return handClass{}, fmt.Errorf("pairs take no modifier: %q", s)
		}
	}
	return hc, nil
}

func (r *Range) addHand(s string) error {
	hc, err := parseHandClass(s)
	if err != nil {
		return err
	}
	return r.addClass(hc)
}

func (r *Range) addClass(hc handClass) error {
	for s1 := poker.Clubs; s1 <= poker.Spades; s1++ {
		for s2 := poker.Clubs; s2 <= poker.Spades; s2++ {
			switch {
			case hc.high == hc.low && s2 <= s1:
				continue
			case hc.high != hc.low && s1 == s2 && !hc.suited:
				continue
			case hc.high != hc.low && s1 != s2 && !hc.offsuit:
				continue
			}
			if err := r.add(Combo{poker.NewCard(hc.high, s1), poker.NewCard(hc.low, s2)}); err != nil {
				return err
			}
		}
	}
	return nil
}

// addPlus handles "TT+" (pairs up to aces) and "ATs+" (kicker up to one below the high card)
func (r *Range) addPlus(base string) error {
	hc, err := parseHandClass(base)
	if err != nil {
		return err
	}
	if hc.high == hc.low {
		for rank := hc.low; rank <= poker.Ace; rank++ {
			if err := r.addClass(handClass{high: rank, low: rank}); err != nil {
				return err
			}
		}
		return nil
	}
	for kicker := hc.low; kicker < hc.high; kicker++ {
		next := hc
		next.low = kicker
		if err := r.addClass(next); err != nil {
			return err
		}
	}
	return nil
}

// addDash handles "22-66" and "A5s-A2s"
func (r *Range) addDash(part string) error {
	from, to, _ := strings.Cut(part, "-")
	a, err := parseHandClass(strings.TrimSpace(from))
	if err != nil {
		return err
	}
	b, err := parseHandClass(strings.TrimSpace(to))
	if err != nil {
		return err
	}

	if a.high == a.low && b.high == b.low {
		for rank := min(a.low, b.low); rank <= max(a.low, b.low); rank++ {
			if err := r.addClass(handClass{high: rank, low: rank}); err != nil {
				return err
			}
		}
		return nil
	}
	if a.high != b.high || a.suited != b.suited || a.offsuit != b.offsuit {
		return fmt.Errorf("unsupported range %q", part)
	}
	for kicker := min(a.low, b.low); kicker <= max(a.low, b.low); kicker++ {
		if kicker == a.high {
			continue
		}
		next := a
		next.low = kicker
		if err := r.addClass(next); err != nil {
			return err
		}
	}
	return nil
}

func parseRank(b byte) (poker.Rank, bool) {
	i := strings.IndexByte("23456789TJQKA", upper(b))
	if i < 0 {
		return 0, false
	}
	return poker.Two + poker.Rank(i), true
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
