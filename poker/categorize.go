package poker

// HoleCardCategory represents the preflop strength category of hole cards
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// ParseCategory converts a category name into a HoleCardCategory
func ParseCategory(name string) (HoleCardCategory, bool) {
	for _, c := range []HoleCardCategory{CategoryPremium, CategoryStrong, CategoryMedium, CategoryWeak, CategoryTrash} {
		if string(c) == name {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// CategorizeHoleCards provides a simple preflop hand categorization.
// Categories: Premium (JJ+, AK), Strong (TT, AQ, AJ), Medium (77-99, suited broadway),
// Weak (22-66, suited connectors), Trash (everything else).
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	if !card1.Valid() || !card2.Valid() || card1 == card2 {
		return CategoryUnknown
	}

	small, big := card1.Rank(), card2.Rank()
	if small > big {
		small, big = big, small
	}
	suited := card1.Suit() == card2.Suit()
	paired := small == big

	switch {
	case paired && small >= Jack, small == King && big == Ace:
		return CategoryPremium
	case paired && small == Ten, big == Ace && (small == Queen || small == Jack):
		return CategoryStrong
	case paired && small >= Seven, suited && small >= Ten:
		return CategoryMedium
	case paired, suited && big-small <= 2:
		return CategoryWeak
	default:
		return CategoryTrash
	}
}

// CategorizeHoleCardsFromStrings categorizes hole cards given as strings ("As", "Kd")
func CategorizeHoleCardsFromStrings(cards []string) HoleCardCategory {
	if len(cards) != 2 {
		return CategoryUnknown
	}
	card1, err1 := ParseCard(cards[0])
	card2, err2 := ParseCard(cards[1])
	if err1 != nil || err2 != nil {
		return CategoryUnknown
	}
	return CategorizeHoleCards(card1, card2)
}
