package poker

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckDealsDistinctCards(t *testing.T) {
	t.Parallel()
	d := NewShuffledDeck(rand.New(rand.NewPCG(7, 9)))
	require.Equal(t, 52, d.Remaining())

	var seen CardSet
	for d.Remaining() > 0 {
		c, err := d.DrawOne()
		require.NoError(t, err)
		require.False(t, seen.Contains(c), "card %s dealt twice", c)
		seen = seen.Add(c)
	}
	assert.Equal(t, 52, seen.Len())
}

func TestDeckExhausted(t *testing.T) {
	t.Parallel()
	d := NewDeck()
	_, err := d.Draw(50)
	require.NoError(t, err)

	_, err = d.Draw(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeckExhausted))
	assert.Equal(t, 2, d.Remaining(), "failed draw must not remove cards")

	_, err = d.Draw(2)
	require.NoError(t, err)
	_, err = d.Burn()
	assert.True(t, errors.Is(err, ErrDeckExhausted))
}

func TestShuffleDeterministic(t *testing.T) {
	t.Parallel()
	a := NewShuffledDeck(rand.New(rand.NewPCG(11, 0)))
	b := NewShuffledDeck(rand.New(rand.NewPCG(11, 0)))
	c := NewShuffledDeck(rand.New(rand.NewPCG(12, 0)))

	assert.Equal(t, a.Cards(), b.Cards())
	assert.NotEqual(t, a.Cards(), c.Cards())
}

func TestShuffleLeavesDealtCards(t *testing.T) {
	t.Parallel()
	d := NewDeck()
	top, err := d.Draw(5)
	require.NoError(t, err)

	d.Shuffle(rand.New(rand.NewPCG(1, 1)))
	assert.Equal(t, 47, d.Remaining())
	rest := NewCardSet(d.Cards()...)
	assert.False(t, rest.Overlaps(NewCardSet(top...)))
}

func TestStackedDeck(t *testing.T) {
	t.Parallel()
	d, err := NewStackedDeck(MustParseCards("As Kd Qh"))
	require.NoError(t, err)

	cards, err := d.Draw(2)
	require.NoError(t, err)
	assert.Equal(t, "As Kd", FormatCards(cards))

	_, err = NewStackedDeck(MustParseCards("As As"))
	assert.Error(t, err)
}
