package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()
	aceSpades := NewCard(Ace, Spades)
	assert.Equal(t, Ace, aceSpades.Rank())
	assert.Equal(t, Spades, aceSpades.Suit())
	assert.Equal(t, "As", aceSpades.String())
	assert.Equal(t, "A♠", aceSpades.Pretty())

	twoClubs := NewCard(Two, Clubs)
	assert.Equal(t, "2c", twoClubs.String())
	assert.Equal(t, 0, twoClubs.Index())
	assert.Equal(t, 51, aceSpades.Index())
	assert.False(t, Card(0).Valid())
}

func TestCardFromIndexRoundTrip(t *testing.T) {
	t.Parallel()
	seen := make(map[Card]bool)
	for i := 0; i < 52; i++ {
		c := CardFromIndex(i)
		require.True(t, c.Valid())
		assert.Equal(t, i, c.Index())
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{"As", NewCard(Ace, Spades), false},
		{"2h", NewCard(Two, Hearts), false},
		{"Kd", NewCard(King, Diamonds), false},
		{"td", NewCard(Ten, Diamonds), false},
		{"10h", NewCard(Ten, Hearts), false},
		{"QC", NewCard(Queen, Clubs), false},
		{"1s", 0, true},
		{"Ax", 0, true},
		{"", 0, true},
		{"Asd", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"As Kd", "As,Kd", "AsKd", "as, kd"} {
		cards, err := ParseCards(input)
		require.NoError(t, err, input)
		assert.Equal(t, []Card{NewCard(Ace, Spades), NewCard(King, Diamonds)}, cards, input)
	}

	_, err := ParseCards("As Zz")
	assert.Error(t, err)

	assert.Equal(t, "As Kd", FormatCards(MustParseCards("AsKd")))
}

func TestCardSet(t *testing.T) {
	t.Parallel()
	cards := MustParseCards("As Kd 2c")
	cs := NewCardSet(cards...)

	assert.Equal(t, 3, cs.Len())
	assert.True(t, cs.Contains(NewCard(King, Diamonds)))
	assert.False(t, cs.Contains(NewCard(King, Hearts)))
	assert.Equal(t, "2c Kd As", cs.String())

	cs = cs.Remove(NewCard(Two, Clubs))
	assert.Equal(t, 2, cs.Len())
	assert.Equal(t, 50, cs.Complement().Len())
	assert.False(t, cs.Overlaps(cs.Complement()))
	assert.Equal(t, 52, cs.Union(cs.Complement()).Len())
}

func TestSortCards(t *testing.T) {
	t.Parallel()
	cards := MustParseCards("2c As Td Ac")
	SortCards(cards)
	assert.Equal(t, "As Ac Td 2c", FormatCards(cards))
}
