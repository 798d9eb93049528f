package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsEmpty(t *testing.T) {
	t.Parallel()
	stats := &Statistics{}
	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.5))
	assert.ErrorContains(t, stats.Validate(), "invalid hands count")
}

func TestStatisticsSingleValue(t *testing.T) {
	t.Parallel()
	stats := &Statistics{}
	stats.Add(HandResult{NetBB: 2.5, Seed: 12345, Position: 3, WentToShowdown: true, PotBB: 10, Street: "river"})

	assert.Equal(t, 1, stats.Hands)
	assert.Equal(t, 2.5, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Equal(t, 2.5, stats.Median())
	assert.Equal(t, 1, stats.ShowdownWins)
	assert.Zero(t, stats.NonShowdownWins)
	assert.Equal(t, 1, stats.Streets["river"])
	assert.True(t, stats.IsLedgerBalanced())
	assert.NoError(t, stats.Validate())
}

func TestStatisticsMultipleValues(t *testing.T) {
	t.Parallel()
	stats := &Statistics{}
	for _, r := range []HandResult{
		{NetBB: 1.0, Position: 1},
		{NetBB: -2.0, Position: 2, WentToShowdown: true},
		{NetBB: 3.0, Position: 3, WentToShowdown: true},
		{NetBB: 0.0, Position: 1},
		{NetBB: -1.0, Position: 2},
	} {
		stats.Add(r)
	}

	assert.Equal(t, 5, stats.Hands)
	assert.InDelta(t, 0.2, stats.Mean(), 1e-9)
	// Sum of squared deviations is 14.8 over 4 degrees of freedom
	assert.InDelta(t, 3.7, stats.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(3.7), stats.StdDev(), 1e-9)
	assert.InDelta(t, math.Sqrt(3.7)/math.Sqrt(5), stats.StdError(), 1e-9)
	assert.Equal(t, 0.0, stats.Median())

	assert.Equal(t, 1, stats.ShowdownWins)
	assert.Equal(t, 1, stats.NonShowdownWins)
	assert.InDelta(t, 1.0, stats.ShowdownBB, 1e-9)
	assert.InDelta(t, 0.0, stats.NonShowdownBB, 1e-9)
	assert.NoError(t, stats.Validate())
}

func TestStatisticsPercentiles(t *testing.T) {
	t.Parallel()
	stats := &Statistics{}
	for i := 1; i <= 11; i++ {
		stats.Add(HandResult{NetBB: float64(i)})
	}
	assert.Equal(t, 1.0, stats.Percentile(0))
	assert.Equal(t, 6.0, stats.Percentile(0.5))
	assert.Equal(t, 11.0, stats.Percentile(1))
	assert.InDelta(t, 3.5, stats.Percentile(0.25), 1e-9)
	assert.Equal(t, 6.0, stats.Median())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, stats.Values, "percentiles do not reorder values")
}

func TestStatisticsConfidenceInterval(t *testing.T) {
	t.Parallel()
	stats := &Statistics{}
	for i := range 100 {
		stats.Add(HandResult{NetBB: float64(i%2*2 - 1)})
	}
	low, high := stats.ConfidenceInterval95()
	margin := 1.96 * stats.StdError()
	assert.InDelta(t, stats.Mean()-margin, low, 1e-9)
	assert.InDelta(t, stats.Mean()+margin, high, 1e-9)
	assert.Less(t, low, 0.0)
	assert.Greater(t, high, 0.0)
}

func TestStatisticsPositions(t *testing.T) {
	t.Parallel()
	stats := &Statistics{}
	stats.Add(HandResult{NetBB: 2, Position: 0})
	stats.Add(HandResult{NetBB: 4, Position: 0})
	stats.Add(HandResult{NetBB: -1, Position: 5})

	assert.Equal(t, 3.0, stats.PositionMean(0))
	assert.Equal(t, -1.0, stats.PositionMean(5))
	assert.Zero(t, stats.PositionMean(3))
	assert.Zero(t, stats.PositionMean(-1))
	assert.Zero(t, stats.PositionMean(MaxPositions))
	assert.Equal(t, 2, stats.PositionResults[0].Hands)
}

func TestStatisticsPotSizes(t *testing.T) {
	t.Parallel()
	stats := &Statistics{}
	stats.Add(HandResult{NetBB: 30, PotBB: 60})
	stats.Add(HandResult{NetBB: -1, PotBB: 1.5})
	stats.Add(HandResult{NetBB: -25, PotBB: BigPotBB})

	assert.Equal(t, 60.0, stats.MaxPotBB)
	assert.Equal(t, 2, stats.BigPots)
	assert.Equal(t, 5.0, stats.BigPotsBB)
}

func TestStatisticsValidate(t *testing.T) {
	t.Parallel()
	valid := func() *Statistics {
		s := &Statistics{}
		s.Add(HandResult{NetBB: 1, Position: 1})
		s.Add(HandResult{NetBB: -1, Position: 2, WentToShowdown: true})
		return s
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Statistics)
		want   string
	}{
		{"ledger", func(s *Statistics) { s.AllBB += 1 }, "ledger mismatch"},
		{"hands", func(s *Statistics) { s.Hands = 0 }, "invalid hands count"},
		{"values", func(s *Statistics) { s.Values = s.Values[:1] }, "values array length"},
		{"wins", func(s *Statistics) { s.NonShowdownWins = 5 }, "exceeds total hands"},
		{"positions", func(s *Statistics) { s.PositionResults[1].Hands = 0 }, "position hands total"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			assert.ErrorContains(t, s.Validate(), tt.want)
		})
	}
}
