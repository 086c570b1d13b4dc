package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"pivot_backend/internal/feature/pivots/domain"
)

func TestComputeLevels_KnownValues(t *testing.T) {
	t.Parallel()

	got := domain.ComputeLevels(110, 90, 100)

	want := domain.PivotLevels{
		PP1: 100, PP2: 100,
		R1: 110, S1: 90,
		R2: 120, S2: 80,
		HR1: 105, HS1: 95,
		HR2: 115, HS2: 85,
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 2*got.PP1, got.R1+got.S1)
	assert.Equal(t, got.R1-got.PP1, got.PP1-got.S1)
}

func TestComputeLevels_Identities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		high, low, close float64
	}{
		{"close inside range", 155.3, 149.1, 154.5},
		{"close at high", 42.17, 39.9, 42.17},
		{"close at low", 12.5, 11.05, 11.05},
		{"zero range", 100, 100, 100},
		{"fractional prices", 0.3, 0.1, 0.2},
		{"close outside range", 10, 8, 13},
		{"inverted range", 90, 110, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := domain.ComputeLevels(tt.high, tt.low, tt.close)

			assert.Equal(t, (tt.high+tt.low+tt.close)/3, l.PP1)
			assert.Equal(t, (tt.high+tt.low)/2, l.PP2)
			assert.Equal(t, 2*l.PP1-tt.low, l.R1)
			assert.Equal(t, 2*l.PP1-tt.high, l.S1)
			assert.Equal(t, l.PP1+(tt.high-tt.low), l.R2)
			assert.Equal(t, l.PP1-(tt.high-tt.low), l.S2)

			assert.Equal(t, (l.PP1+l.R1)/2, l.HR1)
			assert.Equal(t, (l.PP1+l.S1)/2, l.HS1)
			assert.Equal(t, (l.R1+l.R2)/2, l.HR2)
			assert.Equal(t, (l.S1+l.S2)/2, l.HS2)

			// R1 and S1 are separated by the full range and centred on 2*PP1 - PP2.
			assert.InDelta(t, tt.high-tt.low, l.R1-l.S1, 1e-9)
			assert.InDelta(t, 4*l.PP1-2*l.PP2, l.R1+l.S1, 1e-9)
		})
	}
}

func TestComputeLevels_OrderingForSaneInput(t *testing.T) {
	t.Parallel()

	l := domain.ComputeLevels(155.3, 149.1, 154.5)
	lo, hi := l.PivotBand()

	assert.LessOrEqual(t, l.S2, l.S1)
	assert.LessOrEqual(t, l.S1, lo)
	assert.LessOrEqual(t, lo, hi)
	assert.LessOrEqual(t, hi, l.R1)
	assert.LessOrEqual(t, l.R1, l.R2)
}

func TestComputeLevels_NonFiniteInputDoesNotPanic(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		l := domain.ComputeLevels(math.NaN(), 1, 2)
		assert.True(t, math.IsNaN(l.PP1))
		assert.True(t, math.IsNaN(l.HS2))
	})
	assert.NotPanics(t, func() {
		l := domain.ComputeLevels(math.Inf(1), 1, 2)
		assert.True(t, math.IsInf(l.PP1, 1))
	})
}

func TestPivotLevels_Ordered(t *testing.T) {
	t.Parallel()

	l := domain.ComputeLevels(110, 90, 100)
	ordered := l.Ordered()

	assert.Len(t, ordered, 10)
	names := make([]domain.LevelName, 0, len(ordered))
	for _, nl := range ordered {
		names = append(names, nl.Name)
	}
	assert.Equal(t, domain.DisplayOrder, names)
	assert.Equal(t, domain.NamedLevel{Name: domain.R2, Value: 120}, ordered[0])
	assert.Equal(t, domain.NamedLevel{Name: domain.S2, Value: 80}, ordered[9])
}

func TestPivotLevels_Value(t *testing.T) {
	t.Parallel()

	l := domain.ComputeLevels(110, 90, 100)

	v, ok := l.Value(domain.HR2)
	assert.True(t, ok)
	assert.Equal(t, 115.0, v)

	_, ok = l.Value("R3")
	assert.False(t, ok)
}
