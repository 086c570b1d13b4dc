package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivot_backend/internal/feature/pivots/domain"
)

func TestEvaluatePosition(t *testing.T) {
	t.Parallel()

	// PP1 = 102, PP2 = 100
	upper := domain.ComputeLevels(110, 90, 106)
	// PP1 = 98, PP2 = 100
	lower := domain.ComputeLevels(110, 90, 94)

	tests := []struct {
		name   string
		price  float64
		levels domain.PivotLevels
		want   domain.Position
	}{
		{"inside band", 101, upper, domain.Balanced},
		{"equal to PP1 when PP1 is the upper bound", upper.PP1, upper, domain.Balanced},
		{"equal to PP2 when PP2 is the lower bound", upper.PP2, upper, domain.Balanced},
		{"equal to PP1 when PP1 is the lower bound", lower.PP1, lower, domain.Balanced},
		{"equal to PP2 when PP2 is the upper bound", lower.PP2, lower, domain.Balanced},
		{"above band", 102.01, upper, domain.Above},
		{"below band", 99.99, upper, domain.Below},
		{"far above", 500, lower, domain.Above},
		{"far below", 1, lower, domain.Below},
		{"degenerate band", 100, domain.ComputeLevels(100, 100, 100), domain.Balanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.EvaluatePosition(tt.price, tt.levels))
		})
	}
}

func TestPosition_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "above", domain.Above.String())
	assert.Equal(t, "below", domain.Below.String())
	assert.Equal(t, "balanced", domain.Balanced.String())
	assert.Equal(t, "Position(9)", domain.Position(9).String())
}

func TestPosition_Summary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Price is trading above the pivot levels on a weekly basis.", domain.Above.Summary(domain.Weekly))
	assert.Equal(t, "Price is trading below the pivot levels on a daily basis.", domain.Below.Summary(domain.Daily))
	assert.Contains(t, domain.Balanced.Summary(domain.Quarterly), "quarterly")
}

func TestAnalysisResult_Position(t *testing.T) {
	t.Parallel()

	r := domain.AnalysisResult{Levels: domain.ComputeLevels(110, 90, 100), LastClose: 100}
	assert.Equal(t, domain.Balanced, r.Position())

	r.LastClose = 111
	assert.Equal(t, domain.Above, r.Position())
}

func TestPosition_MarshalText(t *testing.T) {
	t.Parallel()

	for p, want := range map[domain.Position]string{domain.Above: "above", domain.Below: "below", domain.Balanced: "balanced"} {
		b, err := p.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, want, string(b))
	}
}
