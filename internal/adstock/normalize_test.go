package adstock

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		q        float64
		expected float64
	}{
		{name: "single element", input: []float64{7}, q: 0.3, expected: 7},
		{name: "minimum", input: []float64{1, 2, 3, 4}, q: 0, expected: 1},
		{name: "maximum", input: []float64{1, 2, 3, 4}, q: 1, expected: 4},
		{name: "interpolated median", input: []float64{1, 2, 3, 4}, q: 0.5, expected: 2.5},
		{name: "exact order statistic", input: []float64{1, 2, 3, 4, 5}, q: 0.25, expected: 2},
		{name: "clamped below", input: []float64{1, 2, 3}, q: -0.5, expected: 1},
		{name: "clamped above", input: []float64{1, 2, 3}, q: 1.5, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Quantile(tt.input, tt.q), 1e-12)
		})
	}

	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestMinMaxNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    Series
		expected Series
	}{
		{name: "empty", input: Series{}, expected: Series{}},
		{name: "already unit", input: Series{0, 0.5, 1}, expected: Series{0, 0.5, 1}},
		{name: "shifted and scaled", input: Series{2, 4, 6, 10}, expected: Series{0, 0.25, 0.5, 1}},
		{name: "constant maps to zero", input: Series{3, 3, 3}, expected: Series{0, 0, 0}},
		{name: "all zero stays zero", input: Series{0, 0}, expected: Series{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tt.expected, MinMaxNormalize(tt.input.Clone()), 1e-12)
		})
	}
}

func TestSeriesHelpers(t *testing.T) {
	s := Series{3, -1, 7, 7, 2}
	assert.Equal(t, -1.0, s.Min())
	assert.Equal(t, 7.0, s.Max())
	assert.Equal(t, 2, s.ArgMax())
	assert.Equal(t, 18.0, s.Sum())

	clone := s.Clone()
	clone.Scale(2)
	assert.Equal(t, Series{3, -1, 7, 7, 2}, s)
	assert.Equal(t, Series{6, -2, 14, 14, 4}, clone)

	var empty Series
	assert.Equal(t, -1, empty.ArgMax())
	assert.Zero(t, empty.Max())
}

func TestValidateImpact(t *testing.T) {
	assert.NoError(t, ValidateImpact(100))
	assert.NoError(t, ValidateImpact(-5))
	assert.True(t, IsInvalidParameter(ValidateImpact(math.NaN())))
	assert.True(t, IsInvalidParameter(ValidateImpact(math.Inf(-1))))
}
