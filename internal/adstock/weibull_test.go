package adstock

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformScale(t *testing.T) {
	tests := []struct {
		name     string
		scale    float64
		periods  int
		expected float64
	}{
		{name: "midpoint rounds half to even", scale: 0.5, periods: 20, expected: 10},
		{name: "low fraction", scale: 0.1, periods: 20, expected: 3},
		{name: "full range", scale: 1, periods: 20, expected: 20},
		{name: "zero fraction", scale: 0, periods: 20, expected: 1},
		{name: "single period", scale: 0.5, periods: 1, expected: 1},
		{name: "half down to even", scale: 0.5, periods: 4, expected: 2},
		{name: "half up to even", scale: 0.5, periods: 6, expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TransformScale(tt.scale, tt.periods))
		})
	}
}

func TestWeibullDegenerateParameters(t *testing.T) {
	for _, mode := range []Mode{ModeCDF, ModePDF} {
		for _, normalized := range []bool{true, false} {
			for _, periods := range []int{1, 5, 20} {
				zeroShape := Weibull(100, 0, 0.5, periods, mode, normalized)
				zeroScale := Weibull(100, 2, 0, periods, mode, normalized)
				require.Len(t, zeroShape, periods)
				require.Len(t, zeroScale, periods)
				for i := 0; i < periods; i++ {
					assert.Zero(t, zeroShape[i])
					assert.Zero(t, zeroScale[i])
				}
			}
		}
	}
}

func TestWeibullCDF(t *testing.T) {
	t.Run("exponential survival by hand", func(t *testing.T) {
		// shape 1, scale 1 over three periods gives lambda = 3
		series := Weibull(10, 1, 1, 3, ModeCDF, false)
		assert.InDeltaSlice(t, Series{10, 10 * math.Exp(-1.0/3), 10 * math.Exp(-1)}, series, 1e-12)
	})

	t.Run("first period keeps full impact when unnormalized", func(t *testing.T) {
		series := Weibull(100, 3, 0.4, 20, ModeCDF, false)
		assert.Equal(t, 100.0, series[0])
	})

	t.Run("non-increasing for any positive shape and scale", func(t *testing.T) {
		for _, shape := range []float64{0.1, 0.5, 1, 2, 5, 9} {
			for _, scale := range []float64{0.01, 0.1, 0.5, 0.9, 1} {
				for _, normalized := range []bool{true, false} {
					series := Weibull(100, shape, scale, 30, ModeCDF, normalized)
					require.Len(t, series, 30)
					for i := 1; i < len(series); i++ {
						assert.LessOrEqual(t, series[i], series[i-1], "shape=%v scale=%v i=%d", shape, scale, i)
					}
				}
			}
		}
	})

	t.Run("single period", func(t *testing.T) {
		assert.Equal(t, Series{100}, Weibull(100, 2, 0.5, 1, ModeCDF, false))
		// a single point has zero range and normalizes to zero
		assert.Equal(t, Series{0}, Weibull(100, 2, 0.5, 1, ModeCDF, true))
	})
}

func TestWeibullPDF(t *testing.T) {
	t.Run("weights sum to one", func(t *testing.T) {
		for _, shape := range []float64{0.5, 1, 2, 4, 9} {
			for _, scale := range []float64{0.01, 0.25, 0.5, 1} {
				series := Weibull(1, shape, scale, 20, ModePDF, false)
				assert.InDelta(t, 1.0, series.Sum(), 1e-9, "shape=%v scale=%v", shape, scale)
			}
		}
	})

	t.Run("exponential density by hand", func(t *testing.T) {
		series := Weibull(1, 1, 1, 3, ModePDF, false)
		total := math.Exp(-1.0/3) + math.Exp(-2.0/3) + math.Exp(-1)
		expected := Series{math.Exp(-1.0/3) / total, math.Exp(-2.0/3) / total, math.Exp(-1) / total}
		assert.InDeltaSlice(t, expected, series, 1e-12)
	})

	t.Run("bump peaks near the transformed scale", func(t *testing.T) {
		series := Weibull(100, 2.0, 0.5, 20, ModePDF, true)
		require.Len(t, series, 20)
		peak := series.ArgMax()
		assert.GreaterOrEqual(t, peak, 5)
		assert.LessOrEqual(t, peak, 9)
		assert.InDelta(t, 100.0, series[peak], 1e-9)
		assert.InDelta(t, 0.0, series[19], 1e-9)
		assert.Less(t, series[0], 20.0)
	})

	t.Run("large shape does not produce NaN", func(t *testing.T) {
		series := Weibull(100, 500, 0.5, 20, ModePDF, false)
		for _, v := range series {
			assert.False(t, math.IsNaN(v))
		}
		assert.InDelta(t, 100.0, series.Sum(), 1e-6)
	})
}

func TestWeibullNormalizedRange(t *testing.T) {
	cases := []struct {
		shape, scale float64
		mode         Mode
	}{
		{2, 0.5, ModePDF},
		{0.5, 0.01, ModePDF},
		{0.1, 0.1, ModeCDF},
		{9, 0.5, ModeCDF},
	}
	for _, c := range cases {
		series := Weibull(250, c.shape, c.scale, 20, c.mode, true)
		assert.InDelta(t, 0.0, series.Min(), 1e-9)
		assert.InDelta(t, 250.0, series.Max(), 1e-9)
	}

	raw := Weibull(250, 2, 0.5, 20, ModePDF, false)
	assert.Less(t, raw.Max(), 250.0)
}

func TestWeibullIsDeterministic(t *testing.T) {
	first := Weibull(100, 2.5, 0.3, 40, ModePDF, true)
	second := Weibull(100, 2.5, 0.3, 40, ModePDF, true)
	assert.Equal(t, first, second)
}

func TestWeibullParams(t *testing.T) {
	p := WeibullParams{Shape: 2, Scale: 0.5, NumPeriods: 20, Mode: ModePDF, Normalized: true}
	require.NoError(t, p.Validate())
	assert.Equal(t, KindWeibull, p.Kind())
	assert.Equal(t, 20, p.Periods())
	assert.Len(t, p.Series(100), 20)

	// degenerate zero parameters are valid
	require.NoError(t, WeibullParams{Shape: 0, Scale: 0, NumPeriods: 3}.Validate())

	invalid := []WeibullParams{
		{Shape: -1, Scale: 0.5, NumPeriods: 20},
		{Shape: math.Inf(1), Scale: 0.5, NumPeriods: 20},
		{Shape: 1, Scale: 1.5, NumPeriods: 20},
		{Shape: 1, Scale: 0.5, NumPeriods: 0},
		{Shape: 1, Scale: 0.5, NumPeriods: 20, Mode: Mode(7)},
	}
	for _, p := range invalid {
		err := p.Validate()
		require.Error(t, err)
		assert.True(t, IsInvalidParameter(err))
	}
}

func TestParseMode(t *testing.T) {
	for _, in := range []string{"cdf", "CDF", " Cdf "} {
		m, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, ModeCDF, m)
	}
	m, err := ParseMode("PDF")
	require.NoError(t, err)
	assert.Equal(t, ModePDF, m)

	_, err = ParseMode("gamma")
	require.Error(t, err)
	assert.True(t, IsInvalidParameter(err))
}

func TestModeJSON(t *testing.T) {
	var p WeibullParams
	require.NoError(t, json.Unmarshal([]byte(`{"shape":2,"scale":0.5,"periods":20,"mode":"PDF","normalized":true}`), &p))
	assert.Equal(t, ModePDF, p.Mode)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"mode":"pdf"`)

	assert.Error(t, json.Unmarshal([]byte(`{"mode":"weekly"}`), &p))
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"geometric":         KindGeometric,
		"delayed-geometric": KindDelayedGeometric,
		"delayed_geometric": KindDelayedGeometric,
		"delayed":           KindDelayedGeometric,
		"Weibull":           KindWeibull,
	}
	for in, expected := range tests {
		k, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, k)
	}
	_, err := ParseKind("hill")
	assert.True(t, IsInvalidParameter(err))
}
