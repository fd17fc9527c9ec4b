package adstock

import "math"

// DelayedGeometric returns a curve that peaks at peakPeriod (0-based) and falls off
// geometrically with distance on either side: series[i] = impact * decayFactor^|i-peakPeriod|.
// The peak may lie outside [0, maxLag); the window then never reaches impact.
func DelayedGeometric(impact, decayFactor float64, peakPeriod, maxLag int) Series {
	if maxLag < 1 {
		return Series{}
	}
	series := make(Series, maxLag)
	for i := range series {
		distance := i - peakPeriod
		if distance < 0 {
			distance = -distance
		}
		// math.Pow(x, 0) is 1 for every x, so a zero factor still keeps impact at the peak.
		series[i] = impact * math.Pow(decayFactor, float64(distance))
	}
	return series
}

// DelayedGeometricParams configures a delayed geometric curve.
type DelayedGeometricParams struct {
	DecayFactor float64 `json:"decay_factor" yaml:"decay_factor"`
	PeakPeriod  int     `json:"peak_period" yaml:"peak_period"`
	MaxLag      int     `json:"max_lag" yaml:"max_lag"`
}

func (p DelayedGeometricParams) Kind() Kind   { return KindDelayedGeometric }
func (p DelayedGeometricParams) Periods() int { return p.MaxLag }

func (p DelayedGeometricParams) Validate() error {
	v := newValidator()
	v.unitInterval("decay_factor", p.DecayFactor)
	v.positive("max_lag", p.MaxLag)
	return v.err("invalid delayed geometric parameters")
}

func (p DelayedGeometricParams) Series(impact float64) Series {
	return DelayedGeometric(impact, p.DecayFactor, p.PeakPeriod, p.MaxLag)
}
