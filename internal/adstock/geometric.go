package adstock

// Geometric returns impact decayed by a fixed ratio each period:
// series[i] = impact * decayFactor^i, computed as a running product.
// The domain is not checked; decayFactor > 1 grows and negative factors oscillate.
func Geometric(impact, decayFactor float64, periods int) Series {
	if periods < 1 {
		return Series{}
	}
	series := make(Series, periods)
	series[0] = impact
	for i := 1; i < periods; i++ {
		series[i] = series[i-1] * decayFactor
	}
	return series
}

// GeometricParams configures a geometric curve.
type GeometricParams struct {
	DecayFactor float64 `json:"decay_factor" yaml:"decay_factor"`
	NumPeriods  int     `json:"periods" yaml:"periods"`
}

func (p GeometricParams) Kind() Kind   { return KindGeometric }
func (p GeometricParams) Periods() int { return p.NumPeriods }

func (p GeometricParams) Validate() error {
	v := newValidator()
	v.unitInterval("decay_factor", p.DecayFactor)
	v.positive("periods", p.NumPeriods)
	return v.err("invalid geometric parameters")
}

func (p GeometricParams) Series(impact float64) Series {
	return Geometric(impact, p.DecayFactor, p.NumPeriods)
}
