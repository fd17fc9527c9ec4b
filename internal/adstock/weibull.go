package adstock

import "math"

// Weibull returns a decay (CDF) or build-then-decay (PDF) curve shaped by the
// Weibull distribution.
//
// scale is a quantile fraction over the period index [1..periods], not an absolute
// scale: the Weibull scale parameter is round(quantile([1..periods], scale)), rounded
// half to even. A shape or scale of exactly zero yields an all-zero curve.
func Weibull(impact, shape, scale float64, periods int, mode Mode, normalized bool) Series {
	if periods < 1 {
		return Series{}
	}
	weights := WeibullWeights(shape, scale, periods, mode)
	if normalized {
		weights = MinMaxNormalize(weights)
	}
	return weights.Scale(impact)
}

// WeibullWeights returns the unscaled weight vector behind Weibull: the cumulative
// survival curve for ModeCDF, or the density normalised to sum to 1 for ModePDF.
func WeibullWeights(shape, scale float64, periods int, mode Mode) Series {
	if periods < 1 {
		return Series{}
	}
	x := periodIndex(periods)
	weights := make(Series, periods)
	if shape == 0 || scale == 0 {
		return weights
	}
	lambda := TransformScale(scale, periods)

	switch mode {
	case ModePDF:
		for i, xi := range x {
			weights[i] = weibullPDF(xi, shape, lambda)
		}
		total := weights.Sum()
		if total == 0 || !isFinite(total) {
			// Underflow or overflow leaves no usable mass; report a flat zero curve.
			return make(Series, periods)
		}
		for i := range weights {
			weights[i] /= total
		}
	default:
		// Survival at the previous index, so the first period keeps the full impact.
		weights[0] = 1
		for i := 1; i < periods; i++ {
			weights[i] = weights[i-1] * weibullSurvival(x[i-1], shape, lambda)
		}
	}
	return weights
}

// TransformScale maps a [0,1] scale fraction onto the period axis.
func TransformScale(scale float64, periods int) float64 {
	return math.RoundToEven(Quantile(periodIndex(periods), scale))
}

func periodIndex(periods int) []float64 {
	x := make([]float64, periods)
	for i := range x {
		x[i] = float64(i + 1)
	}
	return x
}

// weibullSurvival is 1 - CDF.
func weibullSurvival(x, shape, lambda float64) float64 {
	if x < 0 {
		return 1
	}
	return math.Exp(-math.Pow(x/lambda, shape))
}

// weibullPDF is evaluated in log space so a large shape underflows to 0 instead of Inf*0.
func weibullPDF(x, shape, lambda float64) float64 {
	if x < 0 {
		return 0
	}
	z := x / lambda
	if z == 0 {
		switch {
		case shape < 1:
			return math.Inf(1)
		case shape == 1:
			return 1 / lambda
		default:
			return 0
		}
	}
	logDensity := math.Log(shape/lambda) + (shape-1)*math.Log(z) - math.Pow(z, shape)
	return math.Exp(logDensity)
}

// WeibullParams configures a Weibull curve.
type WeibullParams struct {
	Shape      float64 `json:"shape" yaml:"shape"`
	Scale      float64 `json:"scale" yaml:"scale"`
	NumPeriods int     `json:"periods" yaml:"periods"`
	Mode       Mode    `json:"mode" yaml:"mode"`
	Normalized bool    `json:"normalized" yaml:"normalized"`
}

func (p WeibullParams) Kind() Kind   { return KindWeibull }
func (p WeibullParams) Periods() int { return p.NumPeriods }

func (p WeibullParams) Validate() error {
	v := newValidator()
	v.nonNegative("shape", p.Shape)
	v.unitInterval("scale", p.Scale)
	v.positive("periods", p.NumPeriods)
	if p.Mode != ModeCDF && p.Mode != ModePDF {
		v.add("mode", "must be one of cdf, pdf")
	}
	return v.err("invalid weibull parameters")
}

func (p WeibullParams) Series(impact float64) Series {
	return Weibull(impact, p.Shape, p.Scale, p.NumPeriods, p.Mode, p.Normalized)
}
