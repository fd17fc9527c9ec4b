package adstock

import "math"

// Quantile returns the q-th quantile of sorted using linear interpolation between
// order statistics. q is clamped to [0,1]; an empty input returns NaN.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 || math.IsNaN(q) {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// MinMaxNormalize rescales s in place so its minimum maps to 0 and its maximum to 1.
// A series with zero range maps to all zeros.
func MinMaxNormalize(s Series) Series {
	if len(s) == 0 {
		return s
	}
	lo, hi := s.Min(), s.Max()
	rng := hi - lo
	if rng == 0 || !isFinite(rng) {
		for i := range s {
			s[i] = 0
		}
		return s
	}
	for i, v := range s {
		s[i] = (v - lo) / rng
	}
	return s
}
