// Package adstock computes adstock decay curves: the lingering effect of an
// advertising impact over the periods that follow it.
package adstock

import (
	"math"
	"strings"
)

// Series is a decay curve, one value per period. Index 0 is period 1.
type Series []float64

// Clone returns a copy that does not share storage with s.
func (s Series) Clone() Series {
	return append(Series(nil), s...)
}

// Min returns the smallest value, or 0 for an empty series.
func (s Series) Min() float64 {
	if len(s) == 0 {
		return 0
	}
	m := s[0]
	for _, v := range s[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value, or 0 for an empty series.
func (s Series) Max() float64 {
	if len(s) == 0 {
		return 0
	}
	m := s[0]
	for _, v := range s[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// ArgMax returns the index of the first maximum, or -1 for an empty series.
func (s Series) ArgMax() int {
	if len(s) == 0 {
		return -1
	}
	idx := 0
	for i, v := range s {
		if v > s[idx] {
			idx = i
		}
	}
	return idx
}

func (s Series) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

// Scale multiplies every value by factor in place and returns s.
func (s Series) Scale(factor float64) Series {
	for i := range s {
		s[i] *= factor
	}
	return s
}

// Mode selects which Weibull function drives the curve.
type Mode int

const (
	// ModeCDF builds a retention curve from the survival function.
	ModeCDF Mode = iota
	// ModePDF builds a rise-then-fall curve from the density.
	ModePDF
)

func (m Mode) String() string {
	switch m {
	case ModeCDF:
		return "cdf"
	case ModePDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// ParseMode accepts "cdf" or "pdf" in any letter case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cdf":
		return ModeCDF, nil
	case "pdf":
		return ModePDF, nil
	default:
		return 0, invalidParameter("mode", "must be one of cdf, pdf")
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeCDF && m != ModePDF {
		return nil, invalidParameter("mode", "must be one of cdf, pdf")
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Kind names a decay model.
type Kind string

const (
	KindGeometric        Kind = "geometric"
	KindDelayedGeometric Kind = "delayed_geometric"
	KindWeibull          Kind = "weibull"
)

// ParseKind accepts the canonical kind names plus the hyphenated forms used in URLs.
func ParseKind(s string) (Kind, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case string(KindGeometric):
		return KindGeometric, nil
	case string(KindDelayedGeometric), "delayed":
		return KindDelayedGeometric, nil
	case string(KindWeibull):
		return KindWeibull, nil
	default:
		return "", invalidParameter("model", "must be one of geometric, delayed_geometric, weibull")
	}
}

// Curve is a parameterised decay model that can produce a Series for any impact.
type Curve interface {
	Kind() Kind
	Periods() int
	Validate() error
	Series(impact float64) Series
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
