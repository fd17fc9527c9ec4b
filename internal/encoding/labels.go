package encoding

import (
	"math"

	"github.com/dustin/go-humanize"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/adstock"
)

// Point is one period of a decay series ready for display.
type Point struct {
	Period int     `json:"period"`
	Value  float64 `json:"value"`
	Label  string  `json:"label"`
}

// Points pairs each value with its 1-based period and display label.
func Points(series adstock.Series) []Point {
	points := make([]Point, len(series))
	for i, v := range series {
		points[i] = Point{Period: i + 1, Value: v, Label: FormatLabel(v)}
	}
	return points
}

// FormatLabel renders v with thousands separators and no decimals, rounding half to even.
func FormatLabel(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	rounded := math.RoundToEven(v)
	if math.Abs(rounded) >= 1e18 {
		return humanize.Commaf(rounded)
	}
	return humanize.Comma(int64(rounded))
}
