// Package scenario groups decay curves into named, comparable sets of lines.
package scenario

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/adstock"
)

const (
	// DefaultImpact is the starting impact used when a scenario does not set one.
	DefaultImpact = 100.0
	// MaxLines caps how many curves a single scenario may compare.
	MaxLines = 8
)

// LineSpec is the serialisable description of one curve in a scenario.
// Only the fields relevant to Model are read.
type LineSpec struct {
	Label       string  `json:"label,omitempty" yaml:"label"`
	Model       string  `json:"model" yaml:"model" binding:"required"`
	DecayFactor float64 `json:"decay_factor,omitempty" yaml:"decay_factor"`
	Periods     int     `json:"periods,omitempty" yaml:"periods"`
	PeakPeriod  int     `json:"peak_period,omitempty" yaml:"peak_period"`
	MaxLag      int     `json:"max_lag,omitempty" yaml:"max_lag"`
	Shape       float64 `json:"shape,omitempty" yaml:"shape"`
	Scale       float64 `json:"scale,omitempty" yaml:"scale"`
	Mode        string  `json:"mode,omitempty" yaml:"mode" binding:"omitempty,adstockmode"`
	Normalized  *bool   `json:"normalized,omitempty" yaml:"normalized"`
}

// Curve builds the validated adstock curve described by l.
func (l LineSpec) Curve() (adstock.Curve, error) {
	kind, err := adstock.ParseKind(l.Model)
	if err != nil {
		return nil, err
	}

	var curve adstock.Curve
	switch kind {
	case adstock.KindGeometric:
		curve = adstock.GeometricParams{DecayFactor: l.DecayFactor, NumPeriods: l.Periods}
	case adstock.KindDelayedGeometric:
		curve = adstock.DelayedGeometricParams{DecayFactor: l.DecayFactor, PeakPeriod: l.PeakPeriod, MaxLag: l.MaxLag}
	case adstock.KindWeibull:
		mode := adstock.ModeCDF
		if l.Mode != "" {
			if mode, err = adstock.ParseMode(l.Mode); err != nil {
				return nil, err
			}
		}
		curve = adstock.WeibullParams{
			Shape:      l.Shape,
			Scale:      l.Scale,
			NumPeriods: l.Periods,
			Mode:       mode,
			Normalized: l.normalized(),
		}
	}

	if err := curve.Validate(); err != nil {
		return nil, err
	}
	return curve, nil
}

func (l LineSpec) normalized() bool {
	if l.Normalized == nil {
		return true
	}
	return *l.Normalized
}

// Scenario is a named set of curves sharing one starting impact.
type Scenario struct {
	Name        string     `json:"name" yaml:"name"`
	Title       string     `json:"title,omitempty" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description"`
	Impact      *float64   `json:"impact,omitempty" yaml:"impact"`
	Lines       []LineSpec `json:"lines" yaml:"lines" binding:"required,min=1,dive"`
}

// ImpactOrDefault returns the scenario impact, falling back to DefaultImpact.
func (s Scenario) ImpactOrDefault() float64 {
	if s.Impact == nil {
		return DefaultImpact
	}
	return *s.Impact
}

// WithImpact returns a copy of s that uses impact.
func (s Scenario) WithImpact(impact float64) Scenario {
	s.Impact = &impact
	return s
}

// WithDefaultImpact fills in impact only when s leaves it unset.
func (s Scenario) WithDefaultImpact(impact float64) Scenario {
	if s.Impact != nil {
		return s
	}
	return s.WithImpact(impact)
}

// MaxPeriods returns the longest series any line of s will produce.
func (s Scenario) MaxPeriods() int {
	longest := 0
	for _, line := range s.Lines {
		n := line.Periods
		if model, _ := adstock.ParseKind(line.Model); model == adstock.KindDelayedGeometric {
			n = line.MaxLag
		}
		if n > longest {
			longest = n
		}
	}
	return longest
}

// Validate checks every line and the scenario envelope, reporting all problems at once.
func (s Scenario) Validate() error {
	problems := errbuilder.ErrorMap{}
	count := 0
	add := func(field string, err error) {
		problems.Set(field, err)
		count++
	}

	if strings.TrimSpace(s.Name) == "" {
		add("name", fmt.Errorf("name is required"))
	}
	if err := adstock.ValidateImpact(s.ImpactOrDefault()); err != nil {
		add("impact", err)
	}
	switch {
	case len(s.Lines) == 0:
		add("lines", fmt.Errorf("at least one line is required"))
	case len(s.Lines) > MaxLines:
		add("lines", fmt.Errorf("at most %d lines are allowed, got %d", MaxLines, len(s.Lines)))
	}
	for i, line := range s.Lines {
		if _, err := line.Curve(); err != nil {
			add(fmt.Sprintf("lines[%d]", i), err)
		}
	}

	if count == 0 {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid scenario %q", s.Name)).
		WithDetails(errbuilder.NewErrDetails(problems))
}

// LineResult is one computed curve.
type LineResult struct {
	Label  string         `json:"label"`
	Kind   adstock.Kind   `json:"kind"`
	Values adstock.Series `json:"values"`
}

// Peak locates the largest value of the line. Period is 1-based; 0 when the line is empty.
func (l LineResult) Peak() Peak {
	idx := l.Values.ArgMax()
	if idx < 0 {
		return Peak{Label: l.Label}
	}
	return Peak{Label: l.Label, Period: idx + 1, Value: l.Values[idx]}
}

// Peak summarises where a line reaches its maximum.
type Peak struct {
	Label  string  `json:"label"`
	Period int     `json:"period"`
	Value  float64 `json:"value"`
}

// Result holds every computed line of a scenario.
type Result struct {
	Name   string       `json:"name"`
	Title  string       `json:"title,omitempty"`
	Impact float64      `json:"impact"`
	Lines  []LineResult `json:"lines"`
}

// Peaks returns the peak of each line in order.
func (r Result) Peaks() []Peak {
	peaks := make([]Peak, len(r.Lines))
	for i, line := range r.Lines {
		peaks[i] = line.Peak()
	}
	return peaks
}

// Periods returns the length of the longest line.
func (r Result) Periods() int {
	longest := 0
	for _, line := range r.Lines {
		if len(line.Values) > longest {
			longest = len(line.Values)
		}
	}
	return longest
}

// Run validates s and computes each of its lines.
func Run(s Scenario) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	impact := s.ImpactOrDefault()
	result := Result{
		Name:   s.Name,
		Title:  s.Title,
		Impact: impact,
		Lines:  make([]LineResult, 0, len(s.Lines)),
	}
	for i, line := range s.Lines {
		curve, err := line.Curve()
		if err != nil {
			return Result{}, err
		}
		label := line.Label
		if label == "" {
			label = fmt.Sprintf("Line %d", i+1)
		}
		result.Lines = append(result.Lines, LineResult{
			Label:  label,
			Kind:   curve.Kind(),
			Values: curve.Series(impact),
		})
	}
	return result, nil
}

// Single wraps one curve as a result so it can share the scenario encoders.
func Single(name string, impact float64, curve adstock.Curve) Result {
	return Result{
		Name:   name,
		Impact: impact,
		Lines: []LineResult{{
			Label:  string(curve.Kind()),
			Kind:   curve.Kind(),
			Values: curve.Series(impact),
		}},
	}
}
