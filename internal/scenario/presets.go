package scenario

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/adstock"
)

const (
	PresetGeometric        = "geometric"
	PresetDelayedGeometric = "delayed-geometric"
	PresetWeibullCDF       = "weibull-cdf"
	PresetWeibullPDF       = "weibull-pdf"
)

const typicalGeometric = "Typical decay factors: TV 0.3-0.8 (slow), OOH/print/radio 0.1-0.4 (moderate), digital 0.0-0.3 (fast)."

// Presets returns the built-in comparison scenarios, one per decay model.
func Presets() []Scenario {
	return []Scenario{
		{
			Name:        PresetGeometric,
			Title:       "Geometric Adstock Decayed Over Weeks",
			Description: typicalGeometric,
			Lines: []LineSpec{
				geometricLine("Beta 1", 0.3, 20),
				geometricLine("Beta 2", 0.6, 20),
				geometricLine("Beta 3", 0.9, 20),
			},
		},
		{
			Name:        PresetDelayedGeometric,
			Title:       "Delayed Geometric Adstock Decayed Over Weeks",
			Description: typicalGeometric,
			Lines: []LineSpec{
				delayedLine("Beta 1", 0.5, 10, 30),
				delayedLine("Beta 2", 0.6, 5, 20),
				delayedLine("Beta 3", 0.9, 5, 20),
			},
		},
		{
			Name:        PresetWeibullCDF,
			Title:       "Weibull CDF Adstock Decayed Over Weeks",
			Description: "Flexible decay: retention follows the Weibull survival function.",
			Lines: []LineSpec{
				weibullLine("Line A", 0.1, 0.1, 20, adstock.ModeCDF),
				weibullLine("Line B", 9.0, 0.5, 20, adstock.ModeCDF),
			},
		},
		{
			Name:        PresetWeibullPDF,
			Title:       "Weibull PDF Adstock Decayed Over Weeks",
			Description: "Delayed build then decay shaped by the Weibull density.",
			Lines: []LineSpec{
				weibullLine("Line A", 2.0, 0.5, 20, adstock.ModePDF),
				weibullLine("Line B", 0.5, 0.01, 20, adstock.ModePDF),
			},
		},
	}
}

func geometricLine(label string, beta float64, periods int) LineSpec {
	return LineSpec{Label: label, Model: string(adstock.KindGeometric), DecayFactor: beta, Periods: periods}
}

func delayedLine(label string, beta float64, peak, maxLag int) LineSpec {
	return LineSpec{Label: label, Model: string(adstock.KindDelayedGeometric), DecayFactor: beta, PeakPeriod: peak, MaxLag: maxLag}
}

func weibullLine(label string, shape, scale float64, periods int, mode adstock.Mode) LineSpec {
	normalized := true
	return LineSpec{
		Label:      label,
		Model:      string(adstock.KindWeibull),
		Shape:      shape,
		Scale:      scale,
		Periods:    periods,
		Mode:       mode.String(),
		Normalized: &normalized,
	}
}

// Registry is a concurrency-safe set of named scenarios.
type Registry struct {
	mu        sync.RWMutex
	scenarios map[string]Scenario
}

// NewRegistry returns a registry seeded with Presets.
func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]Scenario)}
	for _, s := range Presets() {
		r.scenarios[s.Name] = s
	}
	return r
}

// Register adds s, replacing any scenario with the same name. Invalid scenarios are rejected.
func (r *Registry) Register(s Scenario) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarios[s.Name] = s
	return nil
}

// Lookup returns the scenario registered under name.
func (r *Registry) Lookup(name string) (Scenario, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenarios[name]
	return s, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every registered scenario ordered by name.
func (r *Registry) List() []Scenario {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Scenario, 0, len(names))
	for _, name := range names {
		out = append(out, r.scenarios[name])
	}
	return out
}

// RunNamed runs the named scenario, optionally overriding its impact.
func (r *Registry) RunNamed(name string, impact *float64) (Result, error) {
	s, ok := r.Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	if impact != nil {
		s = s.WithImpact(*impact)
	}
	return Run(s)
}
