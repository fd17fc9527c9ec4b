package adstock

import (
	"errors"
	"fmt"
	"math"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ValidateImpact rejects NaN and infinite impacts.
func ValidateImpact(impact float64) error {
	if !isFinite(impact) {
		return invalidParameter("impact", "must be a finite number")
	}
	return nil
}

// IsInvalidParameter reports whether err came from parameter validation.
func IsInvalidParameter(err error) bool {
	var eb *errbuilder.ErrBuilder
	if errors.As(err, &eb) {
		return eb.ErrCode() == errbuilder.CodeInvalidArgument
	}
	return false
}

func invalidParameter(field, reason string) error {
	v := newValidator()
	v.add(field, reason)
	return v.err(fmt.Sprintf("invalid parameter %s", field))
}

// validator collects field problems into a single InvalidArgument error.
type validator struct {
	fields errbuilder.ErrorMap
	count  int
}

func newValidator() *validator {
	return &validator{fields: errbuilder.ErrorMap{}}
}

func (v *validator) add(field, reason string) {
	v.fields.Set(field, fmt.Errorf("%s %s", field, reason))
	v.count++
}

func (v *validator) unitInterval(field string, value float64) {
	if math.IsNaN(value) || value < 0 || value > 1 {
		v.add(field, "must be within [0, 1]")
	}
}

func (v *validator) nonNegative(field string, value float64) {
	if !isFinite(value) || value < 0 {
		v.add(field, "must be a finite number >= 0")
	}
}

func (v *validator) positive(field string, value int) {
	if value < 1 {
		v.add(field, "must be >= 1")
	}
}

func (v *validator) err(msg string) error {
	if v.count == 0 {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg).
		WithDetails(errbuilder.NewErrDetails(v.fields))
}
