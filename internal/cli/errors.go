package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// describe flattens an errbuilder validation error into one readable line
func describe(err error) error {
	var eb *errbuilder.ErrBuilder
	if !errors.As(err, &eb) || len(eb.Details.Errors) == 0 {
		return err
	}

	fields := make([]string, 0, len(eb.Details.Errors))
	for field, fieldErr := range eb.Details.Errors {
		fields = append(fields, fmt.Sprintf("%s: %v", field, fieldErr))
	}
	sort.Strings(fields)
	return fmt.Errorf("%s (%s)", eb.Msg, strings.Join(fields, "; "))
}
