package scenario

import "errors"

// ErrUnknownScenario is returned when a registry lookup by name fails.
var ErrUnknownScenario = errors.New("unknown scenario")
