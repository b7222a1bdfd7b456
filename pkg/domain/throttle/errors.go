package throttle

import (
	"errors"
	"fmt"
)

var ErrInvalidRate = errors.New("invalid rate")

// InvalidRateError reports a malformed rate string. It unwraps to ErrInvalidRate.
type InvalidRateError struct {
	Rate   string
	Reason string
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid rate %q: %s", e.Rate, e.Reason)
}

func (e *InvalidRateError) Unwrap() error {
	return ErrInvalidRate
}

func newInvalidRateError(rate, reason string) error {
	return &InvalidRateError{Rate: rate, Reason: reason}
}
