package throttle

import (
	"strconv"
	"strings"
	"time"
)

const (
	PeriodSecond = "second"
	PeriodMinute = "minute"
	PeriodHour   = "hour"
	PeriodDay    = "day"
)

var periods = map[string]time.Duration{
	PeriodSecond: time.Second,
	PeriodMinute: time.Minute,
	PeriodHour:   time.Hour,
	PeriodDay:    24 * time.Hour,
}

// RateSpec is a parsed "<count>/<period>" rate.
type RateSpec struct {
	Count  int
	Period time.Duration
}

// PeriodSeconds returns the window length in whole seconds.
func (r RateSpec) PeriodSeconds() int {
	return int(r.Period / time.Second)
}

// ParseRate converts strings such as "100/hour" into a RateSpec. Both fields
// must match exactly; surrounding whitespace is rejected.
func ParseRate(rate string) (RateSpec, error) {
	parts := strings.Split(rate, "/")
	if len(parts) != 2 {
		return RateSpec{}, newInvalidRateError(rate, "expected <count>/<period>")
	}

	count, err := strconv.Atoi(parts[0])
	if err != nil {
		return RateSpec{}, newInvalidRateError(rate, "count is not an integer")
	}
	if count <= 0 {
		return RateSpec{}, newInvalidRateError(rate, "count must be positive")
	}

	period, ok := periods[parts[1]]
	if !ok {
		return RateSpec{}, newInvalidRateError(rate, "unknown period "+strconv.Quote(parts[1]))
	}

	return RateSpec{Count: count, Period: period}, nil
}

// MustParseRate is ParseRate for rates known at compile time.
func MustParseRate(rate string) RateSpec {
	spec, err := ParseRate(rate)
	if err != nil {
		panic(err)
	}
	return spec
}
