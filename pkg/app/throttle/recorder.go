package throttle

import "time"

const (
	ResultAllowed  = "allowed"
	ResultDenied   = "denied"
	ResultFailOpen = "fail_open"
	ResultNoRate   = "no_rate"
)

// Recorder receives throttle decisions and store timings.
type Recorder interface {
	Decision(scope, result string)
	StoreLatency(op string, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) Decision(string, string)             {}
func (noopRecorder) StoreLatency(string, time.Duration) {}
