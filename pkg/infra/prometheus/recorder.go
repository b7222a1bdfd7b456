package prometheus

import "time"

// Recorder feeds throttle decisions and store timings into the registry.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Decision(scope, result string) {
	ThrottleDecisionsTotal.WithLabelValues(scope, result).Inc()
}

func (r *Recorder) StoreLatency(op string, elapsed time.Duration) {
	if !Config.EnableStoreLatency {
		return
	}
	ThrottleStoreLatency.WithLabelValues(op).Observe(float64(elapsed.Microseconds()) / 1000)
}
