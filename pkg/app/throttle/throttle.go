package throttle

import (
	"context"
	"math"
	"time"

	domain "github.com/NeuralTrust/ThrottleGate/pkg/domain/throttle"
	"github.com/sirupsen/logrus"
)

// Throttle decides admission for a single request. It remembers the window it
// last observed so WaitSeconds can report a back-off hint afterwards. A
// Throttle is not safe for concurrent use; build one per request with Factory.
type Throttle struct {
	store    WindowStore
	selector RateSelector
	identify IdentityResolver
	now      func() time.Time
	logger   *logrus.Logger
	recorder Recorder
	locks    *keyLocker

	scope    string
	rate     string
	spec     domain.RateSpec
	identity string
	history  domain.Window
	observed bool
}

// Status is a read-only view of a caller's window.
type Status struct {
	Scope         string `json:"scope"`
	Identity      string `json:"identity"`
	Rate          string `json:"rate"`
	Limit         int    `json:"limit"`
	PeriodSeconds int    `json:"period_seconds"`
	Count         int    `json:"count"`
	Remaining     int    `json:"remaining"`
	RetryAfter    *int   `json:"retry_after,omitempty"`
}

// AllowRequest reports whether req may proceed and records it when it does.
// Store failures admit the request. A malformed rate is returned as an error
// wrapping domain.ErrInvalidRate.
func (t *Throttle) AllowRequest(ctx context.Context, req Request) (bool, error) {
	t.scope, t.rate = t.selector.SelectRate(req)
	if t.rate == "" {
		t.logger.WithField("scope", t.scope).Warn("no rate limit defined, allowing request")
		t.recorder.Decision(t.scope, ResultNoRate)
		return true, nil
	}

	t.identity = t.identify(req)

	spec, err := domain.ParseRate(t.rate)
	if err != nil {
		t.logger.WithError(err).WithField("rate", t.rate).Error("failed to parse rate string")
		return false, err
	}
	t.spec = spec

	key := domain.CacheKey(t.identity, t.rate)
	unlock := t.locks.lock(key)
	defer unlock()

	window, err := t.load(ctx, key)
	if err != nil {
		return t.failOpen(err, "load"), nil
	}

	now := domain.Timestamp(t.now())
	window = window.Prune(now, spec.Period)
	t.history = window
	t.observed = true

	if len(window) >= spec.Count {
		t.logger.WithFields(logrus.Fields{
			"scope":    t.scope,
			"identity": t.identity,
			"count":    len(window),
			"limit":    spec.Count,
		}).Warn("throttle limit exceeded")
		t.recorder.Decision(t.scope, ResultDenied)
		return false, nil
	}

	window = window.Record(now)
	t.history = window
	if err := t.save(ctx, key, window, spec.Period); err != nil {
		return t.failOpen(err, "save"), nil
	}

	t.logger.WithFields(logrus.Fields{
		"scope":    t.scope,
		"identity": t.identity,
		"count":    len(window),
		"limit":    spec.Count,
	}).Debug("request allowed")
	t.recorder.Decision(t.scope, ResultAllowed)
	return true, nil
}

// WaitSeconds returns the whole seconds until the oldest entry of the last
// observed window expires. ok is false when there is nothing to wait for.
func (t *Throttle) WaitSeconds() (seconds int, ok bool) {
	if !t.observed {
		return 0, false
	}
	oldest, found := t.history.Oldest()
	if !found {
		return 0, false
	}
	wait := oldest + t.spec.Period.Seconds() - domain.Timestamp(t.now())
	if wait <= 0 {
		return 0, false
	}
	return int(math.Ceil(wait)), true
}

// Inspect reads the caller's window without recording anything. Unlike
// AllowRequest it surfaces store errors.
func (t *Throttle) Inspect(ctx context.Context, req Request) (Status, error) {
	t.scope, t.rate = t.selector.SelectRate(req)
	t.identity = t.identify(req)
	status := Status{Scope: t.scope, Identity: t.identity, Rate: t.rate}
	if t.rate == "" {
		return status, nil
	}

	spec, err := domain.ParseRate(t.rate)
	if err != nil {
		return status, err
	}
	t.spec = spec

	window, err := t.load(ctx, domain.CacheKey(t.identity, t.rate))
	if err != nil {
		return status, err
	}
	window = window.Prune(domain.Timestamp(t.now()), spec.Period)
	t.history = window
	t.observed = true

	status.Limit = spec.Count
	status.PeriodSeconds = spec.PeriodSeconds()
	status.Count = len(window)
	status.Remaining = max(spec.Count-len(window), 0)
	if len(window) >= spec.Count {
		if wait, ok := t.WaitSeconds(); ok {
			status.RetryAfter = &wait
		}
	}
	return status, nil
}

// Scope returns the scope chosen by the last call.
func (t *Throttle) Scope() string {
	return t.scope
}

// Limit returns the parsed limit of the last call, or zero.
func (t *Throttle) Limit() int {
	return t.spec.Count
}

// Remaining returns how many requests the last observed window still allows.
func (t *Throttle) Remaining() int {
	if !t.observed {
		return t.spec.Count
	}
	return max(t.spec.Count-len(t.history), 0)
}

// Period returns the parsed window length of the last call.
func (t *Throttle) Period() time.Duration {
	return t.spec.Period
}

func (t *Throttle) load(ctx context.Context, key string) (domain.Window, error) {
	start := time.Now()
	defer func() { t.recorder.StoreLatency("load", time.Since(start)) }()
	return t.store.Load(ctx, key)
}

func (t *Throttle) save(ctx context.Context, key string, window domain.Window, ttl time.Duration) error {
	start := time.Now()
	defer func() { t.recorder.StoreLatency("save", time.Since(start)) }()
	return t.store.Save(ctx, key, window, ttl)
}

func (t *Throttle) failOpen(err error, op string) bool {
	t.logger.WithError(err).WithFields(logrus.Fields{
		"scope":    t.scope,
		"identity": t.identity,
		"op":       op,
	}).Error("error checking throttle, allowing request")
	t.recorder.Decision(t.scope, ResultFailOpen)
	return true
}
