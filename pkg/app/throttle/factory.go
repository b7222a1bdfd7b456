package throttle

import (
	"time"

	"github.com/sirupsen/logrus"
)

type FactoryOpts struct {
	TimeProvider     func() time.Time
	IdentityResolver IdentityResolver
	Recorder         Recorder
}

// Factory builds per-request Throttle instances that share a store, a rate
// selector and the in-process key locks.
type Factory struct {
	store    WindowStore
	selector RateSelector
	identify IdentityResolver
	now      func() time.Time
	logger   *logrus.Logger
	recorder Recorder
	locks    *keyLocker
}

func NewFactory(
	store WindowStore,
	selector RateSelector,
	logger *logrus.Logger,
	opts *FactoryOpts,
) *Factory {
	f := &Factory{
		store:    store,
		selector: selector,
		identify: ResolveIdentity,
		now:      time.Now,
		logger:   logger,
		recorder: noopRecorder{},
		locks:    &keyLocker{},
	}
	if opts != nil {
		if opts.TimeProvider != nil {
			f.now = opts.TimeProvider
		}
		if opts.IdentityResolver != nil {
			f.identify = opts.IdentityResolver
		}
		if opts.Recorder != nil {
			f.recorder = opts.Recorder
		}
	}
	return f
}

func (f *Factory) New() *Throttle {
	return &Throttle{
		store:    f.store,
		selector: f.selector,
		identify: f.identify,
		now:      f.now,
		logger:   f.logger,
		recorder: f.recorder,
		locks:    f.locks,
	}
}
