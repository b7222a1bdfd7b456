package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

type BreakerConfig struct {
	Name        string
	MaxFailures uint32
	Timeout     time.Duration
}

type breakerClient struct {
	next    Client
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerClient guards next with a circuit breaker. Once MaxFailures
// consecutive backend errors are seen, calls fail with ErrStoreUnavailable
// without reaching the backend until Timeout elapses. Cache misses are not
// failures.
func NewBreakerClient(next Client, cfg BreakerConfig) Client {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 5,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
	}
	return &breakerClient{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *breakerClient) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := b.execute(func() error {
		var err error
		value, err = b.next.Get(ctx, key)
		return err
	})
	return value, err
}

func (b *breakerClient) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return b.execute(func() error {
		return b.next.Set(ctx, key, value, expiration)
	})
}

func (b *breakerClient) Delete(ctx context.Context, keys ...string) error {
	return b.execute(func() error {
		return b.next.Delete(ctx, keys...)
	})
}

func (b *breakerClient) Ping(ctx context.Context) error {
	return b.execute(func() error {
		return b.next.Ping(ctx)
	})
}

func (b *breakerClient) State() gobreaker.State {
	return b.breaker.State()
}

func (b *breakerClient) execute(fn func() error) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err == nil || errors.Is(err, ErrCacheMiss) {
		return err
	}
	return fmt.Errorf("breaker (%s): %w: %w", b.breaker.Name(), ErrStoreUnavailable, err)
}
