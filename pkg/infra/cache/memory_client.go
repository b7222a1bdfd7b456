package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// MemoryClient is a process-local Client backed by a TTLMap.
type MemoryClient struct {
	data   *TTLMap
	logger *logrus.Logger
}

// NewMemoryClient returns a process-local Client. Entries honour the
// expiration passed to Set; windows are not shared across replicas.
func NewMemoryClient(logger *logrus.Logger, now func() time.Time) *MemoryClient {
	return &MemoryClient{
		data:   NewTTLMapWithClock(0, now),
		logger: logger,
	}
}

func (c *MemoryClient) Get(_ context.Context, key string) (string, error) {
	value, ok := c.data.Get(key)
	if !ok {
		return "", ErrCacheMiss
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("cache value error: unexpected type %T", value)
	}
	return str, nil
}

func (c *MemoryClient) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	c.data.SetWithTTL(key, value, expiration)
	return nil
}

func (c *MemoryClient) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.data.Delete(key)
	}
	return nil
}

func (c *MemoryClient) Ping(context.Context) error {
	return nil
}

// RunJanitor sweeps expired entries every interval until ctx is done.
func (c *MemoryClient) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.data.Sweep(); removed > 0 {
				c.logger.WithField("removed", removed).Debug("memory cache swept")
			}
		}
	}
}
