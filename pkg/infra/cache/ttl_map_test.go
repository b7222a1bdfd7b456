package cache_test

import (
	"testing"
	"time"

	"github.com/NeuralTrust/ThrottleGate/pkg/infra/cache"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestTTLMap_DefaultTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	m := cache.NewTTLMapWithClock(time.Minute, clock.Now)

	m.Set("k", "v")
	value, ok := m.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	clock.Advance(time.Minute)
	_, ok = m.Get("k")
	assert.False(t, ok)
	assert.Empty(t, m.Data)
}

func TestTTLMap_PerEntryTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	m := cache.NewTTLMapWithClock(time.Hour, clock.Now)

	m.SetWithTTL("short", 1, time.Second)
	m.SetWithTTL("forever", 2, 0)

	clock.Advance(2 * time.Second)
	_, ok := m.Get("short")
	assert.False(t, ok)
	_, ok = m.Get("forever")
	assert.True(t, ok)
}

func TestTTLMap_Sweep(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	m := cache.NewTTLMapWithClock(time.Second, clock.Now)

	m.Set("a", 1)
	m.Set("b", 2)
	m.SetWithTTL("c", 3, time.Hour)

	clock.Advance(time.Minute)
	assert.Equal(t, 2, m.Sweep())
	assert.Len(t, m.Data, 1)

	m.Delete("c")
	m.Set("d", 4)
	m.Clear()
	assert.Empty(t, m.Data)
}
