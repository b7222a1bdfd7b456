package throttle_test

import (
	"testing"
	"time"

	"github.com/NeuralTrust/ThrottleGate/pkg/domain/throttle"
	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "throttle_42_100/hour", throttle.CacheKey("42", "100/hour"))
	assert.Equal(t, "throttle__10/hour", throttle.CacheKey("", "10/hour"))
}

func TestWindow_PruneBoundary(t *testing.T) {
	w := throttle.Window{20, 10, 0}

	// an entry exactly one period old is expired
	assert.Equal(t, throttle.Window{20, 10}, w.Prune(60, time.Minute))
	assert.Equal(t, throttle.Window{20, 10, 0}, w.Prune(59.5, time.Minute))
	assert.Empty(t, w.Prune(200, time.Minute))
}

func TestWindow_PruneUnordered(t *testing.T) {
	w := throttle.Window{0, 50, 10}
	assert.Equal(t, throttle.Window{50}, w.Prune(65, time.Minute))
}

func TestWindow_RecordPrepends(t *testing.T) {
	w := throttle.Window{5, 0}
	got := w.Record(61)
	assert.Equal(t, throttle.Window{61, 5, 0}, got)
	assert.Equal(t, throttle.Window{5, 0}, w)
}

func TestWindow_Oldest(t *testing.T) {
	_, ok := throttle.Window{}.Oldest()
	assert.False(t, ok)

	oldest, ok := throttle.Window{61, 5, 30}.Oldest()
	assert.True(t, ok)
	assert.Equal(t, 5.0, oldest)
}

func TestTimestamp(t *testing.T) {
	ts := time.Unix(1740730536, 500_000_000)
	assert.InDelta(t, 1740730536.5, throttle.Timestamp(ts), 1e-6)
}
