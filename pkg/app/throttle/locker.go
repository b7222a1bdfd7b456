package throttle

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 256

// keyLocker serialises window updates for the same key inside one process.
// Replicas sharing a store can still interleave their read-modify-write.
type keyLocker struct {
	stripes [lockStripes]sync.Mutex
}

func (l *keyLocker) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	mu := &l.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
