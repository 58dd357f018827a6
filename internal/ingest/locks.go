package ingest

import (
	"hash/fnv"
	"sync"

	"github.com/atelierhq/trend-cli/internal/model"
)

// keyedLocks serializes writes per listing identity while letting
// unrelated items proceed in parallel. Striping bounds memory: two
// distinct keys may share a stripe, which only costs contention,
// never correctness.
type keyedLocks struct {
	stripes []sync.Mutex
}

func newKeyedLocks(n int) *keyedLocks {
	if n <= 0 {
		n = 64
	}
	return &keyedLocks{stripes: make([]sync.Mutex, n)}
}

// lock acquires the stripe for key and returns its unlock func.
func (l *keyedLocks) lock(key model.ListingKey) func() {
	h := fnv.New32a()
	h.Write([]byte(key.SourceURL))
	h.Write([]byte{0})
	h.Write([]byte(key.MarketZone))
	h.Write([]byte{0})
	h.Write([]byte(key.Source))

	m := &l.stripes[h.Sum32()%uint32(len(l.stripes))]
	m.Lock()
	return m.Unlock
}
