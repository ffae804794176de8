package api

import (
	"sync"
	"sync/atomic"
)

// Busy is a reference-counted activity indicator shared by overlapping calls.
// It stays active until every holder has released.
type Busy struct {
	count atomic.Int64
}

// Acquire registers an outstanding call and returns its release func. Calling
// the release func more than once has no further effect.
func (b *Busy) Acquire() (release func()) {
	if b == nil {
		return func() {}
	}
	b.count.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { b.count.Add(-1) })
	}
}

// Active reports whether any call is outstanding.
func (b *Busy) Active() bool {
	return b != nil && b.count.Load() > 0
}

// Outstanding returns the number of calls currently holding the indicator.
func (b *Busy) Outstanding() int {
	if b == nil {
		return 0
	}
	return int(b.count.Load())
}
