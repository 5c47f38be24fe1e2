package runtime

import (
	"sync"
	"time"
)

// Batcher coalesces rapid update bursts into a single flush using a
// zero-delay timer, the pattern call sites layer over SetState to collapse
// several mutations into one re-render pass. It is an optimization, not a
// correctness requirement: the runtime behaves the same whether or not
// callers batch.
type Batcher struct {
	mu    sync.Mutex
	delay time.Duration
	flush func()
	timer *time.Timer
}

// NewBatcher creates a batcher invoking flush after each triggered burst.
// A zero delay flushes as soon as the timer fires.
func NewBatcher(delay time.Duration, flush func()) *Batcher {
	return &Batcher{delay: delay, flush: flush}
}

// Trigger schedules a flush if one is not already pending. Calls landing
// before the pending flush fires are absorbed into it.
func (b *Batcher) Trigger() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		return
	}
	b.timer = time.AfterFunc(b.delay, b.run)
}

// Stop cancels any pending flush. Suitable for RegisterCleanup.
func (b *Batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Batcher) run() {
	b.mu.Lock()
	b.timer = nil
	b.mu.Unlock()
	b.flush()
}
