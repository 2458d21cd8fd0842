package hive

import (
	"sync"
	"time"
)

// Dispatcher runs queued actions one at a time. Everything the client does to
// its own state (cache fills, completion handling, retry re-entries) goes
// through a Dispatcher, which is what serializes the protocol onto a single
// logical thread. Tests substitute a synchronous implementation.
type Dispatcher interface {
	// Post enqueues fn for execution on the dispatch goroutine.
	Post(fn func())
	// PostAfter schedules fn to be posted after the given delay.
	PostAfter(delay time.Duration, fn func())
}

// defaultQueueSize is the dispatch channel buffer. Posting blocks once the
// backlog exceeds it, which backpressures the transport goroutines.
const defaultQueueSize = 1024

// loopDispatcher drains a buffered channel on one goroutine. Actions posted
// after Stop are dropped, so a timer firing during teardown is harmless.
type loopDispatcher struct {
	work chan func()
	done chan struct{}

	mu     sync.RWMutex
	closed bool
}

func newLoopDispatcher(queueSize int) *loopDispatcher {
	d := &loopDispatcher{
		work: make(chan func(), queueSize),
		done: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *loopDispatcher) run() {
	for fn := range d.work {
		fn()
	}
	close(d.done)
}

func (d *loopDispatcher) Post(fn func()) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	d.work <- fn
}

func (d *loopDispatcher) PostAfter(delay time.Duration, fn func()) {
	time.AfterFunc(delay, func() {
		d.Post(fn)
	})
}

// Stop closes the queue and waits for actions already enqueued to finish.
// Stop is idempotent.
func (d *loopDispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.work)
	d.mu.Unlock()
	<-d.done
}
