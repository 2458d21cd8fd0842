package hive

import "sync"

// Future holds the eventually-available result of an asynchronous hive call.
// It resolves at most once. Game loops poll Ready from their tick; ordinary
// Go callers select on Done.
type Future[T any] struct {
	mu   sync.Mutex
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// resolvedFuture constructs a Future that already holds its result.
func resolvedFuture[T any](v T, err error) *Future[T] {
	f := newFuture[T]()
	f.resolve(v, err)
	return f
}

// resolve publishes the result. Calls after the first are ignored.
func (f *Future[T]) resolve(v T, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.done:
		return
	default:
	}
	f.val, f.err = v, err
	close(f.done)
}

// Ready reports whether the result is available, without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result returns the resolved value and error. While the Future is pending it
// returns zero values; check Ready or wait on Done first.
func (f *Future[T]) Result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.val, f.err
}
