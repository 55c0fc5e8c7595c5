// Package syncpool wraps clients that only offer blocking, non-goroutine-safe
// calls so they can be pooled like any other object. Access to the wrapped
// client goes through Interact, which serializes callbacks and runs them off
// the caller's goroutine via the runtime handle.
package syncpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ajitpratap0/repool/pkg/runtime"
)

// ErrClosed is returned by Interact after the wrapper has been closed.
var ErrClosed = errors.New("syncpool: wrapper is closed")

// Wrapper owns a blocking client of type T. It is the payload type to hand
// to a pool; the pool treats it like any other object.
type Wrapper[T any] struct {
	rt runtime.Runtime

	mu     sync.Mutex
	obj    T
	closed bool
}

// New constructs the client by running create off the caller's goroutine
// and returns the wrapper around it.
func New[T any](ctx context.Context, rt runtime.Runtime, create func() (T, error)) (*Wrapper[T], error) {
	var (
		obj T
		err error
	)
	if serr := rt.SpawnBlocking(ctx, func() { obj, err = create() }); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}
	return &Wrapper[T]{rt: rt, obj: obj}, nil
}

// Interact runs fn against the wrapped client on a separate goroutine and
// waits for it to finish or for ctx to be cancelled. Callbacks are
// serialized; a callback that panics is reported as an error rather than
// unwinding into the pool.
//
// When ctx wins the race the callback keeps running in the background and
// still releases the client when it finishes.
func (w *Wrapper[T]) Interact(ctx context.Context, fn func(obj *T) error) error {
	var err error
	serr := w.rt.SpawnBlocking(ctx, func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("syncpool: callback panicked: %v", r)
			}
		}()
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.closed {
			err = ErrClosed
			return
		}
		err = fn(&w.obj)
	})
	if serr != nil {
		return serr
	}
	return err
}

// Closed reports whether Close has been called.
func (w *Wrapper[T]) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Close marks the wrapper closed and runs teardown (may be nil) against the
// client. Subsequent Interact calls fail with ErrClosed. Idempotent.
func (w *Wrapper[T]) Close(teardown func(obj *T)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if teardown != nil {
		teardown(&w.obj)
	}
}
