package pool

import (
	"context"
	"fmt"
)

// Hook is a user callback inserted into the create/recycle pipeline. It
// receives the object and its metrics and may mutate the object. Returning
// a non-nil error aborts the step; what an abort means depends on the hook
// point (see the package documentation).
//
// Hooks are expected to be cheap. A hook receives the context of the
// surrounding Get call; the create and recycle deadlines are not applied to
// hooks, so a hook that blocks is bounded only by that context.
type Hook[T any] func(ctx context.Context, obj *T, m *Metrics) error

// hookChain is an ordered sequence of hooks, frozen at build time.
type hookChain[T any] []Hook[T]

// run invokes every hook in order and stops at the first abort. A panicking
// hook is converted into an abort.
func (c hookChain[T]) run(ctx context.Context, obj *T, m *Metrics) error {
	for _, h := range c {
		if err := callHook(h, ctx, obj, m); err != nil {
			return err
		}
	}
	return nil
}

func callHook[T any](h Hook[T], ctx context.Context, obj *T, m *Metrics) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()
	return h(ctx, obj, m)
}
