package pool

import "context"

// Manager is the factory capability the caller supplies to a pool. It
// creates fresh objects and validates returned ones before they are handed
// out again.
//
// Both methods may block; they are expected to observe ctx and return
// promptly once it is cancelled. Partial work interrupted by cancellation
// must clean up after itself.
type Manager[T any] interface {
	// Create produces a fresh object or an error.
	Create(ctx context.Context) (T, error)

	// Recycle validates or repairs an object that is about to be reused.
	// Returning an error declares the object dead; the pool destroys it and
	// moves on. A manager that returns an error is responsible for tearing
	// the object down first (Detach is not called on this path).
	Recycle(ctx context.Context, obj *T, m *Metrics) error
}

// Detacher is an optional extension of Manager. When implemented, Detach is
// called exactly once whenever an object leaves the pool for any reason
// other than a Recycle error: Object.Take, Retain eviction, shrink, close,
// or a hook abort. It is the manager's chance to tear the object down.
type Detacher[T any] interface {
	Detach(obj *T)
}
