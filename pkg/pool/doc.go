// Package pool provides a generic asynchronous object pool for expensive
// resources such as live network connections. Objects are created and
// validated by a user-supplied Manager, lent out to concurrent callers as
// scoped handles, and recycled for reuse when the handle is released.
//
// The pool is driven entirely by its callers: there are no background
// goroutines, no health-probe timers, and no hidden cleanup tasks. Every
// state transition happens inside Get or inside a handle's Release.
//
// # Basic usage
//
//	type connManager struct{}
//
//	func (connManager) Create(ctx context.Context) (*Conn, error) {
//	    return dial(ctx)
//	}
//
//	func (connManager) Recycle(ctx context.Context, c **Conn, m *pool.Metrics) error {
//	    return (*c).Ping(ctx)
//	}
//
//	p, err := pool.NewBuilder[*Conn](connManager{}).
//	    MaxSize(16).
//	    Build()
//	if err != nil {
//	    return err
//	}
//
//	obj, err := p.Get(ctx)
//	if err != nil {
//	    return err
//	}
//	defer obj.Release()
//
//	conn := *obj.Value()
//	// use conn ...
//
// # Capacity and waiting
//
// The pool admits at most MaxSize objects. Callers beyond that limit wait on
// an internal counting semaphore; waiters are granted capacity in FIFO order.
// Which idle object a successful caller receives is a separate policy: FIFO
// (the default, oldest-returned first) or LIFO (most-recently-returned
// first), configured with QueueMode.
//
// # Lifecycle hooks
//
// Three hook points can be attached at build time: PostCreate runs after a
// fresh object is created, PreRecycle before Manager.Recycle on a reused
// object, and PostRecycle after a successful recycle. A PostCreate abort
// fails the Get call; recycle-side aborts destroy the offending object and
// the engine silently moves on to the next candidate.
//
// # Timeouts
//
// Wait, create, and recycle deadlines are measured independently and can be
// set per pool or per call. Arming any deadline requires a runtime handle
// (see the runtime package); building a pool with timeouts but no runtime
// fails with ErrNoRuntime.
package pool
