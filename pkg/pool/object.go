package pool

// Object is the scoped handle to one pooled object. It grants exclusive
// access between a successful Get and the matching Release. Callers must
// release the handle on every path, typically with defer:
//
//	obj, err := p.Get(ctx)
//	if err != nil {
//	    return err
//	}
//	defer obj.Release()
//
// An Object is owned by a single goroutine; its methods must not be called
// concurrently.
type Object[T any] struct {
	pool  *Pool[T]
	state *objectState[T]
}

// Value returns a pointer to the pooled object. The pointer is only valid
// until Release or Take.
func (o *Object[T]) Value() *T {
	if o.state == nil {
		panic("pool: object used after release")
	}
	return &o.state.value
}

// Metrics returns a copy of the object's counters.
func (o *Object[T]) Metrics() Metrics {
	if o.state == nil {
		panic("pool: object used after release")
	}
	return o.state.metrics
}

// Pool returns the pool this handle belongs to.
func (o *Object[T]) Pool() *Pool[T] {
	return o.pool
}

// Release runs the return protocol: the object goes back to the idle store
// for reuse, or is destroyed when the pool has been closed or shrunk in the
// meantime. Safe to call more than once; only the first call does anything.
func (o *Object[T]) Release() {
	state := o.state
	if state == nil {
		return
	}
	o.state = nil
	o.pool.returnObject(state)
}

// Take removes the object from the pool permanently and hands ownership to
// the caller. The pool's size shrinks by one, the manager's Detach (if any)
// is signalled, and the handle becomes unusable.
func (o *Object[T]) Take() T {
	state := o.state
	if state == nil {
		panic("pool: object used after release")
	}
	o.state = nil
	o.pool.takeObject(state)
	return state.value
}
