package pool

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/repool/pkg/runtime"
)

// Status is a point-in-time snapshot of pool occupancy. Fields are read
// under a short lock and may be slightly inconsistent with each other, but
// no field is ever torn.
type Status struct {
	// MaxSize is the configured capacity. Reported as 0 once closed.
	MaxSize int
	// Size is the number of objects alive inside the pool or lent out.
	Size int
	// Available is the number of idle objects ready for checkout.
	Available int
	// Waiting is the number of callers queued for capacity.
	Waiting int
}

// RetainResult reports the outcome of a Retain sweep.
type RetainResult struct {
	// Retained is the number of idle objects that passed the predicate.
	Retained int
	// Removed holds the metrics of every destroyed object.
	Removed []Metrics
}

// objectState is the pool-internal identity of one pooled object. It is
// uniquely owned at any instant: either by the idle store or by one handle.
type objectState[T any] struct {
	value   T
	metrics Metrics
}

// Pool lends objects created by a Manager to concurrent callers and
// recycles them for reuse. Construct one with NewBuilder; the zero value is
// not usable. All methods are safe for concurrent use.
type Pool[T any] struct {
	manager   Manager[T]
	name      string
	queueMode QueueMode
	timeouts  Timeouts
	rt        runtime.Runtime
	logger    *zap.Logger
	gate      *gate

	postCreate  hookChain[T]
	preRecycle  hookChain[T]
	postRecycle hookChain[T]

	// slots guards the idle store and the size bookkeeping. Critical
	// sections are O(1) pushes and pops; only Retain and Resize sweep.
	slots struct {
		mu      sync.Mutex
		idle    []*objectState[T] // tail = most recently returned
		size    int
		maxSize int
		deficit int // permits condemned by a shrink, burned as handles return
	}
}

// Name returns the pool name used in logs and metric labels.
func (p *Pool[T]) Name() string { return p.name }

// Manager returns the manager the pool was built with.
func (p *Pool[T]) Manager() Manager[T] { return p.manager }

// IsClosed reports whether Close has been called.
func (p *Pool[T]) IsClosed() bool { return p.gate.isClosed() }

// Get retrieves an object from the pool, waiting for capacity if necessary,
// using the pool's default timeouts. The returned handle grants exclusive
// access to the object; callers must Release it (typically with defer).
func (p *Pool[T]) Get(ctx context.Context) (*Object[T], error) {
	return p.GetWithTimeouts(ctx, p.timeouts)
}

// TryGet behaves like Get but fails immediately with a wait timeout when the
// pool is saturated instead of queueing.
func (p *Pool[T]) TryGet(ctx context.Context) (*Object[T], error) {
	t := p.timeouts
	zero := time.Duration(0)
	t.Wait = &zero
	return p.GetWithTimeouts(ctx, t)
}

// GetWithTimeouts retrieves an object using per-call deadlines. Fields left
// nil fall back to the pool defaults.
func (p *Pool[T]) GetWithTimeouts(ctx context.Context, t Timeouts) (*Object[T], error) {
	t = t.withDefaults(p.timeouts)

	if t.Wait != nil && *t.Wait == 0 {
		if err := p.gate.tryAcquire(); err != nil {
			return nil, err
		}
	} else {
		err := p.applyTimeout(ctx, TimeoutWait, t.Wait, func(ctx context.Context) error {
			return p.gate.acquire(ctx)
		})
		if err != nil {
			return nil, err
		}
	}

	// The permit is held from here on. It transfers to the handle on
	// success and is returned to the gate on every failure path.
	permitHeld := true
	defer func() {
		if permitHeld {
			p.gate.release(1)
		}
	}()

	for {
		state := p.popIdle()
		if state == nil {
			state, err := p.createObject(ctx, t)
			if err != nil {
				return nil, err
			}
			permitHeld = false
			return &Object[T]{pool: p, state: state}, nil
		}

		ok, err := p.recycleObject(ctx, t, state)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		permitHeld = false
		return &Object[T]{pool: p, state: state}, nil
	}
}

// createObject makes a fresh object, accounts for it, and runs the
// PostCreate chain. Any failure leaves size untouched.
func (p *Pool[T]) createObject(ctx context.Context, t Timeouts) (*objectState[T], error) {
	var value T
	err := p.applyTimeout(ctx, TimeoutCreate, t.Create, func(ctx context.Context) error {
		v, err := p.manager.Create(ctx)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err != nil {
		var te *TimeoutError
		if errors.As(err, &te) || errors.Is(err, ErrNoRuntime) || errors.Is(err, ctx.Err()) {
			return nil, err
		}
		return nil, &BackendError{Err: err}
	}

	state := &objectState[T]{value: value, metrics: newMetrics()}
	p.slots.mu.Lock()
	p.slots.size++
	size := p.slots.size
	p.slots.mu.Unlock()
	p.logger.Debug("object created", zap.Int("size", size))

	if err := p.postCreate.run(ctx, &state.value, &state.metrics); err != nil {
		p.logger.Debug("post-create hook aborted", zap.Error(err))
		p.destroy(state, true)
		return nil, &PostCreateHookError{Err: err}
	}
	return state, nil
}

// recycleObject runs the recycle pipeline on an idle object. It returns
// (true, nil) when the object is fit for handout, (false, nil) when the
// object was destroyed and the caller should try the next candidate, and a
// non-nil error when the whole Get call must fail.
func (p *Pool[T]) recycleObject(ctx context.Context, t Timeouts, state *objectState[T]) (bool, error) {
	if err := p.preRecycle.run(ctx, &state.value, &state.metrics); err != nil {
		p.logger.Debug("pre-recycle hook aborted", zap.Error(err))
		p.destroy(state, true)
		return false, nil
	}

	err := p.applyTimeout(ctx, TimeoutRecycle, t.Recycle, func(ctx context.Context) error {
		return p.manager.Recycle(ctx, &state.value, &state.metrics)
	})
	if err != nil {
		// The manager reported the object dead (or was interrupted doing
		// so); either way it had its hands on the object and owns the
		// teardown, so Detach is skipped here.
		p.destroy(state, false)
		var te *TimeoutError
		if errors.As(err, &te) || errors.Is(err, ErrNoRuntime) || errors.Is(err, ctx.Err()) {
			return false, err
		}
		p.logger.Debug("recycle failed", zap.Error(err))
		return false, nil
	}

	state.metrics.touch()

	if err := p.postRecycle.run(ctx, &state.value, &state.metrics); err != nil {
		p.logger.Debug("post-recycle hook aborted", zap.Error(err))
		p.destroy(state, true)
		return false, nil
	}
	return true, nil
}

// popIdle removes the next idle object according to the queue mode.
func (p *Pool[T]) popIdle() *objectState[T] {
	p.slots.mu.Lock()
	defer p.slots.mu.Unlock()
	n := len(p.slots.idle)
	if n == 0 {
		return nil
	}
	var state *objectState[T]
	if p.queueMode == LIFO {
		state = p.slots.idle[n-1]
		p.slots.idle[n-1] = nil
		p.slots.idle = p.slots.idle[:n-1]
	} else {
		state = p.slots.idle[0]
		p.slots.idle[0] = nil
		p.slots.idle = p.slots.idle[1:]
	}
	return state
}

// destroy removes an object from the pool's accounting and optionally
// signals the manager's Detach.
func (p *Pool[T]) destroy(state *objectState[T], detach bool) {
	p.slots.mu.Lock()
	p.slots.size--
	size := p.slots.size
	p.slots.mu.Unlock()
	if detach {
		p.detachValue(&state.value)
	}
	p.logger.Debug("object destroyed", zap.Int("size", size))
}

func (p *Pool[T]) detachValue(v *T) {
	if d, ok := p.manager.(Detacher[T]); ok {
		d.Detach(v)
	}
}

// returnObject is the handle's return protocol. Exactly one of three things
// happens: the permit is burned against a shrink deficit, the object goes
// back to the idle store with its permit, or the excess object is destroyed.
func (p *Pool[T]) returnObject(state *objectState[T]) {
	p.slots.mu.Lock()
	switch {
	case p.slots.deficit > 0:
		p.slots.deficit--
		p.slots.size--
		p.slots.mu.Unlock()
		p.detachValue(&state.value)
	case p.slots.size <= p.slots.maxSize:
		p.slots.idle = append(p.slots.idle, state)
		p.slots.mu.Unlock()
		p.gate.release(1)
	default:
		p.slots.size--
		p.slots.mu.Unlock()
		p.detachValue(&state.value)
	}
}

// takeObject removes an object from the pool permanently on behalf of
// Object.Take. The object's permit follows it out unless a shrink deficit
// claims it first.
func (p *Pool[T]) takeObject(state *objectState[T]) {
	p.slots.mu.Lock()
	burn := p.slots.deficit > 0
	if burn {
		p.slots.deficit--
	}
	p.slots.size--
	p.slots.mu.Unlock()
	if !burn {
		p.gate.release(1)
	}
	p.detachValue(&state.value)
}

// applyTimeout runs fn, optionally under a deadline of the given kind. A
// deadline that elapses maps to a TimeoutError; cancellation of the caller's
// own context is reported as that context's error.
func (p *Pool[T]) applyTimeout(ctx context.Context, kind TimeoutKind, d *time.Duration, fn func(context.Context) error) error {
	if d == nil {
		return fn(ctx)
	}
	if p.rt == nil {
		return ErrNoRuntime
	}
	tctx, cancel := p.rt.WithTimeout(ctx, *d)
	defer cancel()
	err := fn(tctx)
	if err != nil && tctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return &TimeoutError{Kind: kind}
	}
	return err
}

// Resize changes the pool capacity. Growing adds fresh permits (cancelling
// any outstanding shrink deficit first). Shrinking destroys excess idle
// objects, removes free permits, and records the shortfall as a deficit so
// that returning handles burn their permits until the count reconciles.
// Does nothing on a closed pool.
func (p *Pool[T]) Resize(maxSize int) {
	if maxSize < 0 || p.gate.isClosed() {
		return
	}
	var victims []*objectState[T]

	p.slots.mu.Lock()
	old := p.slots.maxSize
	p.slots.maxSize = maxSize
	switch {
	case maxSize < old:
		for p.slots.size > maxSize && len(p.slots.idle) > 0 {
			victims = append(victims, p.slots.idle[0])
			p.slots.idle[0] = nil
			p.slots.idle = p.slots.idle[1:]
			p.slots.size--
		}
		want := old - maxSize
		removed := p.gate.removePermits(want)
		p.slots.deficit += want - removed
	case maxSize > old:
		grow := maxSize - old
		cancelled := p.slots.deficit
		if cancelled > grow {
			cancelled = grow
		}
		p.slots.deficit -= cancelled
		p.gate.release(grow - cancelled)
	}
	p.slots.mu.Unlock()

	for _, s := range victims {
		p.detachValue(&s.value)
	}
	if maxSize != old {
		p.logger.Info("pool resized",
			zap.Int("old_max_size", old),
			zap.Int("max_size", maxSize),
			zap.Int("evicted", len(victims)))
	}
}

// Retain applies the predicate to every currently-idle object and destroys
// the ones that fail it. Lent-out objects are not affected. The predicate
// runs with the idle-store lock held and must be cheap.
func (p *Pool[T]) Retain(pred func(obj *T, m Metrics) bool) RetainResult {
	var result RetainResult
	var victims []*objectState[T]

	p.slots.mu.Lock()
	kept := p.slots.idle[:0]
	for _, state := range p.slots.idle {
		if pred(&state.value, state.metrics) {
			kept = append(kept, state)
		} else {
			victims = append(victims, state)
			result.Removed = append(result.Removed, state.metrics)
		}
	}
	for i := len(kept); i < len(p.slots.idle); i++ {
		p.slots.idle[i] = nil
	}
	p.slots.idle = kept
	p.slots.size -= len(victims)
	result.Retained = len(kept)
	p.slots.mu.Unlock()

	for _, s := range victims {
		p.detachValue(&s.value)
	}
	if len(victims) > 0 {
		p.logger.Debug("retain evicted objects", zap.Int("removed", len(victims)))
	}
	return result
}

// Close shuts the pool down: capacity drops to zero, every idle object is
// destroyed, pending and future Get calls fail with ErrClosed, and handles
// still out destroy their objects on release. Idempotent.
func (p *Pool[T]) Close() {
	if p.gate.isClosed() {
		return
	}
	p.Resize(0)
	p.gate.close()
	p.logger.Info("pool closed")
}

// Status returns a cheap occupancy snapshot.
func (p *Pool[T]) Status() Status {
	p.slots.mu.Lock()
	s := Status{
		MaxSize:   p.slots.maxSize,
		Size:      p.slots.size,
		Available: len(p.slots.idle),
	}
	p.slots.mu.Unlock()
	s.Waiting = p.gate.waiting()
	return s
}
