package pool

import (
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/repool/pkg/runtime"
)

// Builder assembles a Pool. Obtain one with NewBuilder, chain the option
// methods, and finish with Build. A builder is single-use and not safe for
// concurrent mutation.
type Builder[T any] struct {
	manager     Manager[T]
	name        string
	config      Config
	rt          runtime.Runtime
	logger      *zap.Logger
	postCreate  hookChain[T]
	preRecycle  hookChain[T]
	postRecycle hookChain[T]
}

// NewBuilder starts a builder for a pool backed by the given manager.
func NewBuilder[T any](manager Manager[T]) *Builder[T] {
	return &Builder[T]{
		manager: manager,
		name:    "pool",
		config:  Config{MaxSize: DefaultMaxSize()},
	}
}

// Name sets the pool name used in log fields and metric labels.
func (b *Builder[T]) Name(name string) *Builder[T] {
	b.name = name
	return b
}

// Config replaces the whole pool configuration.
func (b *Builder[T]) Config(c Config) *Builder[T] {
	b.config = c
	return b
}

// MaxSize sets the pool capacity.
func (b *Builder[T]) MaxSize(n int) *Builder[T] {
	b.config.MaxSize = n
	return b
}

// QueueMode sets the idle-object selection policy.
func (b *Builder[T]) QueueMode(m QueueMode) *Builder[T] {
	b.config.QueueMode = m
	return b
}

// WaitTimeout sets the pool-wide default deadline for waiting on capacity.
// nil removes the deadline.
func (b *Builder[T]) WaitTimeout(d *time.Duration) *Builder[T] {
	b.config.Timeouts.Wait = d
	return b
}

// CreateTimeout sets the pool-wide default deadline for Manager.Create.
func (b *Builder[T]) CreateTimeout(d *time.Duration) *Builder[T] {
	b.config.Timeouts.Create = d
	return b
}

// RecycleTimeout sets the pool-wide default deadline for Manager.Recycle.
func (b *Builder[T]) RecycleTimeout(d *time.Duration) *Builder[T] {
	b.config.Timeouts.Recycle = d
	return b
}

// Timeouts replaces all three default deadlines at once.
func (b *Builder[T]) Timeouts(t Timeouts) *Builder[T] {
	b.config.Timeouts = t
	return b
}

// Runtime supplies the handle used to arm deadlines. Required whenever any
// timeout is configured, on the pool or per call.
func (b *Builder[T]) Runtime(rt runtime.Runtime) *Builder[T] {
	b.rt = rt
	return b
}

// Logger attaches a logger. Defaults to a no-op logger.
func (b *Builder[T]) Logger(logger *zap.Logger) *Builder[T] {
	b.logger = logger
	return b
}

// PostCreate appends a hook that runs after a fresh object is created and
// before it is handed out. An abort destroys the object and fails the Get
// call with a PostCreateHookError.
func (b *Builder[T]) PostCreate(h Hook[T]) *Builder[T] {
	b.postCreate = append(b.postCreate, h)
	return b
}

// PreRecycle appends a hook that runs before Manager.Recycle on a reused
// object. An abort destroys the object and the engine tries the next one.
func (b *Builder[T]) PreRecycle(h Hook[T]) *Builder[T] {
	b.preRecycle = append(b.preRecycle, h)
	return b
}

// PostRecycle appends a hook that runs after a successful Manager.Recycle.
// An abort behaves like a PreRecycle abort.
func (b *Builder[T]) PostRecycle(h Hook[T]) *Builder[T] {
	b.postRecycle = append(b.postRecycle, h)
	return b
}

// Build assembles the pool. It fails when the configuration is invalid or
// when timeouts are configured without a runtime handle.
func (b *Builder[T]) Build() (*Pool[T], error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.config.Timeouts.any() && b.rt == nil {
		return nil, ErrNoRuntime
	}
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool[T]{
		manager:     b.manager,
		name:        b.name,
		queueMode:   b.config.QueueMode,
		timeouts:    b.config.Timeouts,
		rt:          b.rt,
		logger:      logger.With(zap.String("component", "pool"), zap.String("pool", b.name)),
		gate:        newGate(b.config.MaxSize),
		postCreate:  b.postCreate,
		preRecycle:  b.preRecycle,
		postRecycle: b.postRecycle,
	}
	p.slots.maxSize = b.config.MaxSize
	return p, nil
}
