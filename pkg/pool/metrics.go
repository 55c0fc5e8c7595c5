package pool

import "time"

// Metrics carries the per-object counters the pool maintains for every
// pooled object. A copy is exposed through Object.Metrics and a pointer is
// passed to Manager.Recycle and to hooks so that recycling decisions can be
// made on object age or idle time.
type Metrics struct {
	// CreatedAt is when the object was created by the manager.
	CreatedAt time.Time
	// RecycledAt is when the object was last successfully recycled.
	// Equals CreatedAt until the first recycle.
	RecycledAt time.Time
	// RecycleCount is the number of successful recycles so far.
	RecycleCount int
}

func newMetrics() Metrics {
	now := time.Now()
	return Metrics{CreatedAt: now, RecycledAt: now}
}

// Age returns how long ago the object was created.
func (m Metrics) Age() time.Duration {
	return time.Since(m.CreatedAt)
}

// Idle returns how long ago the object was last handed out.
func (m Metrics) Idle() time.Duration {
	return time.Since(m.RecycledAt)
}

// touch records a successful recycle.
func (m *Metrics) touch() {
	m.RecycledAt = time.Now()
	m.RecycleCount++
}
