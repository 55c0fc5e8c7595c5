package pool

import (
	"context"
	"testing"
)

type nopManager struct{}

func (nopManager) Create(ctx context.Context) (int, error) { return 0, nil }
func (nopManager) Recycle(ctx context.Context, obj *int, m *Metrics) error {
	return nil
}

func mustPool(t *testing.T, maxSize int) *Pool[int] {
	t.Helper()
	p, err := NewBuilder[int](nopManager{}).MaxSize(maxSize).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return p
}

// checkPermits verifies the capacity accounting at a quiescent state. The
// deficit counts permits that are still outstanding but condemned, so the
// free count must be maxSize + deficit - lent-out handles; once the deficit
// drains to zero this is the plain maxSize - in_use.
func checkPermits(t *testing.T, p *Pool[int], inUse int) {
	t.Helper()
	p.slots.mu.Lock()
	maxSize := p.slots.maxSize
	deficit := p.slots.deficit
	p.slots.mu.Unlock()
	want := maxSize + deficit - inUse
	if got := p.gate.available(); got != want {
		t.Fatalf("permits: got %d, want %d (max=%d in_use=%d deficit=%d)",
			got, want, maxSize, inUse, deficit)
	}
}

func TestPermitAccounting(t *testing.T) {
	ctx := context.Background()
	p := mustPool(t, 4)
	checkPermits(t, p, 0)

	h1, _ := p.Get(ctx)
	h2, _ := p.Get(ctx)
	checkPermits(t, p, 2)

	h1.Release()
	checkPermits(t, p, 1)

	p.Resize(2)
	checkPermits(t, p, 1)

	h2.Release()
	checkPermits(t, p, 0)

	p.Resize(6)
	checkPermits(t, p, 0)
}

func TestPermitAccountingShrinkGrowChurn(t *testing.T) {
	ctx := context.Background()
	p := mustPool(t, 4)

	var handles []*Object[int]
	for i := 0; i < 4; i++ {
		h, err := p.Get(ctx)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		handles = append(handles, h)
	}
	checkPermits(t, p, 4)

	p.Resize(1)
	checkPermits(t, p, 4)

	handles[0].Release()
	checkPermits(t, p, 3)

	p.Resize(3)
	checkPermits(t, p, 3)

	for _, h := range handles[1:] {
		h.Release()
	}
	checkPermits(t, p, 0)

	// Size reconciled alongside the permits.
	if st := p.Status(); st.Size > st.MaxSize {
		t.Fatalf("size %d exceeds max %d after churn", st.Size, st.MaxSize)
	}
}

func TestTakeUnderDeficitBurnsPermit(t *testing.T) {
	ctx := context.Background()
	p := mustPool(t, 2)

	h1, _ := p.Get(ctx)
	h2, _ := p.Get(ctx)
	p.Resize(1)

	_ = h1.Take()
	checkPermits(t, p, 1)

	h2.Release()
	checkPermits(t, p, 0)
	if st := p.Status(); st.Size != 1 || st.Available != 1 {
		t.Fatalf("unexpected status %+v", st)
	}
}
