package pool

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGateAcquireRelease(t *testing.T) {
	g := newGate(2)

	if err := g.acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := g.acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if g.available() != 0 {
		t.Fatalf("expected 0 permits, got %d", g.available())
	}

	if err := g.tryAcquire(); !IsTimeout(err, TimeoutWait) {
		t.Fatalf("expected wait timeout, got %v", err)
	}

	g.release(1)
	if g.available() != 1 {
		t.Fatalf("expected 1 permit, got %d", g.available())
	}
	if err := g.tryAcquire(); err != nil {
		t.Fatalf("tryAcquire after release: %v", err)
	}
}

func TestGateFIFOOrder(t *testing.T) {
	g := newGate(1)
	if err := g.acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	order := make(chan int, 2)
	started := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		i := i
		go func() {
			// Register in submission order.
			for g.waiting() < i {
				time.Sleep(time.Millisecond)
			}
			started <- struct{}{}
			if err := g.acquire(context.Background()); err != nil {
				t.Errorf("waiter %d: %v", i, err)
				return
			}
			order <- i
		}()
		<-started
		waitFor(t, func() bool { return g.waiting() == i+1 })
	}

	g.release(1)
	if got := <-order; got != 0 {
		t.Fatalf("expected waiter 0 first, got %d", got)
	}
	g.release(1)
	if got := <-order; got != 1 {
		t.Fatalf("expected waiter 1 second, got %d", got)
	}
}

func TestGateCancelDoesNotConsumePermit(t *testing.T) {
	g := newGate(1)
	if err := g.acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- g.acquire(ctx) }()
	waitFor(t, func() bool { return g.waiting() == 1 })

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if g.waiting() != 0 {
		t.Fatalf("cancelled waiter still queued")
	}

	g.release(1)
	if g.available() != 1 {
		t.Fatalf("expected 1 permit after release, got %d", g.available())
	}
}

func TestGateClose(t *testing.T) {
	g := newGate(1)
	if err := g.acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	errc := make(chan error, 1)
	go func() { errc <- g.acquire(context.Background()) }()
	waitFor(t, func() bool { return g.waiting() == 1 })

	g.close()
	g.close() // idempotent

	if err := <-errc; !errors.Is(err, ErrClosed) {
		t.Fatalf("pending waiter: expected ErrClosed, got %v", err)
	}
	if err := g.acquire(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("acquire after close: expected ErrClosed, got %v", err)
	}
	if err := g.tryAcquire(); !errors.Is(err, ErrClosed) {
		t.Fatalf("tryAcquire after close: expected ErrClosed, got %v", err)
	}
}

func TestGateRemovePermits(t *testing.T) {
	g := newGate(4)
	if got := g.removePermits(2); got != 2 {
		t.Fatalf("expected to remove 2, removed %d", got)
	}
	if g.available() != 2 {
		t.Fatalf("expected 2 permits left, got %d", g.available())
	}
	// Removing more than available removes only what is free and reports
	// that count.
	if got := g.removePermits(5); got != 2 {
		t.Fatalf("expected to remove 2, removed %d", got)
	}
	if g.available() != 0 {
		t.Fatalf("expected 0 permits left, got %d", g.available())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached in time")
		}
		time.Sleep(time.Millisecond)
	}
}
