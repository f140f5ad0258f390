package journal

import (
	"context"
	"sync"
	"testing"
	"time"
)

// TestCollector gathers items from a subscription for assertions in tests.
type TestCollector[T any] struct {
	t       testing.TB
	items   []T
	cancel  func()
	timeout time.Duration
	mu      sync.Mutex
}

// Collect starts draining subscribe in the background.
func Collect[T any](t testing.TB, subscribe func(context.Context) <-chan T) *TestCollector[T] {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	ch := subscribe(ctx)

	c := &TestCollector[T]{
		t:       t,
		cancel:  cancel,
		timeout: time.Second,
	}

	go func() {
		for item := range ch {
			c.mu.Lock()
			c.items = append(c.items, item)
			c.mu.Unlock()
		}
	}()

	return c
}

// Wait blocks until n items arrived and fails the test after one second.
func (c *TestCollector[T]) Wait(n int) []T {
	c.t.Helper()
	deadline := time.Now().Add(c.timeout)

	for time.Now().Before(deadline) {
		c.mu.Lock()
		if len(c.items) >= n {
			items := append([]T(nil), c.items...)
			c.mu.Unlock()
			c.cancel()
			return items
		}
		c.mu.Unlock()
		time.Sleep(time.Millisecond)
	}

	c.cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t.Fatalf("timeout waiting for %d items, got %d", n, len(c.items))
	return nil
}

// Stop ends collection and returns what arrived so far.
func (c *TestCollector[T]) Stop() []T {
	c.cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}
