package rateindex

import (
	"sync"
	"testing"
	"time"

	"github.com/meenmo/ratecore/daycount"
)

// countingCurve counts Discount calls so cache tests can assert on
// whether a call actually hit the underlying curve.
type countingCurve struct {
	mu    sync.Mutex
	calls int
}

func (c *countingCurve) Discount(d time.Time) (float64, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return 0.97, nil
}
func (c *countingCurve) ReferenceDate() time.Time        { return time.Time{} }
func (c *countingCurve) DayCounter() daycount.DayCounter { return daycount.DayCounter{} }
func (c *countingCurve) ZeroRate(time.Time) (float64, error) { return 0, nil }

func (c *countingCurve) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestSingleThreadedCacheMemoizes(t *testing.T) {
	t.Parallel()
	cache := NewSingleThreadedCache()
	c := &countingCurve{}
	d := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := cache.Discount(c, d); err != nil {
			t.Fatalf("Discount: %v", err)
		}
	}
	if c.count() != 1 {
		t.Fatalf("expected exactly 1 underlying Discount call, got %d", c.count())
	}
}

func TestSingleThreadedCacheInvalidate(t *testing.T) {
	t.Parallel()
	cache := NewSingleThreadedCache()
	c := &countingCurve{}
	d := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	cache.Discount(c, d)
	cache.Invalidate(c)
	cache.Discount(c, d)
	if c.count() != 2 {
		t.Fatalf("expected a fresh Discount call after Invalidate, got %d total calls", c.count())
	}
}

func TestMultiThreadedCacheMemoizesUnderConcurrency(t *testing.T) {
	t.Parallel()
	cache := NewMultiThreadedCache()
	c := &countingCurve{}
	d := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Discount(c, d)
		}()
	}
	wg.Wait()
	if c.count() != 1 {
		t.Fatalf("expected exactly 1 underlying Discount call, got %d", c.count())
	}
}

func TestMultiThreadedCacheInvalidate(t *testing.T) {
	t.Parallel()
	mt := NewMultiThreadedCache()
	c := &countingCurve{}
	d := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := mt.Discount(c, d); err != nil {
		t.Fatalf("Discount: %v", err)
	}
	mt.Invalidate(c)
	if _, err := mt.Discount(c, d); err != nil {
		t.Fatalf("Discount after Invalidate: %v", err)
	}
	if c.count() != 2 {
		t.Fatalf("expected 2 underlying calls (one per Invalidate cycle), got %d", c.count())
	}
}
