package rateindex

import (
	"sync"
	"time"

	"github.com/meenmo/ratecore/curve"
)

// DFCache memoizes discount factors keyed by (curve identity, date),
// generalizing the per-curve discountFactors/zeros maps of
// swap/curve/curve.go from "memoize forever on one curve" into a
// cache shared across curves. Entries are kept per curve pointer: a
// curve rebuilt under a new pointer gets fresh entries, and the
// entries of earlier curves stay until Invalidate drops them; nothing
// is cleared automatically.
type DFCache interface {
	Discount(c curve.Curve, d time.Time) (float64, error)
	// Invalidate drops every entry associated with c (used when c is
	// rebuilt under the same logical name but a new pointer identity).
	Invalidate(c curve.Curve)
}

// SingleThreadedCache is a plain, non-synchronized cache for
// single-goroutine pricing runs.
type SingleThreadedCache struct {
	entries map[curve.Curve]map[time.Time]float64
}

// NewSingleThreadedCache constructs an empty cache.
func NewSingleThreadedCache() *SingleThreadedCache {
	return &SingleThreadedCache{entries: make(map[curve.Curve]map[time.Time]float64)}
}

func (s *SingleThreadedCache) Discount(c curve.Curve, d time.Time) (float64, error) {
	byDate, ok := s.entries[c]
	if !ok {
		byDate = make(map[time.Time]float64)
		s.entries[c] = byDate
	}
	if df, ok := byDate[d]; ok {
		return df, nil
	}
	df, err := c.Discount(d)
	if err != nil {
		return 0, err
	}
	byDate[d] = df
	return df, nil
}

func (s *SingleThreadedCache) Invalidate(c curve.Curve) {
	delete(s.entries, c)
}

// MultiThreadedCache wraps SingleThreadedCache's storage in an
// RWMutex, using a two-phase protocol: an RLock'd fast-path lookup,
// and — on a miss — a Lock'd slow path that re-checks for a concurrent
// writer having already populated the entry before computing and
// storing it.
type MultiThreadedCache struct {
	mu      sync.RWMutex
	entries map[curve.Curve]map[time.Time]float64
}

// NewMultiThreadedCache constructs an empty thread-safe cache.
func NewMultiThreadedCache() *MultiThreadedCache {
	return &MultiThreadedCache{entries: make(map[curve.Curve]map[time.Time]float64)}
}

func (m *MultiThreadedCache) Discount(c curve.Curve, d time.Time) (float64, error) {
	m.mu.RLock()
	if byDate, ok := m.entries[c]; ok {
		if df, ok := byDate[d]; ok {
			m.mu.RUnlock()
			return df, nil
		}
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	byDate, ok := m.entries[c]
	if !ok {
		byDate = make(map[time.Time]float64)
		m.entries[c] = byDate
	}
	if df, ok := byDate[d]; ok {
		return df, nil
	}
	df, err := c.Discount(d)
	if err != nil {
		return 0, err
	}
	byDate[d] = df
	return df, nil
}

func (m *MultiThreadedCache) Invalidate(c curve.Curve) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, c)
}
