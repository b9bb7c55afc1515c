package lock

import (
	"sort"
	"sync"
)

// PeriodGuard keeps one RWMutex per payroll period. Mutations of dated
// records hold the shared side; batch generation and finalization hold the
// exclusive side, so finalize waits for in-flight mutations and blocks new ones.
type PeriodGuard struct {
	mu      sync.Mutex
	periods map[string]*sync.RWMutex
}

func NewPeriodGuard() *PeriodGuard {
	return &PeriodGuard{periods: make(map[string]*sync.RWMutex)}
}

func (g *PeriodGuard) get(period string) *sync.RWMutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	rw, ok := g.periods[period]
	if !ok {
		rw = &sync.RWMutex{}
		g.periods[period] = rw
	}
	return rw
}

// Shared read-locks every distinct period in sorted order.
func (g *PeriodGuard) Shared(periods ...string) (release func()) {
	uniq := make(map[string]struct{}, len(periods))
	for _, p := range periods {
		uniq[p] = struct{}{}
	}
	sorted := make([]string, 0, len(uniq))
	for p := range uniq {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	held := make([]*sync.RWMutex, 0, len(sorted))
	for _, p := range sorted {
		rw := g.get(p)
		rw.RLock()
		held = append(held, rw)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].RUnlock()
			}
		})
	}
}

func (g *PeriodGuard) Exclusive(period string) (release func()) {
	rw := g.get(period)
	rw.Lock()

	var once sync.Once
	return func() {
		once.Do(rw.Unlock)
	}
}
