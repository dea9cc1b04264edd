// Package quiz picks the next unseen question of a quiz.
package quiz

import (
	"math/rand"
	"sync"
	"time"
)

// Selector chooses uniformly among the questions not yet served.
type Selector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSelector creates a selector drawing from src. A nil source is seeded
// from the clock.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Selector{rnd: rand.New(src)}
}

// Remaining returns ids minus previous, keeping the order of ids
func Remaining(ids, previous []int64) []int64 {
	seen := make(map[int64]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}

	remaining := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			remaining = append(remaining, id)
		}
	}
	return remaining
}

// Pick returns a random id from ids that is not in previous. It reports
// false once every candidate has been served.
func (s *Selector) Pick(ids, previous []int64) (int64, bool) {
	remaining := Remaining(ids, previous)
	if len(remaining) == 0 {
		return 0, false
	}

	s.mu.Lock()
	i := s.rnd.Intn(len(remaining))
	s.mu.Unlock()

	return remaining[i], true
}
