// Package weather supplies rainfall figures to the prediction service. Real
// weather ingestion is out of scope; RandomSource stands in for it.
package weather

import (
	"context"
	"math/rand"
	"sync"
)

// RandomSource is a pseudo-random rainfall stub sampling uniformly from
// [0, 150) mm, the range the risk thresholds are tuned for. The seed is
// injected so runs can be reproduced.
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource creates a seeded stub source.
func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed))}
}

// Rainfall24h returns a sampled 24-hour rainfall figure. Never fails.
func (s *RandomSource) Rainfall24h(_ context.Context, _ int64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * 150, nil
}
