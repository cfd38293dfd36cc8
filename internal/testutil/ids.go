// Package testutil provides deterministic helpers for tests.
package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator returns sequential, predictable invocation IDs for
// deterministic test output (golden files, store assertions).
//
// Thread-safe via internal mutex.
type FixedIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewFixedIDGenerator creates a generator producing "<prefix>-1",
// "<prefix>-2", and so on.
func NewFixedIDGenerator(prefix string) *FixedIDGenerator {
	return &FixedIDGenerator{prefix: prefix}
}

// Generate returns the next sequential ID.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}
