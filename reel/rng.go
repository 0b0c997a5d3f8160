package reel

import (
	"crypto/rand"
	"math/big"
	"sync"
)

// Source yields uniform ints in [0, n). *math/rand/v2.Rand satisfies it, which is how
// tests and the simulator get reproducible spins.
type Source interface {
	IntN(n int) int
}

// CryptoSource draws from crypto/rand. Safe for concurrent use.
type CryptoSource struct{}

// IntN returns a uniform random int in [0, n) using crypto/rand (CSPRNG).
func (CryptoSource) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	max := big.NewInt(int64(n))
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// LockedSource serializes access to a Source that is not safe for concurrent use,
// such as a seeded *math/rand/v2.Rand shared by many sessions.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

func NewLockedSource(src Source) *LockedSource {
	return &LockedSource{src: src}
}

func (l *LockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}
