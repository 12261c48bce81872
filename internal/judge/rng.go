// Package judge implements the interactive ink-depletion judge: the
// deterministic hidden-state generator, the lock-step round loop played
// against a contestant, and the final scoring pass.
package judge

import (
	"crypto/sha256"
	"math/big"
)

// Stream is the randomness provider for case shuffling.
type Stream interface {
	// Next returns the next value in the stream as an unsigned integer.
	Next() *big.Int
}

// RNG is a deterministic Stream that hashes an incrementing counter with
// SHA-256. Contestants cannot predict draws without the seed, and any run can
// be replayed bit-for-bit from the seed alone.
//
// Invariant: output depends only on the seed and the number of Next calls.
type RNG struct {
	counter *big.Int
}

// NewRNG creates an RNG whose counter starts at seed.
//
// Precondition: seed >= 0. Panics otherwise.
func NewRNG(seed int64) *RNG {
	if seed < 0 {
		panic("judge: NewRNG called with negative seed")
	}
	return &RNG{counter: big.NewInt(seed)}
}

var bigOne = big.NewInt(1)

// Next increments the counter, encodes it as a 32-byte big-endian unsigned
// integer, and returns its SHA-256 digest interpreted as a big-endian
// unsigned integer. The encoding and digest interpretation are load-bearing:
// recorded runs depend on them bit-for-bit.
//
// Postcondition: return value is in [0, 2^256).
func (r *RNG) Next() *big.Int {
	r.counter.Add(r.counter, bigOne)
	var buf [32]byte
	r.counter.FillBytes(buf[:])
	digest := sha256.Sum256(buf[:])
	return new(big.Int).SetBytes(digest[:])
}
