// Package oracle provides the deterministic pseudo-random source used by
// world generation. An oracle maps a key string to a value in [0, 1) with no
// hidden state, so the same key always produces the same value regardless of
// call order or process restarts.
package oracle

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Purpose tags appended to cell indices when building value keys.
const (
	TagInitialValue = "initialValue"
	TagCoinCount    = "coinCount"
)

// keySeparator joins key parts. Keys look like "3,4,coinCount".
const keySeparator = ","

// Oracle returns a reproducible pseudo-random value in [0, 1) for a key.
type Oracle interface {
	Value(key string) float64
}

// Func adapts a plain function to the Oracle interface.
// Mostly useful for stubbing generation in tests.
type Func func(key string) float64

// Value calls f(key).
func (f Func) Value(key string) float64 {
	return f(key)
}

// Key builds the canonical oracle key from its parts.
// Every call site asking the same question must go through Key, otherwise
// the two sites would see different values for the same cell.
func Key(parts ...any) string {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = fmt.Sprint(p)
	}
	return strings.Join(strs, keySeparator)
}

// Hash is the production oracle: xxhash64 of the key, mixed with the world
// seed and passed through a 64-bit finalizer for avalanche.
type Hash struct {
	seed uint64
}

// New creates a hash oracle for the given world seed.
func New(seed uint64) Hash {
	return Hash{seed: mix64(seed + 0x9e3779b97f4a7c15)}
}

// Value returns a value in [0, 1) derived from the top 53 bits of the hash.
func (h Hash) Value(key string) float64 {
	x := mix64(xxhash.Sum64String(key) ^ h.seed)
	return float64(x>>11) / (1 << 53)
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
