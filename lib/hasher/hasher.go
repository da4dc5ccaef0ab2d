package hasher

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
	"github.com/zeebo/xxh3"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Hasher maps key bytes and a 64-bit seed to a 32-bit digest.
// Implementations must be deterministic for a fixed seed and must be
// stateless so a single value can be shared by any number of tables.
type Hasher interface {
	// Hash32 computes the 32-bit digest of key under the given seed.
	Hash32(key []byte, seed uint64) uint32
}

// Ready-to-use strategies. Sip is the safe default for untrusted keys,
// XX3 and XX64 trade that robustness for raw speed, and FNV is the
// dependency-free baseline.
var (
	Sip  Hasher = sipHasher{}
	XX3  Hasher = xx3Hasher{}
	XX64 Hasher = xx64Hasher{}
	FNV  Hasher = fnvHasher{}
)

// --------------------------------------------------------------------------
// Keyed Secure Hash (SipHash-2-4)
// --------------------------------------------------------------------------

// sipHasher is the DoS-resistant strategy. SipHash takes a 128-bit key;
// both halves are derived from the table seed so that a fresh seed on
// every resize rotates the full key.
type sipHasher struct{}

func (sipHasher) Hash32(key []byte, seed uint64) uint32 {
	return uint32(siphash.Hash(seed, bits.RotateLeft64(seed, 32), key))
}

// --------------------------------------------------------------------------
// Fast Non-Cryptographic Hashes
// --------------------------------------------------------------------------

// xx3Hasher is the fast strategy. It offers no defense against chosen-key
// flooding, so it should only be selected for trusted key sets.
type xx3Hasher struct{}

func (xx3Hasher) Hash32(key []byte, seed uint64) uint32 {
	return uint32(xxh3.HashSeed(key, seed))
}

// xx64Hasher hashes with seeded xxhash64. The Digest lives on the stack,
// so this stays allocation-free despite the streaming API.
type xx64Hasher struct{}

func (xx64Hasher) Hash32(key []byte, seed uint64) uint32 {
	var d xxhash.Digest
	d.ResetWithSeed(seed)
	_, _ = d.Write(key)
	return uint32(d.Sum64())
}

// fnvHasher implements seeded FNV-1a. Slower and weaker than the xxhash
// family but has no moving parts, which makes it handy for tests that
// need a predictable strategy to provoke collisions.
type fnvHasher struct{}

func (fnvHasher) Hash32(key []byte, seed uint64) uint32 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)

	hash := uint64(offset64) ^ seed
	for i := 0; i < len(key); i++ {
		hash ^= uint64(key[i])
		hash *= prime64
	}

	return uint32(hash)
}
