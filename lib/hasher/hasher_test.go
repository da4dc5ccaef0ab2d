package hasher

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

var strategies = map[string]Hasher{
	"Sip":  Sip,
	"XX3":  XX3,
	"XX64": XX64,
	"FNV":  FNV,
}

func TestDeterminism(t *testing.T) {
	key := []byte("determinism-key")
	for name, h := range strategies {
		t.Run(name, func(t *testing.T) {
			first := h.Hash32(key, 0xdeadbeefcafe)
			for i := 0; i < 10; i++ {
				require.Equal(t, first, h.Hash32(key, 0xdeadbeefcafe))
			}
		})
	}
}

func TestSeedSensitivity(t *testing.T) {
	key := []byte("seed-sensitivity-key")
	for name, h := range strategies {
		t.Run(name, func(t *testing.T) {
			// Across 64 seeds at least one digest must differ from the
			// seed-zero digest, otherwise the reseed-on-resize rotation
			// would be a no-op for this strategy.
			base := h.Hash32(key, 0)
			changed := false
			for seed := uint64(1); seed <= 64; seed++ {
				if h.Hash32(key, seed) != base {
					changed = true
					break
				}
			}
			require.True(t, changed, "digest never changed with the seed")
		})
	}
}

func TestKeySensitivity(t *testing.T) {
	for name, h := range strategies {
		t.Run(name, func(t *testing.T) {
			// 1k distinct short keys should produce far more than a
			// handful of distinct digests under any usable strategy.
			seen := make(map[uint32]struct{})
			for i := 0; i < 1000; i++ {
				d := h.Hash32([]byte(fmt.Sprintf("key-%d", i)), 42)
				seen[d] = struct{}{}
			}
			require.Greater(t, len(seen), 990, "too many digest collisions")
		})
	}
}

func TestSingleByteKeys(t *testing.T) {
	// minimum legal key length is one byte
	for name, h := range strategies {
		t.Run(name, func(t *testing.T) {
			a := h.Hash32([]byte{0x00}, 7)
			b := h.Hash32([]byte{0x01}, 7)
			require.NotEqual(t, a, b)
		})
	}
}

func BenchmarkHash32(b *testing.B) {
	key := []byte("benchmark-key-of-plausible-length")
	for name, h := range strategies {
		b.Run(name, func(b *testing.B) {
			var sink uint32
			for i := 0; i < b.N; i++ {
				sink += h.Hash32(key, uint64(i))
			}
			_ = sink
		})
	}
}
