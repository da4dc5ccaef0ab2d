package fastdiv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// divisors that exercise every branch of Init: 1 (l=0), powers of two,
// small odds, primes, and values near the uint32 ceiling.
var testDivisors = []uint32{
	1, 2, 3, 4, 5, 7, 8, 10, 16, 17, 31, 32, 33, 85, 100,
	127, 128, 129, 255, 256, 257, 1021, 4096, 65535, 65536, 65537,
	1 << 20, 1<<20 + 7, 1 << 31, 1<<31 + 1, math.MaxUint32 - 1, math.MaxUint32,
}

var testValues = []uint32{
	0, 1, 2, 3, 15, 16, 17, 100, 254, 255, 256, 1000, 65535, 65536,
	1 << 24, 1<<31 - 1, 1 << 31, 1<<31 + 1, math.MaxUint32 - 1, math.MaxUint32,
}

func TestDiv(t *testing.T) {
	for _, div := range testDivisors {
		info := Init(div)
		for _, v := range testValues {
			require.Equal(t, v/div, Div(v, info), "Div(%d, Init(%d))", v, div)
		}
	}
}

func TestMod(t *testing.T) {
	for _, div := range testDivisors {
		info := Init(div)
		for _, v := range testValues {
			require.Equal(t, v%div, Mod(v, div, info), "Mod(%d, %d)", v, div)
		}
	}
}

// TestModSweep runs a dense sweep over small divisors, which are the ones
// a freshly created table actually uses.
func TestModSweep(t *testing.T) {
	for div := uint32(1); div <= 512; div++ {
		info := Init(div)
		for v := uint32(0); v < 4096; v++ {
			if got, want := Mod(v, div, info), v%div; got != want {
				t.Fatalf("Mod(%d, %d) = %d, want %d", v, div, got, want)
			}
		}
	}
}

func BenchmarkMod(b *testing.B) {
	info := Init(1021)
	var sink uint32
	for i := 0; i < b.N; i++ {
		sink += Mod(uint32(i), 1021, info)
	}
	_ = sink
}

func BenchmarkNativeMod(b *testing.B) {
	var sink uint32
	for i := 0; i < b.N; i++ {
		sink += uint32(i) % 1021
	}
	_ = sink
}
