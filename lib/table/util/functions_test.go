package util

import (
	"bytes"
	"testing"
)

func TestUint64KeyRoundTrip(t *testing.T) {
	for _, i := range []uint64{0, 1, 255, 256, 1 << 32, ^uint64(0)} {
		key := Uint64Key(i)
		if len(key) != 8 {
			t.Fatalf("Expected 8-byte key, got %d bytes", len(key))
		}
		if got := KeyUint64(key); got != i {
			t.Errorf("Expected %d after round trip, got %d", i, got)
		}
	}
}

func TestAppendUint64Key(t *testing.T) {
	buf := make([]byte, 0, 16)
	buf = AppendUint64Key(buf, 7)
	buf = AppendUint64Key(buf, 9)

	if len(buf) != 16 {
		t.Fatalf("Expected 16 bytes after two appends, got %d", len(buf))
	}
	if !bytes.Equal(buf[:8], Uint64Key(7)) || !bytes.Equal(buf[8:], Uint64Key(9)) {
		t.Errorf("Appended keys do not match the standalone encoding")
	}
}

func TestGenerateSeed(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 16; i++ {
		seen[GenerateSeed()] = true
	}
	// collisions from a 64-bit entropy source would be astronomical
	if len(seen) != 16 {
		t.Errorf("Expected 16 distinct seeds, got %d", len(seen))
	}
}
