package util

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// --------------------------------------------------------------------------
// General Utility Functions
// --------------------------------------------------------------------------

// GenerateSeed creates a more robust random seed for internal hash distribution
func GenerateSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Fallback auf die aktuelle Zeit, nur im äußersten Notfall
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// --------------------------------------------------------------------------
// Key Helpers
// --------------------------------------------------------------------------

// Uint64Key encodes an integer as a fixed 8-byte key. This is the cheapest
// way to use counters, ids or offsets as table keys without going through
// string formatting.
func Uint64Key(i uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], i)
	return b[:]
}

// AppendUint64Key appends the 8-byte encoding of i to dst and returns the
// extended slice. Use this variant in hot loops to avoid one allocation
// per key.
func AppendUint64Key(dst []byte, i uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, i)
}

// KeyUint64 decodes a key previously produced by Uint64Key. The result is
// unspecified for keys that are not exactly 8 bytes long.
func KeyUint64(key []byte) uint64 {
	return binary.LittleEndian.Uint64(key)
}
