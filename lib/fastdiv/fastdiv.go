package fastdiv

import "math/bits"

// --------------------------------------------------------------------------
// Precomputation
// --------------------------------------------------------------------------

// Init precomputes the reciprocal-multiplication constants for the given
// divisor and packs them into a single uint64:
//
//	bits 32..63  multiplier m
//	bits  8..15  pre-shift s1
//	bits  0..7   post-shift s2
//
// The packed value is passed to Div and Mod, which replace hardware
// division with a multiply and two shifts. The divisor must be non-zero.
//
// Reference: Granlund and Montgomery, "Division by Invariant Integers
// Using Multiplication", ACM SIGPLAN Notices, Vol 29, June 1994.
func Init(div uint32) uint64 {
	l := bits.Len32(div - 1)
	mt := uint64(0x100000000) * ((uint64(1) << l) - uint64(div))

	s1 := uint64(l)
	if l > 1 {
		s1 = 1
	}

	var s2 uint64
	if l != 0 {
		s2 = uint64(l - 1)
	}

	return (mt/uint64(div)+1)<<32 | s1<<8 | s2
}

// --------------------------------------------------------------------------
// Division and Remainder
// --------------------------------------------------------------------------

// Div returns v / div for the divisor that info was initialized with.
func Div(v uint32, info uint64) uint32 {
	m := uint32(info >> 32)
	s1 := (info & 0x0000ff00) >> 8
	s2 := info & 0x000000ff
	t := uint32((uint64(v) * uint64(m)) >> 32)
	return (t + ((v - t) >> s1)) >> s2
}

// Mod returns v % div for the divisor that info was initialized with.
// The divisor must be passed again since it is not recoverable from info.
func Mod(v, div uint32, info uint64) uint32 {
	return v - div*Div(v, info)
}
