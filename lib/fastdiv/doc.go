// Package fastdiv implements fast 32-bit division and remainder by an
// invariant divisor, using the multiply-and-shift technique of Granlund
// and Montgomery instead of a hardware divide.
//
// The package contains:
//   - Init: precomputes the packed multiplier/shift constants for a divisor
//   - Div: quotient via one multiplication and two shifts
//   - Mod: remainder derived from the fast quotient
//
// This package is particularly useful for:
//   - Hash tables that reduce digests modulo a table size that only
//     changes on resize
//   - Any hot loop dividing repeatedly by the same value
//
// The results are bit-identical to the native / and % operators for every
// uint32 input; the only difference is speed. Callers that do not care
// about the division cost can always fall back to plain modulo arithmetic
// with no change in behavior.
package fastdiv
