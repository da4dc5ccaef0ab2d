// Package hasher provides the pluggable hash strategies consumed by the
// table engines. Every strategy maps (key bytes, 64-bit seed) to a 32-bit
// digest through the narrow Hasher interface, so engines never branch on
// the concrete algorithm in their probe loops.
//
// The package contains:
//   - Sip: SipHash-2-4 keyed by the table seed. Resistant against
//     hash-flooding with attacker-chosen keys; the default strategy.
//   - XX3: seeded xxh3. The fast strategy for trusted key sets.
//   - XX64: seeded xxhash64, selectable as an explicit override.
//   - FNV: seeded FNV-1a, a dependency-free baseline used mainly in tests.
//
// Choosing a strategy is a creation-time decision of the table: the seed
// rotates on every resize, so even the non-cryptographic strategies do not
// keep a stable bucket mapping across the lifetime of a table.
package hasher
