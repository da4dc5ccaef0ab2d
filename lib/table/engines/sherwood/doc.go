// Package sherwood implements an in-memory associative container with open
// addressing and the Robin Hood collision resolution strategy. It provides
// a complete implementation of the table.Map interface with a focus on
// predictable lookup cost, cache friendliness, and memory efficiency.
//
// The package focuses on:
//   - Low probe length variance through displacement on insert
//   - Tombstone-free deletion with the backward shifting technique
//   - Amortized growing and shrinking with load factor thresholds
//   - Pluggable hash strategies with per-table seeding
//   - A single contiguous bucket array, no per-entry pointers or boxing
//
// Key Components:
//
//   - tableImpl: The central structure implementing table.Map. It owns the
//     bucket array and the probing state: the current capacity, the element
//     count, the division constants and the hash seed. All operations are
//     intentionally single-threaded, the structure carries no locks.
//
//   - bucket: One slot of the open addressing array, holding the key slice,
//     the value, the cached 32-bit hash, and the probe sequence length (PSL).
//     A slot is occupied if and only if its key is non-nil. Caching the hash
//     makes probe comparisons and resizing cheap; the PSL drives both the
//     displacement rule and the lookup cutoff.
//
// Internal Mechanisms:
//
//   - Robin Hood Insertion: Lookup and insertion use linear probing starting
//     at the home slot the hash maps to. When an insert probes an occupied
//     bucket, the entry that has traveled further from its home slot keeps
//     the bucket and the other continues probing (Celis, 1986). Taking from
//     the "rich" (close to home) and giving to the "poor" (far from home)
//     keeps the variance of probe sequence lengths low, so lookups stay
//     short even at high load.
//
//   - Lookup Cutoff: A probe for an absent key can stop as soon as it has
//     visited more buckets than the PSL of the bucket it is looking at. If
//     the key existed, the displacement rule would have placed it there.
//     This bounds negative lookups without any tombstone bookkeeping.
//
//   - Backward Shift Deletion: Deleting an entry shifts the following
//     buckets one slot backwards (decrementing their PSL) until an empty
//     bucket or an entry in its home slot is reached. The probe sequence
//     stays contiguous, so the table needs no tombstones and does not
//     degrade after heavy churn.
//
//   - Resize Policy: The table grows when the element count exceeds roughly
//     85% of the capacity and shrinks when it drops below roughly 40%, both
//     computed with integer arithmetic. Growth doubles the capacity but adds
//     at most 2^20 buckets at once; shrinking halves it but never below the
//     minimum capacity fixed at creation. Every resize re-inserts the
//     entries into a fresh array and rotates the hash seed with new entropy,
//     so an unlucky or adversarial key layout does not survive a resize.
//
//   - Fast Division: Probe positions are reduced modulo the capacity using
//     precomputed multiplication constants from the fastdiv package instead
//     of hardware division. The constants are computed once per resize.
//     This keeps the hot loops free of the div instruction and allows
//     arbitrary (non power of two) capacities.
//
//   - Key Ownership: By default the table copies every key on insert and is
//     then the sole owner of the copy. With Options.BorrowKeys the table
//     stores the caller's slice directly, which avoids the allocation but
//     obliges the caller to keep the slice alive and unmodified while the
//     entry is in the table. Values are always stored by assignment.
//
// The package is designed for workloads that need tight control over memory
// and predictable latency: routing tables, interning maps, index structures,
// and embedding into larger storage engines.
package sherwood
