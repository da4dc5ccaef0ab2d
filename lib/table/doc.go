// Package table provides a standardized interface for in-memory associative
// container implementations. It defines a generic Map interface that allows
// for consistent interaction with various table backends while abstracting
// implementation details.
//
// The package focuses on:
//   - A unified interface for associative operations with byte slice keys
//   - Feature discovery through capability flags
//   - A shared error taxonomy for allocation and contract failures
//   - Comprehensive metadata reporting
//
// Key Components:
//
//   - Map Interface: The core interface that all table implementations must
//     satisfy. It provides methods for basic operations (Put, Get, Delete),
//     iteration (Walk, Range), integrity checking (Verify), metadata
//     retrieval (GetInfo) and lifecycle management (Destroy).
//
//   - Feature Flags: The Feature type defines capability flags that
//     implementations can advertise through the SupportsFeature method.
//     This allows clients to discover supported behavior at runtime, for
//     example whether a table shrinks after deletions or stores borrowed
//     keys without copying.
//
//   - Implementation Identifiers: The Implementation type provides string
//     constants for different table backends (currently "sherwood").
//
//   - Error Taxonomy: The Error type pairs a RetCode with a message.
//     Recoverable failures (RetCAllocation) are returned as errors from the
//     operation that triggered them; contract violations (RetCContract) such
//     as empty keys or use after Destroy panic, since they indicate a bug in
//     the calling code rather than a runtime condition.
//
//   - Table Information: The TableInfo structure provides standardized
//     reporting on table state, including capacity, element count, load
//     factor and implementation-specific metadata.
//
// Note on Key Ownership:
//   - By default implementations copy every key on insert, so the caller may
//     reuse or mutate its buffer freely afterwards.
//   - Implementations may offer a borrowed-key mode (advertised via
//     FeatureBorrowedKeys) that stores the caller's slice directly. In that
//     mode the caller must keep each key buffer alive and unmodified for as
//     long as the entry remains in the table.
//   - Keys handed out by Walk and Range are the table's internal slices in
//     either mode; callers must not modify them.
//
// Note on Concurrency:
//   - The interface is deliberately single-threaded. Implementations carry
//     no internal locking and the contract does not permit concurrent calls.
//     Embedding applications that need sharing are expected to partition or
//     wrap tables themselves, which keeps the single-threaded fast path free
//     of synchronization cost.
//
// Related Packages:
//
// The engines/sherwood package (github.com/ValentinKolb/rhmap/lib/table/engines/sherwood)
// provides an open addressing implementation of the Map interface using the
// Robin Hood hashing algorithm. It features linear probing with displacement
// on insert, backward shifting on delete, amortized growing and shrinking,
// and a pluggable hash strategy with per-table seeding.
//
// The util package (github.com/ValentinKolb/rhmap/lib/table/util) provides
// complementary tools for working with table.Map implementations:
//   - ProbeHistogram: Utilities for analyzing probe length distributions
//   - Stats helpers for judging hash digest spread
//   - Seed generation and integer key encoding helpers
//
// The testing package (github.com/ValentinKolb/rhmap/lib/table/testing)
// provides standardized tests and benchmarks for implementations that
// satisfy the table.Map interface.
//   - RunMapTests: Runs a standardized test suite to validate implementations
//   - RunMapBenchmarks: Provides performance benchmarks for comparing implementations
package table
