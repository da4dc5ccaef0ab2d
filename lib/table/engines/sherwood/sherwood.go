package sherwood

import (
	"bytes"
	"fmt"
	"math"

	"github.com/ValentinKolb/rhmap/lib/fastdiv"
	"github.com/ValentinKolb/rhmap/lib/hasher"
	"github.com/ValentinKolb/rhmap/lib/table"
	"github.com/ValentinKolb/rhmap/lib/table/util"
	"github.com/rs/zerolog/log"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for table behavior and structure
const (
	maxGrowthStep = 1024 * 1024    // Upper bound on buckets added by a single grow
	maxCapacity   = math.MaxUint32 // Largest bucket array the 32-bit probe arithmetic supports
)

// approx85Percent returns roughly 85% of x without floating point math
func approx85Percent(x uint64) uint64 {
	return (x * 870) >> 10
}

// growTarget returns the capacity a growing table resizes to: double the
// current capacity, but never more than maxGrowthStep additional buckets
// in a single step.
func growTarget(capacity uint64) uint64 {
	target := capacity * 2
	if limit := capacity + maxGrowthStep; target > limit {
		target = limit
	}
	return target
}

// approx40Percent returns roughly 40% of x without floating point math
func approx40Percent(x uint64) uint64 {
	return (x * 409) >> 10
}

// --------------------------------------------------------------------------
// Core sherwood table structure
// --------------------------------------------------------------------------

// bucket is a single slot of the open addressing array. A slot is occupied
// if and only if key is non-nil. psl is the probe sequence length: the
// distance of the slot from the home slot its hash maps to.
type bucket[V any] struct {
	key   []byte
	value V
	hash  uint32
	psl   uint16
}

// tableImpl implements the table.Map interface with Robin Hood hashing
type tableImpl[V any] struct {
	buckets     []bucket[V]   // Open addressing array, len == capacity
	capacity    uint32        // Current number of buckets
	count       uint32        // Number of occupied buckets
	minCapacity uint32        // Floor below which the table never shrinks
	divinfo     uint64        // Division constants for the current capacity
	seed        uint64        // Seed for the hash strategy, rotated on resize
	reseeds     uint64        // Number of seed rotations so far
	hasher      hasher.Hasher // Hash strategy chosen at creation
	newSeed     func() uint64 // Entropy source for seed rotation
	copyKeys    bool          // Copy keys on insert instead of borrowing
	destroyed   bool          // Set by Destroy, any use afterwards panics
}

// Options configures the table behavior during initialization
type Options struct {
	BorrowKeys bool          // Store caller-owned key slices without copying (default: copy)
	FastHash   bool          // Prefer raw hash speed over robustness (ignored if Hasher is set)
	Hasher     hasher.Hasher // Hash strategy override (nil = derived from FastHash)
	Seed       func() uint64 // Entropy source for seed rotation (nil = util.GenerateSeed)
}

// DefaultOptions returns the default table options
func DefaultOptions() *Options {
	return &Options{
		BorrowKeys: false, // Copy keys, the caller keeps ownership of its buffers
		FastHash:   false, // Use the seed-robust hash strategy
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// New creates a sherwood table with the specified options (optional).
// The initialSize parameter pre-allocates the given number of buckets and
// also sets the floor below which the table never shrinks; zero means a
// default minimum of a single bucket.
//
// Thread-safety: the returned table is not safe for concurrent use.
func New[V any](initialSize uint32, opts *Options) (table.Map[V], error) {

	// Generate default options if not provided
	if opts == nil {
		opts = DefaultOptions()
	}

	// Select the hash strategy once, lookups branch through the interface
	h := opts.Hasher
	if h == nil {
		if opts.FastHash {
			h = hasher.XX3
		} else {
			h = hasher.Sip
		}
	}

	newSeed := opts.Seed
	if newSeed == nil {
		newSeed = util.GenerateSeed
	}

	minCapacity := initialSize
	if minCapacity < 1 {
		minCapacity = 1
	}

	t := &tableImpl[V]{
		minCapacity: minCapacity,
		hasher:      h,
		newSeed:     newSeed,
		copyKeys:    !opts.BorrowKeys,
	}

	// The initial resize allocates the bucket array and rotates the seed
	// away from zero.
	if err := t.resize(uint64(minCapacity)); err != nil {
		return nil, err
	}
	return t, nil
}

// --------------------------------------------------------------------------
// Contract Helpers
// --------------------------------------------------------------------------

// ensureLive panics if the table was already destroyed
func (t *tableImpl[V]) ensureLive() {
	if t.destroyed {
		panic(table.NewError(table.RetCContract, "table used after Destroy"))
	}
}

// ensureKey panics if the key violates the length contract
func (t *tableImpl[V]) ensureKey(key []byte) {
	t.ensureLive()
	if len(key) == 0 {
		panic(table.NewError(table.RetCContract, "key must be at least one byte long"))
	}
	if len(key) > table.MaxKeyLen {
		panic(table.NewError(table.RetCContract,
			fmt.Sprintf("key length %d exceeds the maximum of %d", len(key), table.MaxKeyLen)))
	}
}

// --------------------------------------------------------------------------
// Probing Internals
// --------------------------------------------------------------------------

// insert places the entry into the bucket array, resolving collisions with
// the displacement rule. The caller owns entry.key; the key is stored as-is.
// If the key is already present the resident value is returned and the
// entry is discarded, otherwise the entry value is returned.
//
// The caller must guarantee at least one empty bucket, see Put.
func (t *tableImpl[V]) insert(entry bucket[V]) V {
	i := fastdiv.Mod(entry.hash, t.capacity, t.divinfo)

	// From the paper: "when inserting, if a record probes a location that
	// is already occupied, the record that has traveled longer in its
	// probe sequence keeps the location, and the other one continues on
	// its probe sequence" (Celis, 1986, page 12).
	for t.buckets[i].key != nil {
		b := &t.buckets[i]

		if b.hash == entry.hash && bytes.Equal(b.key, entry.key) {
			// Duplicate key: the resident value wins.
			return b.value
		}

		// Found a "rich" bucket. Capture its location.
		if entry.psl > b.psl {
			entry, *b = *b, entry
		}
		entry.psl++

		// Continue to the next bucket.
		i = fastdiv.Mod(i+1, t.capacity, t.divinfo)
	}

	// Found a free bucket: place the entry.
	t.buckets[i] = entry
	t.count++
	return entry.value
}

// resize rebuilds the bucket array at the new capacity and migrates every
// occupied slot in physical order. The seed is rotated with fresh entropy
// on every resize so bucket positions do not correlate across generations.
// On error the table is left untouched.
func (t *tableImpl[V]) resize(newCapacity uint64) error {
	if newCapacity > maxCapacity {
		return table.NewError(table.RetCAllocation,
			fmt.Sprintf("capacity %d exceeds the addressable maximum of %d", newCapacity, uint64(maxCapacity)))
	}
	if newCapacity == 0 || newCapacity <= uint64(t.count) {
		return table.NewError(table.RetCAllocation,
			fmt.Sprintf("capacity %d cannot hold %d elements", newCapacity, t.count))
	}

	oldBuckets := t.buckets
	oldCapacity := t.capacity

	t.buckets = make([]bucket[V], newCapacity)
	t.capacity = uint32(newCapacity)
	t.count = 0
	t.divinfo = fastdiv.Init(uint32(newCapacity))

	// Rotate the hash seed so no probe pattern survives a resize.
	t.seed ^= t.newSeed()
	t.reseeds++

	for i := uint32(0); i < oldCapacity; i++ {
		b := &oldBuckets[i]
		if b.key == nil {
			continue
		}
		// Keys migrate without re-copying. In copy mode the table stays
		// the sole owner of the slice, in borrow mode the caller does.
		t.insert(bucket[V]{key: b.key, value: b.value, hash: t.hasher.Hash32(b.key, t.seed)})
	}

	log.Debug().Msgf("resized table, capacity: %d -> %d, count: %d, seed rotations: %d",
		oldCapacity, newCapacity, t.count, t.reseeds)
	return nil
}

// --------------------------------------------------------------------------
// Map Interface Implementation - Write Operations
// --------------------------------------------------------------------------

// Put inserts an entry with the given key and value.
// If the key is already present the table is not modified and the resident
// value is returned, otherwise the given value is stored and returned.
//
// Thread-safety: this method is not safe for concurrent use.
func (t *tableImpl[V]) Put(key []byte, value V) (V, error) {
	t.ensureKey(key)

	// If the load factor is more than the threshold, then resize.
	if uint64(t.count) > approx85Percent(uint64(t.capacity)) {
		if err := t.resize(growTarget(uint64(t.capacity))); err != nil {
			var zero V
			return zero, err
		}
	}

	entry := bucket[V]{value: value, hash: t.hasher.Hash32(key, t.seed)}
	if t.copyKeys {
		entry.key = make([]byte, len(key))
		copy(entry.key, key)
	} else {
		entry.key = key
	}

	return t.insert(entry), nil
}

// Delete removes the entry with the specified key and returns its value.
// The boolean return value indicates whether the key was present.
//
// Thread-safety: this method is not safe for concurrent use.
func (t *tableImpl[V]) Delete(key []byte) (V, bool) {
	t.ensureKey(key)

	var zero V
	hash := t.hasher.Hash32(key, t.seed)
	n := uint32(0)
	i := fastdiv.Mod(hash, t.capacity, t.divinfo)

	// The same probing logic as in the lookup.
	for {
		b := &t.buckets[i]
		if b.key == nil || n > uint32(b.psl) {
			return zero, false
		}
		if b.hash == hash && bytes.Equal(b.key, key) {
			break
		}
		n++
		i = fastdiv.Mod(i+1, t.capacity, t.divinfo)
	}

	found := &t.buckets[i]
	removed := found.value
	t.count--

	// The probe sequence must be preserved in the deletion case: shift
	// the successors of the hole backwards instead of leaving a
	// tombstone, keeping the PSL variance low.
	for {
		// Clear the whole slot so key and value references are released.
		*found = bucket[V]{}

		i = fastdiv.Mod(i+1, t.capacity, t.divinfo)
		next := &t.buckets[i]

		// Stop on an empty bucket or a key in its home location.
		if next.key == nil || next.psl == 0 {
			break
		}

		next.psl--
		*found = *next
		found = next
	}

	// If the load factor dropped below the threshold, shrink by halving,
	// but never below the minimum capacity. A failed shrink only costs
	// memory, so the error is dropped.
	if uint64(t.count) > uint64(t.minCapacity) && uint64(t.count) < approx40Percent(uint64(t.capacity)) {
		newCapacity := uint64(t.capacity) / 2
		if newCapacity < uint64(t.minCapacity) {
			newCapacity = uint64(t.minCapacity)
		}
		_ = t.resize(newCapacity)
	}

	return removed, true
}

// --------------------------------------------------------------------------
// Map Interface Implementation - Query Operations
// --------------------------------------------------------------------------

// Get retrieves the value for an exact key.
// The boolean return value indicates whether a value for the key was found.
// Lookups never allocate.
//
// Thread-safety: this method is not safe for concurrent use.
func (t *tableImpl[V]) Get(key []byte) (V, bool) {
	t.ensureKey(key)

	hash := t.hasher.Hash32(key, t.seed)
	n := uint32(0)
	i := fastdiv.Mod(hash, t.capacity, t.divinfo)

	// Lookup is a linear probe.
	for {
		b := &t.buckets[i]
		if b.key != nil && b.hash == hash && bytes.Equal(b.key, key) {
			return b.value, true
		}

		// Stop probing on an empty bucket. Also stop when more buckets
		// were visited than the resident's PSL: a present key would have
		// captured that "rich" bucket on insert, see the displacement
		// rule in the insertion path.
		if b.key == nil || n > uint32(b.psl) {
			var zero V
			return zero, false
		}
		n++

		// Continue to the next bucket.
		i = fastdiv.Mod(i+1, t.capacity, t.divinfo)
	}
}

// Walk iterates over the table in bucket order, one entry per call.
// Start a walk with a cursor holding zero. Each call returns one entry and
// advances the cursor past it; found is false once no entries remain. The
// returned key is the table's internal slice and must not be modified.
// Any mutation of the table invalidates the cursor.
//
// Thread-safety: this method is not safe for concurrent use.
func (t *tableImpl[V]) Walk(cursor *uint64) ([]byte, V, bool) {
	t.ensureLive()

	for i := *cursor; i < uint64(t.capacity); i++ {
		b := &t.buckets[i]
		if b.key == nil {
			continue
		}
		*cursor = i + 1
		return b.key, b.value, true
	}

	var zero V
	return nil, zero, false
}

// Range calls fn for every entry in bucket order until fn returns false.
// The table must not be mutated from within fn. The key passed to fn is
// the table's internal slice and must not be modified.
//
// Thread-safety: this method is not safe for concurrent use.
func (t *tableImpl[V]) Range(fn func(key []byte, value V) bool) {
	t.ensureLive()

	for i := range t.buckets {
		b := &t.buckets[i]
		if b.key == nil {
			continue
		}
		if !fn(b.key, b.value) {
			return
		}
	}
}

// --------------------------------------------------------------------------
// Map Interface Implementation - Integrity Operations
// --------------------------------------------------------------------------

// Verify scans the whole table and checks its internal invariants: every
// stored hash matches its key, every PSL equals the actual distance from
// the home slot, and the element count matches the occupied buckets.
// Returns a *table.Error describing the first violation, or nil.
//
// Thread-safety: this method is not safe for concurrent use.
func (t *tableImpl[V]) Verify() error {
	t.ensureLive()

	var occupied uint32
	for i := uint32(0); i < t.capacity; i++ {
		b := &t.buckets[i]
		if b.key == nil {
			continue
		}
		occupied++

		if len(b.key) > table.MaxKeyLen {
			return table.NewError(table.RetCContract,
				fmt.Sprintf("slot %d: key length %d exceeds the maximum of %d", i, len(b.key), table.MaxKeyLen))
		}
		if hash := t.hasher.Hash32(b.key, t.seed); hash != b.hash {
			return table.NewError(table.RetCContract,
				fmt.Sprintf("slot %d: stored hash %#x does not match recomputed hash %#x", i, b.hash, hash))
		}

		// The PSL invariant: the recorded probe sequence length must
		// equal the distance from the home slot, wrapping at the end
		// of the array.
		home := fastdiv.Mod(b.hash, t.capacity, t.divinfo)
		var dist uint32
		if home > i {
			dist = t.capacity - home + i
		} else {
			dist = i - home
		}
		if dist != uint32(b.psl) {
			return table.NewError(table.RetCContract,
				fmt.Sprintf("slot %d: psl %d does not match distance %d from home slot %d", i, b.psl, dist, home))
		}
	}

	if occupied != t.count {
		return table.NewError(table.RetCContract,
			fmt.Sprintf("count %d does not match %d occupied slots", t.count, occupied))
	}
	return nil
}

// --------------------------------------------------------------------------
// Map Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the table. Unlike the cheap accessors
// this scans all buckets to build the probe length distribution.
func (t *tableImpl[V]) GetInfo() table.TableInfo {
	t.ensureLive()

	// collect the probe distribution in one pass
	histogram := util.NewProbeHistogram()
	for i := range t.buckets {
		if t.buckets[i].key != nil {
			histogram.AddSample(int(t.buckets[i].psl))
		}
	}

	// Metadata for this specific table implementation
	meta := &struct {
		Hasher        string  `json:"hasher"`
		CopiedKeys    bool    `json:"copied_keys"`
		SeedRotations uint64  `json:"seed_rotations"`
		MeanPSL       float64 `json:"mean_psl"`
		MaxPSL        int     `json:"max_psl"`
		P95PSL        int     `json:"p95_psl"`
	}{
		Hasher:        fmt.Sprintf("%T", t.hasher),
		CopiedKeys:    t.copyKeys,
		SeedRotations: t.reseeds,
		MeanPSL:       histogram.Mean(),
		MaxPSL:        histogram.Max(),
		P95PSL:        histogram.PercentileEstimate(95),
	}

	// features
	supportedFeatures := []table.Feature{
		table.FeaturePut, table.FeatureGet, table.FeatureDelete,
		table.FeatureWalk, table.FeatureRange, table.FeatureVerify,
		table.FeatureShrink,
	}
	if !t.copyKeys {
		supportedFeatures = append(supportedFeatures, table.FeatureBorrowedKeys)
	}

	return table.TableInfo{
		Capacity:          t.capacity,
		Count:             t.count,
		MinCapacity:       t.minCapacity,
		LoadFactor:        float64(t.count) / float64(t.capacity),
		TableType:         table.ImplSherwood,
		SupportedFeatures: supportedFeatures,
		Metadata:          meta,
	}
}

// SupportsFeature checks if this implementation supports a specific feature
func (t *tableImpl[V]) SupportsFeature(feature table.Feature) bool {
	supportedFeatures := table.FeaturePut |
		table.FeatureGet |
		table.FeatureDelete |
		table.FeatureWalk |
		table.FeatureRange |
		table.FeatureVerify |
		table.FeatureShrink
	if !t.copyKeys {
		supportedFeatures |= table.FeatureBorrowedKeys
	}
	return supportedFeatures&feature == feature
}

// --------------------------------------------------------------------------
// Map Interface Implementation - Lifecycle Operations
// --------------------------------------------------------------------------

// Destroy releases the bucket array. Any use of the table afterwards is a
// contract violation and panics, including a second Destroy.
func (t *tableImpl[V]) Destroy() {
	t.ensureLive()
	t.buckets = nil
	t.capacity = 0
	t.count = 0
	t.destroyed = true
}
