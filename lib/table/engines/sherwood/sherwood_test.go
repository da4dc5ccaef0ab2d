package sherwood

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/rhmap/lib/fastdiv"
	"github.com/ValentinKolb/rhmap/lib/hasher"
	"github.com/ValentinKolb/rhmap/lib/table"
	"github.com/ValentinKolb/rhmap/lib/table/util"
)

// sequenceSeed returns a deterministic entropy source. Every call yields a
// new distinct value, so resizes still rotate the seed but tests reproduce.
func sequenceSeed() func() uint64 {
	var n uint64
	return func() uint64 {
		n++
		return n * 0x9e3779b97f4a7c15
	}
}

func newDeterministic[V any](t *testing.T, initialSize uint32, opts *Options) *tableImpl[V] {
	t.Helper()
	if opts == nil {
		opts = DefaultOptions()
	}
	opts.Seed = sequenceSeed()
	tbl, err := New[V](initialSize, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tbl.(*tableImpl[V])
}

// --------------------------------------------------------------------------
// Probing invariants
// --------------------------------------------------------------------------

func TestPSLInvariant(t *testing.T) {
	impl := newDeterministic[uint64](t, 0, nil)
	defer impl.Destroy()

	for i := uint64(0); i < 1000; i++ {
		if _, err := impl.Put(util.Uint64Key(i), i); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	// Every occupied bucket must sit exactly psl slots after its home.
	for i := uint32(0); i < impl.capacity; i++ {
		b := &impl.buckets[i]
		if b.key == nil {
			continue
		}
		home := fastdiv.Mod(b.hash, impl.capacity, impl.divinfo)
		var dist uint32
		if home > i {
			dist = impl.capacity - home + i
		} else {
			dist = i - home
		}
		if dist != uint32(b.psl) {
			t.Errorf("Slot %d: psl %d but distance from home %d is %d", i, b.psl, home, dist)
		}
	}

	if err := impl.Verify(); err != nil {
		t.Errorf("Verify failed on a healthy table: %v", err)
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	impl := newDeterministic[int](t, 0, nil)
	defer impl.Destroy()

	for i := 0; i < 100; i++ {
		if _, err := impl.Put(util.Uint64Key(uint64(i)), i); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	// Find an occupied bucket and corrupt its PSL.
	var slot uint32
	for i := uint32(0); i < impl.capacity; i++ {
		if impl.buckets[i].key != nil {
			slot = i
			break
		}
	}
	impl.buckets[slot].psl += 3

	err := impl.Verify()
	if err == nil {
		t.Fatalf("Expected Verify to detect the corrupted PSL")
	}
	terr, ok := err.(*table.Error)
	if !ok || terr.Code != table.RetCContract {
		t.Errorf("Expected a *table.Error with RetCContract, got %v", err)
	}

	impl.buckets[slot].psl -= 3
	if err := impl.Verify(); err != nil {
		t.Errorf("Verify still failing after restoring the PSL: %v", err)
	}

	// A wrong count is also detected.
	impl.count++
	if err := impl.Verify(); err == nil {
		t.Errorf("Expected Verify to detect a count mismatch")
	}
	impl.count--
}

// TestBackwardShiftWraparound builds a displacement chain that wraps around
// the end of the bucket array and deletes its first element. The shift has
// to follow the chain across the wrap without breaking the invariants.
func TestBackwardShiftWraparound(t *testing.T) {
	impl := newDeterministic[uint64](t, 8, &Options{Hasher: hasher.FNV})
	defer impl.Destroy()

	if impl.capacity != 8 {
		t.Fatalf("Expected capacity 8, got %d", impl.capacity)
	}

	// Brute force three keys whose home slot is the last slot of the
	// array, so their probe chain wraps to slots 0 and 1.
	lastSlot := impl.capacity - 1
	var keys [][]byte
	for i := uint64(0); len(keys) < 3; i++ {
		key := util.Uint64Key(i)
		home := fastdiv.Mod(impl.hasher.Hash32(key, impl.seed), impl.capacity, impl.divinfo)
		if home == lastSlot {
			keys = append(keys, key)
		}
	}

	for i, key := range keys {
		if _, err := impl.Put(key, uint64(i)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	// The chain occupies lastSlot, 0 and 1 with PSLs 0, 1, 2.
	if err := impl.Verify(); err != nil {
		t.Fatalf("Verify failed after building the chain: %v", err)
	}

	if _, found := impl.Delete(keys[0]); !found {
		t.Fatalf("Chain head not found on Delete")
	}

	// The survivors shifted backwards across the wrap.
	for i := 1; i < 3; i++ {
		value, exists := impl.Get(keys[i])
		if !exists {
			t.Errorf("Key %d lost after deleting the chain head", i)
		} else if value != uint64(i) {
			t.Errorf("Value mismatch for key %d after shift: got %d", i, value)
		}
	}
	if err := impl.Verify(); err != nil {
		t.Errorf("Verify failed after the wrapping shift: %v", err)
	}
	if impl.count != 2 {
		t.Errorf("Expected count 2, got %d", impl.count)
	}
}

// --------------------------------------------------------------------------
// Resize behavior
// --------------------------------------------------------------------------

func TestGrowTrigger(t *testing.T) {
	impl := newDeterministic[int](t, 16, nil)
	defer impl.Destroy()

	// The 85% threshold of 16 buckets is 13: growth happens on the first
	// Put that starts with more than 13 elements in the table.
	for i := 0; i < 14; i++ {
		if _, err := impl.Put(util.Uint64Key(uint64(i)), i); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if impl.capacity != 16 {
		t.Errorf("Expected capacity 16 at count 14, got %d", impl.capacity)
	}

	if _, err := impl.Put(util.Uint64Key(14), 14); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if impl.capacity != 32 {
		t.Errorf("Expected capacity to double to 32 on the 15th Put, got %d", impl.capacity)
	}
	if impl.count != 15 {
		t.Errorf("Expected count 15, got %d", impl.count)
	}
	if err := impl.Verify(); err != nil {
		t.Errorf("Verify failed after growing: %v", err)
	}
}

func TestGrowTargetClamp(t *testing.T) {
	// Pure capacity math, no buckets are allocated here.
	cases := []struct {
		capacity uint64
		want     uint64
	}{
		{1, 2},
		{16, 32},
		{1 << 19, 1 << 20},
		{1 << 20, 1 << 21}, // doubling and the step limit coincide
		{1 << 21, 1<<21 + maxGrowthStep},
		{1 << 30, 1<<30 + maxGrowthStep},
	}
	for _, c := range cases {
		if got := growTarget(c.capacity); got != c.want {
			t.Errorf("growTarget(%d) = %d, want %d", c.capacity, got, c.want)
		}
	}
}

func TestShrinkFloor(t *testing.T) {
	impl := newDeterministic[int](t, 4, nil)
	defer impl.Destroy()

	for i := 0; i < 1000; i++ {
		if _, err := impl.Put(util.Uint64Key(uint64(i)), i); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	grown := impl.capacity
	if grown <= 4 {
		t.Fatalf("Expected the table to grow past 4 buckets, got %d", grown)
	}

	for i := 0; i < 1000; i++ {
		if _, found := impl.Delete(util.Uint64Key(uint64(i))); !found {
			t.Fatalf("Key %d not found on Delete", i)
		}
		if impl.capacity < impl.minCapacity {
			t.Fatalf("Capacity %d fell below the minimum %d", impl.capacity, impl.minCapacity)
		}
	}

	if impl.capacity >= grown {
		t.Errorf("Expected the capacity to shrink from %d, got %d", grown, impl.capacity)
	}
	if err := impl.Verify(); err != nil {
		t.Errorf("Verify failed after shrinking: %v", err)
	}
}

func TestReseedOnResize(t *testing.T) {
	impl := newDeterministic[int](t, 4, nil)
	defer impl.Destroy()

	seedAfterCreate := impl.seed
	if seedAfterCreate == 0 {
		t.Errorf("Expected the creation resize to rotate the seed away from zero")
	}
	if impl.reseeds != 1 {
		t.Errorf("Expected one seed rotation after creation, got %d", impl.reseeds)
	}

	// Force a grow and check the seed moved again.
	for i := 0; i < 100; i++ {
		if _, err := impl.Put(util.Uint64Key(uint64(i)), i); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if impl.seed == seedAfterCreate {
		t.Errorf("Expected the seed to rotate on grow")
	}
	if impl.reseeds < 2 {
		t.Errorf("Expected additional seed rotations after growing, got %d", impl.reseeds)
	}

	// All entries stay reachable under the rotated seed.
	for i := 0; i < 100; i++ {
		if _, exists := impl.Get(util.Uint64Key(uint64(i))); !exists {
			t.Errorf("Key %d lost after reseeding", i)
		}
	}
}

func TestResizeGuards(t *testing.T) {
	impl := newDeterministic[int](t, 8, nil)
	defer impl.Destroy()

	for i := 0; i < 5; i++ {
		if _, err := impl.Put(util.Uint64Key(uint64(i)), i); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	checkRejected := func(name string, newCapacity uint64) {
		before := impl.capacity
		err := impl.resize(newCapacity)
		if err == nil {
			t.Fatalf("Expected resize(%s) to fail", name)
		}
		terr, ok := err.(*table.Error)
		if !ok || terr.Code != table.RetCAllocation {
			t.Errorf("Expected a *table.Error with RetCAllocation for %s, got %v", name, err)
		}
		if impl.capacity != before {
			t.Errorf("A failed resize must not mutate the table, capacity changed %d -> %d", before, impl.capacity)
		}
	}

	checkRejected("zero", 0)
	checkRejected("below count", uint64(impl.count))
	checkRejected("beyond maximum", uint64(maxCapacity)+1)

	// The table is still intact.
	if err := impl.Verify(); err != nil {
		t.Errorf("Verify failed after rejected resizes: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, exists := impl.Get(util.Uint64Key(uint64(i))); !exists {
			t.Errorf("Key %d lost after rejected resizes", i)
		}
	}
}

func TestCreateZeroSize(t *testing.T) {
	tbl, err := New[string](0, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer tbl.Destroy()

	info := tbl.GetInfo()
	if info.MinCapacity != 1 {
		t.Errorf("Expected a default minimum capacity of 1, got %d", info.MinCapacity)
	}
	if info.Capacity != 1 {
		t.Errorf("Expected an initial capacity of 1, got %d", info.Capacity)
	}

	// Even the single bucket table grows correctly.
	for i := 0; i < 10; i++ {
		if _, err := tbl.Put(util.Uint64Key(uint64(i)), "v"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if count := tbl.GetInfo().Count; count != 10 {
		t.Errorf("Expected count 10, got %d", count)
	}
}

// --------------------------------------------------------------------------
// Key ownership
// --------------------------------------------------------------------------

func TestBorrowedKeys(t *testing.T) {
	impl := newDeterministic[int](t, 8, &Options{BorrowKeys: true})
	defer impl.Destroy()

	if !impl.SupportsFeature(table.FeatureBorrowedKeys) {
		t.Fatalf("Expected FeatureBorrowedKeys to be advertised")
	}

	buf := []byte("borrowed-key")
	if _, err := impl.Put(buf, 1); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	cursor := uint64(0)
	key, _, found := impl.Walk(&cursor)
	if !found {
		t.Fatalf("Walk found no entry")
	}

	// The stored key is the caller's slice, a write through the original
	// buffer is visible in the table.
	buf[0] = 'X'
	if key[0] != 'X' {
		t.Errorf("Expected the table to borrow the caller's slice, got a copy")
	}
}

func TestCopiedKeys(t *testing.T) {
	impl := newDeterministic[int](t, 8, nil)
	defer impl.Destroy()

	if impl.SupportsFeature(table.FeatureBorrowedKeys) {
		t.Fatalf("Expected FeatureBorrowedKeys to be off by default")
	}

	buf := []byte("copied-key")
	if _, err := impl.Put(buf, 1); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	cursor := uint64(0)
	key, _, found := impl.Walk(&cursor)
	if !found {
		t.Fatalf("Walk found no entry")
	}

	buf[0] = 'X'
	if key[0] == 'X' {
		t.Errorf("Expected the table to keep its own key copy")
	}
	if !bytes.Equal(key, []byte("copied-key")) {
		t.Errorf("Stored key changed unexpectedly: %q", key)
	}
}

// --------------------------------------------------------------------------
// Walk cursor semantics
// --------------------------------------------------------------------------

func TestWalkCursor(t *testing.T) {
	impl := newDeterministic[int](t, 32, nil)
	defer impl.Destroy()

	for i := 0; i < 10; i++ {
		if _, err := impl.Put(util.Uint64Key(uint64(i)), i); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	// The cursor always points one past the slot of the returned entry
	// and increases strictly monotonically.
	cursor := uint64(0)
	previous := uint64(0)
	seen := 0
	for {
		key, _, found := impl.Walk(&cursor)
		if !found {
			break
		}
		if cursor <= previous {
			t.Fatalf("Cursor did not advance: %d -> %d", previous, cursor)
		}
		if got := impl.buckets[cursor-1].key; !bytes.Equal(got, key) {
			t.Errorf("Cursor %d does not point one past the returned entry", cursor)
		}
		previous = cursor
		seen++
	}
	if seen != 10 {
		t.Errorf("Expected to see 10 entries, got %d", seen)
	}

	// A cursor beyond the capacity terminates the walk immediately.
	cursor = uint64(1) << 40
	if _, _, found := impl.Walk(&cursor); found {
		t.Errorf("Expected a stale out-of-range cursor to end the walk")
	}
}

// --------------------------------------------------------------------------
// Hash strategies and value types
// --------------------------------------------------------------------------

func TestHasherStrategies(t *testing.T) {
	strategies := map[string]hasher.Hasher{
		"sip":  hasher.Sip,
		"xx3":  hasher.XX3,
		"xx64": hasher.XX64,
		"fnv":  hasher.FNV,
	}

	for name, h := range strategies {
		t.Run(name, func(t *testing.T) {
			impl := newDeterministic[uint64](t, 0, &Options{Hasher: h})
			defer impl.Destroy()

			for i := uint64(0); i < 500; i++ {
				if _, err := impl.Put(util.Uint64Key(i), i); err != nil {
					t.Fatalf("Put failed: %v", err)
				}
			}
			for i := uint64(0); i < 500; i++ {
				value, exists := impl.Get(util.Uint64Key(i))
				if !exists || value != i {
					t.Fatalf("Key %d not retrievable with the %s strategy", i, name)
				}
			}
			if err := impl.Verify(); err != nil {
				t.Errorf("Verify failed with the %s strategy: %v", name, err)
			}
		})
	}
}

func TestFastHashOption(t *testing.T) {
	fast := newDeterministic[int](t, 0, &Options{FastHash: true})
	defer fast.Destroy()
	robust := newDeterministic[int](t, 0, nil)
	defer robust.Destroy()

	if fast.hasher == robust.hasher {
		t.Errorf("Expected FastHash to select a different strategy")
	}
}

func TestStructValues(t *testing.T) {
	type session struct {
		User  string
		Hits  int
		Token [16]byte
	}

	impl := newDeterministic[session](t, 0, nil)
	defer impl.Destroy()

	want := session{User: "ada", Hits: 3}
	if _, err := impl.Put([]byte("session-1"), want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, exists := impl.Get([]byte("session-1"))
	if !exists {
		t.Fatalf("Struct value not found")
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	// A miss returns the zero value.
	zero, exists := impl.Get([]byte("session-2"))
	if exists || zero != (session{}) {
		t.Errorf("Expected the zero value on a miss, got %+v", zero)
	}
}
