package testing

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/rand"
	"testing"

	"github.com/ValentinKolb/rhmap/lib/table"
	"github.com/ValentinKolb/rhmap/lib/table/util"
	"github.com/google/go-cmp/cmp"
)

// Factory is a function that creates a new instance of a table implementation
type Factory func() (table.Map[[]byte], error)

// RunMapTests runs a comprehensive test suite for a table implementation.
func RunMapTests(t *testing.T, name string, factory Factory) {
	create := func(t *testing.T) table.Map[[]byte] {
		tbl, err := factory()
		if err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}
		return tbl
	}

	t.Run(name, func(t *testing.T) {
		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, create(t))
		})

		t.Run("DuplicatePut", func(t *testing.T) {
			testDuplicatePut(t, create(t))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, create(t))
		})

		t.Run("DeleteShift", func(t *testing.T) {
			testDeleteShift(t, create(t))
		})

		t.Run("Walk", func(t *testing.T) {
			testWalk(t, create(t))
		})

		t.Run("Range", func(t *testing.T) {
			testRange(t, create(t))
		})

		t.Run("ManyKeys", func(t *testing.T) {
			testManyKeys(t, create(t))
		})

		t.Run("GrowShrink", func(t *testing.T) {
			testGrowShrink(t, create(t))
		})

		t.Run("CopiedKeys", func(t *testing.T) {
			testCopiedKeys(t, create(t))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, create(t))
		})

		t.Run("ContractViolations", func(t *testing.T) {
			testContractViolations(t, create(t))
		})

		t.Run("GetInfo", func(t *testing.T) {
			testGetInfo(t, create(t))
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, create(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the table supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, tbl table.Map[[]byte], feature table.Feature) {
	if !tbl.SupportsFeature(feature) {
		t.Skip()
	}
}

// expectContractPanic runs fn and fails the test unless fn panics with a
// *table.Error carrying RetCContract
func expectContractPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("Expected %s to panic with a contract violation", name)
			return
		}
		terr, ok := r.(*table.Error)
		if !ok {
			t.Errorf("Expected %s to panic with a *table.Error, got %v", name, r)
			return
		}
		if terr.Code != table.RetCContract {
			t.Errorf("Expected %s to carry RetCContract, got code %d", name, terr.Code)
		}
	}()
	fn()
}

// mustPut inserts a key-value pair and fails the test on any error
func mustPut(t testing.TB, tbl table.Map[[]byte], key, value []byte) []byte {
	t.Helper()
	stored, err := tbl.Put(key, value)
	if err != nil {
		t.Fatalf("Put failed for key %q: %v", key, err)
	}
	return stored
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testPutGet(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureGet)

	testKey := []byte("test")
	testValue := []byte{0x55}

	_, exists := tbl.Get(testKey)
	if exists {
		t.Errorf("Expected key %s to not exist in a fresh table", testKey)
	}

	stored := mustPut(t, tbl, testKey, testValue)
	if !bytes.Equal(stored, testValue) {
		t.Errorf("Expected Put to return the stored value %v, got %v", testValue, stored)
	}

	result, exists := tbl.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Put", testKey)
	}
	if !bytes.Equal(result, testValue) {
		t.Errorf("Expected value %v, got %v", testValue, result)
	}

	removed, found := tbl.Delete(testKey)
	if !found {
		t.Errorf("Expected Delete to find key %s", testKey)
	}
	if !bytes.Equal(removed, testValue) {
		t.Errorf("Expected Delete to return %v, got %v", testValue, removed)
	}

	_, exists = tbl.Get(testKey)
	if exists {
		t.Errorf("Expected key %s to be gone after Delete", testKey)
	}

	_, exists = tbl.Get([]byte("nonexistent-key"))
	if exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}
}

func testDuplicatePut(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureGet)
	requireFeature(t, tbl, table.FeatureDelete)

	key := []byte("duplicate-key")
	value1 := []byte("value-1")
	value2 := []byte("value-2")

	stored := mustPut(t, tbl, key, value1)
	if !bytes.Equal(stored, value1) {
		t.Errorf("Expected first Put to return %s, got %s", value1, stored)
	}

	// A duplicate Put must keep the resident value.
	stored = mustPut(t, tbl, key, value2)
	if !bytes.Equal(stored, value1) {
		t.Errorf("Expected duplicate Put to return the resident value %s, got %s", value1, stored)
	}

	result, _ := tbl.Get(key)
	if !bytes.Equal(result, value1) {
		t.Errorf("Expected Get to return the first value %s after duplicate Put, got %s", value1, result)
	}

	if count := tbl.GetInfo().Count; count != 1 {
		t.Errorf("Expected count 1 after duplicate Put, got %d", count)
	}

	// Replacing a value requires Delete followed by Put.
	tbl.Delete(key)
	stored = mustPut(t, tbl, key, value2)
	if !bytes.Equal(stored, value2) {
		t.Errorf("Expected Put after Delete to store %s, got %s", value2, stored)
	}
}

func testDelete(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureGet)
	requireFeature(t, tbl, table.FeatureDelete)

	key := []byte("delete-me")
	value := []byte("some value")

	mustPut(t, tbl, key, value)

	removed, found := tbl.Delete(key)
	if !found {
		t.Errorf("Expected Delete to find key %s", key)
	}
	if !bytes.Equal(removed, value) {
		t.Errorf("Expected Delete to return %s, got %s", value, removed)
	}

	if _, exists := tbl.Get(key); exists {
		t.Errorf("Expected key %s to not be findable after Delete", key)
	}

	// Deleting again must report the key as absent.
	if _, found := tbl.Delete(key); found {
		t.Errorf("Expected second Delete of key %s to return found=false", key)
	}

	if _, found := tbl.Delete([]byte("never-existed")); found {
		t.Errorf("Expected Delete of an unknown key to return found=false")
	}
}

// testDeleteShift deletes keys one by one and verifies after every single
// deletion that all remaining keys are still retrievable. This exercises
// the probe sequence repair that deletion has to perform.
func testDeleteShift(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureGet)
	requireFeature(t, tbl, table.FeatureDelete)

	rng := rand.New(rand.NewSource(42))
	numKeys := 300

	keys := make([][]byte, numKeys)
	for i := 0; i < numKeys; i++ {
		keys[i] = util.Uint64Key(rng.Uint64() | 1)
		mustPut(t, tbl, keys[i], []byte(fmt.Sprintf("value-%d", i)))
	}

	for i := 0; i < numKeys; i++ {
		if _, found := tbl.Delete(keys[i]); !found {
			t.Fatalf("Key %d not found on Delete", i)
		}

		// Check the remaining keys.
		for j := i + 1; j < numKeys; j++ {
			value, exists := tbl.Get(keys[j])
			if !exists {
				t.Fatalf("Key %d lost after deleting key %d", j, i)
			}
			expected := []byte(fmt.Sprintf("value-%d", j))
			if !bytes.Equal(value, expected) {
				t.Fatalf("Value for key %d corrupted after deleting key %d: expected %s, got %s",
					j, i, expected, value)
			}
		}
	}

	if count := tbl.GetInfo().Count; count != 0 {
		t.Errorf("Expected an empty table after deleting all keys, got count %d", count)
	}
}

func testWalk(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureWalk)

	// A walk over the empty table terminates immediately.
	cursor := uint64(0)
	if _, _, found := tbl.Walk(&cursor); found {
		t.Errorf("Expected Walk on an empty table to return found=false")
	}

	// 17 entries (prime, so they spread) with the value encoding the
	// entry index; the bitmap proves each entry shows up exactly once.
	numKeys := 17
	for i := 0; i < numKeys; i++ {
		mustPut(t, tbl, util.Uint64Key(uint64(i)), []byte{byte(i)})
	}

	bitmap := uint32(0)
	cursor = 0
	for {
		_, value, found := tbl.Walk(&cursor)
		if !found {
			break
		}
		if len(value) != 1 {
			t.Fatalf("Expected 1-byte values, got %v", value)
		}
		if bitmap&(1<<value[0]) != 0 {
			t.Errorf("Entry %d returned twice by Walk", value[0])
		}
		bitmap |= 1 << value[0]
	}

	if bitmap != 0x1ffff {
		t.Errorf("Expected Walk to visit all 17 entries (bitmap 0x1ffff), got %#x", bitmap)
	}

	// A second walk from a fresh cursor sees the same entries.
	got := map[string]byte{}
	cursor = 0
	for {
		key, value, found := tbl.Walk(&cursor)
		if !found {
			break
		}
		got[string(key)] = value[0]
	}

	expected := map[string]byte{}
	for i := 0; i < numKeys; i++ {
		expected[string(util.Uint64Key(uint64(i)))] = byte(i)
	}

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Walk result mismatch (-want +got):\n%s", diff)
	}
}

func testRange(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureRange)

	numKeys := 50
	expected := map[string]string{}
	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("range-key-%d", i)
		value := fmt.Sprintf("range-value-%d", i)
		expected[key] = value
		mustPut(t, tbl, []byte(key), []byte(value))
	}

	got := map[string]string{}
	tbl.Range(func(key []byte, value []byte) bool {
		got[string(key)] = string(value)
		return true
	})

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Range result mismatch (-want +got):\n%s", diff)
	}

	// Returning false stops the iteration.
	visited := 0
	tbl.Range(func(key []byte, value []byte) bool {
		visited++
		return visited < 10
	})
	if visited != 10 {
		t.Errorf("Expected Range to stop after 10 entries, visited %d", visited)
	}
}

// testManyKeys churns a full million integer keys through the table: insert
// all, read all back, then delete all. The volume forces many grow cycles
// on the way up and many shrink cycles on the way down.
func testManyKeys(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureGet)
	requireFeature(t, tbl, table.FeatureDelete)

	numKeys := uint64(1024 * 1024)
	startCapacity := tbl.GetInfo().Capacity

	for i := uint64(0); i < numKeys; i++ {
		key := util.Uint64Key(i)
		stored := mustPut(t, tbl, key, key)
		if !bytes.Equal(stored, key) {
			t.Fatalf("Put returned wrong value for key %d", i)
		}
		if _, exists := tbl.Get(key); !exists {
			t.Fatalf("Key %d not found directly after Put", i)
		}
	}

	if count := tbl.GetInfo().Count; uint64(count) != numKeys {
		t.Errorf("Expected count %d after inserts, got %d", numKeys, count)
	}

	grownCapacity := tbl.GetInfo().Capacity
	if uint64(startCapacity) < numKeys && grownCapacity <= startCapacity {
		t.Errorf("Expected the capacity to grow from %d during inserts, got %d", startCapacity, grownCapacity)
	}

	for i := uint64(0); i < numKeys; i++ {
		key := util.Uint64Key(i)
		value, exists := tbl.Get(key)
		if !exists {
			t.Fatalf("Key %d missing on full read-back", i)
		}
		if !bytes.Equal(value, key) {
			t.Fatalf("Value mismatch for key %d", i)
		}
	}

	for i := uint64(0); i < numKeys; i++ {
		key := util.Uint64Key(i)
		removed, found := tbl.Delete(key)
		if !found {
			t.Fatalf("Key %d not found on Delete", i)
		}
		if !bytes.Equal(removed, key) {
			t.Fatalf("Delete returned wrong value for key %d", i)
		}
		if _, exists := tbl.Get(key); exists {
			t.Fatalf("Key %d still findable after Delete", i)
		}
	}

	if count := tbl.GetInfo().Count; count != 0 {
		t.Errorf("Expected an empty table after deleting all keys, got count %d", count)
	}

	if uint64(startCapacity) < numKeys && tbl.SupportsFeature(table.FeatureShrink) {
		finalInfo := tbl.GetInfo()
		if finalInfo.Capacity >= grownCapacity {
			t.Errorf("Expected the capacity to shrink from %d after deleting all keys, got %d", grownCapacity, finalInfo.Capacity)
		}
		if finalInfo.Capacity < finalInfo.MinCapacity {
			t.Errorf("Capacity %d fell below the minimum %d", finalInfo.Capacity, finalInfo.MinCapacity)
		}
	}
}

func testGrowShrink(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureDelete)
	requireFeature(t, tbl, table.FeatureShrink)
	requireFeature(t, tbl, table.FeatureVerify)

	startInfo := tbl.GetInfo()

	numKeys := uint64(10_000)
	if uint64(startInfo.Capacity) >= numKeys {
		t.Skipf("factory pre-allocates %d buckets, nothing to grow", startInfo.Capacity)
	}

	for i := uint64(0); i < numKeys; i++ {
		mustPut(t, tbl, util.Uint64Key(i), []byte("x"))
	}

	grownInfo := tbl.GetInfo()
	if grownInfo.Capacity <= startInfo.Capacity {
		t.Errorf("Expected the capacity to grow from %d, got %d", startInfo.Capacity, grownInfo.Capacity)
	}
	if grownInfo.Capacity <= grownInfo.Count {
		t.Errorf("Expected capacity %d to exceed count %d", grownInfo.Capacity, grownInfo.Count)
	}
	if err := tbl.Verify(); err != nil {
		t.Errorf("Verify failed after growing: %v", err)
	}

	// Delete most entries, the table has to give memory back.
	for i := uint64(0); i < numKeys-100; i++ {
		if _, found := tbl.Delete(util.Uint64Key(i)); !found {
			t.Fatalf("Key %d not found on Delete", i)
		}
	}

	shrunkInfo := tbl.GetInfo()
	if shrunkInfo.Capacity >= grownInfo.Capacity {
		t.Errorf("Expected the capacity to shrink from %d, got %d", grownInfo.Capacity, shrunkInfo.Capacity)
	}
	if shrunkInfo.Capacity < shrunkInfo.MinCapacity {
		t.Errorf("Capacity %d fell below the minimum %d", shrunkInfo.Capacity, shrunkInfo.MinCapacity)
	}
	if err := tbl.Verify(); err != nil {
		t.Errorf("Verify failed after shrinking: %v", err)
	}

	// The remaining entries survived the resizes.
	for i := numKeys - 100; i < numKeys; i++ {
		if _, exists := tbl.Get(util.Uint64Key(i)); !exists {
			t.Errorf("Key %d lost across resizes", i)
		}
	}
}

func testCopiedKeys(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureGet)

	if tbl.SupportsFeature(table.FeatureBorrowedKeys) {
		// Borrowed keys are owned by the caller, nothing to check here.
		t.Skip()
	}

	buf := []byte("mutable-key")
	mustPut(t, tbl, buf, []byte("value"))

	// Clobber the caller buffer. With copied keys the table is unaffected.
	for i := range buf {
		buf[i] = 'X'
	}

	if _, exists := tbl.Get([]byte("mutable-key")); !exists {
		t.Errorf("Expected the table to keep its own key copy, lookup failed after buffer reuse")
	}
	if _, exists := tbl.Get(buf); exists {
		t.Errorf("Expected the clobbered buffer to not match any key")
	}
}

func testEdgeCases(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureGet)

	// Values may be nil, only keys are constrained.
	nilValueKey := []byte("nil-value-key")
	mustPut(t, tbl, nilValueKey, nil)

	result, exists := tbl.Get(nilValueKey)
	if !exists {
		t.Errorf("Key for nil value not found after Put")
	} else if len(result) != 0 {
		t.Errorf("Nil value resulted in non-empty value: %v", result)
	}

	// The shortest legal key is a single byte.
	shortKey := []byte{0x01}
	mustPut(t, tbl, shortKey, []byte("value for short key"))
	if _, exists := tbl.Get(shortKey); !exists {
		t.Errorf("Single byte key not found after Put")
	}

	// The longest legal key.
	maxKey := bytes.Repeat([]byte{0xab}, table.MaxKeyLen)
	maxKeyValue := []byte("value for max key")
	mustPut(t, tbl, maxKey, maxKeyValue)

	result, exists = tbl.Get(maxKey)
	if !exists {
		t.Errorf("Max length key not found after Put")
	} else if !bytes.Equal(result, maxKeyValue) {
		t.Errorf("Value mismatch for max length key")
	}
	if removed, found := tbl.Delete(maxKey); !found || !bytes.Equal(removed, maxKeyValue) {
		t.Errorf("Delete failed for max length key")
	}

	// A moderately large value round trips unchanged.
	largeValueKey := []byte("large-value-key")
	largeValue := make([]byte, 1024*1024)
	for i := range largeValue {
		largeValue[i] = byte(i % 256)
	}
	mustPut(t, tbl, largeValueKey, largeValue)

	result, exists = tbl.Get(largeValueKey)
	if !exists {
		t.Errorf("Key for large value not found after Put")
	} else if !bytes.Equal(result, largeValue) {
		t.Errorf("Large value mismatch")
	}

	// Binary keys with zero bytes are legal.
	binaryKey := []byte{0x00, 0xff, 0x00, 0xff}
	mustPut(t, tbl, binaryKey, []byte("binary"))
	if _, exists := tbl.Get(binaryKey); !exists {
		t.Errorf("Binary key with zero bytes not found after Put")
	}
}

func testContractViolations(t *testing.T, tbl table.Map[[]byte]) {
	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureGet)

	expectContractPanic(t, "Get(nil)", func() {
		tbl.Get(nil)
	})
	expectContractPanic(t, "Get(empty)", func() {
		tbl.Get([]byte{})
	})
	expectContractPanic(t, "Put(nil)", func() {
		_, _ = tbl.Put(nil, []byte("value"))
	})
	expectContractPanic(t, "Delete(empty)", func() {
		tbl.Delete([]byte{})
	})

	oversized := make([]byte, table.MaxKeyLen+1)
	expectContractPanic(t, "Put(oversized)", func() {
		_, _ = tbl.Put(oversized, []byte("value"))
	})

	// The table still works after rejecting bad keys.
	mustPut(t, tbl, []byte("still-alive"), []byte("yes"))
	if _, exists := tbl.Get([]byte("still-alive")); !exists {
		t.Errorf("Expected the table to stay usable after contract panics")
	}

	tbl.Destroy()
	expectContractPanic(t, "Get after Destroy", func() {
		tbl.Get([]byte("still-alive"))
	})
	expectContractPanic(t, "second Destroy", func() {
		tbl.Destroy()
	})
}

func testGetInfo(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)

	info := tbl.GetInfo()
	if info.TableType == "" {
		t.Errorf("Expected a non-empty table type")
	}
	if len(info.SupportedFeatures) == 0 {
		t.Errorf("Expected at least one supported feature")
	}
	if info.MinCapacity < 1 {
		t.Errorf("Expected a minimum capacity of at least 1, got %d", info.MinCapacity)
	}
	if info.Count != 0 {
		t.Errorf("Expected a fresh table to be empty, got count %d", info.Count)
	}

	for i := 0; i < 100; i++ {
		mustPut(t, tbl, util.Uint64Key(uint64(i)), []byte("x"))
	}

	info = tbl.GetInfo()
	if info.Count != 100 {
		t.Errorf("Expected count 100, got %d", info.Count)
	}
	if info.Capacity < info.Count {
		t.Errorf("Expected capacity %d to be at least the count %d", info.Capacity, info.Count)
	}
	if info.LoadFactor <= 0 || info.LoadFactor > 1 {
		t.Errorf("Expected a load factor in (0, 1], got %f", info.LoadFactor)
	}
}

// testRealisticUsage drives a random mix of puts, gets and deletes over a
// fixed pool of key slots and checks every result against the expected
// state. Values encode their key (first key byte XOR 0x55), so any probe
// sequence mixup surfaces as a value mismatch.
func testRealisticUsage(t *testing.T, tbl table.Map[[]byte]) {
	defer tbl.Destroy()

	requireFeature(t, tbl, table.FeaturePut)
	requireFeature(t, tbl, table.FeatureGet)
	requireFeature(t, tbl, table.FeatureDelete)

	magicValue := func(key []byte) []byte {
		return []byte{key[0] ^ 0x55}
	}

	rng := rand.New(rand.NewSource(99))
	numSlots := 300
	numOperations := 1_000_000

	keys := make([][]byte, numSlots)

	for n := 0; n < numOperations; n++ {
		i := rng.Intn(numSlots)

		switch rng.Intn(3) {
		case 0:
			// Create a random key for a free slot. The slot index is
			// appended so keys of different slots can never collide.
			if keys[i] == nil {
				key := make([]byte, rng.Intn(32)+4)
				rng.Read(key[:len(key)-4])
				binary.LittleEndian.PutUint32(key[len(key)-4:], uint32(i))
				keys[i] = key

				stored := mustPut(t, tbl, key, magicValue(key))
				if !bytes.Equal(stored, magicValue(key)) {
					t.Fatalf("Put returned unexpected value at op %d", n)
				}
			}
		case 1:
			// Lookup a key.
			if keys[i] != nil {
				value, exists := tbl.Get(keys[i])
				if !exists {
					t.Fatalf("Key in slot %d vanished at op %d", i, n)
				}
				if !bytes.Equal(value, magicValue(keys[i])) {
					t.Fatalf("Value mismatch in slot %d at op %d", i, n)
				}
			}
		case 2:
			// Delete a key.
			if keys[i] != nil {
				removed, found := tbl.Delete(keys[i])
				if !found {
					t.Fatalf("Key in slot %d not found for Delete at op %d", i, n)
				}
				if !bytes.Equal(removed, magicValue(keys[i])) {
					t.Fatalf("Delete returned wrong value in slot %d at op %d", i, n)
				}
				keys[i] = nil
			}
		}
	}

	// Drain the surviving keys.
	for i, key := range keys {
		if key == nil {
			continue
		}
		removed, found := tbl.Delete(key)
		if !found {
			t.Errorf("Key in slot %d missing during cleanup", i)
			continue
		}
		if !bytes.Equal(removed, magicValue(key)) {
			t.Errorf("Cleanup value mismatch in slot %d", i)
		}
	}

	if count := tbl.GetInfo().Count; count != 0 {
		t.Errorf("Expected an empty table after cleanup, got count %d", count)
	}
}
