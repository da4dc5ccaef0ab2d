package testing

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/rhmap/lib/table"
	"github.com/ValentinKolb/rhmap/lib/table/util"
	"github.com/puzpuzpuz/xsync/v3"
)

// RunMapBenchmarks runs all benchmarks for a table implementation.
//
// The benchmarks reuse their key buffers between operations, so the factory
// must produce tables that copy keys (the default).
func RunMapBenchmarks(b *testing.B, name string, factory Factory) {

	create := func(b *testing.B) table.Map[[]byte] {
		tbl, err := factory()
		if err != nil {
			b.Fatalf("Failed to create table: %v", err)
		}
		return tbl
	}

	b.Run("Put", func(b *testing.B) {
		benchmarkPut(b, create(b))
	})

	b.Run("PutExisting", func(b *testing.B) {
		benchmarkPutExisting(b, create(b))
	})

	b.Run("PutLargeValue", func(b *testing.B) {
		benchmarkPutLargeValue(b, create(b))
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, create(b))
	})

	b.Run("Get(miss)", func(b *testing.B) {
		benchmarkGetMiss(b, create(b))
	})

	b.Run("Delete", func(b *testing.B) {
		benchmarkDelete(b, create(b))
	})

	b.Run("Walk", func(b *testing.B) {
		benchmarkWalk(b, create(b))
	})

	b.Run("MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, create(b))
	})

	b.Run("ParallelTables", func(b *testing.B) {
		benchmarkParallelTables(b, factory)
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Put operation with fresh keys
func benchmarkPut(b *testing.B, tbl table.Map[[]byte]) {

	b.Cleanup(func() {
		tbl.Destroy()
	})

	requireFeature(b, tbl, table.FeaturePut)

	value := []byte("test-value")
	key := make([]byte, 0, 8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key = util.AppendUint64Key(key[:0], uint64(i))
		_, _ = tbl.Put(key, value)
	}
}

// Benchmark for Put operation on keys that are already present
func benchmarkPutExisting(b *testing.B, tbl table.Map[[]byte]) {

	b.Cleanup(func() {
		tbl.Destroy()
	})

	requireFeature(b, tbl, table.FeaturePut)

	// Prepare data
	numKeys := 10000
	for i := 0; i < numKeys; i++ {
		key := []byte(fmt.Sprintf("test-key-%d", i))
		value := []byte(fmt.Sprintf("test-value-%d", i))
		_, _ = tbl.Put(key, value)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := []byte(fmt.Sprintf("test-key-%d", i%numKeys))
		_, _ = tbl.Put(key, nil) // resident value wins, nothing is stored
	}
}

// Benchmark for Put operation with large values
func benchmarkPutLargeValue(b *testing.B, tbl table.Map[[]byte]) {

	b.Cleanup(func() {
		tbl.Destroy()
	})

	requireFeature(b, tbl, table.FeaturePut)

	largeValue := make([]byte, 1*1024*1024) // 1MB, stored by reference
	key := make([]byte, 0, 8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key = util.AppendUint64Key(key[:0], uint64(i))
		_, _ = tbl.Put(key, largeValue)
	}
}

// Benchmark for Get operation on present keys
func benchmarkGet(b *testing.B, tbl table.Map[[]byte]) {

	b.Cleanup(func() {
		tbl.Destroy()
	})

	requireFeature(b, tbl, table.FeaturePut)
	requireFeature(b, tbl, table.FeatureGet)

	// Prepare data
	numKeys := uint64(10000)
	value := []byte("test-value")
	for i := uint64(0); i < numKeys; i++ {
		_, _ = tbl.Put(util.Uint64Key(i), value)
	}

	key := make([]byte, 0, 8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key = util.AppendUint64Key(key[:0], uint64(i)%numKeys)
		tbl.Get(key)
	}
}

// Benchmark for Get operation on absent keys, this measures how quickly a
// probe gives up via the PSL cutoff
func benchmarkGetMiss(b *testing.B, tbl table.Map[[]byte]) {

	b.Cleanup(func() {
		tbl.Destroy()
	})

	requireFeature(b, tbl, table.FeaturePut)
	requireFeature(b, tbl, table.FeatureGet)

	// Prepare data
	numKeys := uint64(10000)
	value := []byte("test-value")
	for i := uint64(0); i < numKeys; i++ {
		_, _ = tbl.Put(util.Uint64Key(i), value)
	}

	key := make([]byte, 0, 8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key = util.AppendUint64Key(key[:0], numKeys+uint64(i))
		tbl.Get(key)
	}
}

// Benchmark for Delete operation
func benchmarkDelete(b *testing.B, tbl table.Map[[]byte]) {

	b.Cleanup(func() {
		tbl.Destroy()
	})

	requireFeature(b, tbl, table.FeaturePut)
	requireFeature(b, tbl, table.FeatureDelete)

	numKeys := 100000
	if b.N < numKeys {
		numKeys = b.N
	}

	// Prepare data
	value := []byte("test-value")
	for i := 0; i < numKeys; i++ {
		_, _ = tbl.Put(util.Uint64Key(uint64(i)), value)
	}

	key := make([]byte, 0, 8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key = util.AppendUint64Key(key[:0], uint64(i%numKeys))
		tbl.Delete(key)
	}
}

// Benchmark for a full Walk pass, one Walk call per iteration
func benchmarkWalk(b *testing.B, tbl table.Map[[]byte]) {

	b.Cleanup(func() {
		tbl.Destroy()
	})

	requireFeature(b, tbl, table.FeaturePut)
	requireFeature(b, tbl, table.FeatureWalk)

	// Prepare data
	numKeys := uint64(10000)
	value := []byte("test-value")
	for i := uint64(0); i < numKeys; i++ {
		_, _ = tbl.Put(util.Uint64Key(i), value)
	}

	cursor := uint64(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, found := tbl.Walk(&cursor); !found {
			cursor = 0
		}
	}
}

// Benchmark for mixed usage patterns
func benchmarkMixedUsage(b *testing.B, tbl table.Map[[]byte]) {

	b.Cleanup(func() {
		tbl.Destroy()
	})

	requireFeature(b, tbl, table.FeaturePut)
	requireFeature(b, tbl, table.FeatureGet)
	requireFeature(b, tbl, table.FeatureDelete)

	// Number of pre-populated keys
	numKeys := 100000
	if b.N < numKeys {
		numKeys = b.N
	}

	// Prepare initial data
	value := []byte("test-value")
	for i := 0; i < numKeys; i++ {
		_, _ = tbl.Put(util.Uint64Key(uint64(i)), value)
	}

	key := make([]byte, 0, 8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// For every 10th operation, use a completely new key
		id := uint64(i % numKeys)
		if i%10 == 0 {
			id = uint64(numKeys + i)
		}
		key = util.AppendUint64Key(key[:0], id)

		// Select operation (get, put, delete, get)
		switch i % 4 {
		case 0, 3:
			tbl.Get(key)
		case 1:
			_, _ = tbl.Put(key, value)
		case 2:
			tbl.Delete(key)
		}
	}
}

// benchmarkParallelTables measures the aggregate throughput of independent
// tables, one private table per goroutine. A single table must not be
// shared, so partitioning into per-goroutine tables is the intended shape
// of a concurrent deployment.
func benchmarkParallelTables(b *testing.B, factory Factory) {

	value := []byte("test-value")
	ops := xsync.NewCounter()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		tbl, err := factory()
		if err != nil {
			b.Errorf("Failed to create table: %v", err)
			return
		}
		defer tbl.Destroy()

		counter := 0
		key := make([]byte, 0, 8)
		for pb.Next() {
			key = util.AppendUint64Key(key[:0], uint64(counter%50000))

			switch counter % 4 {
			case 0, 1:
				tbl.Get(key)
			case 2:
				_, _ = tbl.Put(key, value)
			case 3:
				tbl.Delete(key)
			}

			counter++
			ops.Inc()
		}
	})

	b.ReportMetric(float64(ops.Value())/b.Elapsed().Seconds(), "ops/sec")
}
