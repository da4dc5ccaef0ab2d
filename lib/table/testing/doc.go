// Package testing provides standardised tests and benchmarks for
// table implementations that satisfy the table.Map interface.
//
// The package contains:
//   - testing: A comprehensive test suite for validating conformance to the Map interface contract
//   - benchmark: Performance tests for measuring throughput of common table operations
//
// This package is particularly useful for:
//   - Applications that need to select the most appropriate table implementation
//     based on performance characteristics
//   - Developers implementing the Map interface
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() (table.Map[[]byte], error) {
//		return NewMyTable()
//	}
//
//	// Running the standard test suite
//	testing.RunMapTests(t, "MyTable", factory)
//
//	// Running performance benchmarks
//	testing.RunMapBenchmarks(b, "MyTable", factory)
package testing
