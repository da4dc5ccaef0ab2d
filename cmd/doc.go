// Package cmd implements the command-line interface for the rhmap hash
// table toolkit. It provides a hierarchical command structure with operations
// for loading, inspecting and benchmarking tables.
//
// The package is organized into several subpackages:
//
//   - table: Commands for table operations (load, walk, verify, info, shell, perf)
//   - hash: Commands for hash strategy utilities (digest, check)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See rhmap -help for a list of all commands.
package cmd
