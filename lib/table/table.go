package table

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplSherwood Implementation = "sherwood"
)

// MaxKeyLen is the largest key length (in bytes) any implementation has to
// accept. Keys must be at least one byte long.
const MaxKeyLen = 1<<16 - 1

// Feature represents table features as bit flags
type Feature uint64

const (
	FeaturePut          Feature = 1 << iota // Support for Put operations
	FeatureGet                              // Support for Get operations
	FeatureDelete                           // Support for Delete operations
	FeatureWalk                             // Support for Walk operations
	FeatureRange                            // Support for Range operations
	FeatureVerify                           // Support for Verify operations
	FeatureShrink                           // Table releases memory after deletions
	FeatureBorrowedKeys                     // Table stores caller-owned keys without copying
)

func (f Feature) String() string {
	switch f {
	case FeaturePut:
		return "Put"
	case FeatureGet:
		return "Get"
	case FeatureDelete:
		return "Delete"
	case FeatureWalk:
		return "Walk"
	case FeatureRange:
		return "Range"
	case FeatureVerify:
		return "Verify"
	case FeatureShrink:
		return "Shrink"
	case FeatureBorrowedKeys:
		return "BorrowedKeys"
	default:
		return "Unknown"
	}
}

type TableInfo struct {
	Capacity          uint32         `json:"capacity"`
	Count             uint32         `json:"count"`
	MinCapacity       uint32         `json:"min_capacity"`
	LoadFactor        float64        `json:"load_factor"`
	TableType         Implementation `json:"table_type"`
	SupportedFeatures []Feature      `json:"supported_features"`
	Metadata          interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Table Interface
// --------------------------------------------------------------------------

// Map defines an interface for associative container implementations with
// byte slice keys and values of an arbitrary type V.
// It provides methods for basic operations like Put, Get, Delete, and various utility functions.
// Any implementation of this interface must manage keys in a consistent way.
// Implementations can vary in their feature support, which can be queried with SupportsFeature.
//
// Keys must be between 1 and MaxKeyLen bytes long. Passing a nil, empty or
// oversized key to any operation is a contract violation and panics with a
// *Error carrying RetCContract. The same applies to using a table after
// Destroy has been called.
//
// Thread-safety: implementations are NOT required to be safe for concurrent
// use. Callers that share a table across goroutines must serialize access
// externally.
type Map[V any] interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Put inserts an entry with the given key and value.
	// If the key is already present, the table is NOT modified and the
	// resident value is returned; otherwise the given value is stored and
	// returned. The error is non-nil only if the table needed to grow and
	// could not (RetCAllocation), in which case nothing was inserted.
	Put(key []byte, value V) (stored V, err error)

	// Delete removes the entry with the specified key.
	// The removed value is returned together with a boolean indicating
	// whether the key was present. The key should not be findable anymore
	// after this method returns true.
	Delete(key []byte) (removed V, found bool)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for an exact key.
	// The boolean return value indicates whether a value for the key was found.
	Get(key []byte) (value V, found bool)

	// Walk iterates over the table in unspecified order, one entry per call.
	// Start a walk by passing a cursor holding zero; each call returns one
	// entry and advances the cursor. When no entries remain, found is false.
	// Mutating the table between calls invalidates the cursor and the walk
	// must be restarted.
	Walk(cursor *uint64) (key []byte, value V, found bool)

	// Range calls fn for every entry in the table in unspecified order until
	// fn returns false. The table must not be mutated from within fn.
	Range(fn func(key []byte, value V) bool)

	// --------------------------------------------------------------------------
	// Integrity Operations
	// --------------------------------------------------------------------------

	// Verify checks the internal invariants of the table and returns a
	// *Error carrying RetCContract describing the first violation found,
	// or nil if the table is consistent. Intended for tests and debugging;
	// it scans the whole table.
	Verify() (err error)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the table implementation supports the specified feature.
	// Returns true if the feature is supported, false otherwise.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the table.
	GetInfo() (info TableInfo)

	// --------------------------------------------------------------------------
	// Lifecycle Operations
	// --------------------------------------------------------------------------

	// Destroy releases the table. Any use of the table after Destroy is a
	// contract violation.
	Destroy()
}
