package smartaccount

// ReadOnlyKVStore gives read access to account state.
type ReadOnlyKVStore interface {
	// Get returns nil if no value is stored under given key.
	Get(key []byte) ([]byte, error)

	Has(key []byte) (bool, error)

	// Iterator walks keys in the [start, end) range in ascending order. A
	// nil start or end leaves the range open on that side. The store must
	// not be modified until the iterator is closed.
	Iterator(start, end []byte) (Iterator, error)
}

// KVStore is the state of a single account. Both durability classes are
// kept in one KVStore, namespaced by key.
type KVStore interface {
	ReadOnlyKVStore

	// Set writes a value. Values must not be nil.
	Set(key, value []byte) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(key []byte) error
}

// Iterator is a cursor over a key range.
//
//	it, err := db.Iterator(start, end)
//	...
//	defer it.Close()
//	for ; it.Valid(); err = it.Next() {
//		...
//	}
type Iterator interface {
	// Valid returns false once the iterator moved past the last key. An
	// invalid iterator never becomes valid again.
	Valid() bool

	// Next moves to the following key. It returns an error if the iterator
	// is not valid.
	Next() error

	// Key and Value of the current position. Both panic if the iterator is
	// not valid. Returned slices must not be modified.
	Key() []byte
	Value() []byte

	Close()
}

// CacheableKVStore can open a scratch layer on top of itself. Every account
// call runs inside of such a layer, so a failed call leaves no state
// behind.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap buffers writes until Write applies them to the store it was
// created from. Reads see buffered writes first. A cache wrap can be
// wrapped again to create nested layers.
type KVCacheWrap interface {
	CacheableKVStore

	// Write applies all buffered changes to the parent and empties the
	// buffer.
	Write() error

	// Discard drops all buffered changes.
	Discard()
}

// CommitKVStore is a durable root store. Changes are made through a cache
// wrap and persisted with Commit, each commit creating a new version.
type CommitKVStore interface {
	// Get returns the value at the last committed version.
	Get(key []byte) ([]byte, error)

	CacheWrap() KVCacheWrap

	Commit() (CommitID, error)

	// LoadLatestVersion loads the last persisted version. After a crash
	// this may be an older version, but it is always a complete one.
	LoadLatestVersion() error

	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
