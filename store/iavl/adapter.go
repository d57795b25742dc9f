package iavl

import (
	"github.com/iov-one/smartaccount/errors"
	"github.com/iov-one/smartaccount/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of nodes the tree keeps in memory.
const DefaultCacheSize = 10000

// CommitStore manages an iavl committed state. Every commit produces a new
// tree version with a merkle root hash.
type CommitStore struct {
	tree *iavl.MutableTree
	db   dbm.DB
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with disk backing. All data is kept in
// a goleveldb database called name inside of the dir directory. The latest
// committed version is loaded.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "cannot open %s/%s: %s", dir, name, err)
	}
	s := newCommitStore(db)
	if err := s.LoadLatestVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// MockCommitStore creates a new in-memory store for testing.
func MockCommitStore() *CommitStore {
	return newCommitStore(dbm.NewMemDB())
}

func newCommitStore(db dbm.DB) *CommitStore {
	return &CommitStore{
		tree: iavl.NewMutableTree(db, DefaultCacheSize),
		db:   db,
	}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit the next version to disk, and returns info
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// Rollback drops all changes written to the working tree since the last
// commit.
func (s *CommitStore) Rollback() {
	s.tree.Rollback()
}

// Close releases the underlying database.
func (s *CommitStore) Close() {
	s.db.Close()
}

// CacheWrap gives us a savepoint to perform actions. Writing it updates the
// working tree, which is persisted by the next Commit.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter returns a store that reads and writes the working tree directly.
func (s *CommitStore) Adapter() store.CacheableKVStore {
	return adapter{tree: s.tree}
}

// adapter exposes the working tree as a KVStore.
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

// Get returns nil iff key doesn't exist.
func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

// Has checks if a key exists.
func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

// Set adds a new value
func (a adapter) Set(key, value []byte) error {
	if value == nil {
		return errors.Wrap(errors.ErrInput, "nil value")
	}
	a.tree.Set(key, value)
	return nil
}

// Delete removes from the tree
func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

// CacheWrap buffers changes of a single call.
func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewCacheWrap(a)
}

// Iterator loads the whole range into memory. Account state is small, so
// there is no need for a lazy iterator.
func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	var res []store.Entry
	a.tree.IterateRange(start, end, true, func(key, value []byte) bool {
		res = append(res, store.Entry{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(res), nil
}
