package store

import (
	"github.com/iov-one/smartaccount/errors"
)

// MemStore returns an empty in-memory store. It is used by tests and by
// accounts that do not need to survive a restart.
func MemStore() CacheableKVStore {
	return &memStore{data: newTree()}
}

type memStore struct {
	data tree
}

var _ CacheableKVStore = (*memStore)(nil)

func (m *memStore) Get(key []byte) ([]byte, error) {
	if it, ok := m.data.get(key); ok {
		return it.value, nil
	}
	return nil, nil
}

func (m *memStore) Has(key []byte) (bool, error) {
	_, ok := m.data.get(key)
	return ok, nil
}

func (m *memStore) Set(key, value []byte) error {
	if value == nil {
		return errors.Wrap(errors.ErrInput, "nil value")
	}
	m.data.put(item{key: key, value: value})
	return nil
}

func (m *memStore) Delete(key []byte) error {
	m.data.remove(key)
	return nil
}

func (m *memStore) Iterator(start, end []byte) (Iterator, error) {
	items := m.data.slice(start, end)
	entries := make([]Entry, len(items))
	for i, it := range items {
		entries[i] = Entry{Key: it.key, Value: it.value}
	}
	return NewSliceIterator(entries), nil
}

func (m *memStore) CacheWrap() KVCacheWrap {
	return NewCacheWrap(m)
}

// CacheWrap buffers changes in a btree until they are written to the
// parent store.
type CacheWrap struct {
	parent  KVStore
	changes tree
}

var _ KVCacheWrap = (*CacheWrap)(nil)

// NewCacheWrap returns an empty cache layer on top of given store.
func NewCacheWrap(parent KVStore) *CacheWrap {
	return &CacheWrap{parent: parent, changes: newTree()}
}

func (c *CacheWrap) Get(key []byte) ([]byte, error) {
	if it, ok := c.changes.get(key); ok {
		if it.removed {
			return nil, nil
		}
		return it.value, nil
	}
	return c.parent.Get(key)
}

func (c *CacheWrap) Has(key []byte) (bool, error) {
	if it, ok := c.changes.get(key); ok {
		return !it.removed, nil
	}
	return c.parent.Has(key)
}

func (c *CacheWrap) Set(key, value []byte) error {
	if value == nil {
		return errors.Wrap(errors.ErrInput, "nil value")
	}
	c.changes.put(item{key: key, value: value})
	return nil
}

func (c *CacheWrap) Delete(key []byte) error {
	c.changes.put(item{key: key, removed: true})
	return nil
}

// Iterator merges buffered changes with the parent content.
func (c *CacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	it := &mergeIterator{parent: parent, local: c.changes.slice(start, end)}
	if err := it.settle(); err != nil {
		parent.Close()
		return nil, err
	}
	return it, nil
}

func (c *CacheWrap) CacheWrap() KVCacheWrap {
	return NewCacheWrap(c)
}

// Write applies all changes to the parent in key order. The buffer is
// emptied even if the parent fails, in which case the parent may hold a
// part of the changes.
func (c *CacheWrap) Write() error {
	defer c.Discard()
	for _, it := range c.changes.slice(nil, nil) {
		var err error
		if it.removed {
			err = c.parent.Delete(it.key)
		} else {
			err = c.parent.Set(it.key, it.value)
		}
		if err != nil {
			return errors.Wrapf(err, "write %X", it.key)
		}
	}
	return nil
}

func (c *CacheWrap) Discard() {
	c.changes = newTree()
}
