package store

import (
	smartaccount "github.com/iov-one/smartaccount"
)

type (
	ReadOnlyKVStore  = smartaccount.ReadOnlyKVStore
	KVStore          = smartaccount.KVStore
	Iterator         = smartaccount.Iterator
	CacheableKVStore = smartaccount.CacheableKVStore
	KVCacheWrap      = smartaccount.KVCacheWrap
	CommitKVStore    = smartaccount.CommitKVStore
	CommitID         = smartaccount.CommitID
)

// Entry is a single key value pair.
type Entry struct {
	Key   []byte
	Value []byte
}
