package iavl

import (
	"testing"

	"github.com/iov-one/smartaccount/accounttest/assert"
	"github.com/iov-one/smartaccount/store"
)

func TestAdapter(t *testing.T) {
	store.Suite{New: func() (store.CacheableKVStore, func()) {
		commit := MockCommitStore()
		return commit.Adapter(), commit.Close
	}}.Run(t)
}

// TestCommitOverwrite checks that we commit properly
// and can add/overwrite/query in the next version
func TestCommitOverwrite(t *testing.T) {
	commit := MockCommitStore()
	defer commit.Close()

	id, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)

	k1, k2 := []byte("signer"), []byte("count")

	parent := commit.CacheWrap()
	assert.Nil(t, parent.Set(k1, []byte("one")))
	assert.Nil(t, parent.Set(k2, []byte("1")))
	assert.Nil(t, parent.Write())

	// Not yet committed.
	got, err := commit.Get(k1)
	assert.Nil(t, err)
	assert.Nil(t, got)

	id, err = commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("empty hash of a non empty tree")
	}
	firstHash := id.Hash

	got, err = commit.Get(k1)
	assert.Nil(t, err)
	assert.Equal(t, []byte("one"), got)

	child := commit.CacheWrap()
	assert.Nil(t, child.Set(k1, []byte("two")))
	assert.Nil(t, child.Delete(k2))
	assert.Nil(t, child.Write())

	id, err = commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id.Version)
	if string(id.Hash) == string(firstHash) {
		t.Fatal("hash did not change")
	}

	got, err = commit.Get(k1)
	assert.Nil(t, err)
	assert.Equal(t, []byte("two"), got)
	got, err = commit.Get(k2)
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestRollback(t *testing.T) {
	commit := MockCommitStore()
	defer commit.Close()

	kv := commit.Adapter()
	assert.Nil(t, kv.Set([]byte("a"), []byte("A")))
	_, err := commit.Commit()
	assert.Nil(t, err)

	assert.Nil(t, kv.Set([]byte("b"), []byte("B")))
	commit.Rollback()

	has, err := kv.Has([]byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
	has, err = kv.Has([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, true, has)
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()

	commit, err := NewCommitStore(dir, "account")
	assert.Nil(t, err)
	assert.Nil(t, commit.Adapter().Set([]byte("k"), []byte("v")))
	want, err := commit.Commit()
	assert.Nil(t, err)
	commit.Close()

	reopened, err := NewCommitStore(dir, "account")
	assert.Nil(t, err)
	defer reopened.Close()

	got, err := reopened.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, want.Version, got.Version)
	assert.Equal(t, want.Hash, got.Hash)

	val, err := reopened.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), val)
}
