package store

import (
	"testing"

	"github.com/iov-one/smartaccount/accounttest/assert"
	"github.com/iov-one/smartaccount/errors"
)

// Suite checks the behavior every CacheableKVStore implementation must
// provide. It is shared by the in-memory store and the iavl backend.
type Suite struct {
	// New returns an empty store and a function releasing it.
	New func() (CacheableKVStore, func())
}

// Run executes all checks of the suite.
func (s Suite) Run(t *testing.T) {
	t.Run("read write", s.readWrite)
	t.Run("cache layers", s.cacheLayers)
	t.Run("iteration", s.iteration)
}

// change is a write performed in a test. An empty value means delete.
type change struct {
	key   string
	value string
}

func set(key, value string) change { return change{key: key, value: value} }

func del(key string) change { return change{key: key} }

func applyChanges(t testing.TB, db KVStore, changes []change) {
	t.Helper()
	for _, c := range changes {
		if c.value == "" {
			assert.Nil(t, db.Delete([]byte(c.key)))
		} else {
			assert.Nil(t, db.Set([]byte(c.key), []byte(c.value)))
		}
	}
}

// assertContent checks the value of each given key. An empty value means
// the key must be absent.
func assertContent(t testing.TB, db ReadOnlyKVStore, want map[string]string) {
	t.Helper()
	for key, value := range want {
		got, err := db.Get([]byte(key))
		assert.Nil(t, err)
		has, err := db.Has([]byte(key))
		assert.Nil(t, err)
		if value == "" {
			assert.Nil(t, got)
			assert.Equal(t, false, has)
		} else {
			assert.Equal(t, []byte(value), got)
			assert.Equal(t, true, has)
		}
	}
}

func (s Suite) readWrite(t *testing.T) {
	db, cleanup := s.New()
	defer cleanup()

	assertContent(t, db, map[string]string{"signer": ""})
	applyChanges(t, db, []change{set("signer", "alice"), set("admins", "1")})
	assertContent(t, db, map[string]string{"signer": "alice", "admins": "1"})

	applyChanges(t, db, []change{set("signer", "bob"), del("admins"), del("missing")})
	assertContent(t, db, map[string]string{"signer": "bob", "admins": "", "missing": ""})

	if err := db.Set([]byte("signer"), nil); !errors.ErrInput.Is(err) {
		t.Fatalf("want invalid input error, got %+v", err)
	}
}

func (s Suite) cacheLayers(t *testing.T) {
	cases := map[string]struct {
		parent     []change
		child      []change
		wantChild  map[string]string
		wantParent map[string]string
	}{
		"child overrides and hides parent values": {
			parent:     []change{set("a", "1"), set("b", "2")},
			child:      []change{set("a", "11"), set("c", "3"), del("b")},
			wantChild:  map[string]string{"a": "11", "b": "", "c": "3"},
			wantParent: map[string]string{"a": "1", "b": "2", "c": ""},
		},
		"deleted key can be set again": {
			parent:     []change{set("a", "1")},
			child:      []change{del("a"), set("a", "2")},
			wantChild:  map[string]string{"a": "2"},
			wantParent: map[string]string{"a": "1"},
		},
		"set key can be deleted again": {
			child:      []change{set("a", "1"), del("a")},
			wantChild:  map[string]string{"a": ""},
			wantParent: map[string]string{"a": ""},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, cleanup := s.New()
			defer cleanup()
			applyChanges(t, db, tc.parent)

			discarded := db.CacheWrap()
			applyChanges(t, discarded, tc.child)
			assertContent(t, discarded, tc.wantChild)
			discarded.Discard()
			assertContent(t, discarded, tc.wantParent)
			assertContent(t, db, tc.wantParent)

			child := db.CacheWrap()
			applyChanges(t, child, tc.child)
			assertContent(t, db, tc.wantParent)
			assert.Nil(t, child.Write())
			assertContent(t, db, tc.wantChild)
		})
	}

	t.Run("nested layer writes into its parent only", func(t *testing.T) {
		db, cleanup := s.New()
		defer cleanup()
		applyChanges(t, db, []change{set("a", "1")})

		child := db.CacheWrap()
		nested := child.CacheWrap()
		applyChanges(t, nested, []change{set("b", "2"), del("a")})
		assert.Nil(t, nested.Write())

		assertContent(t, child, map[string]string{"a": "", "b": "2"})
		assertContent(t, db, map[string]string{"a": "1", "b": ""})

		assert.Nil(t, child.Write())
		assertContent(t, db, map[string]string{"a": "", "b": "2"})
	})
}

func (s Suite) iteration(t *testing.T) {
	cases := map[string]struct {
		parent     []change
		child      []change
		start, end string
		// want lists expected key=value pairs in iteration order.
		want []string
	}{
		"empty store": {
			want: nil,
		},
		"parent only": {
			parent: []change{set("c", "3"), set("a", "1"), set("b", "2")},
			want:   []string{"a=1", "b=2", "c=3"},
		},
		"child only": {
			child: []change{set("b", "2"), set("a", "1")},
			want:  []string{"a=1", "b=2"},
		},
		"interleaved with a deleted parent key": {
			parent: []change{set("a", "1"), set("c", "3"), set("e", "5")},
			child:  []change{set("b", "2"), set("d", "4"), del("c")},
			want:   []string{"a=1", "b=2", "d=4", "e=5"},
		},
		"child value wins": {
			parent: []change{set("a", "1"), set("b", "2")},
			child:  []change{set("b", "22")},
			want:   []string{"a=1", "b=22"},
		},
		"all parent keys deleted": {
			parent: []change{set("a", "1"), set("b", "2")},
			child:  []change{del("a"), del("b"), del("z")},
			want:   nil,
		},
		"deleted keys at both ends": {
			parent: []change{set("a", "1"), set("b", "2"), set("c", "3")},
			child:  []change{del("a"), del("c")},
			want:   []string{"b=2"},
		},
		"bounded range": {
			parent: []change{set("a", "1"), set("c", "3"), set("e", "5")},
			child:  []change{set("b", "2"), set("d", "4")},
			start:  "b",
			end:    "e",
			want:   []string{"b=2", "c=3", "d=4"},
		},
		"open start": {
			parent: []change{set("a", "1"), set("c", "3")},
			child:  []change{set("b", "2")},
			end:    "c",
			want:   []string{"a=1", "b=2"},
		},
		"open end": {
			parent: []change{set("a", "1"), set("c", "3")},
			child:  []change{set("b", "2")},
			start:  "b",
			want:   []string{"b=2", "c=3"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, cleanup := s.New()
			defer cleanup()
			applyChanges(t, db, tc.parent)
			child := db.CacheWrap()
			applyChanges(t, child, tc.child)

			assert.Equal(t, tc.want, iterate(t, child, tc.start, tc.end))

			// A nested layer without changes sees the same content.
			assert.Equal(t, tc.want, iterate(t, child.CacheWrap(), tc.start, tc.end))
		})
	}
}

// iterate returns all key=value pairs of given range.
func iterate(t testing.TB, db ReadOnlyKVStore, start, end string) []string {
	t.Helper()
	var from, to []byte
	if start != "" {
		from = []byte(start)
	}
	if end != "" {
		to = []byte(end)
	}
	it, err := db.Iterator(from, to)
	assert.Nil(t, err)
	defer it.Close()

	var res []string
	for ; it.Valid(); err = it.Next() {
		assert.Nil(t, err)
		res = append(res, string(it.Key())+"="+string(it.Value()))
	}
	assert.Nil(t, err)

	if err := it.Next(); !errors.ErrDatabase.Is(err) {
		t.Fatalf("want database error when moving past the end, got %+v", err)
	}
	return res
}
