package store

import (
	"context"
	"testing"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/accounttest/assert"
	"github.com/iov-one/smartaccount/errors"
	amino "github.com/tendermint/go-amino"
)

func TestStorageContract(t *testing.T) {
	db := MemStore()
	cdc := amino.NewCodec()
	em := smartaccount.NewEventManager()
	ctx := smartaccount.WithEventManager(context.Background(), em)

	persistent := NewStorage(Persistent, db, cdc)
	instance := NewStorage(Instance, db, cdc)
	key := []byte("counter")

	// Nothing stored yet.
	var n uint32
	ok, err := persistent.Get(key, &n)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
	assert.IsErr(t, errors.ErrNotFound, persistent.Update(ctx, key, uint32(2)))
	assert.IsErr(t, errors.ErrNotFound, persistent.Delete(ctx, key))

	assert.Nil(t, persistent.Store(ctx, key, uint32(1)))
	assert.IsErr(t, errors.ErrDuplicate, persistent.Store(ctx, key, uint32(5)))

	ok, err = persistent.Get(key, &n)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint32(1), n)

	// Classes do not share keys.
	has, err := instance.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, false, has)
	assert.Nil(t, instance.Store(ctx, key, "instance value"))

	assert.Nil(t, persistent.Update(ctx, key, uint32(7)))
	_, err = persistent.Get(key, &n)
	assert.Nil(t, err)
	assert.Equal(t, uint32(7), n)

	assert.Nil(t, persistent.Delete(ctx, key))
	has, err = persistent.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	var s string
	ok, err = instance.Get(key, &s)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, "instance value", s)

	// Only successful mutations are reported.
	events := em.Events()
	want := []struct{ typ, class string }{
		{"storage/store", "persistent"},
		{"storage/store", "instance"},
		{"storage/update", "persistent"},
		{"storage/delete", "persistent"},
	}
	if len(events) != len(want) {
		t.Fatalf("want %d events, got %d: %+v", len(want), len(events), events)
	}
	for i, w := range want {
		assert.Equal(t, w.typ, events[i].Type)
		class, _ := events[i].Attr("class")
		assert.Equal(t, w.class, class)
	}
}

func TestStorageSet(t *testing.T) {
	db := MemStore()
	em := smartaccount.NewEventManager()
	ctx := smartaccount.WithEventManager(context.Background(), em)
	st := NewStorage(Instance, db, amino.NewCodec())

	assert.Nil(t, st.Set(ctx, []byte("flag"), true))
	assert.Nil(t, st.Set(ctx, []byte("flag"), false))

	events := em.Events()
	assert.Equal(t, 2, len(events))
	assert.Equal(t, "storage/store", events[0].Type)
	assert.Equal(t, "storage/update", events[1].Type)
}

func TestStorageIterate(t *testing.T) {
	db := MemStore()
	ctx := context.Background()
	st := NewStorage(Persistent, db, amino.NewCodec())
	other := NewStorage(Instance, db, amino.NewCodec())

	assert.Nil(t, st.Store(ctx, []byte("sig:b"), "B"))
	assert.Nil(t, st.Store(ctx, []byte("sig:a"), "A"))
	assert.Nil(t, st.Store(ctx, []byte("cnt"), "ignored"))
	assert.Nil(t, other.Store(ctx, []byte("sig:c"), "ignored"))

	var keys, values []string
	err := st.Iterate([]byte("sig:"), func(key, raw []byte) error {
		var v string
		if err := st.Decode(raw, &v); err != nil {
			return err
		}
		keys = append(keys, string(key))
		values = append(values, v)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"sig:a", "sig:b"}, keys)
	assert.Equal(t, []string{"A", "B"}, values)

	stop := errors.ErrHuman.New("stop")
	err = st.Iterate([]byte("sig:"), func(key, raw []byte) error { return stop })
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestStorageRollbackWithCacheWrap(t *testing.T) {
	db := MemStore()
	ctx := context.Background()
	cdc := amino.NewCodec()

	cache := db.CacheWrap()
	assert.Nil(t, NewStorage(Persistent, cache, cdc).Store(ctx, []byte("k"), "v"))
	cache.Discard()

	has, err := NewStorage(Persistent, db, cdc).Has([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}

func TestStorageUnknownClass(t *testing.T) {
	assert.Panics(t, func() { NewStorage(Durability(0), MemStore(), amino.NewCodec()) })
	assert.Panics(t, func() { NewStorage(Persistent+1, MemStore(), amino.NewCodec()) })
}

func TestPrefixEnd(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		want   []byte
	}{
		"simple":       {prefix: []byte("abc"), want: []byte("abd")},
		"carry":        {prefix: []byte{1, 0xff}, want: []byte{2}},
		"all max":      {prefix: []byte{0xff, 0xff}, want: nil},
		"empty prefix": {prefix: []byte{}, want: nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, prefixEnd(tc.prefix))
		})
	}
}
