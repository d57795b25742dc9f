package signer

import (
	"context"

	"github.com/iov-one/smartaccount/errors"
	"github.com/iov-one/smartaccount/store"
	amino "github.com/tendermint/go-amino"
)

var bucketPrefix = []byte("sig/")

// Bucket keeps signers in the persistent storage, indexed by their key.
type Bucket struct {
	st store.Storage
}

// NewBucket returns a bucket over given store. The codec must have signer
// types registered.
func NewBucket(db store.KVStore, cdc *amino.Codec) Bucket {
	return Bucket{st: store.NewStorage(store.Persistent, db, cdc)}
}

func dbKey(k Key) []byte {
	return append(append([]byte{}, bucketPrefix...), k.StoreKey()...)
}

// Get returns the signer registered under given key or ErrSignerNotFound.
func (b Bucket) Get(k Key) (*Signer, error) {
	var s Signer
	ok, err := b.st.Get(dbKey(k), &s)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load signer")
	}
	if !ok {
		return nil, errors.Wrapf(ErrSignerNotFound, "signer %s", k)
	}
	return &s, nil
}

func (b Bucket) Has(k Key) (bool, error) {
	return b.st.Has(dbKey(k))
}

// Create stores a new signer. It fails with ErrSignerAlreadyExists if a
// signer with the same key is registered.
func (b Bucket) Create(ctx context.Context, s Signer) error {
	err := b.st.Store(ctx, dbKey(s.Key()), s)
	if errors.ErrDuplicate.Is(err) {
		return errors.Wrapf(ErrSignerAlreadyExists, "signer %s", s.Key())
	}
	return err
}

// Replace overwrites a registered signer. It fails with ErrSignerNotFound
// if the signer does not exist.
func (b Bucket) Replace(ctx context.Context, s Signer) error {
	err := b.st.Update(ctx, dbKey(s.Key()), s)
	if errors.ErrNotFound.Is(err) {
		return errors.Wrapf(ErrSignerNotFound, "signer %s", s.Key())
	}
	return err
}

// Delete removes a registered signer. It fails with ErrSignerNotFound if
// the signer does not exist.
func (b Bucket) Delete(ctx context.Context, k Key) error {
	err := b.st.Delete(ctx, dbKey(k))
	if errors.ErrNotFound.Is(err) {
		return errors.Wrapf(ErrSignerNotFound, "signer %s", k)
	}
	return err
}

// All returns every registered signer ordered by key.
func (b Bucket) All() ([]Signer, error) {
	var all []Signer
	err := b.st.Iterate(bucketPrefix, func(key, raw []byte) error {
		var s Signer
		if err := b.st.Decode(raw, &s); err != nil {
			return err
		}
		all = append(all, s)
		return nil
	})
	return all, err
}
