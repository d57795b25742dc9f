package store

import (
	"context"
	"encoding/hex"
	"fmt"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
	amino "github.com/tendermint/go-amino"
)

// Durability declares how long a value is kept.
type Durability uint8

const (
	// Instance values live together with the account instance and are
	// reset when the account code is replaced by a fresh deployment.
	Instance Durability = iota + 1
	// Persistent values survive indefinitely.
	Persistent
)

func (d Durability) String() string {
	switch d {
	case Instance:
		return "instance"
	case Persistent:
		return "persistent"
	default:
		return "unknown"
	}
}

func (d Durability) prefix() []byte {
	switch d {
	case Instance:
		return []byte("inst:")
	case Persistent:
		return []byte("pers:")
	default:
		return nil
	}
}

// valueVersion prefixes every stored value. It also ensures that no stored
// value is empty, which some backends cannot tell apart from a missing one.
const valueVersion byte = 1

// Kinds of mutating operations reported by events.
const (
	OpStore  = "store"
	OpUpdate = "update"
	OpDelete = "delete"
)

// EventType returns the type of an event emitted for a storage operation.
func EventType(op string) string {
	return "storage/" + op
}

// Storage gives access to values of a single durability class. Keys are
// namespaced per class so that both classes can share one KVStore.
//
// Values are serialized using the amino codec. All concrete types of
// interface values must be registered with the codec.
type Storage struct {
	class Durability
	db    KVStore
	codec *amino.Codec
}

// NewStorage returns a storage of given class.
func NewStorage(class Durability, db KVStore, codec *amino.Codec) Storage {
	if class.prefix() == nil {
		panic(fmt.Sprintf("unknown durability class %d", class))
	}
	return Storage{class: class, db: db, codec: codec}
}

// Class returns the durability class of this storage.
func (s Storage) Class() Durability {
	return s.class
}

func (s Storage) dbKey(key []byte) []byte {
	p := s.class.prefix()
	out := make([]byte, 0, len(p)+len(key))
	return append(append(out, p...), key...)
}

// Has returns true if a value is stored under given key.
func (s Storage) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(s.dbKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Get loads a value into dest. It returns false if no value is stored
// under given key, in which case dest is not modified.
func (s Storage) Get(key []byte, dest interface{}) (bool, error) {
	raw, err := s.db.Get(s.dbKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return false, nil
	}
	if err := s.Decode(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Store creates a new value. It fails with ErrDuplicate if a value is
// already stored under given key.
func (s Storage) Store(ctx context.Context, key []byte, value interface{}) error {
	if ok, err := s.Has(key); err != nil {
		return err
	} else if ok {
		return errors.Wrapf(errors.ErrDuplicate, "%s key %X", s.class, key)
	}
	return s.write(ctx, OpStore, key, value)
}

// Update overwrites an existing value. It fails with ErrNotFound if no
// value is stored under given key.
func (s Storage) Update(ctx context.Context, key []byte, value interface{}) error {
	if ok, err := s.Has(key); err != nil {
		return err
	} else if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s key %X", s.class, key)
	}
	return s.write(ctx, OpUpdate, key, value)
}

// Set writes a value regardless of whether it exists. The emitted event
// reports the operation that was actually performed.
func (s Storage) Set(ctx context.Context, key []byte, value interface{}) error {
	ok, err := s.Has(key)
	if err != nil {
		return err
	}
	if ok {
		return s.write(ctx, OpUpdate, key, value)
	}
	return s.write(ctx, OpStore, key, value)
}

// Delete removes a value. It fails with ErrNotFound if no value is stored
// under given key.
func (s Storage) Delete(ctx context.Context, key []byte) error {
	if ok, err := s.Has(key); err != nil {
		return err
	} else if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s key %X", s.class, key)
	}
	if err := s.db.Delete(s.dbKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.emit(ctx, OpDelete, key)
	return nil
}

func (s Storage) write(ctx context.Context, op string, key []byte, value interface{}) error {
	bz, err := s.codec.MarshalBinaryBare(value)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot encode %T: %s", value, err)
	}
	raw := append([]byte{valueVersion}, bz...)
	if err := s.db.Set(s.dbKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.emit(ctx, op, key)
	return nil
}

func (s Storage) emit(ctx context.Context, op string, key []byte) {
	smartaccount.EmitEvent(ctx, smartaccount.NewEvent(EventType(op),
		"class", s.class,
		"op", op,
		"key", hex.EncodeToString(key),
	))
}

// Iterate calls fn for every value stored under a key starting with given
// prefix, in ascending key order. The key passed to fn does not contain the
// class namespace. Iteration stops at the first error.
func (s Storage) Iterate(prefix []byte, fn func(key, raw []byte) error) error {
	start := s.dbKey(prefix)
	it, err := s.db.Iterator(start, prefixEnd(start))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Close()

	skip := len(s.class.prefix())
	for ; it.Valid(); err = it.Next() {
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if err := fn(it.Key()[skip:], it.Value()); err != nil {
			return err
		}
	}
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Decode unmarshals a raw value as returned by Iterate.
func (s Storage) Decode(raw []byte, dest interface{}) error {
	if len(raw) == 0 || raw[0] != valueVersion {
		return errors.Wrapf(errors.ErrModel, "cannot decode %T: unknown value version", dest)
	}
	if err := s.codec.UnmarshalBinaryBare(raw[1:], dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot decode %T: %s", dest, err)
	}
	return nil
}

// prefixEnd returns the smallest key that is greater than all keys with
// given prefix, or nil if no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
