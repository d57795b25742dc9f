package account

import (
	"context"
	"math"

	"github.com/iov-one/smartaccount/errors"
	"github.com/iov-one/smartaccount/store"
	amino "github.com/tendermint/go-amino"
)

var (
	initializedKey = []byte("initialized")
	adminCountKey  = []byte("admin_cnt")
)

// state gives access to account wide values.
type state struct {
	instance   store.Storage
	persistent store.Storage
}

func newState(db store.KVStore, cdc *amino.Codec) state {
	return state{
		instance:   store.NewStorage(store.Instance, db, cdc),
		persistent: store.NewStorage(store.Persistent, db, cdc),
	}
}

func (s state) isInitialized() (bool, error) {
	return s.instance.Has(initializedKey)
}

func (s state) markInitialized(ctx context.Context) error {
	err := s.instance.Store(ctx, initializedKey, true)
	if errors.ErrDuplicate.Is(err) {
		return errors.Wrap(ErrAlreadyInitialized, "initialized flag present")
	}
	return err
}

func (s state) initAdminCount(ctx context.Context) error {
	return s.persistent.Store(ctx, adminCountKey, uint32(0))
}

func (s state) adminCount() (uint32, error) {
	var n uint32
	ok, err := s.persistent.Get(adminCountKey, &n)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.Wrap(ErrNotInitialized, "no admin count")
	}
	return n, nil
}

func (s state) incrementAdmins(ctx context.Context) error {
	n, err := s.adminCount()
	if err != nil {
		return err
	}
	if n == math.MaxUint32 {
		return errors.Wrapf(ErrMaxSignersReached, "%d admins", n)
	}
	return s.persistent.Update(ctx, adminCountKey, n+1)
}

func (s state) decrementAdmins(ctx context.Context) error {
	n, err := s.adminCount()
	if err != nil {
		return err
	}
	if n <= 1 {
		return errors.Wrapf(ErrCannotDowngradeLastAdmin, "%d admins", n)
	}
	return s.persistent.Update(ctx, adminCountKey, n-1)
}
