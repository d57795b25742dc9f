package plugin

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
	"github.com/iov-one/smartaccount/store"
	"github.com/samber/lo"
	amino "github.com/tendermint/go-amino"
)

var setKey = []byte("plugins")

// Set is the list of installed plugins, kept in the instance storage.
// Plugins are listed in the order of installation.
type Set struct {
	st store.Storage
}

// NewSet returns the plugin set stored in given store.
func NewSet(db store.KVStore, cdc *amino.Codec) Set {
	return Set{st: store.NewStorage(store.Instance, db, cdc)}
}

// Init creates an empty set. It fails if the set already exists.
func (s Set) Init(ctx context.Context) error {
	return s.st.Store(ctx, setKey, []smartaccount.Address{})
}

// List returns addresses of all installed plugins.
func (s Set) List() ([]smartaccount.Address, error) {
	var addrs []smartaccount.Address
	if _, err := s.st.Get(setKey, &addrs); err != nil {
		return nil, errors.Wrap(err, "cannot load plugins")
	}
	return addrs, nil
}

// Has returns true if the plugin is installed.
func (s Set) Has(addr smartaccount.Address) (bool, error) {
	addrs, err := s.List()
	if err != nil {
		return false, err
	}
	return lo.ContainsBy(addrs, addr.Equals), nil
}

// Add appends a plugin. It fails with ErrPluginAlreadyInstalled if the
// plugin is present.
func (s Set) Add(ctx context.Context, addr smartaccount.Address) error {
	addrs, err := s.List()
	if err != nil {
		return err
	}
	if lo.ContainsBy(addrs, addr.Equals) {
		return errors.Wrapf(ErrPluginAlreadyInstalled, "plugin %s", addr)
	}
	return s.st.Set(ctx, setKey, append(addrs, addr.Clone()))
}

// Remove deletes a plugin. It fails with ErrPluginNotFound if the plugin is
// not present.
func (s Set) Remove(ctx context.Context, addr smartaccount.Address) error {
	addrs, err := s.List()
	if err != nil {
		return err
	}
	if !lo.ContainsBy(addrs, addr.Equals) {
		return errors.Wrapf(ErrPluginNotFound, "plugin %s", addr)
	}
	rest := lo.Reject(addrs, func(a smartaccount.Address, _ int) bool {
		return a.Equals(addr)
	})
	return s.st.Set(ctx, setKey, rest)
}
