package upgrade

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
	"github.com/iov-one/smartaccount/store"
	amino "github.com/tendermint/go-amino"
)

// Event types published during an upgrade.
const (
	EventStarted   = "upgrade/started"
	EventCompleted = "upgrade/completed"
)

var migratingKey = []byte("migrating")

// Migrator transforms the account state after the code was replaced. The
// content of data is defined by the new code.
type Migrator interface {
	Migrate(ctx context.Context, db store.KVStore, data []byte) error
}

// MigratorFunc allows to use a function as a Migrator.
type MigratorFunc func(ctx context.Context, db store.KVStore, data []byte) error

func (fn MigratorFunc) Migrate(ctx context.Context, db store.KVStore, data []byte) error {
	return fn(ctx, db, data)
}

// NoMigration is used by code that does not need to transform the state.
var NoMigration Migrator = MigratorFunc(func(context.Context, store.KVStore, []byte) error {
	return nil
})

// Upgrader drives the upgrade state of a single account.
type Upgrader struct {
	env      smartaccount.Env
	cdc      *amino.Codec
	migrator Migrator
}

// NewUpgrader returns an upgrader that runs given migrator once the code
// was replaced. A nil migrator is the same as NoMigration.
func NewUpgrader(env smartaccount.Env, cdc *amino.Codec, m Migrator) *Upgrader {
	if m == nil {
		m = NoMigration
	}
	return &Upgrader{env: env, cdc: cdc, migrator: m}
}

// IsMigrating returns true if an upgrade was started and the migration did
// not complete yet.
func (u *Upgrader) IsMigrating(db store.KVStore) (bool, error) {
	var migrating bool
	if _, err := u.storage(db).Get(migratingKey, &migrating); err != nil {
		return false, err
	}
	return migrating, nil
}

// Upgrade replaces the code of the account. The account stays in the
// migrating state until Migrate is called. Calling Upgrade again while
// migrating is allowed and replaces the pending code.
func (u *Upgrader) Upgrade(ctx context.Context, db store.KVStore, code []byte) error {
	if err := smartaccount.RequireAuth(ctx, u.env.Address()); err != nil {
		return errors.Wrap(err, "upgrade")
	}
	if len(code) == 0 {
		return errors.Wrap(errors.ErrEmpty, "code")
	}
	if err := u.storage(db).Set(ctx, migratingKey, true); err != nil {
		return errors.Wrap(err, "set migrating")
	}
	smartaccount.EmitEvent(ctx, smartaccount.NewEvent(EventStarted,
		"account", u.env.Address().String()))
	if err := u.env.UpdateCode(ctx, code); err != nil {
		return errors.Wrap(err, "update code")
	}
	smartaccount.GetLogger(ctx).Info("upgrade started", "account", u.env.Address())
	return nil
}

// Migrate completes a pending upgrade.
func (u *Upgrader) Migrate(ctx context.Context, db store.KVStore, data []byte) error {
	if err := smartaccount.RequireAuth(ctx, u.env.Address()); err != nil {
		return errors.Wrap(err, "migrate")
	}
	migrating, err := u.IsMigrating(db)
	if err != nil {
		return err
	}
	if !migrating {
		return errors.Wrap(ErrMigrationNotAllowed, "no upgrade pending")
	}
	if err := u.migrator.Migrate(ctx, db, data); err != nil {
		return errors.Wrap(err, "migrator")
	}
	if err := u.storage(db).Set(ctx, migratingKey, false); err != nil {
		return errors.Wrap(err, "clear migrating")
	}
	smartaccount.EmitEvent(ctx, smartaccount.NewEvent(EventCompleted,
		"account", u.env.Address().String()))
	smartaccount.GetLogger(ctx).Info("upgrade completed", "account", u.env.Address())
	return nil
}

func (u *Upgrader) storage(db store.KVStore) store.Storage {
	return store.NewStorage(store.Instance, db, u.cdc)
}
