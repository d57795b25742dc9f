package account

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
	"github.com/iov-one/smartaccount/store"
	"github.com/iov-one/smartaccount/x/plugin"
	"github.com/iov-one/smartaccount/x/policy"
	"github.com/iov-one/smartaccount/x/signer"
	amino "github.com/tendermint/go-amino"
)

// Event types published by the account.
const (
	EventInitialized   = "account/initialized"
	EventSignerAdded   = "signer/added"
	EventSignerUpdated = "signer/updated"
	EventSignerRevoked = "signer/revoked"
)

// Account manages signers and plugins of a single account.
//
// Every method operates on the store of a single call. A failed call can
// leave partial writes behind, so the store must be discarded unless the
// call succeeds.
type Account struct {
	Authorizer

	env smartaccount.Env
	cdc *amino.Codec
}

// New returns the account described by env. The codec must have signer
// types registered.
func New(env smartaccount.Env, cdc *amino.Codec) *Account {
	return &Account{
		Authorizer: NewAuthorizer(env, cdc),
		env:        env,
		cdc:        cdc,
	}
}

// Address returns the address of the account.
func (a *Account) Address() smartaccount.Address {
	return a.env.Address()
}

// requireSelfAuth ensures the account approved the call. Before the account
// is initialized no authorization is required.
func (a *Account) requireSelfAuth(ctx context.Context, db store.KVStore) error {
	ok, err := newState(db, a.cdc).isInitialized()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return smartaccount.RequireAuth(ctx, a.env.Address())
}

// Initialize sets up a new account. At least one admin signer must be
// given.
func (a *Account) Initialize(ctx context.Context, db store.KVStore, signers []signer.Signer, plugins []smartaccount.Address) error {
	st := newState(db, a.cdc)
	if ok, err := st.isInitialized(); err != nil {
		return err
	} else if ok {
		return errors.Wrap(ErrAlreadyInitialized, "cannot initialize twice")
	}

	hasAdmin := false
	for _, s := range signers {
		if s.Role != nil && s.IsAdmin() {
			hasAdmin = true
			break
		}
	}
	if !hasAdmin {
		return errors.Wrapf(ErrInsufficientPermissionsOnCreation, "%d signers", len(signers))
	}

	if err := st.initAdminCount(ctx); err != nil {
		return errors.Wrap(err, "admin count")
	}
	for i, s := range signers {
		if err := a.AddSigner(ctx, db, s); err != nil {
			return errors.Wrapf(err, "signer %d", i)
		}
	}
	if err := plugin.NewSet(db, a.cdc).Init(ctx); err != nil {
		return errors.Wrap(err, "plugin set")
	}
	for _, p := range plugins {
		if err := a.InstallPlugin(ctx, db, p); err != nil {
			return err
		}
	}
	if err := st.markInitialized(ctx); err != nil {
		return err
	}

	smartaccount.EmitEvent(ctx, smartaccount.NewEvent(EventInitialized,
		"account", a.env.Address(),
		"signers", len(signers),
		"plugins", len(plugins),
	))
	smartaccount.GetLogger(ctx).Info("account initialized", "account", a.env.Address().String())
	return nil
}

// AddSigner registers a new signer and activates its policies.
func (a *Account) AddSigner(ctx context.Context, db store.KVStore, s signer.Signer) error {
	if err := a.requireSelfAuth(ctx, db); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return errors.Wrap(err, "signer")
	}

	// The signer is stored before the policies are activated. A policy
	// failure aborts the call and the store is discarded.
	if err := signer.NewBucket(db, a.cdc).Create(ctx, s); err != nil {
		return err
	}
	if s.IsAdmin() {
		if err := newState(db, a.cdc).incrementAdmins(ctx); err != nil {
			return err
		}
	} else if err := policy.Activate(ctx, a.env, signer.Policies(s.Role)); err != nil {
		return err
	}

	a.signerEvent(ctx, EventSignerAdded, s)
	return nil
}

// UpdateSigner replaces the role of a registered signer. The signer is
// identified by its credential, which cannot change.
func (a *Account) UpdateSigner(ctx context.Context, db store.KVStore, s signer.Signer) error {
	if err := a.requireSelfAuth(ctx, db); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return errors.Wrap(err, "signer")
	}

	bucket := signer.NewBucket(db, a.cdc)
	old, err := bucket.Get(s.Key())
	if err != nil {
		return err
	}
	if err := a.transition(ctx, db, old.Role, s.Role); err != nil {
		return err
	}
	if err := bucket.Replace(ctx, s); err != nil {
		return err
	}

	a.signerEvent(ctx, EventSignerUpdated, s)
	return nil
}

// transition maintains the admin count and runs policy callbacks for a role
// change.
func (a *Account) transition(ctx context.Context, db store.KVStore, from, to signer.Role) error {
	st := newState(db, a.cdc)
	switch {
	case from.IsAdmin() && !to.IsAdmin():
		if err := st.decrementAdmins(ctx); err != nil {
			return err
		}
		return policy.Activate(ctx, a.env, signer.Policies(to))
	case !from.IsAdmin() && to.IsAdmin():
		if err := st.incrementAdmins(ctx); err != nil {
			return err
		}
		policy.Deactivate(ctx, a.env, signer.Policies(from))
		return nil
	case !from.IsAdmin() && !to.IsAdmin():
		return policy.ApplyChange(ctx, a.env, signer.Policies(from), signer.Policies(to))
	default:
		return nil
	}
}

// RevokeSigner removes a standard signer. Admin signers must be downgraded
// first.
func (a *Account) RevokeSigner(ctx context.Context, db store.KVStore, key signer.Key) error {
	if err := a.requireSelfAuth(ctx, db); err != nil {
		return err
	}

	bucket := signer.NewBucket(db, a.cdc)
	s, err := bucket.Get(key)
	if err != nil {
		return err
	}
	if s.IsAdmin() {
		return errors.Wrapf(ErrCannotRevokeAdminSigner, "signer %s", key)
	}
	if err := bucket.Delete(ctx, key); err != nil {
		return err
	}
	policy.Deactivate(ctx, a.env, signer.Policies(s.Role))

	a.signerEvent(ctx, EventSignerRevoked, *s)
	return nil
}

func (a *Account) signerEvent(ctx context.Context, typ string, s signer.Signer) {
	smartaccount.EmitEvent(ctx, smartaccount.NewEvent(typ,
		"key", s.Key(),
		"role", s.RoleName(),
		"policies", len(signer.Policies(s.Role)),
	))
	smartaccount.GetLogger(ctx).Info(typ, "key", s.Key().String(), "role", s.RoleName())
}

// GetSigner returns a registered signer or ErrSignerNotFound.
func (a *Account) GetSigner(db store.KVStore, key signer.Key) (*signer.Signer, error) {
	return signer.NewBucket(db, a.cdc).Get(key)
}

// HasSigner returns true if a signer with given key is registered.
func (a *Account) HasSigner(db store.KVStore, key signer.Key) (bool, error) {
	return signer.NewBucket(db, a.cdc).Has(key)
}

// Signers returns all registered signers ordered by key.
func (a *Account) Signers(db store.KVStore) ([]signer.Signer, error) {
	return signer.NewBucket(db, a.cdc).All()
}

// AdminCount returns the number of admin signers.
func (a *Account) AdminCount(db store.KVStore) (uint32, error) {
	return newState(db, a.cdc).adminCount()
}

// IsInitialized returns true once Initialize succeeded.
func (a *Account) IsInitialized(db store.KVStore) (bool, error) {
	return newState(db, a.cdc).isInitialized()
}

// InstallPlugin adds a plugin and calls its OnInstall hook. The hook must
// succeed for the plugin to be installed.
func (a *Account) InstallPlugin(ctx context.Context, db store.KVStore, addr smartaccount.Address) error {
	if err := a.requireSelfAuth(ctx, db); err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "plugin address")
	}
	if err := plugin.NewSet(db, a.cdc).Add(ctx, addr); err != nil {
		return err
	}
	if err := plugin.Call(ctx, a.env, addr, plugin.OnInstall()); err != nil {
		return errors.Wrapf(plugin.ErrPluginInitializationFailed, "plugin %s: %s", addr, err)
	}

	smartaccount.EmitEvent(ctx, plugin.Event(plugin.EventInstalled, addr))
	smartaccount.GetLogger(ctx).Info("plugin installed", "plugin", addr.String())
	return nil
}

// UninstallPlugin removes a plugin. A failure of its OnUninstall hook is
// reported but does not prevent the removal.
func (a *Account) UninstallPlugin(ctx context.Context, db store.KVStore, addr smartaccount.Address) error {
	if err := a.requireSelfAuth(ctx, db); err != nil {
		return err
	}
	if err := plugin.NewSet(db, a.cdc).Remove(ctx, addr); err != nil {
		return err
	}
	if err := plugin.Call(ctx, a.env, addr, plugin.OnUninstall()); err != nil {
		ev := plugin.Event(plugin.EventUninstallFailed, addr, "error", err)
		smartaccount.EmitEvent(ctx, ev.AsDiagnostic())
	}

	smartaccount.EmitEvent(ctx, plugin.Event(plugin.EventUninstalled, addr))
	smartaccount.GetLogger(ctx).Info("plugin uninstalled", "plugin", addr.String())
	return nil
}

// IsPluginInstalled returns true if the plugin is installed.
func (a *Account) IsPluginInstalled(db store.KVStore, addr smartaccount.Address) (bool, error) {
	return plugin.NewSet(db, a.cdc).Has(addr)
}

// Plugins returns all installed plugins in the order of installation.
func (a *Account) Plugins(db store.KVStore) ([]smartaccount.Address, error) {
	return plugin.NewSet(db, a.cdc).List()
}

// CheckAuth is the authorization entry point. The bundle must approve the
// operations and then every installed plugin must accept them.
func (a *Account) CheckAuth(ctx context.Context, db store.KVStore, payload [32]byte, bundle signer.Bundle, ops []smartaccount.OperationContext) error {
	if ok, err := a.IsInitialized(db); err != nil {
		return err
	} else if !ok {
		return errors.Wrap(ErrNotInitialized, "cannot authorize")
	}
	if err := a.Check(ctx, db, payload, bundle, ops); err != nil {
		return err
	}
	return a.CallPluginsOnAuth(ctx, db, ops)
}
