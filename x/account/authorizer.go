package account

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
	"github.com/iov-one/smartaccount/store"
	"github.com/iov-one/smartaccount/x/plugin"
	"github.com/iov-one/smartaccount/x/signer"
	amino "github.com/tendermint/go-amino"
)

// Authorizer decides whether a bundle of proofs approves a request.
type Authorizer struct {
	env smartaccount.Env
	cdc *amino.Codec
}

// NewAuthorizer returns an authorizer of the account described by env.
func NewAuthorizer(env smartaccount.Env, cdc *amino.Codec) Authorizer {
	return Authorizer{env: env, cdc: cdc}
}

// Check verifies every proof of the bundle and then looks for a signer that
// approves all operations. Admin signers are considered before standard
// ones, each group in the bundle order.
//
// A proof with a signature that does not match aborts the call with a panic.
func (a Authorizer) Check(ctx context.Context, db store.KVStore, payload [32]byte, bundle signer.Bundle, ops []smartaccount.OperationContext) error {
	if len(bundle) == 0 {
		return errors.Wrap(ErrNoProofs, "empty bundle")
	}

	signers := signer.NewBucket(db, a.cdc)
	var admins, standards []*signer.Signer
	for _, e := range bundle.Entries() {
		s, err := signers.Get(e.Key)
		if err != nil {
			return err
		}
		if err := s.Verify(payload, e.Proof); err != nil {
			return errors.Wrapf(err, "signer %s", e.Key)
		}
		if s.IsAdmin() {
			admins = append(admins, s)
		} else {
			standards = append(standards, s)
		}
	}

	for _, group := range [][]*signer.Signer{admins, standards} {
		for _, s := range group {
			if s.IsAuthorized(ctx, a.env, ops) {
				smartaccount.GetLogger(ctx).Debug("authorized", "signer", s.Key().String())
				return nil
			}
		}
	}
	return errors.Wrapf(ErrInsufficientPermissions, "%d signers", len(bundle))
}

// CallPluginsOnAuth notifies every installed plugin, in the order of
// installation, about an authorized request. The first plugin that fails
// rejects the authorization.
func (a Authorizer) CallPluginsOnAuth(ctx context.Context, db store.KVStore, ops []smartaccount.OperationContext) error {
	addrs, err := plugin.NewSet(db, a.cdc).List()
	if err != nil {
		return err
	}
	for _, addr := range addrs {
		if err := plugin.Call(ctx, a.env, addr, plugin.OnAuth(ops)); err != nil {
			ev := plugin.Event(plugin.EventAuthFailed, addr, "error", err)
			smartaccount.EmitEvent(ctx, ev.AsDiagnostic())
			return errors.Wrapf(plugin.ErrPluginOnAuthFailed, "plugin %s: %s", addr, err)
		}
	}
	return nil
}
