package policy

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
)

// EventCallbackFailed is emitted when a delegate lifecycle callback fails.
const EventCallbackFailed = "policy/cbfailed"

// ExternalDelegate defers the authorization decision and lifecycle
// callbacks to a policy delegate contract.
type ExternalDelegate struct {
	Address smartaccount.Address `json:"address"`
}

var _ Policy = ExternalDelegate{}

func (ExternalDelegate) isPolicy() {}

// IsAuthorized asks the delegate. A delegate that cannot be resolved or
// that panics does not authorize.
func (d ExternalDelegate) IsAuthorized(ctx context.Context, env smartaccount.Env, ops []smartaccount.OperationContext) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			smartaccount.GetLogger(ctx).Error("policy delegate panic",
				"policy", d.Address, "panic", r)
			ok = false
		}
	}()

	delegate, err := env.PolicyDelegate(d.Address)
	if err != nil {
		smartaccount.GetLogger(ctx).Error("cannot resolve policy delegate",
			"policy", d.Address, "err", err)
		return false
	}
	return delegate.IsAuthorized(ctx, env.Address(), ops)
}

func (d ExternalDelegate) OnAdd(ctx context.Context, env smartaccount.Env) error {
	err := d.call(ctx, env, smartaccount.PolicyDelegate.OnAdd)
	if err != nil {
		d.emitFailure(ctx, "on_add", err)
		return errors.Wrapf(ErrPolicyRejected, "delegate %s: %s", d.Address, err)
	}
	return nil
}

// OnRevoke notifies the delegate. A failure is reported with a diagnostic
// event before it is returned.
func (d ExternalDelegate) OnRevoke(ctx context.Context, env smartaccount.Env) error {
	err := d.call(ctx, env, smartaccount.PolicyDelegate.OnRevoke)
	if err != nil {
		d.emitFailure(ctx, "on_revoke", err)
		return errors.Wrapf(err, "delegate %s", d.Address)
	}
	return nil
}

type lifecycleFn func(smartaccount.PolicyDelegate, context.Context, smartaccount.Address) error

// call resolves the delegate and runs a lifecycle callback. A panic is
// turned into an error.
func (d ExternalDelegate) call(ctx context.Context, env smartaccount.Env, fn lifecycleFn) (err error) {
	defer errors.Recover(&err)
	delegate, err := env.PolicyDelegate(d.Address)
	if err != nil {
		return err
	}
	return fn(delegate, ctx, env.Address())
}

func (d ExternalDelegate) emitFailure(ctx context.Context, callback string, err error) {
	ev := smartaccount.NewEvent(EventCallbackFailed,
		"policy", d.Address,
		"callback", callback,
		"error", err,
	)
	smartaccount.EmitEvent(ctx, ev.AsDiagnostic())
}

func (d ExternalDelegate) Equals(p Policy) bool {
	o, ok := p.(ExternalDelegate)
	return ok && o.Address.Equals(d.Address)
}

func (d ExternalDelegate) Validate() error {
	return errors.Field("Address", d.Address.Validate(), "invalid delegate address")
}
