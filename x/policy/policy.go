package policy

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
	"github.com/samber/lo"
)

// Policy restricts what a standard signer can approve.
//
// Implementations are values compared by structure. The set of
// implementations is closed: TimeWindow and ExternalDelegate.
type Policy interface {
	// IsAuthorized returns true if the policy allows given operations. It
	// never fails: any problem results in a rejection.
	IsAuthorized(ctx context.Context, env smartaccount.Env, ops []smartaccount.OperationContext) bool
	// OnAdd is called when the policy is attached to a signer. An error
	// blocks the attachment and is always of ErrPolicyRejected kind.
	OnAdd(ctx context.Context, env smartaccount.Env) error
	// OnRevoke is called when the policy is detached from a signer.
	// Callers report but do not propagate returned errors.
	OnRevoke(ctx context.Context, env smartaccount.Env) error
	// Equals returns true if both policies are of the same kind and hold
	// the same configuration.
	Equals(Policy) bool
	Validate() error

	isPolicy()
}

// AllAuthorize returns true if every policy authorizes given operations.
// An empty list authorizes everything.
func AllAuthorize(ctx context.Context, env smartaccount.Env, policies []Policy, ops []smartaccount.OperationContext) bool {
	for _, p := range policies {
		if !p.IsAuthorized(ctx, env, ops) {
			return false
		}
	}
	return true
}

// Activate calls OnAdd of every policy in order. The first failure stops
// the processing and is returned.
func Activate(ctx context.Context, env smartaccount.Env, policies []Policy) error {
	for i, p := range policies {
		if err := p.OnAdd(ctx, env); err != nil {
			return errors.Wrapf(err, "policy %d", i)
		}
	}
	return nil
}

// Deactivate calls OnRevoke of every policy in order. All policies are
// processed even if some of them fail. Failures are logged only.
func Deactivate(ctx context.Context, env smartaccount.Env, policies []Policy) {
	var errs error
	for i, p := range policies {
		if err := p.OnRevoke(ctx, env); err != nil {
			errs = errors.Append(errs, errors.Wrapf(err, "policy %d", i))
		}
	}
	if errs != nil {
		smartaccount.GetLogger(ctx).Error("policy deactivation failed", "err", errs)
	}
}

// Diff returns policies that are present only in the old set and those that
// are present only in the new set. Order of both lists is preserved.
// Policies are matched using Equals.
func Diff(old, new []Policy) (removed, added []Policy) {
	missingFrom := func(set []Policy) func(Policy, int) bool {
		return func(p Policy, _ int) bool {
			return !lo.ContainsBy(set, p.Equals)
		}
	}
	return lo.Filter(old, missingFrom(new)), lo.Filter(new, missingFrom(old))
}

// ApplyChange runs lifecycle callbacks for replacing the old policy set with
// the new one. Removed policies are deactivated first, then added policies
// are activated. Policies present in both sets are not notified.
func ApplyChange(ctx context.Context, env smartaccount.Env, old, new []Policy) error {
	switch {
	case len(old) == 0 && len(new) == 0:
		return nil
	case len(old) == 0:
		return Activate(ctx, env, new)
	case len(new) == 0:
		Deactivate(ctx, env, old)
		return nil
	}
	removed, added := Diff(old, new)
	Deactivate(ctx, env, removed)
	return Activate(ctx, env, added)
}

// ValidateAll validates every policy of a list.
func ValidateAll(policies []Policy) error {
	var errs error
	for _, p := range policies {
		if p == nil {
			errs = errors.Append(errs, errors.Wrap(errors.ErrEmpty, "nil policy"))
			continue
		}
		errs = errors.Append(errs, p.Validate())
	}
	return errs
}
