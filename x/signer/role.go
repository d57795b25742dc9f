package signer

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
	"github.com/iov-one/smartaccount/x/policy"
)

// Role governs which operations a signer can approve. The set of
// implementations is closed: Admin and Standard.
type Role interface {
	IsAuthorized(ctx context.Context, env smartaccount.Env, ops []smartaccount.OperationContext) bool
	IsAdmin() bool
	Validate() error

	isRole()
}

// Admin can approve anything, including changes of the account itself.
type Admin struct{}

var _ Role = Admin{}

func (Admin) isRole() {}

func (Admin) IsAuthorized(ctx context.Context, env smartaccount.Env, ops []smartaccount.OperationContext) bool {
	return true
}

func (Admin) IsAdmin() bool { return true }

func (Admin) Validate() error { return nil }

// Standard can never approve an operation that targets the account itself.
// Any other request must be allowed by every policy.
type Standard struct {
	Policies []policy.Policy `json:"policies"`
}

var _ Role = Standard{}

func (Standard) isRole() {}

func (s Standard) IsAuthorized(ctx context.Context, env smartaccount.Env, ops []smartaccount.OperationContext) bool {
	if smartaccount.TargetsAccount(env.Address(), ops) {
		return false
	}
	return policy.AllAuthorize(ctx, env, s.Policies, ops)
}

func (Standard) IsAdmin() bool { return false }

func (s Standard) Validate() error {
	return errors.Field("Policies", policy.ValidateAll(s.Policies), "")
}

// Policies returns policies attached by given role. Admin has none.
func Policies(r Role) []policy.Policy {
	if s, ok := r.(Standard); ok {
		return s.Policies
	}
	return nil
}
