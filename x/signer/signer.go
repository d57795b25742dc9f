package signer

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
)

// Signer is a registered credential together with its role.
type Signer struct {
	Credential Credential `json:"credential"`
	Role       Role       `json:"role"`
}

// Key returns the signer identity. It never changes during the signer
// lifetime.
func (s Signer) Key() Key {
	return s.Credential.Key()
}

// IsAdmin returns true if the signer has the Admin role.
func (s Signer) IsAdmin() bool {
	return s.Role.IsAdmin()
}

// IsAuthorized returns true if the signer role allows given operations.
func (s Signer) IsAuthorized(ctx context.Context, env smartaccount.Env, ops []smartaccount.OperationContext) bool {
	return s.Role.IsAuthorized(ctx, env, ops)
}

// Verify checks proof of this signer. See Credential.Verify.
func (s Signer) Verify(payload [32]byte, proof Proof) error {
	return s.Credential.Verify(payload, proof)
}

// Validate returns an error if the signer cannot be registered.
func (s Signer) Validate() error {
	var errs error
	if s.Credential == nil {
		errs = errors.AppendField(errs, "Credential", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Credential", s.Credential.Validate())
	}
	if s.Role == nil {
		errs = errors.AppendField(errs, "Role", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Role", s.Role.Validate())
	}
	return errs
}

// RoleName returns a short name of the signer role.
func (s Signer) RoleName() string {
	if s.IsAdmin() {
		return "admin"
	}
	return "standard"
}
