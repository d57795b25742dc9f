package smartaccount

import (
	"context"
)

// OperationContext describes one sub-operation of a call that is being
// authorized.
type OperationContext struct {
	// Contract is the address of the contract that is invoked.
	Contract Address `json:"contract"`
	// Function is the name of the invoked entry point.
	Function string `json:"function"`
	// Args are the encoded call arguments. They are opaque to the
	// account.
	Args [][]byte `json:"args,omitempty"`
}

// IsSelfAdministrative returns true if this operation targets the account
// itself.
func (o OperationContext) IsSelfAdministrative(account Address) bool {
	return o.Contract.Equals(account)
}

// Validate returns an error if the operation context cannot be used.
func (o OperationContext) Validate() error {
	return o.Contract.Validate()
}

// TargetsAccount returns true if any of given operations targets the
// account.
func TargetsAccount(account Address, ops []OperationContext) bool {
	for _, op := range ops {
		if op.IsSelfAdministrative(account) {
			return true
		}
	}
	return false
}

// Plugin is implemented by contracts that can be installed into an account
// in order to be notified about its lifecycle and every authorization.
//
// The source argument is always the address of the calling account.
type Plugin interface {
	OnInstall(ctx context.Context, source Address) error
	OnUninstall(ctx context.Context, source Address) error
	// OnAuth is called for every successful authorization check. Returning
	// an error vetoes the authorization.
	OnAuth(ctx context.Context, source Address, ops []OperationContext) error
}

// PolicyDelegate is implemented by contracts that a signer policy can defer
// the authorization decision to.
type PolicyDelegate interface {
	OnAdd(ctx context.Context, source Address) error
	OnRevoke(ctx context.Context, source Address) error
	IsAuthorized(ctx context.Context, source Address, ops []OperationContext) bool
}

// Env gives the account access to everything outside of its own state: its
// address, the contracts it calls back and the code it is running.
//
// The host provides an implementation. Tests can use a static one.
type Env interface {
	// Address returns the address of the account.
	Address() Address
	// Plugin resolves a contract address to a plugin. ErrNotFound is
	// returned if no such contract exists.
	Plugin(addr Address) (Plugin, error)
	// PolicyDelegate resolves a contract address to a policy delegate.
	// ErrNotFound is returned if no such contract exists.
	PolicyDelegate(addr Address) (PolicyDelegate, error)
	// UpdateCode replaces the code executed by the account.
	UpdateCode(ctx context.Context, code []byte) error
}
