package account

import (
	"github.com/iov-one/smartaccount/errors"
)

// Error codes
// x/account reserves 1000 ~ 1019, 1024 ~ 1039, 1043 and 1060 ~ 1069.

var (
	ErrAlreadyInitialized = errors.Register(1000, "account already initialized")
	ErrNotInitialized     = errors.Register(1001, "account not initialized")

	ErrCannotRevokeAdminSigner  = errors.Register(1024, "admin signer cannot be revoked")
	ErrCannotDowngradeLastAdmin = errors.Register(1025, "last admin cannot be downgraded")
	ErrMaxSignersReached        = errors.Register(1026, "maximum number of signers reached")

	ErrNoProofs = errors.Register(1043, "no proofs")

	ErrInsufficientPermissions           = errors.Register(1060, "insufficient permissions")
	ErrInsufficientPermissionsOnCreation = errors.Register(1061, "account requires an admin signer")
)
