package upgrade

import (
	"github.com/iov-one/smartaccount/errors"
)

// Error codes
// x/upgrade reserves 1110 ~ 1119.

var (
	ErrMigrationNotAllowed = errors.Register(1110, "migration not allowed")
)
