package policy

import (
	"github.com/iov-one/smartaccount/errors"
)

// Error codes
// x/policy reserves 1080 ~ 1089.

var (
	ErrPolicyRejected = errors.Register(1080, "policy rejected")
)
