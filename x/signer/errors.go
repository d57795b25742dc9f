package signer

import (
	"github.com/iov-one/smartaccount/errors"
)

// Error codes
// x/signer reserves 1020 ~ 1023 and 1040 ~ 1049.

var (
	ErrSignerAlreadyExists = errors.Register(1021, "signer already exists")
	ErrSignerNotFound      = errors.Register(1022, "signer not found")

	ErrVerificationFailed = errors.Register(1041, "signature verification failed")
	ErrInvalidProofType   = errors.Register(1042, "invalid proof type")
	ErrChallengeMismatch  = errors.Register(1044, "client data challenge mismatch")
	ErrMalformedAssertion = errors.Register(1045, "malformed webauthn assertion")
)
