/*
Package errors defines coded errors used across the smart account.

Every failure is described by a root error declared with Register. Generic
root errors live in this package, extensions declare their own in an
errors.go file, each with a reserved code range noted in its header.

Create runtime errors with ErrXyz.New or Wrap so that the root error can be
tested with Is:

	if signer.ErrSignerNotFound.Is(err) {
		...
	}

The innermost wrap records a stack trace that is printed with %+v.

A signature that does not match is not an error but a panic raised by the
crypto package. The host turns it into ErrPanic with Recover and discards
the whole call.
*/
package errors
