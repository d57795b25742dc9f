package crypto

import "fmt"

// Abort is the panic value raised when a signature does not match. A
// mismatch is never returned as an error: the whole call is terminated and
// only the host recovers from it.
type Abort struct {
	Scheme string
	Reason string
}

func (a Abort) Error() string {
	return fmt.Sprintf("%s verification aborted: %s", a.Scheme, a.Reason)
}

func abort(scheme, reason string) {
	panic(Abort{Scheme: scheme, Reason: reason})
}

// IsAbort returns true if given recovered panic value was raised by a failed
// signature check.
func IsAbort(recovered interface{}) bool {
	switch recovered.(type) {
	case Abort, *Abort:
		return true
	default:
		return false
	}
}
