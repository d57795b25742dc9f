package smartaccount

import (
	"context"

	"github.com/iov-one/smartaccount/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultLogger is used for all context that have not set anything
// themselves.
var DefaultLogger = log.NewNopLogger()

type contextKey int

const (
	contextKeyLogger contextKey = iota
	contextKeyBlockTime
	contextKeyAuthorized
	contextKeyEvents
)

// WithLogger sets the logger for this Context.
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the currently set logger, or DefaultLogger if none was
// set.
func GetLogger(ctx context.Context) log.Logger {
	if l, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}

// WithLogInfo accepts keyvalue pairs, and returns another context like this,
// after passing all the keyvals to the Logger.
func WithLogInfo(ctx context.Context, keyvals ...interface{}) context.Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// WithBlockTime sets the ledger time of the call. The ledger clock never
// moves backwards, so a context can be annotated only once.
func WithBlockTime(ctx context.Context, t UnixTime) context.Context {
	if _, ok := ctx.Value(contextKeyBlockTime).(UnixTime); ok {
		panic("block time already set")
	}
	return context.WithValue(ctx, contextKeyBlockTime, t)
}

// BlockTime returns the current ledger time as set in the context. An error
// is returned if the time was never set.
func BlockTime(ctx context.Context) (UnixTime, error) {
	t, ok := ctx.Value(contextKeyBlockTime).(UnixTime)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	return t, nil
}

// WithAuthorized marks given addresses as having approved the current call.
// Only the host is expected to call this, after a successful authorization
// check.
func WithAuthorized(ctx context.Context, addrs ...Address) context.Context {
	all := append(Authorized(ctx), addrs...)
	return context.WithValue(ctx, contextKeyAuthorized, all)
}

// Authorized returns all addresses that approved the current call. The
// result may be empty.
func Authorized(ctx context.Context) []Address {
	val, _ := ctx.Value(contextKeyAuthorized).([]Address)
	// Copy so that appending by the caller cannot modify parent context.
	out := make([]Address, len(val))
	copy(out, val)
	return out
}

// IsAuthorized returns true if given address approved the current call.
func IsAuthorized(ctx context.Context, addr Address) bool {
	for _, a := range Authorized(ctx) {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// RequireAuth returns ErrUnauthorized unless given address approved the
// current call.
func RequireAuth(ctx context.Context, addr Address) error {
	if !IsAuthorized(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s authorization required", addr)
	}
	return nil
}
