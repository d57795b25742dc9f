package host

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
)

// accountEnv resolves contracts for a deployed account. It is only used
// during a call, while the ledger lock is held.
type accountEnv struct {
	ledger *Ledger
	addr   smartaccount.Address
}

var _ smartaccount.Env = (*accountEnv)(nil)

func (e *accountEnv) Address() smartaccount.Address {
	return e.addr
}

func (e *accountEnv) Plugin(addr smartaccount.Address) (smartaccount.Plugin, error) {
	p, ok := e.ledger.contracts[addr.String()].(smartaccount.Plugin)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "plugin %s", addr)
	}
	return p, nil
}

func (e *accountEnv) PolicyDelegate(addr smartaccount.Address) (smartaccount.PolicyDelegate, error) {
	d, ok := e.ledger.contracts[addr.String()].(smartaccount.PolicyDelegate)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "policy delegate %s", addr)
	}
	return d, nil
}

// UpdateCode schedules the code replacement. It takes effect when the
// running call succeeds.
func (e *accountEnv) UpdateCode(ctx context.Context, code []byte) error {
	if len(code) == 0 {
		return errors.Wrap(errors.ErrEmpty, "code")
	}
	e.ledger.pending[e.addr.String()] = append([]byte(nil), code...)
	return nil
}
