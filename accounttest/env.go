package accounttest

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
)

// Env is a static environment. Contracts are registered by address before
// the test runs.
type Env struct {
	Addr smartaccount.Address

	plugins   map[string]smartaccount.Plugin
	delegates map[string]smartaccount.PolicyDelegate

	// Code is the last code passed to UpdateCode.
	Code          []byte
	UpdateCodeErr error
}

var _ smartaccount.Env = (*Env)(nil)

// NewEnv returns an environment of an account with given address.
func NewEnv(addr smartaccount.Address) *Env {
	return &Env{
		Addr:      addr,
		plugins:   make(map[string]smartaccount.Plugin),
		delegates: make(map[string]smartaccount.PolicyDelegate),
	}
}

// WithPlugin registers a plugin contract under given address.
func (e *Env) WithPlugin(addr smartaccount.Address, p smartaccount.Plugin) *Env {
	e.plugins[string(addr)] = p
	return e
}

// WithDelegate registers a policy delegate contract under given address.
func (e *Env) WithDelegate(addr smartaccount.Address, d smartaccount.PolicyDelegate) *Env {
	e.delegates[string(addr)] = d
	return e
}

func (e *Env) Address() smartaccount.Address {
	return e.Addr
}

func (e *Env) Plugin(addr smartaccount.Address) (smartaccount.Plugin, error) {
	if p, ok := e.plugins[string(addr)]; ok {
		return p, nil
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "plugin %s", addr)
}

func (e *Env) PolicyDelegate(addr smartaccount.Address) (smartaccount.PolicyDelegate, error) {
	if d, ok := e.delegates[string(addr)]; ok {
		return d, nil
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "policy delegate %s", addr)
}

func (e *Env) UpdateCode(ctx context.Context, code []byte) error {
	if e.UpdateCodeErr != nil {
		return e.UpdateCodeErr
	}
	e.Code = code
	return nil
}

// Addr returns a deterministic address derived from given name.
func Addr(name string) smartaccount.Address {
	return smartaccount.NewAddress([]byte(name))
}

// Context returns a context with the block time set and an event manager
// attached.
func Context(now smartaccount.UnixTime) (context.Context, *smartaccount.EventManager) {
	em := smartaccount.NewEventManager()
	ctx := smartaccount.WithEventManager(context.Background(), em)
	return smartaccount.WithBlockTime(ctx, now), em
}
