package plugin

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
)

// Event types published by plugin management.
const (
	EventInstalled       = "plugin/installed"
	EventUninstalled     = "plugin/uninst"
	EventUninstallFailed = "plugin/uninsterr"
	EventAuthFailed      = "plugin/autherr"
)

// Hook is a single plugin callback.
type Hook func(ctx context.Context, p smartaccount.Plugin, source smartaccount.Address) error

// OnInstall returns a hook calling Plugin.OnInstall.
func OnInstall() Hook {
	return func(ctx context.Context, p smartaccount.Plugin, source smartaccount.Address) error {
		return p.OnInstall(ctx, source)
	}
}

// OnUninstall returns a hook calling Plugin.OnUninstall.
func OnUninstall() Hook {
	return func(ctx context.Context, p smartaccount.Plugin, source smartaccount.Address) error {
		return p.OnUninstall(ctx, source)
	}
}

// OnAuth returns a hook calling Plugin.OnAuth with given operations.
func OnAuth(ops []smartaccount.OperationContext) Hook {
	return func(ctx context.Context, p smartaccount.Plugin, source smartaccount.Address) error {
		return p.OnAuth(ctx, source, ops)
	}
}

// Call resolves a plugin and runs the hook with the account address as the
// source. Resolution failure, a returned error and a panic are all reported
// as an error.
func Call(ctx context.Context, env smartaccount.Env, addr smartaccount.Address, hook Hook) (err error) {
	defer errors.Recover(&err)

	p, err := env.Plugin(addr)
	if err != nil {
		return err
	}
	return hook(ctx, p, env.Address())
}

// Event returns a plugin event of given type.
func Event(typ string, addr smartaccount.Address, keyvals ...interface{}) smartaccount.Event {
	return smartaccount.NewEvent(typ, append([]interface{}{"plugin", addr}, keyvals...)...)
}
