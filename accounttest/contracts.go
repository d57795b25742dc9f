package accounttest

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
)

// Plugin is a plugin contract that counts its calls. Each callback returns
// the configured error. If Panic is set, every callback panics instead.
type Plugin struct {
	installCall   int
	uninstallCall int
	authCall      int

	InstallErr   error
	UninstallErr error
	AuthErr      error
	Panic        bool

	// LastOps holds operations passed to the most recent OnAuth call.
	LastOps []smartaccount.OperationContext
}

var _ smartaccount.Plugin = (*Plugin)(nil)

func (p *Plugin) OnInstall(ctx context.Context, source smartaccount.Address) error {
	p.installCall++
	p.maybePanic()
	return p.InstallErr
}

func (p *Plugin) OnUninstall(ctx context.Context, source smartaccount.Address) error {
	p.uninstallCall++
	p.maybePanic()
	return p.UninstallErr
}

func (p *Plugin) OnAuth(ctx context.Context, source smartaccount.Address, ops []smartaccount.OperationContext) error {
	p.authCall++
	p.LastOps = ops
	p.maybePanic()
	return p.AuthErr
}

func (p *Plugin) maybePanic() {
	if p.Panic {
		panic("plugin failure")
	}
}

func (p *Plugin) InstallCallCount() int   { return p.installCall }
func (p *Plugin) UninstallCallCount() int { return p.uninstallCall }
func (p *Plugin) AuthCallCount() int      { return p.authCall }

// Delegate is a policy delegate contract that counts its calls and returns
// configured results.
type Delegate struct {
	addCall    int
	revokeCall int
	checkCall  int

	AddErr    error
	RevokeErr error
	// Allow is returned by IsAuthorized.
	Allow bool
	// Panic makes IsAuthorized panic.
	Panic bool
}

var _ smartaccount.PolicyDelegate = (*Delegate)(nil)

func (d *Delegate) OnAdd(ctx context.Context, source smartaccount.Address) error {
	d.addCall++
	return d.AddErr
}

func (d *Delegate) OnRevoke(ctx context.Context, source smartaccount.Address) error {
	d.revokeCall++
	return d.RevokeErr
}

func (d *Delegate) IsAuthorized(ctx context.Context, source smartaccount.Address, ops []smartaccount.OperationContext) bool {
	d.checkCall++
	if d.Panic {
		panic("delegate failure")
	}
	return d.Allow
}

func (d *Delegate) AddCallCount() int    { return d.addCall }
func (d *Delegate) RevokeCallCount() int { return d.revokeCall }
func (d *Delegate) CheckCallCount() int  { return d.checkCall }
