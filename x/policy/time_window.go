package policy

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
)

// TimeWindow allows operations only between NotBefore and NotAfter, both
// inclusive. Operations themselves are not inspected.
type TimeWindow struct {
	NotBefore smartaccount.UnixTime `json:"not_before"`
	NotAfter  smartaccount.UnixTime `json:"not_after"`
}

var _ Policy = TimeWindow{}

func (TimeWindow) isPolicy() {}

func (w TimeWindow) IsAuthorized(ctx context.Context, env smartaccount.Env, ops []smartaccount.OperationContext) bool {
	now, err := smartaccount.BlockTime(ctx)
	if err != nil {
		smartaccount.GetLogger(ctx).Error("time window without block time", "err", err)
		return false
	}
	return w.Contains(now)
}

// Contains returns true if given time is within the window.
func (w TimeWindow) Contains(t smartaccount.UnixTime) bool {
	return w.NotBefore <= t && t <= w.NotAfter
}

// OnAdd rejects windows that are empty or already closed.
func (w TimeWindow) OnAdd(ctx context.Context, env smartaccount.Env) error {
	if w.NotBefore > w.NotAfter {
		return errors.Wrapf(ErrPolicyRejected, "invalid time range: %d > %d", w.NotBefore, w.NotAfter)
	}
	now, err := smartaccount.BlockTime(ctx)
	if err != nil {
		return errors.Wrap(ErrPolicyRejected, err.Error())
	}
	if w.NotAfter < now {
		return errors.Wrapf(ErrPolicyRejected, "time window closed at %d", w.NotAfter)
	}
	return nil
}

func (w TimeWindow) OnRevoke(ctx context.Context, env smartaccount.Env) error {
	return nil
}

func (w TimeWindow) Equals(p Policy) bool {
	o, ok := p.(TimeWindow)
	return ok && o == w
}

func (w TimeWindow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "NotBefore", w.NotBefore.Validate())
	errs = errors.AppendField(errs, "NotAfter", w.NotAfter.Validate())
	// An empty range is rejected by OnAdd.
	return errs
}
