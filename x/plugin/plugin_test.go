package plugin

import (
	"testing"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/accounttest"
	"github.com/iov-one/smartaccount/accounttest/assert"
	"github.com/iov-one/smartaccount/errors"
	"github.com/iov-one/smartaccount/store"
	amino "github.com/tendermint/go-amino"
)

func TestSet(t *testing.T) {
	db := store.MemStore()
	ctx, em := accounttest.Context(1)
	set := NewSet(db, amino.NewCodec())
	a, b, c := accounttest.Addr("a"), accounttest.Addr("b"), accounttest.Addr("c")

	// A set that was never initialized is empty.
	list, err := set.List()
	assert.Nil(t, err)
	assert.Equal(t, 0, len(list))

	assert.Nil(t, set.Init(ctx))
	assert.IsErr(t, errors.ErrDuplicate, set.Init(ctx))

	assert.Nil(t, set.Add(ctx, c))
	assert.Nil(t, set.Add(ctx, a))
	assert.Nil(t, set.Add(ctx, b))
	assert.IsErr(t, ErrPluginAlreadyInstalled, set.Add(ctx, a))

	list, err = set.List()
	assert.Nil(t, err)
	assert.Equal(t, []smartaccount.Address{c, a, b}, list)

	assert.Nil(t, set.Remove(ctx, a))
	assert.IsErr(t, ErrPluginNotFound, set.Remove(ctx, a))

	ok, err := set.Has(a)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
	ok, err = set.Has(b)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	list, err = set.List()
	assert.Nil(t, err)
	assert.Equal(t, []smartaccount.Address{c, b}, list)

	// Instance storage is used.
	ev := assert.HasEvent(t, em.Events(), "storage/update")
	class, _ := ev.Attr("class")
	assert.Equal(t, "instance", class)
}

func TestCall(t *testing.T) {
	account := accounttest.Addr("account")
	addr := accounttest.Addr("plugin")
	ops := []smartaccount.OperationContext{{Contract: accounttest.Addr("token"), Function: "transfer"}}

	t.Run("hook is called", func(t *testing.T) {
		p := &accounttest.Plugin{}
		env := accounttest.NewEnv(account).WithPlugin(addr, p)
		ctx, _ := accounttest.Context(1)

		assert.Nil(t, Call(ctx, env, addr, OnInstall()))
		assert.Nil(t, Call(ctx, env, addr, OnAuth(ops)))
		assert.Nil(t, Call(ctx, env, addr, OnUninstall()))
		assert.Equal(t, 1, p.InstallCallCount())
		assert.Equal(t, 1, p.AuthCallCount())
		assert.Equal(t, 1, p.UninstallCallCount())
		assert.Equal(t, ops, p.LastOps)
	})

	t.Run("missing plugin", func(t *testing.T) {
		env := accounttest.NewEnv(account)
		ctx, _ := accounttest.Context(1)
		assert.IsErr(t, errors.ErrNotFound, Call(ctx, env, addr, OnInstall()))
	})

	t.Run("returned error", func(t *testing.T) {
		p := &accounttest.Plugin{AuthErr: errors.ErrState.New("veto")}
		env := accounttest.NewEnv(account).WithPlugin(addr, p)
		ctx, _ := accounttest.Context(1)
		assert.IsErr(t, errors.ErrState, Call(ctx, env, addr, OnAuth(ops)))
	})

	t.Run("panic", func(t *testing.T) {
		p := &accounttest.Plugin{Panic: true}
		env := accounttest.NewEnv(account).WithPlugin(addr, p)
		ctx, _ := accounttest.Context(1)
		assert.IsErr(t, errors.ErrPanic, Call(ctx, env, addr, OnUninstall()))
	})
}
