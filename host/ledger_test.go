package host

import (
	"context"
	"crypto/sha256"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/accounttest"
	"github.com/iov-one/smartaccount/accounttest/assert"
	"github.com/iov-one/smartaccount/crypto"
	"github.com/iov-one/smartaccount/errors"
	"github.com/iov-one/smartaccount/store"
	"github.com/iov-one/smartaccount/store/iavl"
	"github.com/iov-one/smartaccount/x/account"
	"github.com/iov-one/smartaccount/x/plugin"
	"github.com/iov-one/smartaccount/x/policy"
	"github.com/iov-one/smartaccount/x/signer"
	"github.com/iov-one/smartaccount/x/upgrade"
	"golang.org/x/crypto/ed25519"
)

var (
	accountAddr = accounttest.Addr("account")
	tokenAddr   = accounttest.Addr("token")

	transferOps = []smartaccount.OperationContext{
		{Contract: tokenAddr, Function: "transfer"},
	}
	selfOps = []smartaccount.OperationContext{
		{Contract: accountAddr, Function: "add_signer"},
	}
)

func edSigner(priv ed25519.PrivateKey, role signer.Role) signer.Signer {
	return signer.Signer{
		Credential: signer.Ed25519Credential{PublicKey: accounttest.Ed25519Public(priv)},
		Role:       role,
	}
}

func sign(priv ed25519.PrivateKey, payload [32]byte) signer.Bundle {
	key := signer.Ed25519Key(accounttest.Ed25519Public(priv))
	return signer.Bundle{key: signer.Ed25519Proof{Signature: crypto.SignEd25519(priv, payload[:])}}
}

// newLedger returns a ledger with a single initialized account with one
// admin signer.
func newLedger(t testing.TB, db store.CacheableKVStore) (*Ledger, ed25519.PrivateKey) {
	t.Helper()
	l := NewLedger(NewManualClock(1000), nil)
	_, err := l.Deploy(accountAddr, db, []byte("v1"), nil)
	assert.Nil(t, err)

	admin := accounttest.Ed25519Key(t, 0)
	raw, err := l.Codec().MarshalJSON(account.Genesis{
		Signers: []signer.Signer{edSigner(admin, signer.Admin{})},
	})
	assert.Nil(t, err)
	_, err = l.Genesis(accountAddr, smartaccount.Options{"account": raw})
	assert.Nil(t, err)
	return l, admin
}

func TestExecute(t *testing.T) {
	l, admin := newLedger(t, nil)
	user := accounttest.Ed25519Key(t, 1)
	payload := sha256.Sum256([]byte("add user"))

	events, err := l.Execute(accountAddr, payload, sign(admin, payload), selfOps,
		func(ctx context.Context, db store.KVStore, inst *Instance) error {
			return inst.AddSigner(ctx, db, edSigner(user, signer.Standard{}))
		})
	assert.Nil(t, err)
	assert.HasEvent(t, events, account.EventSignerAdded)

	var ok bool
	_, err = l.Invoke(accountAddr, func(ctx context.Context, db store.KVStore, inst *Instance) error {
		ok, err = inst.HasSigner(db, edSigner(user, signer.Standard{}).Key())
		return err
	})
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	// The new signer can authorize a transfer, but not administration.
	payload = sha256.Sum256([]byte("transfer"))
	_, err = l.Authorize(accountAddr, payload, sign(user, payload), transferOps)
	assert.Nil(t, err)
	_, err = l.Authorize(accountAddr, payload, sign(user, payload), selfOps)
	assert.IsErr(t, account.ErrInsufficientPermissions, err)
}

func TestInvokeIsNotAuthorized(t *testing.T) {
	l, _ := newLedger(t, nil)
	user := accounttest.Ed25519Key(t, 1)
	_, err := l.Invoke(accountAddr, func(ctx context.Context, db store.KVStore, inst *Instance) error {
		return inst.AddSigner(ctx, db, edSigner(user, signer.Standard{}))
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestStandardSignerCannotAdministrateUnderTransfer(t *testing.T) {
	l, admin := newLedger(t, nil)
	user := accounttest.Ed25519Key(t, 1)
	payload := sha256.Sum256([]byte("add user"))
	_, err := l.Execute(accountAddr, payload, sign(admin, payload), selfOps,
		func(ctx context.Context, db store.KVStore, inst *Instance) error {
			return inst.AddSigner(ctx, db, edSigner(user, signer.Standard{}))
		})
	assert.Nil(t, err)

	// The user approves a transfer and tries to promote itself within the
	// same call.
	payload = sha256.Sum256([]byte("transfer"))
	intruder := accounttest.Ed25519Key(t, 2)
	_, err = l.Execute(accountAddr, payload, sign(user, payload), transferOps,
		func(ctx context.Context, db store.KVStore, inst *Instance) error {
			if err := inst.AddSigner(ctx, db, edSigner(intruder, signer.Admin{})); err != nil {
				return err
			}
			return inst.UpdateSigner(ctx, db, edSigner(user, signer.Admin{}))
		})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	var n uint32
	_, err = l.Invoke(accountAddr, func(ctx context.Context, db store.KVStore, inst *Instance) error {
		n, err = inst.AdminCount(db)
		return err
	})
	assert.Nil(t, err)
	assert.Equal(t, uint32(1), n)

	// Not even an admin signature grants administration for a transfer.
	_, err = l.Execute(accountAddr, payload, sign(admin, payload), transferOps,
		func(ctx context.Context, db store.KVStore, inst *Instance) error {
			return inst.AddSigner(ctx, db, edSigner(intruder, signer.Admin{}))
		})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestFailedCallLeavesNoState(t *testing.T) {
	l, admin := newLedger(t, nil)
	user := accounttest.Ed25519Key(t, 1)
	payload := sha256.Sum256([]byte("add user"))
	before := len(l.Events())

	_, err := l.Execute(accountAddr, payload, sign(admin, payload), selfOps,
		func(ctx context.Context, db store.KVStore, inst *Instance) error {
			if err := inst.AddSigner(ctx, db, edSigner(user, signer.Standard{})); err != nil {
				return err
			}
			return errors.ErrState.New("changed my mind")
		})
	assert.IsErr(t, errors.ErrState, err)

	_, err = l.Invoke(accountAddr, func(ctx context.Context, db store.KVStore, inst *Instance) error {
		ok, err := inst.HasSigner(db, edSigner(user, signer.Standard{}).Key())
		if ok {
			t.Fatal("signer stored by a failed call")
		}
		return err
	})
	assert.Nil(t, err)
	// Neither the storage events nor the signer event are kept.
	assert.Equal(t, before, len(l.Events()))
}

func TestSignatureMismatchAbortsCall(t *testing.T) {
	l, admin := newLedger(t, nil)
	payload := sha256.Sum256([]byte("transfer"))
	other := sha256.Sum256([]byte("something else"))

	called := false
	_, err := l.Execute(accountAddr, payload, sign(admin, other), transferOps,
		func(context.Context, store.KVStore, *Instance) error {
			called = true
			return nil
		})
	assert.IsErr(t, errors.ErrPanic, err)
	assert.Equal(t, false, called)
}

func TestPluginVetoKeepsDiagnostics(t *testing.T) {
	l, admin := newLedger(t, nil)
	addr := accounttest.Addr("limits")
	p := &accounttest.Plugin{}
	assert.Nil(t, l.Register(addr, p))

	payload := sha256.Sum256([]byte("install"))
	_, err := l.Execute(accountAddr, payload, sign(admin, payload), selfOps,
		func(ctx context.Context, db store.KVStore, inst *Instance) error {
			return inst.InstallPlugin(ctx, db, addr)
		})
	assert.Nil(t, err)
	assert.Equal(t, 1, p.InstallCallCount())
	// Authorization of the install call itself happened before the plugin
	// was installed.
	assert.Equal(t, 0, p.AuthCallCount())

	p.AuthErr = errors.ErrState.New("limit reached")
	payload = sha256.Sum256([]byte("transfer"))
	events, err := l.Authorize(accountAddr, payload, sign(admin, payload), transferOps)
	assert.IsErr(t, plugin.ErrPluginOnAuthFailed, err)
	assert.Equal(t, 1, p.AuthCallCount())
	assert.HasEvent(t, events, plugin.EventAuthFailed)
	assert.HasEvent(t, l.Events(), plugin.EventAuthFailed)
	for _, ev := range events {
		if !ev.Diagnostic {
			t.Fatalf("non diagnostic event of a failed call: %v", ev)
		}
	}
}

func TestExternalDelegate(t *testing.T) {
	l, admin := newLedger(t, nil)
	addr := accounttest.Addr("delegate")
	d := &accounttest.Delegate{Allow: true}
	assert.Nil(t, l.Register(addr, d))

	user := accounttest.Ed25519Key(t, 1)
	payload := sha256.Sum256([]byte("add user"))
	_, err := l.Execute(accountAddr, payload, sign(admin, payload), selfOps,
		func(ctx context.Context, db store.KVStore, inst *Instance) error {
			role := signer.Standard{Policies: []policy.Policy{policy.ExternalDelegate{Address: addr}}}
			return inst.AddSigner(ctx, db, edSigner(user, role))
		})
	assert.Nil(t, err)
	assert.Equal(t, 1, d.AddCallCount())

	payload = sha256.Sum256([]byte("transfer"))
	_, err = l.Authorize(accountAddr, payload, sign(user, payload), transferOps)
	assert.Nil(t, err)

	d.Allow = false
	_, err = l.Authorize(accountAddr, payload, sign(user, payload), transferOps)
	assert.IsErr(t, account.ErrInsufficientPermissions, err)
	assert.Equal(t, 2, d.CheckCallCount())
}

func TestUpgrade(t *testing.T) {
	migrations := 0
	l := NewLedger(NewManualClock(1000), nil)
	_, err := l.Deploy(accountAddr, nil, []byte("v1"), upgrade.MigratorFunc(
		func(context.Context, store.KVStore, []byte) error {
			migrations++
			return nil
		}))
	assert.Nil(t, err)
	admin := accounttest.Ed25519Key(t, 0)
	_, err = l.Invoke(accountAddr, func(ctx context.Context, db store.KVStore, inst *Instance) error {
		return inst.Initialize(ctx, db, []signer.Signer{edSigner(admin, signer.Admin{})}, nil)
	})
	assert.Nil(t, err)

	payload := sha256.Sum256([]byte("upgrade"))
	upgradeTo := func(code []byte, fail bool) error {
		_, err := l.Execute(accountAddr, payload, sign(admin, payload), selfOps,
			func(ctx context.Context, db store.KVStore, inst *Instance) error {
				if err := inst.Upgrade(ctx, db, code); err != nil {
					return err
				}
				if fail {
					return errors.ErrState.New("fail after upgrade")
				}
				return nil
			})
		return err
	}

	assert.IsErr(t, errors.ErrState, upgradeTo([]byte("v2"), true))
	code, err := l.Code(accountAddr)
	assert.Nil(t, err)
	assert.Equal(t, []byte("v1"), code)

	assert.Nil(t, upgradeTo([]byte("v2"), false))
	code, err = l.Code(accountAddr)
	assert.Nil(t, err)
	assert.Equal(t, []byte("v2"), code)

	_, err = l.Execute(accountAddr, payload, sign(admin, payload), selfOps,
		func(ctx context.Context, db store.KVStore, inst *Instance) error {
			return inst.Migrate(ctx, db, nil)
		})
	assert.Nil(t, err)
	assert.Equal(t, 1, migrations)
	assert.HasEvent(t, l.Events(), upgrade.EventCompleted)
}

func TestRegister(t *testing.T) {
	l := NewLedger(nil, nil)
	addr := accounttest.Addr("contract")
	assert.Nil(t, l.Register(addr, &accounttest.Plugin{}))
	assert.IsErr(t, errors.ErrDuplicate, l.Register(addr, &accounttest.Delegate{}))
	assert.IsErr(t, errors.ErrType, l.Register(accounttest.Addr("other"), "not a contract"))

	_, err := l.Deploy(addr, nil, nil, nil)
	assert.IsErr(t, errors.ErrDuplicate, err)

	_, err = l.Invoke(accounttest.Addr("missing"), func(context.Context, store.KVStore, *Instance) error {
		return nil
	})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestConcurrentCallsAreSerialized(t *testing.T) {
	l, admin := newLedger(t, nil)
	const n = 8
	users := make([]ed25519.PrivateKey, n)
	for i := range users {
		users[i] = accounttest.Ed25519Key(t, uint32(i+1))
	}

	var wg sync.WaitGroup
	errc := make(chan error, n)
	for _, user := range users {
		wg.Add(1)
		go func(user ed25519.PrivateKey) {
			defer wg.Done()
			payload := sha256.Sum256(user)
			_, err := l.Execute(accountAddr, payload, sign(admin, payload), selfOps,
				func(ctx context.Context, db store.KVStore, inst *Instance) error {
					return inst.AddSigner(ctx, db, edSigner(user, signer.Standard{}))
				})
			errc <- err
		}(user)
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		assert.Nil(t, err)
	}

	_, err := l.Invoke(accountAddr, func(ctx context.Context, db store.KVStore, inst *Instance) error {
		for _, user := range users {
			ok, err := inst.HasSigner(db, edSigner(user, signer.Standard{}).Key())
			if err != nil {
				return err
			}
			if !ok {
				return errors.ErrNotFound.New("user signer")
			}
		}
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, n+1, assert.EventCount(l.Events(), account.EventSignerAdded))
}

func TestLedgerTimeNeverMovesBackwards(t *testing.T) {
	clock := NewManualClock(1000)
	l := NewLedger(clock, nil)
	_, err := l.Deploy(accountAddr, nil, nil, nil)
	assert.Nil(t, err)

	now := func() smartaccount.UnixTime {
		var got smartaccount.UnixTime
		_, err := l.Invoke(accountAddr, func(ctx context.Context, db store.KVStore, inst *Instance) error {
			var err error
			got, err = smartaccount.BlockTime(ctx)
			return err
		})
		assert.Nil(t, err)
		return got
	}

	assert.Equal(t, smartaccount.UnixTime(1000), now())
	clock.Advance(time.Minute)
	assert.Equal(t, smartaccount.UnixTime(1060), now())

	l.clock = NewManualClock(10)
	assert.Equal(t, smartaccount.UnixTime(1060), now())
}

func TestPersistentBackend(t *testing.T) {
	commit := iavl.MockCommitStore()
	_, admin := newLedger(t, commit.Adapter())
	_, err := commit.Commit()
	assert.Nil(t, err)

	// A second ledger over the same committed state sees the account.
	other := NewLedger(NewManualClock(2000), nil)
	_, err = other.Deploy(accountAddr, commit.Adapter(), nil, nil)
	assert.Nil(t, err)

	var signers []signer.Signer
	_, err = other.Invoke(accountAddr, func(ctx context.Context, db store.KVStore, inst *Instance) error {
		var err error
		signers, err = inst.Signers(db)
		return err
	})
	assert.Nil(t, err)
	want := []signer.Signer{edSigner(admin, signer.Admin{})}
	if diff := cmp.Diff(want, signers); diff != "" {
		t.Fatalf("unexpected signers (-want +got):\n%s", diff)
	}

	payload := sha256.Sum256([]byte("transfer"))
	_, err = other.Authorize(accountAddr, payload, sign(admin, payload), transferOps)
	assert.Nil(t, err)
}
