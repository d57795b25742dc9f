package account

import (
	"context"
	"crypto/sha256"
	"testing"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/accounttest"
	"github.com/iov-one/smartaccount/crypto"
	"github.com/iov-one/smartaccount/store"
	"github.com/iov-one/smartaccount/x/policy"
	"github.com/iov-one/smartaccount/x/signer"
	"golang.org/x/crypto/ed25519"
)

var (
	accountAddr = accounttest.Addr("account")
	tokenAddr   = accounttest.Addr("token")

	transferOps = []smartaccount.OperationContext{
		{Contract: tokenAddr, Function: "transfer", Args: [][]byte{[]byte("alice"), []byte("100")}},
	}
	selfOps = []smartaccount.OperationContext{
		{Contract: accountAddr, Function: "add_signer"},
	}
)

// fixture is an initialized account with a single admin signer.
type fixture struct {
	t      testing.TB
	env    *accounttest.Env
	acct   *Account
	db     store.CacheableKVStore
	admin  ed25519.PrivateKey
	now    smartaccount.UnixTime
	events []smartaccount.Event
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		t:     t,
		env:   accounttest.NewEnv(accountAddr),
		db:    store.MemStore(),
		admin: accounttest.Ed25519Key(t, 0),
		now:   1000,
	}
	f.acct = New(f.env, signer.NewCodec())
	err := f.call(func(ctx context.Context, db store.KVStore) error {
		return f.acct.Initialize(ctx, db, []signer.Signer{edSigner(f.admin, signer.Admin{})}, nil)
	})
	if err != nil {
		t.Fatalf("cannot initialize: %+v", err)
	}
	return f
}

// call runs fn as a single atomic call approved by the account. State is
// written only if fn succeeds.
func (f *fixture) call(fn func(ctx context.Context, db store.KVStore) error) error {
	ctx, em := accounttest.Context(f.now)
	ctx = smartaccount.WithAuthorized(ctx, accountAddr)
	cache := f.db.CacheWrap()
	err := fn(ctx, cache)
	f.events = em.Events()
	if err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		f.t.Fatalf("cannot write: %+v", err)
	}
	return nil
}

func (f *fixture) add(s signer.Signer) error {
	return f.call(func(ctx context.Context, db store.KVStore) error {
		return f.acct.AddSigner(ctx, db, s)
	})
}

func (f *fixture) update(s signer.Signer) error {
	return f.call(func(ctx context.Context, db store.KVStore) error {
		return f.acct.UpdateSigner(ctx, db, s)
	})
}

func (f *fixture) revoke(k signer.Key) error {
	return f.call(func(ctx context.Context, db store.KVStore) error {
		return f.acct.RevokeSigner(ctx, db, k)
	})
}

func (f *fixture) install(addr smartaccount.Address) error {
	return f.call(func(ctx context.Context, db store.KVStore) error {
		return f.acct.InstallPlugin(ctx, db, addr)
	})
}

func (f *fixture) uninstall(addr smartaccount.Address) error {
	return f.call(func(ctx context.Context, db store.KVStore) error {
		return f.acct.UninstallPlugin(ctx, db, addr)
	})
}

func (f *fixture) checkAuth(payload [32]byte, bundle signer.Bundle, ops []smartaccount.OperationContext) error {
	return f.call(func(ctx context.Context, db store.KVStore) error {
		return f.acct.CheckAuth(ctx, db, payload, bundle, ops)
	})
}

func (f *fixture) adminCount() uint32 {
	f.t.Helper()
	n, err := f.acct.AdminCount(f.db)
	if err != nil {
		f.t.Fatalf("cannot get admin count: %+v", err)
	}
	return n
}

func edSigner(priv ed25519.PrivateKey, role signer.Role) signer.Signer {
	return signer.Signer{
		Credential: signer.Ed25519Credential{PublicKey: accounttest.Ed25519Public(priv)},
		Role:       role,
	}
}

func edKey(priv ed25519.PrivateKey) signer.Key {
	return signer.Ed25519Key(accounttest.Ed25519Public(priv))
}

func edProof(priv ed25519.PrivateKey, payload [32]byte) signer.Proof {
	return signer.Ed25519Proof{Signature: crypto.SignEd25519(priv, payload[:])}
}

func standard(policies ...policy.Policy) signer.Role {
	return signer.Standard{Policies: policies}
}

func payloadOf(s string) [32]byte {
	return sha256.Sum256([]byte(s))
}
