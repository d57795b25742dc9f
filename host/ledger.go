package host

import (
	"context"
	"sync"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
	"github.com/iov-one/smartaccount/store"
	"github.com/iov-one/smartaccount/x/account"
	"github.com/iov-one/smartaccount/x/signer"
	"github.com/iov-one/smartaccount/x/upgrade"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/libs/log"
)

// Instance is an account deployed on a ledger.
type Instance struct {
	*account.Account
	*upgrade.Upgrader
}

// Call is run by the ledger against a single account. Writes to db are
// persisted only if the call returns no error.
type Call func(ctx context.Context, db store.KVStore, inst *Instance) error

type deployment struct {
	inst *Instance
	db   store.CacheableKVStore
	code []byte
}

// Ledger runs calls against deployed accounts. Calls are serialized by a
// non-reentrant lock, which is held while contracts run. A plugin or
// delegate must not call back into the ledger it is executed by, such call
// blocks forever. Contracts reach the calling account only through the
// Env they are given.
type Ledger struct {
	mu     sync.Mutex
	clock  Clock
	last   smartaccount.UnixTime
	logger log.Logger
	cdc    *amino.Codec

	contracts map[string]interface{}
	accounts  map[string]*deployment
	events    []smartaccount.Event

	// pending collects code updates of the running call.
	pending map[string][]byte
}

// NewLedger returns a ledger without any accounts or contracts. A nil
// logger discards all messages.
func NewLedger(clock Clock, logger log.Logger) *Ledger {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Ledger{
		clock:     clock,
		logger:    logger.With("module", "host"),
		cdc:       signer.NewCodec(),
		contracts: make(map[string]interface{}),
		accounts:  make(map[string]*deployment),
		pending:   make(map[string][]byte),
	}
}

// Codec returns the codec used to encode account state.
func (l *Ledger) Codec() *amino.Codec {
	return l.cdc
}

// Register makes a contract available under given address. A contract
// must implement smartaccount.Plugin, smartaccount.PolicyDelegate or both.
func (l *Ledger) Register(addr smartaccount.Address, contract interface{}) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	_, isPlugin := contract.(smartaccount.Plugin)
	_, isDelegate := contract.(smartaccount.PolicyDelegate)
	if !isPlugin && !isDelegate {
		return errors.Wrapf(errors.ErrType, "%T is not a contract", contract)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.taken(addr) {
		return errors.Wrapf(errors.ErrDuplicate, "address %s", addr)
	}
	l.contracts[addr.String()] = contract
	return nil
}

// Deploy creates an account under given address. The account state is kept
// in db, a nil db keeps it in memory. The account must be initialized
// before it can authorize anything, see Genesis and Invoke.
func (l *Ledger) Deploy(addr smartaccount.Address, db store.CacheableKVStore, code []byte, m upgrade.Migrator) (*Instance, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	if db == nil {
		db = store.MemStore()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.taken(addr) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "address %s", addr)
	}
	env := &accountEnv{ledger: l, addr: addr.Clone()}
	inst := &Instance{
		Account:  account.New(env, l.cdc),
		Upgrader: upgrade.NewUpgrader(env, l.cdc, m),
	}
	l.accounts[addr.String()] = &deployment{inst: inst, db: db, code: code}
	l.logger.Info("account deployed", "account", addr)
	return inst, nil
}

func (l *Ledger) taken(addr smartaccount.Address) bool {
	key := addr.String()
	_, isContract := l.contracts[key]
	_, isAccount := l.accounts[key]
	return isContract || isAccount
}

// Code returns the code an account is running.
func (l *Ledger) Code(addr smartaccount.Address) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, err := l.deployment(addr)
	if err != nil {
		return nil, err
	}
	return d.code, nil
}

// Events returns all events published by the calls so far. Events of a
// failed call are not included, except for the diagnostic ones.
func (l *Ledger) Events() []smartaccount.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]smartaccount.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Genesis initializes an account using the "account" section of given
// options.
func (l *Ledger) Genesis(addr smartaccount.Address, opts smartaccount.Options) ([]smartaccount.Event, error) {
	return l.Invoke(addr, func(ctx context.Context, db store.KVStore, inst *Instance) error {
		initializer := account.Initializer{Account: inst.Account}
		return initializer.FromGenesis(ctx, opts, db)
	})
}

// Invoke runs fn as a single atomic call. The call is not authorized by
// the account, so it can only query the state or perform operations that
// need no approval. Events published by the call are returned. On failure
// only diagnostic events are returned.
func (l *Ledger) Invoke(addr smartaccount.Address, fn Call) ([]smartaccount.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, err := l.deployment(addr)
	if err != nil {
		return nil, err
	}
	return l.run(addr, d, fn)
}

// Execute authorizes the call with given proofs and runs fn. fn runs with
// the approval of the account only if one of ops targets the account
// itself, so administration requires an admin signature. The whole call is
// atomic: fn is not run if the
// authorization fails and a failure of fn discards the authorization
// side effects as well.
func (l *Ledger) Execute(
	addr smartaccount.Address,
	payload [32]byte,
	bundle signer.Bundle,
	ops []smartaccount.OperationContext,
	fn Call,
) ([]smartaccount.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, err := l.deployment(addr)
	if err != nil {
		return nil, err
	}
	return l.run(addr, d, func(ctx context.Context, db store.KVStore, inst *Instance) error {
		ctx, err := l.authorize(ctx, db.(store.CacheableKVStore), inst, payload, bundle, ops)
		if err != nil {
			return err
		}
		if fn == nil {
			return nil
		}
		return fn(ctx, db, inst)
	})
}

// Authorize runs only the authorization check of the account.
func (l *Ledger) Authorize(
	addr smartaccount.Address,
	payload [32]byte,
	bundle signer.Bundle,
	ops []smartaccount.OperationContext,
) ([]smartaccount.Event, error) {
	return l.Execute(addr, payload, bundle, ops, nil)
}

// authorize runs the check as a nested call. Its writes and events are
// merged into the parent call only if the check passes.
func (l *Ledger) authorize(
	ctx context.Context,
	db store.CacheableKVStore,
	inst *Instance,
	payload [32]byte,
	bundle signer.Bundle,
	ops []smartaccount.OperationContext,
) (context.Context, error) {
	events, err := atomic(ctx, db, func(ctx context.Context, db store.KVStore) error {
		return inst.CheckAuth(ctx, db, payload, bundle, ops)
	})
	if em, ok := smartaccount.GetEventManager(ctx); ok {
		for _, ev := range events {
			em.Emit(ev)
		}
	}
	if err != nil {
		return ctx, errors.Wrap(err, "authorization")
	}
	// Approval of the account is granted only for operations that target
	// it. CheckAuth admits standard signers for anything else.
	if !smartaccount.TargetsAccount(inst.Address(), ops) {
		return ctx, nil
	}
	return smartaccount.WithAuthorized(ctx, inst.Address()), nil
}

func (l *Ledger) run(addr smartaccount.Address, d *deployment, fn Call) ([]smartaccount.Event, error) {
	ctx := context.Background()
	ctx = smartaccount.WithLogger(ctx, l.logger.With("account", addr))
	ctx = smartaccount.WithBlockTime(ctx, l.now())

	for k := range l.pending {
		delete(l.pending, k)
	}
	events, err := atomic(ctx, d.db, func(ctx context.Context, db store.KVStore) error {
		return fn(ctx, db, d.inst)
	})
	l.events = append(l.events, events...)
	if err != nil {
		l.logger.Error("call failed", "account", addr, "err", err)
		return events, err
	}
	for key, code := range l.pending {
		l.accounts[key].code = code
	}
	return events, nil
}

// now returns the clock time. The ledger time never moves backwards, even
// if the clock does.
func (l *Ledger) now() smartaccount.UnixTime {
	t := l.clock.Now()
	if t < l.last {
		t = l.last
	}
	l.last = t
	return t
}

func (l *Ledger) deployment(addr smartaccount.Address) (*deployment, error) {
	d, ok := l.accounts[addr.String()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	return d, nil
}

// atomic runs fn against a cache wrap of db. The wrap is written only if fn
// succeeds. A panic terminates fn and is returned as ErrPanic.
func atomic(ctx context.Context, db store.CacheableKVStore, fn func(context.Context, store.KVStore) error) ([]smartaccount.Event, error) {
	em := smartaccount.NewEventManager()
	ctx = smartaccount.WithEventManager(ctx, em)
	cache := db.CacheWrap()

	if err := protect(func() error { return fn(ctx, cache) }); err != nil {
		cache.Discard()
		return em.Diagnostics(), err
	}
	if err := cache.Write(); err != nil {
		return em.Diagnostics(), errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return em.Events(), nil
}

func protect(fn func() error) (err error) {
	defer errors.Recover(&err)
	return fn()
}
