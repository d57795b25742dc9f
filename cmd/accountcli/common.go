package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/host"
	"github.com/iov-one/smartaccount/store"
	"github.com/iov-one/smartaccount/store/iavl"
	"github.com/iov-one/smartaccount/x/account"
	"github.com/iov-one/smartaccount/x/signer"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/libs/log"
)

// newLogger returns a logger writing to out that filters messages below
// given level. Level "none" silences it.
func newLogger(out io.Writer, level string) (log.Logger, error) {
	if level == "none" {
		return log.NewNopLogger(), nil
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewTMLogger(log.NewSyncWriter(out))
	return log.NewFilter(logger, opt).With("module", "accountcli"), nil
}

// session is a ledger with a single account loaded from the genesis file.
type session struct {
	ledger  *host.Ledger
	addr    smartaccount.Address
	commit  *iavl.CommitStore
	genesis account.Genesis
}

type sessionConfig struct {
	genesisPath string
	addr        smartaccount.Address
	// dbDir is where the account state is kept. Empty means in memory.
	dbDir  string
	now    smartaccount.UnixTime
	logger log.Logger
}

// openSession deploys the account and initializes it from the genesis
// file, unless the stored state is already initialized. Every plugin named
// by the genesis is served by a logging contract.
func openSession(conf sessionConfig) (*session, error) {
	var clock host.Clock = host.SystemClock{}
	if !conf.now.IsZero() {
		clock = host.NewManualClock(conf.now)
	}
	s := &session{
		ledger: host.NewLedger(clock, conf.logger),
		addr:   conf.addr,
	}

	opts, err := readGenesis(conf.genesisPath)
	if err != nil {
		return nil, err
	}
	if err := opts.ReadOptionsWith("account", &s.genesis, s.ledger.Codec().UnmarshalJSON); err != nil {
		return nil, err
	}
	for _, p := range s.genesis.Plugins {
		if err := s.ledger.Register(p, &logPlugin{logger: conf.logger}); err != nil {
			return nil, fmt.Errorf("cannot register plugin %s: %s", p, err)
		}
	}

	var db store.CacheableKVStore
	if conf.dbDir != "" {
		s.commit, err = iavl.NewCommitStore(conf.dbDir, "account")
		if err != nil {
			return nil, err
		}
		db = s.commit.Adapter()
	}
	if _, err := s.ledger.Deploy(conf.addr, db, nil, nil); err != nil {
		s.Close()
		return nil, err
	}

	var initialized bool
	_, err = s.ledger.Invoke(conf.addr, func(ctx context.Context, db store.KVStore, inst *host.Instance) error {
		var err error
		initialized, err = inst.IsInitialized(db)
		return err
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	if !initialized {
		if _, err := s.ledger.Genesis(conf.addr, opts); err != nil {
			s.Close()
			return nil, fmt.Errorf("cannot initialize account: %+v", err)
		}
	}
	return s, s.Commit()
}

// Commit persists the account state, if a database is used.
func (s *session) Commit() error {
	if s.commit == nil {
		return nil
	}
	_, err := s.commit.Commit()
	return err
}

func (s *session) Close() {
	if s.commit != nil {
		s.commit.Close()
	}
}

func readGenesis(path string) (smartaccount.Options, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read genesis file: %s", err)
	}
	var opts smartaccount.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("cannot parse genesis file: %s", err)
	}
	return opts, nil
}

// readBundle decodes bundle entries from input. Empty input is an empty
// list.
func readBundle(input io.Reader, cdc *amino.Codec) ([]signer.Entry, error) {
	raw, err := ioutil.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("cannot read input: %s", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var entries []signer.Entry
	if err := cdc.UnmarshalJSON(raw, &entries); err != nil {
		return nil, fmt.Errorf("cannot decode bundle: %s", err)
	}
	return entries, nil
}

func writeBundle(output io.Writer, cdc *amino.Codec, b signer.Bundle) error {
	raw, err := cdc.MarshalJSONIndent(b.Entries(), "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode bundle: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}

// payloadOf returns the payload given as hex or, if not provided, the hash
// of the message.
func payloadOf(raw []byte, message string) ([32]byte, error) {
	var payload [32]byte
	switch {
	case len(raw) == 0 && message == "":
		return payload, fmt.Errorf("payload or message is required")
	case len(raw) == 0:
		return sha256.Sum256([]byte(message)), nil
	case len(raw) != len(payload):
		return payload, fmt.Errorf("payload must be %d bytes, got %d", len(payload), len(raw))
	}
	copy(payload[:], raw)
	return payload, nil
}

// logPlugin accepts every call and logs it.
type logPlugin struct {
	logger log.Logger
}

func (p *logPlugin) OnInstall(ctx context.Context, source smartaccount.Address) error {
	p.logger.Info("plugin installed", "account", source)
	return nil
}

func (p *logPlugin) OnUninstall(ctx context.Context, source smartaccount.Address) error {
	p.logger.Info("plugin uninstalled", "account", source)
	return nil
}

func (p *logPlugin) OnAuth(ctx context.Context, source smartaccount.Address, ops []smartaccount.OperationContext) error {
	p.logger.Info("authorized", "account", source, "operations", len(ops))
	return nil
}
