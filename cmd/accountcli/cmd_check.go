package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/smartaccount/host"
	"github.com/iov-one/smartaccount/store"
	"github.com/iov-one/smartaccount/x/signer"
)

func cmdCheck(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Check whether the bundle read from the input authorizes given operations.

The account is initialized from the genesis file. When a database directory
is given, the account state is kept there between calls. Events of the call
are written to the output. Only diagnostic events are written when the
authorization fails.
`)
		fl.PrintDefaults()
	}
	var (
		genesisFl  = fl.String("genesis", "genesis.json", "Path to the genesis file.")
		accountFl  = flAddress(fl, "account", "account", "Address of the account.")
		dbFl       = fl.String("db", "", "Directory of the account database. In memory if empty.")
		timeFl     = flTime(fl, "time", "Ledger time. The current time if not given.")
		logLevelFl = fl.String("log-level", env("ACCOUNTCLI_LOG_LEVEL", "error"), "Log level: debug, info, error or none.")
		payloadFl  = flHex(fl, "payload", "", "Hex encoded 32 byte payload that was signed.")
		messageFl  = fl.String("message", "", "Message which hash was signed, if no payload is given.")
		opsFl      = flOps(fl, "op", "Operation to authorize as <contract>:<function>. Can be repeated.")
	)
	fl.Parse(args)

	payload, err := payloadOf(*payloadFl, *messageFl)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, *logLevelFl)
	if err != nil {
		return err
	}

	s, err := openSession(sessionConfig{
		genesisPath: *genesisFl,
		addr:        *accountFl,
		dbDir:       *dbFl,
		now:         *timeFl,
		logger:      logger,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := readBundle(input, s.ledger.Codec())
	if err != nil {
		return err
	}
	bundle, err := signer.NewBundle(entries...)
	if err != nil {
		return err
	}

	events, authErr := s.ledger.Authorize(s.addr, payload, bundle, *opsFl)
	if err := json.NewEncoder(output).Encode(events); err != nil {
		return fmt.Errorf("cannot write events: %s", err)
	}
	if authErr != nil {
		return authErr
	}
	return s.Commit()
}

func cmdSigners(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print all signers of the account, ordered by their keys.
`)
		fl.PrintDefaults()
	}
	var (
		genesisFl  = fl.String("genesis", "genesis.json", "Path to the genesis file.")
		accountFl  = flAddress(fl, "account", "account", "Address of the account.")
		dbFl       = fl.String("db", "", "Directory of the account database. In memory if empty.")
		logLevelFl = fl.String("log-level", env("ACCOUNTCLI_LOG_LEVEL", "error"), "Log level: debug, info, error or none.")
	)
	fl.Parse(args)

	logger, err := newLogger(os.Stderr, *logLevelFl)
	if err != nil {
		return err
	}
	s, err := openSession(sessionConfig{
		genesisPath: *genesisFl,
		addr:        *accountFl,
		dbDir:       *dbFl,
		logger:      logger,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	var signers []signer.Signer
	_, err = s.ledger.Invoke(s.addr, func(ctx context.Context, db store.KVStore, inst *host.Instance) error {
		var err error
		signers, err = inst.Signers(db)
		return err
	})
	if err != nil {
		return err
	}
	raw, err := s.ledger.Codec().MarshalJSONIndent(signers, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode signers: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
