package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/smartaccount/crypto"
	"github.com/iov-one/smartaccount/x/signer"
	"golang.org/x/crypto/ed25519"
)

func defaultKeyPath() string {
	return env("ACCOUNTCLI_PRIV_KEY", os.Getenv("HOME")+"/.accountcli.priv.key")
}

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new ed25519 private key and print the signer key.

The key is derived from the seed using SLIP-0010. Without a seed a random
one is used. This command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use ACCOUNTCLI_PRIV_KEY environment variable to set it.")
		seedFl = flHex(fl, "seed", "", "Hex encoded seed, at least 32 bytes.")
		pathFl = fl.String("path", crypto.DefaultDerivationPath, "Derivation path.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Never overwrite a private key. It must be deleted manually.
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	seed := *seedFl
	if len(seed) == 0 {
		seed = make([]byte, 32)
		if _, err := rand.Read(seed); err != nil {
			return fmt.Errorf("cannot generate seed: %s", err)
		}
	}
	priv, err := crypto.DeriveEd25519(seed, *pathFl)
	if err != nil {
		return err
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()
	if _, err := fd.Write(priv); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	_, err = fmt.Fprintln(output, signerKey(priv))
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the signer key associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use ACCOUNTCLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	priv, err := readPrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, signerKey(priv))
	return err
}

func readPrivateKey(path string) (ed25519.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return ed25519.PrivateKey(raw), nil
}

func signerKey(priv ed25519.PrivateKey) signer.Ed25519Key {
	var k signer.Ed25519Key
	copy(k[:], priv.Public().(ed25519.PublicKey))
	return k
}
