package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/smartaccount/crypto"
	"github.com/iov-one/smartaccount/x/signer"
)

func cmdSign(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign a payload and add the proof to the bundle read from the input.

The resulting bundle is written to the output. Empty input is an empty
bundle. A key can sign a bundle only once.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use ACCOUNTCLI_PRIV_KEY environment variable to set it.")
		payloadFl = flHex(fl, "payload", "", "Hex encoded 32 byte payload to sign.")
		messageFl = fl.String("message", "", "Message which hash is signed, if no payload is given.")
	)
	fl.Parse(args)

	payload, err := payloadOf(*payloadFl, *messageFl)
	if err != nil {
		return err
	}
	priv, err := readPrivateKey(*keyPathFl)
	if err != nil {
		return err
	}

	cdc := signer.NewCodec()
	entries, err := readBundle(input, cdc)
	if err != nil {
		return err
	}
	entries = append(entries, signer.Entry{
		Key:   signerKey(priv),
		Proof: signer.Ed25519Proof{Signature: crypto.SignEd25519(priv, payload[:])},
	})
	bundle, err := signer.NewBundle(entries...)
	if err != nil {
		return err
	}
	return writeBundle(output, cdc, bundle)
}
