package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name. It must parse the
// arguments itself and read and write only to provided input and output.
//
// Commands are meant to be combined into a pipeline. For example, a bundle
// signed by two keys is checked by
//
//   $ accountcli sign -key alice.key -message "pay rent" \
//       | accountcli sign -key bob.key -message "pay rent" \
//       | accountcli check -genesis genesis.json -message "pay rent" -op token:transfer
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"check":   cmdCheck,
	"keyaddr": cmdKeyaddr,
	"keygen":  cmdKeygen,
	"sign":    cmdSign,
	"signers": cmdSigners,
	"version": cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for smart accounts.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		// Set ACCOUNTCLI_DEBUG to see the stack trace of a failure.
		debug := os.Getenv("ACCOUNTCLI_DEBUG") != ""
		code, log := errors.Info(err, debug)
		if code == 1 && !debug {
			// Errors of this program do not carry a code.
			log = err.Error()
		}
		fmt.Fprintf(os.Stderr, "error %d: %s\n", code, log)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, smartaccount.Version())
	return err
}
