package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	smartaccount "github.com/iov-one/smartaccount"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *smartaccount.Address {
	var a smartaccount.Address
	if defaultVal != "" {
		var err error
		a, err = parseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&addressValue{a: &a}, name, usage)
	return &a
}

type addressValue struct {
	a *smartaccount.Address
}

func (v *addressValue) String() string {
	if v.a == nil || len(*v.a) == 0 {
		return ""
	}
	return v.a.String()
}

func (v *addressValue) Set(raw string) error {
	a, err := parseAddress(raw)
	if err != nil {
		return err
	}
	*v.a = a
	return nil
}

// parseAddress accepts the bech32 or hex form of an address. Any other
// value is turned into an address by hashing it, which allows to use
// readable names like "token" in local setups.
func parseAddress(raw string) (smartaccount.Address, error) {
	if raw == "" || strings.ContainsAny(raw, " \t\n") {
		return nil, fmt.Errorf("invalid address %q", raw)
	}
	if a, err := smartaccount.ParseAddress(raw); err == nil {
		return a, nil
	}
	return smartaccount.NewAddress([]byte(raw)), nil
}

// flHex returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided.
func flHex(fl *flag.FlagSet, name, defaultVal, usage string) *[]byte {
	var b []byte
	if defaultVal != "" {
		var err error
		b, err = hex.DecodeString(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q hex encoded flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&hexValue{b: &b}, name, usage)
	return &b
}

type hexValue struct {
	b *[]byte
}

func (v *hexValue) String() string {
	if v.b == nil {
		return ""
	}
	return hex.EncodeToString(*v.b)
}

func (v *hexValue) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*v.b = val
	return nil
}

// flTime returns a time value. Zero means that no time was given. Both the
// UNIX timestamp and the RFC3339 form are accepted.
func flTime(fl *flag.FlagSet, name, usage string) *smartaccount.UnixTime {
	var t smartaccount.UnixTime
	fl.Var(&timeValue{t: &t}, name, usage)
	return &t
}

type timeValue struct {
	t *smartaccount.UnixTime
}

func (v *timeValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return strconv.FormatInt(int64(*v.t), 10)
}

func (v *timeValue) Set(raw string) error {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*v.t = smartaccount.UnixTime(n)
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("time must be a UNIX timestamp or RFC3339: %s", err)
	}
	*v.t = smartaccount.AsUnixTime(t)
	return nil
}

// flOps returns a list of operations, one for each flag occurrence. An
// operation is given as <contract>:<function>.
func flOps(fl *flag.FlagSet, name, usage string) *[]smartaccount.OperationContext {
	var ops []smartaccount.OperationContext
	fl.Var(&opsValue{ops: &ops}, name, usage)
	return &ops
}

type opsValue struct {
	ops *[]smartaccount.OperationContext
}

func (v *opsValue) String() string {
	if v.ops == nil {
		return ""
	}
	parts := make([]string, len(*v.ops))
	for i, op := range *v.ops {
		parts[i] = op.Contract.String() + ":" + op.Function
	}
	return strings.Join(parts, ",")
}

func (v *opsValue) Set(raw string) error {
	i := strings.LastIndex(raw, ":")
	if i <= 0 || i == len(raw)-1 {
		return fmt.Errorf("operation must be <contract>:<function>, got %q", raw)
	}
	contract, err := parseAddress(raw[:i])
	if err != nil {
		return err
	}
	*v.ops = append(*v.ops, smartaccount.OperationContext{
		Contract: contract,
		Function: raw[i+1:],
	})
	return nil
}

// env returns the value of an environment variable if provided (even if
// empty) or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}
