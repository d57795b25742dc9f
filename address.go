package smartaccount

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/smartaccount/crypto/bech32"
	"github.com/iov-one/smartaccount/errors"
)

const (
	// AddressLength is the size of every address in bytes.
	AddressLength = 20

	// AddressHRP is the human readable part of bech32 encoded addresses.
	AddressHRP = "sacc"
)

// Address identifies a contract known to the host: an account, a plugin or
// a policy delegate.
type Address []byte

// NewAddress derives an address from arbitrary data, for example a contract
// name. The result is the truncated sha256 hash of the data.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Clone returns a copy that does not share memory with a.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address(nil), a...)
}

// Validate returns ErrInput unless the address is of AddressLength.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.ErrInput.Newf("address of %d bytes: %X", len(a), []byte(a))
	}
	return nil
}

// String returns the bech32 form of the address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	enc, err := bech32.Encode(AddressHRP, a)
	if err != nil {
		return "hex:" + strings.ToUpper(hex.EncodeToString(a))
	}
	return string(enc)
}

// MarshalJSON encodes the address as an upper case hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts any string that ParseAddress does.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "address must be a string")
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes an address. An explicit "hex:" or "bech32:" prefix
// selects the encoding. Without a prefix strings starting with the address
// human readable part are bech32, all other are hex. An empty string is a
// nil address.
func ParseAddress(s string) (Address, error) {
	format, enc := "", s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		format, enc = s[:i], s[i+1:]
	} else if strings.HasPrefix(s, AddressHRP+"1") {
		format = "bech32"
	} else {
		format = "hex"
	}
	if enc == "" {
		return nil, nil
	}

	var (
		addr Address
		err  error
	)
	switch format {
	case "hex":
		addr, err = hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "invalid hex address")
		}
	case "bech32":
		var hrp string
		hrp, addr, err = bech32.Decode(enc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		if hrp != AddressHRP {
			return nil, errors.ErrInput.Newf("address prefix %q instead of %q", hrp, AddressHRP)
		}
	default:
		return nil, errors.ErrType.Newf("unknown address format %q", format)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
