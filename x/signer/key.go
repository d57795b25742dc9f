package signer

import (
	"encoding/base64"
	"sort"
	"strings"

	"github.com/iov-one/smartaccount/crypto"
	"github.com/iov-one/smartaccount/errors"
)

// Key is the identity of a signer. Keys are comparable and can be used as
// map keys. The set of implementations is closed: Ed25519Key and
// WebAuthnKey.
type Key interface {
	// StoreKey returns the scheme tagged binary form used to index the
	// signer in the store.
	StoreKey() []byte
	String() string
	Validate() error

	isKey()
}

// Ed25519Key is identified by the public key itself.
type Ed25519Key [32]byte

var _ Key = Ed25519Key{}

func (Ed25519Key) isKey() {}

func (k Ed25519Key) StoreKey() []byte {
	return append([]byte("ed25519/"), k[:]...)
}

func (k Ed25519Key) String() string {
	return "ed25519:" + crypto.EncodeEd25519(k[:])
}

func (k Ed25519Key) Validate() error {
	if k == (Ed25519Key{}) {
		return errors.Wrap(errors.ErrEmpty, "ed25519 key")
	}
	return nil
}

// WebAuthnKey is identified by the authenticator credential id.
type WebAuthnKey string

var _ Key = WebAuthnKey("")

func (WebAuthnKey) isKey() {}

func (k WebAuthnKey) StoreKey() []byte {
	return append([]byte("webauthn/"), k...)
}

func (k WebAuthnKey) String() string {
	return "webauthn:" + base64.RawURLEncoding.EncodeToString([]byte(k))
}

func (k WebAuthnKey) Validate() error {
	if len(k) == 0 {
		return errors.Wrap(errors.ErrEmpty, "credential id")
	}
	return nil
}

// ParseKey parses the text form of a key as returned by its String method.
func ParseKey(s string) (Key, error) {
	switch {
	case strings.HasPrefix(s, "ed25519:"):
		raw, err := crypto.DecodeEd25519(strings.TrimPrefix(s, "ed25519:"))
		if err != nil {
			return nil, err
		}
		var k Ed25519Key
		copy(k[:], raw)
		return k, nil
	case strings.HasPrefix(s, "webauthn:"):
		raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(s, "webauthn:"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		k := WebAuthnKey(raw)
		return k, k.Validate()
	default:
		return nil, errors.Wrapf(errors.ErrType, "unknown key format: %q", s)
	}
}

// SortKeys orders keys by their store representation.
func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		return string(keys[i].StoreKey()) < string(keys[j].StoreKey())
	})
}
