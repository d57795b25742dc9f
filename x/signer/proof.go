package signer

import (
	"github.com/iov-one/smartaccount/errors"
)

// Proof is evidence that a signer approved a payload. The set of
// implementations is closed: Ed25519Proof and WebAuthnProof.
type Proof interface {
	isProof()
}

type Ed25519Proof struct {
	Signature []byte `json:"signature"`
}

func (Ed25519Proof) isProof() {}

// WebAuthnProof is an authenticator assertion. The signature can be either
// ASN.1 DER or raw r||s encoded.
type WebAuthnProof struct {
	AuthenticatorData []byte `json:"authenticator_data"`
	ClientDataJSON    []byte `json:"client_data_json"`
	Signature         []byte `json:"signature"`
}

func (WebAuthnProof) isProof() {}

// Bundle maps signers to their proofs. A bundle must not be empty.
type Bundle map[Key]Proof

// Entry is a single signer proof of a bundle.
type Entry struct {
	Key   Key   `json:"key"`
	Proof Proof `json:"proof"`
}

// Entries returns all bundle entries in the order of signer store keys.
// This is the order in which signers are evaluated.
func (b Bundle) Entries() []Entry {
	keys := make([]Key, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	SortKeys(keys)

	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = Entry{Key: k, Proof: b[k]}
	}
	return entries
}

// NewBundle builds a bundle out of a list of entries. A key must not
// repeat.
func NewBundle(entries ...Entry) (Bundle, error) {
	b := make(Bundle, len(entries))
	for i, e := range entries {
		if e.Key == nil || e.Proof == nil {
			return nil, errors.Wrapf(errors.ErrEmpty, "entry %d", i)
		}
		if _, ok := b[e.Key]; ok {
			return nil, errors.Wrapf(errors.ErrDuplicate, "signer %s", e.Key)
		}
		b[e.Key] = e.Proof
	}
	return b, nil
}
