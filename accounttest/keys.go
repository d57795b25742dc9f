package accounttest

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/iov-one/smartaccount/crypto"
	"golang.org/x/crypto/ed25519"
)

var seed = []byte("smart account deterministic test seed material")

// Ed25519Key returns a deterministic private key. Different indexes
// produce different keys.
func Ed25519Key(t testing.TB, index uint32) ed25519.PrivateKey {
	t.Helper()
	priv, err := crypto.DeriveEd25519(seed, fmt.Sprintf("m/44'/234'/%d'", index))
	if err != nil {
		t.Fatalf("cannot derive key %d: %s", index, err)
	}
	return priv
}

// Ed25519Public returns the public part of a private key as an array.
func Ed25519Public(priv ed25519.PrivateKey) [32]byte {
	var out [32]byte
	copy(out[:], priv.Public().(ed25519.PublicKey))
	return out
}

// Assertion groups what a WebAuthn authenticator returns for a get
// request.
type Assertion struct {
	AuthenticatorData []byte
	ClientDataJSON    []byte
	Signature         []byte
}

// authenticatorData is a minimal valid value: rp id hash, user present
// flag and a zero sign counter.
func authenticatorData() []byte {
	rp := sha256.Sum256([]byte("example.com"))
	return append(rp[:], 0x01, 0, 0, 0, 0)
}

// ClientData returns client data JSON carrying given challenge.
func ClientData(challenge [32]byte) []byte {
	return []byte(fmt.Sprintf(
		`{"type":"webauthn.get","challenge":%q,"origin":"https://example.com","crossOrigin":false}`,
		base64.RawURLEncoding.EncodeToString(challenge[:])))
}

// WebAuthnAssertion returns an assertion of payload signed by priv, in the
// form produced by a browser authenticator.
func WebAuthnAssertion(priv *ecdsa.PrivateKey, payload [32]byte) Assertion {
	return SignClientData(priv, ClientData(payload))
}

// SignClientData returns an assertion over arbitrary client data JSON.
func SignClientData(priv *ecdsa.PrivateKey, clientDataJSON []byte) Assertion {
	authData := authenticatorData()
	cdh := sha256.Sum256(clientDataJSON)
	digest := sha256.Sum256(append(append([]byte{}, authData...), cdh[:]...))
	return Assertion{
		AuthenticatorData: authData,
		ClientDataJSON:    clientDataJSON,
		Signature:         crypto.SignP256(priv, digest),
	}
}
