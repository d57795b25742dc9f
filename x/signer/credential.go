package signer

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/iov-one/smartaccount/crypto"
	"github.com/iov-one/smartaccount/errors"
	"github.com/tidwall/gjson"
)

// MaxClientDataSize limits the size of WebAuthn client data JSON.
const MaxClientDataSize = 1024

// Credential is the key material of a signer. The set of implementations
// is closed: Ed25519Credential and WebAuthnCredential.
type Credential interface {
	// Key returns the identity derived from this credential.
	Key() Key
	// Verify checks that proof approves payload.
	//
	// A well formed proof that does not match the credential aborts the
	// call with a panic. All other problems are returned as errors.
	Verify(payload [32]byte, proof Proof) error
	Validate() error

	isCredential()
}

// Ed25519Credential is a plain Ed25519 public key.
type Ed25519Credential struct {
	PublicKey [32]byte `json:"public_key"`
}

var _ Credential = Ed25519Credential{}

func (Ed25519Credential) isCredential() {}

func (c Ed25519Credential) Key() Key {
	return Ed25519Key(c.PublicKey)
}

func (c Ed25519Credential) Verify(payload [32]byte, proof Proof) error {
	p, ok := proof.(Ed25519Proof)
	if !ok {
		return errors.Wrapf(ErrInvalidProofType, "ed25519 signer cannot use %T", proof)
	}
	if err := crypto.VerifyEd25519(c.PublicKey[:], payload[:], p.Signature); err != nil {
		return errors.Wrap(ErrVerificationFailed, err.Error())
	}
	return nil
}

func (c Ed25519Credential) Validate() error {
	return errors.Field("PublicKey", Ed25519Key(c.PublicKey).Validate(), "")
}

// WebAuthnCredential is a passkey registered with an authenticator. The
// public key is an uncompressed secp256r1 point.
type WebAuthnCredential struct {
	CredentialID string `json:"credential_id"`
	PublicKey    []byte `json:"public_key"`
}

var _ Credential = WebAuthnCredential{}

func (WebAuthnCredential) isCredential() {}

func (c WebAuthnCredential) Key() Key {
	return WebAuthnKey(c.CredentialID)
}

// Verify checks the assertion signature over authenticator data and client
// data hash, then requires the client data challenge to be the payload.
func (c WebAuthnCredential) Verify(payload [32]byte, proof Proof) error {
	p, ok := proof.(WebAuthnProof)
	if !ok {
		return errors.Wrapf(ErrInvalidProofType, "webauthn signer cannot use %T", proof)
	}

	clientDataHash := sha256.Sum256(p.ClientDataJSON)
	signed := make([]byte, 0, len(p.AuthenticatorData)+len(clientDataHash))
	signed = append(signed, p.AuthenticatorData...)
	signed = append(signed, clientDataHash[:]...)
	if err := crypto.VerifyP256(c.PublicKey, sha256.Sum256(signed), p.Signature); err != nil {
		return errors.Wrap(ErrVerificationFailed, err.Error())
	}

	if len(p.ClientDataJSON) > MaxClientDataSize {
		return errors.Wrapf(ErrMalformedAssertion, "client data exceeds %d bytes", MaxClientDataSize)
	}
	if !gjson.ValidBytes(p.ClientDataJSON) {
		return errors.Wrap(ErrMalformedAssertion, "client data is not JSON")
	}
	challenge := gjson.GetBytes(p.ClientDataJSON, "challenge")
	if challenge.Type != gjson.String {
		return errors.Wrap(ErrMalformedAssertion, "client data without challenge")
	}
	if want := base64.RawURLEncoding.EncodeToString(payload[:]); challenge.String() != want {
		return errors.Wrapf(ErrChallengeMismatch, "want %q", want)
	}
	return nil
}

func (c WebAuthnCredential) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CredentialID", WebAuthnKey(c.CredentialID).Validate())
	if _, err := crypto.ParseP256PublicKey(c.PublicKey); err != nil {
		errs = errors.AppendField(errs, "PublicKey", err)
	}
	return errs
}
