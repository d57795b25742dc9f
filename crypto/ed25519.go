package crypto

import (
	"github.com/iov-one/smartaccount/errors"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
)

const schemeEd25519 = "ed25519"

// VerifyEd25519 checks that sig is a signature of msg created with the
// private key matching pub.
//
// Malformed input (wrong key or signature length) results in an ErrInput
// error. A well formed signature that does not match aborts the call by
// panicking with Abort.
func VerifyEd25519(pub, msg, sig []byte) error {
	if len(pub) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	if len(sig) != ed25519.SignatureSize {
		return errors.Wrapf(errors.ErrInput, "ed25519 signature must be %d bytes, got %d", ed25519.SignatureSize, len(sig))
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), msg, sig) {
		abort(schemeEd25519, "signature mismatch")
	}
	return nil
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() ed25519.PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return priv
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(seed)
}

// SignEd25519 returns a signature of msg. It panics if the key is malformed.
func SignEd25519(priv ed25519.PrivateKey, msg []byte) []byte {
	return ed25519.Sign(priv, msg)
}

// EncodeEd25519 returns the base58 text form of a public key.
func EncodeEd25519(pub []byte) string {
	return base58.Encode(pub)
}

// DecodeEd25519 parses the base58 text form of a public key.
func DecodeEd25519(enc string) ([]byte, error) {
	raw, err := base58.Decode(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return raw, nil
}
