package crypto

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"math/big"

	"github.com/iov-one/smartaccount/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

const (
	schemeP256 = "secp256r1"

	// P256PublicKeySize is the length of an uncompressed SEC1 encoded
	// public key.
	P256PublicKeySize = 65

	// P256RawSignatureSize is the length of a signature encoded as r||s.
	P256RawSignatureSize = 64
)

// VerifyP256 checks an ECDSA secp256r1 signature of a precomputed digest.
//
// The public key must be an uncompressed SEC1 point. The signature can be
// either ASN.1 DER encoded, as emitted by WebAuthn authenticators, or the raw
// 64 byte r||s form.
//
// Malformed key or signature encoding results in an ErrInput error. A well
// formed signature that does not match aborts the call by panicking with
// Abort.
func VerifyP256(pub []byte, digest [32]byte, sig []byte) error {
	key, err := ParseP256PublicKey(pub)
	if err != nil {
		return err
	}
	r, s, err := parseP256Signature(sig)
	if err != nil {
		return err
	}
	if !ecdsa.Verify(key, digest[:], r, s) {
		abort(schemeP256, "signature mismatch")
	}
	return nil
}

// ParseP256PublicKey decodes an uncompressed SEC1 point and ensures it lies
// on the curve.
func ParseP256PublicKey(pub []byte) (*ecdsa.PublicKey, error) {
	if len(pub) != P256PublicKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "secp256r1 public key must be %d bytes, got %d", P256PublicKeySize, len(pub))
	}
	// ecdh performs the point validation.
	if _, err := ecdh.P256().NewPublicKey(pub); err != nil {
		return nil, errors.Wrap(errors.ErrInput, "secp256r1 public key is not a valid point")
	}
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(pub[1:33]),
		Y:     new(big.Int).SetBytes(pub[33:]),
	}, nil
}

func parseP256Signature(sig []byte) (r, s *big.Int, err error) {
	if len(sig) == P256RawSignatureSize {
		r = new(big.Int).SetBytes(sig[:32])
		s = new(big.Int).SetBytes(sig[32:])
		return r, s, nil
	}

	r, s = new(big.Int), new(big.Int)
	var inner cryptobyte.String
	input := cryptobyte.String(sig)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, nil, errors.Wrap(errors.ErrInput, "malformed secp256r1 signature")
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return nil, nil, errors.Wrap(errors.ErrInput, "malformed secp256r1 signature")
	}
	return r, s, nil
}

// GenPrivKeyP256 returns a random new secp256r1 private key.
func GenPrivKeyP256() *ecdsa.PrivateKey {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic(err)
	}
	return priv
}

// EncodeP256PublicKey returns the uncompressed SEC1 form of a public key.
func EncodeP256PublicKey(pub *ecdsa.PublicKey) []byte {
	out := make([]byte, P256PublicKeySize)
	out[0] = 4
	pub.X.FillBytes(out[1:33])
	pub.Y.FillBytes(out[33:])
	return out
}

// SignP256 returns an ASN.1 DER encoded signature of a digest.
func SignP256(priv *ecdsa.PrivateKey, digest [32]byte) []byte {
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		panic(err)
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	return b.BytesOrPanic()
}

// SignP256Raw returns a signature of a digest encoded as r||s.
func SignP256Raw(priv *ecdsa.PrivateKey, digest [32]byte) []byte {
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		panic(err)
	}
	out := make([]byte, P256RawSignatureSize)
	r.FillBytes(out[:32])
	s.FillBytes(out[32:])
	return out
}
