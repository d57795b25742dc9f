package crypto

import (
	"github.com/iov-one/smartaccount/errors"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

// DefaultDerivationPath is the SLIP-0010 path used when none is given.
const DefaultDerivationPath = "m/44'/234'/0'"

// DeriveEd25519 derives a private key from a master seed using SLIP-0010
// hardened derivation. An empty path returns the key created directly from
// the first 32 bytes of the seed.
func DeriveEd25519(seed []byte, path string) (ed25519.PrivateKey, error) {
	if path == "" {
		if len(seed) < ed25519.SeedSize {
			return nil, errors.Wrapf(errors.ErrInput, "seed must be at least %d bytes", ed25519.SeedSize)
		}
		return ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize]), nil
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot derive key for path %q: %s", path, err)
	}
	return ed25519.NewKeyFromSeed(k.Key), nil
}
