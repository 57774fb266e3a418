package crypto

import (
	"github.com/iov-one/pool/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultDerivationPath is the SLIP-0010 path used for the first account
// key.
const DefaultDerivationPath = "m/44'/234'/0'"

// DeriveKey derives an ed25519 private key from a master seed along given
// hardened path, as described by SLIP-0010.
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) < 16 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "seed must be at least 128 bits")
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "derive path %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
