package weavetest

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/crypto"
)

// NewKey returns a freshly generated ed25519 private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns a condition of a freshly generated signing key.
func NewCondition() pool.Condition {
	return NewKey().PublicKey().Condition()
}
