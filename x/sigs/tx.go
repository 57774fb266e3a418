package sigs

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/crypto"
	"github.com/iov-one/pool/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	// Equivalent to pool.MustMarshal(tx.GetMsg()) if Msg has a deterministic
	// serialization.
	//
	// Helpful to store original, unparsed bytes here, just in case.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures on this tx
	GetSignatures() []*StdSignature
}

// StdSignature is a signature of a transaction together with the nonce and
// the key used to produce it.
type StdSignature struct {
	Sequence  int64             `json:"sequence"`
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Signature *crypto.Signature `json:"signature"`
}

// Validate ensures the signature is well formed. It does not verify it.
func (s *StdSignature) Validate() error {
	if s == nil {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return err
	}
	if s.Signature == nil || len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "signature bytes")
	}
	return nil
}

var _ pool.Persistent = (*StdSignature)(nil)

func (s *StdSignature) Marshal() ([]byte, error) {
	return pool.Encode(s)
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	return pool.Decode(raw, s)
}
