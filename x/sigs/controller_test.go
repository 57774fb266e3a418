package sigs

import (
	"testing"

	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/store"
	"github.com/iov-one/pool/weavetest"
	"github.com/iov-one/pool/weavetest/assert"
)

const chainID = "test-chain-1"

type signedTx struct {
	weavetest.Tx
	data []byte
	sigs []*StdSignature
}

var _ SignedTx = (*signedTx)(nil)

func (s *signedTx) GetSignBytes() ([]byte, error) { return s.data, nil }

func (s *signedTx) GetSignatures() []*StdSignature { return s.sigs }

func TestSignBytes(t *testing.T) {
	data := []byte("some data")

	a, err := BuildSignBytes(data, chainID, 7)
	assert.Nil(t, err)
	b, err := BuildSignBytes(data, chainID, 7)
	assert.Nil(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 64, len(a))

	c, err := BuildSignBytes(data, chainID, 8)
	assert.Nil(t, err)
	d, err := BuildSignBytes(data, "other-chain", 7)
	assert.Nil(t, err)
	if string(a) == string(c) || string(a) == string(d) {
		t.Fatal("nonce and chain id must change the sign bytes")
	}

	_, err = BuildSignBytes(data, chainID, -1)
	assert.IsErr(t, ErrInvalidSequence, err)
	_, err = BuildSignBytes(data, "x", 1)
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestVerifySignature(t *testing.T) {
	db := store.MemStore()
	key := weavetest.NewKey()
	tx := &signedTx{data: []byte("transfer")}

	sig0, err := SignTx(key, tx, chainID, 0)
	assert.Nil(t, err)
	sig1, err := SignTx(key, tx, chainID, 1)
	assert.Nil(t, err)

	// a signature for a future nonce is rejected
	_, err = VerifySignature(db, sig1, tx.data, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	cond, err := VerifySignature(db, sig0, tx.data, chainID)
	assert.Nil(t, err)
	assert.Equal(t, key.PublicKey().Condition(), cond)

	// replay is rejected
	_, err = VerifySignature(db, sig0, tx.data, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	seq, err := NextSequence(db, key.PublicKey())
	assert.Nil(t, err)
	assert.Equal(t, int64(1), seq)

	// signature of a different payload
	_, err = VerifySignature(db, sig1, []byte("other"), chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = VerifySignature(db, sig1, tx.data, chainID)
	assert.Nil(t, err)

	empty := &StdSignature{Pubkey: key.PublicKey()}
	_, err = VerifySignature(db, empty, tx.data, chainID)
	assert.IsErr(t, errors.ErrEmpty, err)
}

func TestVerifyTxSignatures(t *testing.T) {
	db := store.MemStore()
	a, b := weavetest.NewKey(), weavetest.NewKey()
	tx := &signedTx{data: []byte("payload")}

	sigA, err := SignTx(a, tx, chainID, 0)
	assert.Nil(t, err)
	sigB, err := SignTx(b, tx, chainID, 0)
	assert.Nil(t, err)

	tx.sigs = []*StdSignature{sigA, sigB}
	signers, err := VerifyTxSignatures(db, tx, chainID)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(signers))
	assert.Equal(t, a.PublicKey().Condition(), signers[0])

	// sequences were bumped, so the same signatures are replays now
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	tx.sigs = nil
	signers, err = VerifyTxSignatures(db, tx, chainID)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(signers))
}
