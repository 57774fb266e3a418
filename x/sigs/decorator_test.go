package sigs

import (
	"context"
	"testing"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/store"
	"github.com/iov-one/pool/weavetest"
	"github.com/iov-one/pool/weavetest/assert"
)

// signerHandler records the signers seen in the context.
type signerHandler struct {
	weavetest.Handler
	seen []pool.Condition
}

func (s *signerHandler) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.CheckResult, error) {
	s.seen = Authenticate{}.GetConditions(ctx)
	return s.Handler.Check(ctx, db, tx)
}

func (s *signerHandler) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.DeliverResult, error) {
	s.seen = Authenticate{}.GetConditions(ctx)
	return s.Handler.Deliver(ctx, db, tx)
}

func TestDecorator(t *testing.T) {
	db := store.MemStore()
	ctx := pool.WithChainID(context.Background(), chainID)
	key := weavetest.NewKey()
	tx := &signedTx{data: []byte("payload")}

	sig, err := SignTx(key, tx, chainID, 0)
	assert.Nil(t, err)
	tx.sigs = []*StdSignature{sig}

	h := &signerHandler{}
	d := NewDecorator()

	res, err := d.Check(ctx, db.CacheWrap(), tx, h)
	assert.Nil(t, err)
	assert.Equal(t, int64(signatureVerifyCost), res.GasPayment)
	assert.Equal(t, []pool.Condition{key.PublicKey().Condition()}, h.seen)
	if (Authenticate{}).HasAddress(context.Background(), key.PublicKey().Address()) {
		t.Fatal("context without signers must not authenticate")
	}

	_, err = d.Deliver(ctx, db, tx, h)
	assert.Nil(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())

	// the nonce was consumed by the deliver
	_, err = d.Deliver(ctx, db, tx, h)
	assert.IsErr(t, ErrInvalidSequence, err)
	assert.Equal(t, 1, h.DeliverCallCount())

	unsigned := &signedTx{data: []byte("payload")}
	_, err = d.Check(ctx, db, unsigned, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = d.AllowMissingSigs().Check(ctx, db, unsigned, h)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(h.seen))

	_, err = d.Check(ctx, db, &weavetest.Tx{}, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestAuthQuery(t *testing.T) {
	db := store.MemStore()
	key := weavetest.NewKey()
	tx := &signedTx{data: []byte("payload")}
	sig, err := SignTx(key, tx, chainID, 0)
	assert.Nil(t, err)
	_, err = VerifySignature(db, sig, tx.data, chainID)
	assert.Nil(t, err)

	qr := pool.NewQueryRouter()
	RegisterQuery(qr)
	res, err := qr.Handler("/auth").Query(db, pool.KeyQueryMod, key.PublicKey().Address())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))

	var user UserData
	assert.Nil(t, user.Unmarshal(res[0].Value))
	assert.Equal(t, int64(1), user.Sequence)
}
