package client

import (
	"testing"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/cmd/poolvaultd/app"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/crypto"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/weavetest/assert"
	"github.com/iov-one/pool/x/sigs"
	"github.com/iov-one/pool/x/vault"
)

func signTx(t testing.TB, c *Client, key *crypto.PrivateKey, msg pool.Msg) *app.Tx {
	t.Helper()
	tx, err := app.NewTx(msg)
	assert.Nil(t, err)
	seq, err := c.NextSequence(key.PublicKey())
	assert.Nil(t, err)
	sig, err := sigs.SignTx(key, tx, getChainID(), seq)
	assert.Nil(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	return tx
}

func mustCommit(t testing.TB, c *Client, key *crypto.PrivateKey, msg pool.Msg) *CommitResult {
	t.Helper()
	ctx, cancel := timeoutCtx()
	defer cancel()
	res, err := c.CommitTx(ctx, signTx(t, c, key, msg))
	assert.Nil(t, err)
	assert.Nil(t, res.Err)
	return res
}

func TestOpenVaultOverRPC(t *testing.T) {
	c := NewLocalClient(node)
	meta := &pool.Metadata{Schema: 1}
	seed := []byte("rpc-open-vault")
	alice := crypto.GenPrivKeyEd25519().PublicKey().Address()
	bob := crypto.GenPrivKeyEd25519().PublicKey().Address()

	_, err := c.Vault(seed)
	assert.IsErr(t, errors.ErrNotFound, err)

	res := mustCommit(t, c, faucet, &vault.CreateMsg{
		Metadata: meta,
		Seed:     seed,
		Kind:     vault.KindOpen,
		Policy:   vault.PolicyEqual,
	})
	assert.Equal(t, seed, res.Result.Data)

	mustCommit(t, c, faucet, &vault.DepositMsg{
		Metadata: meta,
		Seed:     seed,
		Amount:   coin.NewCoinp(11, 0, vault.DefaultTicker),
	})

	v, err := c.Vault(seed)
	assert.Nil(t, err)
	assert.Equal(t, true, v.TotalPool.Equals(coin.NewCoin(11, 0, vault.DefaultTicker)))

	owned, err := c.VaultsByOwner(faucet.PublicKey().Address())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(owned))

	mustCommit(t, c, faucet, &vault.DistributeMsg{
		Metadata:   meta,
		Seed:       seed,
		Recipients: []pool.Address{alice, bob},
	})

	for _, addr := range []pool.Address{alice, bob} {
		coins, err := c.Balance(addr)
		assert.Nil(t, err)
		assert.Equal(t, true, coins.Get(vault.DefaultTicker).Equals(coin.NewCoin(5, 500000000, vault.DefaultTicker)))
	}

	ctx, cancel := timeoutCtx()
	defer cancel()
	history, err := c.VaultHistory(ctx, seed)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(history))
}

func TestSubmitRejectedTx(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	// a deposit without signature fails in the mempool check
	tx, err := app.NewTx(&vault.DepositMsg{
		Metadata: &pool.Metadata{Schema: 1},
		Seed:     []byte("rpc-open-vault"),
		Amount:   coin.NewCoinp(1, 0, vault.DefaultTicker),
	})
	assert.Nil(t, err)
	_, err = c.SubmitTx(ctx, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestEmptyBalance(t *testing.T) {
	c := NewLocalClient(node)
	coins, err := c.Balance(crypto.GenPrivKeyEd25519().PublicKey().Address())
	assert.Nil(t, err)
	assert.Equal(t, 0, len(coins))

	seq, err := c.NextSequence(crypto.GenPrivKeyEd25519().PublicKey())
	assert.Nil(t, err)
	assert.Equal(t, int64(0), seq)
}
