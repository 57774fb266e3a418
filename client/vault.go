package client

import (
	"context"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/app"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/crypto"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/x/cash"
	"github.com/iov-one/pool/x/sigs"
	"github.com/iov-one/pool/x/vault"
)

// Vault returns the current state of the vault with given seed.
func (c *Client) Vault(seed []byte) (*vault.Vault, error) {
	models, err := c.queryModels("/vaults", seed)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "vault %X", seed)
	}
	var v vault.Vault
	if err := v.Unmarshal(models[0].Value); err != nil {
		return nil, errors.Wrap(err, "unmarshal vault")
	}
	return &v, nil
}

// VaultsByOwner returns all vaults controlled by given address.
func (c *Client) VaultsByOwner(owner pool.Address) ([]*vault.Vault, error) {
	models, err := c.queryModels("/vaults/owner", owner)
	if err != nil {
		return nil, err
	}
	vaults := make([]*vault.Vault, len(models))
	for i, m := range models {
		var v vault.Vault
		if err := v.Unmarshal(m.Value); err != nil {
			return nil, errors.Wrapf(err, "unmarshal vault %d", i)
		}
		vaults[i] = &v
	}
	return vaults, nil
}

// Balance returns all coins held by given address. An address that never
// received funds has an empty balance.
func (c *Client) Balance(addr pool.Address) (coin.Coins, error) {
	raw, err := c.queryValue("/wallets", addr)
	if err != nil {
		return nil, err
	}
	var w cash.Wallet
	if err := app.UnmarshalOneResult(raw, &w); err != nil {
		return nil, errors.Wrap(err, "unmarshal wallet")
	}
	return w.Coins, nil
}

// NextSequence returns the sequence the next signature of given key must
// carry.
func (c *Client) NextSequence(pubkey *crypto.PublicKey) (int64, error) {
	raw, err := c.queryValue("/auth", pubkey.Address())
	if err != nil {
		return 0, err
	}
	var user sigs.UserData
	if err := app.UnmarshalOneResult(raw, &user); err != nil {
		return 0, errors.Wrap(err, "unmarshal user")
	}
	return user.Sequence, nil
}

// VaultHistory returns the committed transactions that changed the vault
// with given seed.
func (c *Client) VaultHistory(ctx context.Context, seed []byte) ([]*CommitResult, error) {
	return c.SearchTx(ctx, QueryVaultTx(seed))
}

func (c *Client) queryValue(path string, data []byte) ([]byte, error) {
	res := c.Query(RequestQuery{Path: path, Data: data})
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return nil, errors.Wrapf(err, "query %s", path)
	}
	return res.Value, nil
}

func (c *Client) queryModels(path string, data []byte) ([]pool.Model, error) {
	res := c.Query(RequestQuery{Path: path, Data: data})
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return nil, errors.Wrapf(err, "query %s", path)
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "unmarshal keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "unmarshal values")
	}
	return app.JoinResults(&keys, &values)
}
