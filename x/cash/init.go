package cash

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use pool.Address, so address in hex, not base64
type GenesisAccount struct {
	Address pool.Address `json:"address"`
	Coins   []coin.Coin  `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ pool.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts pool.Options, kv pool.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	bucket := NewWalletBucket()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		wallet, err := WalletWith(acct.Coins...)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := bucket.Put(kv, acct.Address, wallet); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
