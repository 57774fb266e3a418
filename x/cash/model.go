package cash

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the coins owned by a single address. The address is the
// key the wallet is stored under.
type Wallet struct {
	Metadata *pool.Metadata `json:"metadata"`
	Coins    coin.Coins     `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

// NewWallet returns an empty wallet.
func NewWallet() *Wallet {
	return &Wallet{Metadata: &pool.Metadata{Schema: 1}}
}

// WalletWith returns a wallet holding given coins.
func WalletWith(coins ...coin.Coin) (*Wallet, error) {
	cs, err := coin.CombineCoins(coins...)
	if err != nil {
		return nil, err
	}
	w := NewWallet()
	w.Coins = cs
	return w, nil
}

// Validate requires valid metadata and a normalized coin set.
func (w *Wallet) Validate() error {
	if err := w.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := w.Coins.Validate(); err != nil {
		return errors.Wrap(err, "coins")
	}
	if !w.Coins.IsNonNegative() {
		return errors.Wrap(errors.ErrInvalidModel, "negative balance")
	}
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	return pool.Encode(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return pool.Decode(raw, w)
}

// NewWalletBucket returns the bucket storing wallets under their owner
// address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
