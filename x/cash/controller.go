package cash

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/orm"
	"github.com/iov-one/pool/x"
)

// Controller is the functionality needed by other extensions to move
// coins around. It does no authorization.
type Controller interface {
	// Balance returns the coins held by given address. An address without a
	// wallet holds nothing.
	Balance(db pool.ReadOnlyKVStore, addr pool.Address) (coin.Coins, error)

	// MoveCoins moves the given amount from src to dest. If src doesn't
	// exist, or doesn't have sufficient coins, it fails.
	MoveCoins(db pool.KVStore, src, dest pool.Address, amount coin.Coin) error

	// IssueCoins adds the given amount of coins to the destination
	// address. Fails if it overflows the wallet.
	IssueCoins(db pool.KVStore, dest pool.Address, amount coin.Coin) error
}

// BaseController is the wallet bucket backed Controller.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on given wallet bucket.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Balance(db pool.ReadOnlyKVStore, addr pool.Address) (coin.Coins, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return w.Coins, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}

func (c BaseController) MoveCoins(db pool.KVStore, src, dest pool.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive amount: %s", amount)
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInvalidInput, "source and destination are the same")
	}

	var sender Wallet
	if err := c.bucket.One(db, src, &sender); err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
		}
		return errors.Wrap(err, "cannot load sender")
	}
	if !sender.Coins.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s cannot pay %s", src, amount)
	}

	recipient, err := c.getOrCreate(db, dest)
	if err != nil {
		return err
	}
	if sender.Coins, err = sender.Coins.Subtract(amount); err != nil {
		return errors.Wrap(err, "subtract")
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return errors.Wrap(err, "add")
	}

	if err := c.save(db, src, &sender); err != nil {
		return err
	}
	return c.save(db, dest, recipient)
}

// IssueCoins attempts to add the given amount of coins to the destination
// address. The amount may be negative, but it must not leave the wallet
// with a negative balance.
func (c BaseController) IssueCoins(db pool.KVStore, dest pool.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	w, err := c.getOrCreate(db, dest)
	if err != nil {
		return err
	}
	if w.Coins, err = w.Coins.Add(amount); err != nil {
		return err
	}
	return c.save(db, dest, w)
}

func (c BaseController) getOrCreate(db pool.KVStore, addr pool.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return NewWallet(), nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}

// save stores the wallet, or removes it once it is empty.
func (c BaseController) save(db pool.KVStore, addr pool.Address, w *Wallet) error {
	if w.Coins.IsEmpty() {
		err := c.bucket.Delete(db, addr)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	return c.bucket.Put(db, addr, w)
}

// AuthorizedController is a Controller that moves coins only out of
// accounts that authenticated the current transaction.
type AuthorizedController struct {
	Controller
	auth x.Authenticator
}

// NewAuthorizedController wraps given controller, checking every transfer
// source with the authenticator.
func NewAuthorizedController(ctrl Controller, auth x.Authenticator) AuthorizedController {
	return AuthorizedController{Controller: ctrl, auth: auth}
}

// Transfer moves coins if the source account authorized it.
func (c AuthorizedController) Transfer(ctx pool.Context, db pool.KVStore, src, dest pool.Address, amount coin.Coin) error {
	if !c.auth.HasAddress(ctx, src) {
		return errors.Wrapf(errors.ErrUnauthorized, "account %s did not sign", src)
	}
	return c.MoveCoins(db, src, dest, amount)
}
