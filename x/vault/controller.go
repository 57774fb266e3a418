package vault

import (
	"fmt"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/orm"
)

// Ledger is the coin functionality a vault depends on.
type Ledger interface {
	// Balance returns all coins held by given address.
	Balance(db pool.ReadOnlyKVStore, addr pool.Address) (coin.Coins, error)
	// Transfer moves coins if the source account authorized the current
	// transaction.
	Transfer(ctx pool.Context, db pool.KVStore, src, dest pool.Address, amount coin.Coin) error
}

// Distribution is the outcome of a successful payout.
type Distribution struct {
	Payouts []Payout
	// Remainder is left on the custody account.
	Remainder coin.Coin
}

// Controller implements the vault state transitions. It does no owner
// authorization, this is the job of the handlers.
type Controller struct {
	bucket  orm.ModelBucket
	ledger  Ledger
	metrics *Metrics
}

// NewController returns a controller moving coins with given ledger.
// Metrics can be nil.
func NewController(ledger Ledger, metrics *Metrics) *Controller {
	return &Controller{
		bucket:  NewVaultBucket(),
		ledger:  ledger,
		metrics: metrics,
	}
}

// Vault loads the vault stored under given seed.
func (c *Controller) Vault(db pool.ReadOnlyKVStore, seed []byte) (*Vault, error) {
	var v Vault
	if err := c.bucket.One(db, seed, &v); err != nil {
		return nil, errors.Wrapf(err, "vault %X", seed)
	}
	return &v, nil
}

// Create stores a new vault. A vault can be created only once for any
// seed.
func (c *Controller) Create(ctx pool.Context, db pool.KVStore, owner pool.Address, msg *CreateMsg) (*Vault, error) {
	switch err := c.bucket.Has(db, msg.Seed); {
	case err == nil:
		return nil, errors.Wrapf(ErrAlreadyInitialized, "vault %X", msg.Seed)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if len(msg.RewardRatios) > int(conf.MaxRatioSlots) {
		return nil, errors.Wrapf(ErrCapacityExceeded,
			"%d reward ratios, at most %d allowed", len(msg.RewardRatios), conf.MaxRatioSlots)
	}

	v := &Vault{
		Metadata:     &pool.Metadata{Schema: 1},
		Seed:         msg.Seed,
		Owner:        owner,
		Custody:      CustodyAddress(msg.Seed),
		Kind:         msg.Kind,
		Policy:       msg.Policy,
		RewardRatios: msg.RewardRatios,
		TotalPool:    coin.NewCoinp(0, 0, conf.Ticker),
	}
	if err := c.bucket.Put(db, v.Seed, v); err != nil {
		return nil, errors.Wrap(err, "cannot store vault")
	}
	pool.GetLogger(ctx).Info("vault created",
		"seed", fmt.Sprintf("%X", v.Seed), "kind", v.Kind, "policy", v.Policy)
	return v, nil
}

// StartRound opens a deposit round.
func (c *Controller) StartRound(ctx pool.Context, db pool.KVStore, v *Vault) error {
	if err := v.canStartRound(); err != nil {
		return err
	}
	v.Active = true
	v.Round++
	if err := c.bucket.Put(db, v.Seed, v); err != nil {
		return errors.Wrap(err, "cannot store vault")
	}
	c.metrics.ObserveRoundStarted()
	pool.GetLogger(ctx).Info("round started", "seed", fmt.Sprintf("%X", v.Seed), "round", v.Round)
	return nil
}

// Deposit moves coins from the depositor to the vault custody and
// accounts for them in the pool. If no amount is given, the configured
// flat deposit is used. The deposited amount is returned.
func (c *Controller) Deposit(ctx pool.Context, db pool.KVStore, v *Vault, depositor pool.Address, amount *coin.Coin) (coin.Coin, error) {
	if err := v.AcceptsDeposits(); err != nil {
		return coin.Coin{}, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return coin.Coin{}, err
	}
	if amount == nil {
		if conf.FlatDeposit == nil {
			return coin.Coin{}, errors.Wrap(errors.ErrInvalidInput, "amount required, no flat deposit configured")
		}
		amount = conf.FlatDeposit
	}
	if amount.Ticker != conf.Ticker {
		return coin.Coin{}, errors.Wrapf(errors.ErrCurrency, "vaults hold %s only", conf.Ticker)
	}

	total, err := v.TotalPool.Add(*amount)
	if err != nil {
		return coin.Coin{}, errors.Wrap(err, "total pool")
	}
	if err := c.ledger.Transfer(ctx, db, depositor, v.Custody, *amount); err != nil {
		return coin.Coin{}, errors.Wrapf(ErrTransferFailed, "deposit: %s", err)
	}
	v.TotalPool = &total
	if err := c.bucket.Put(db, v.Seed, v); err != nil {
		return coin.Coin{}, errors.Wrap(err, "cannot store vault")
	}
	c.metrics.ObserveDeposit(v.Kind, *amount)
	return *amount, nil
}

// EndRound closes the active round and pays out the vault balance.
func (c *Controller) EndRound(ctx pool.Context, db pool.KVStore, v *Vault, recipients []pool.Address, amounts []*coin.Coin) (*Distribution, error) {
	if err := v.canEndRound(); err != nil {
		return nil, err
	}
	return c.distribute(ctx, db, v, recipients, amounts)
}

// Distribute pays out the balance of an open vault.
func (c *Controller) Distribute(ctx pool.Context, db pool.KVStore, v *Vault, recipients []pool.Address, amounts []*coin.Coin) (*Distribution, error) {
	if err := v.canDistribute(); err != nil {
		return nil, err
	}
	return c.distribute(ctx, db, v, recipients, amounts)
}

// Plan computes the payouts of a distribution of the current custody
// balance without moving any coins. The custody balance is always read
// from the ledger.
func (c *Controller) Plan(db pool.KVStore, v *Vault, recipients []pool.Address, amounts []*coin.Coin) (*Distribution, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	coins, err := c.ledger.Balance(db, v.Custody)
	if err != nil {
		return nil, errors.Wrap(err, "custody balance")
	}
	payouts, remainder, err := computePayouts(v, coins.Get(conf.Ticker), recipients, amounts)
	if err != nil {
		return nil, err
	}
	return &Distribution{Payouts: payouts, Remainder: remainder}, nil
}

// distribute validates the whole payout before the first transfer.
func (c *Controller) distribute(ctx pool.Context, db pool.KVStore, v *Vault, recipients []pool.Address, amounts []*coin.Coin) (*Distribution, error) {
	d, err := c.Plan(db, v, recipients, amounts)
	if err != nil {
		return nil, err
	}

	payCtx := custodyOf(v).authorize(ctx)
	for i, p := range d.Payouts {
		if err := c.ledger.Transfer(payCtx, db, v.Custody, p.Recipient, p.Amount); err != nil {
			return nil, errors.Wrapf(ErrTransferFailed, "payout %d: %s", i, err)
		}
	}

	zero := coin.NewCoin(0, 0, d.Remainder.Ticker)
	v.TotalPool = &zero
	v.Active = false
	if err := c.bucket.Put(db, v.Seed, v); err != nil {
		return nil, errors.Wrap(err, "cannot store vault")
	}

	c.metrics.ObservePayouts(v.Policy, d.Payouts)
	// Explicit payouts leave whatever the owner did not assign, which is
	// not rounding.
	if v.Policy != PolicyExplicit {
		c.metrics.ObserveRoundingDust(v.Seed, d.Remainder)
	}
	pool.GetLogger(ctx).Info("distributed",
		"seed", fmt.Sprintf("%X", v.Seed), "round", v.Round, "payouts", len(d.Payouts), "remainder", d.Remainder)
	return d, nil
}
