package vault

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/gconf"
)

const optKey = "vault"

// GenesisVault is a vault declared in the genesis file. The custody
// account is derived from the seed.
type GenesisVault struct {
	Seed         []byte       `json:"seed"`
	Owner        pool.Address `json:"owner"`
	Kind         Kind         `json:"kind"`
	Policy       Policy       `json:"policy"`
	RewardRatios []uint32     `json:"reward_ratios,omitempty"`
}

// Initializer fulfils the Initializer interface to load the configuration
// and vaults from the genesis file.
type Initializer struct{}

var _ pool.Initializer = Initializer{}

// FromGenesis saves the "conf.vault" configuration, if present, and every
// vault listed under "vault".
func (Initializer) FromGenesis(opts pool.Options, db pool.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, optKey, &conf); err != nil {
		if !errors.ErrNotFound.Is(err) {
			return errors.Wrap(err, "init config")
		}
		conf = DefaultConfiguration()
	}

	var vaults []GenesisVault
	if err := opts.ReadOptions(optKey, &vaults); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	bucket := NewVaultBucket()
	for i, g := range vaults {
		if len(g.RewardRatios) > int(conf.MaxRatioSlots) {
			return errors.Wrapf(ErrCapacityExceeded, "vault %d", i)
		}
		switch err := bucket.Has(db, g.Seed); {
		case err == nil:
			return errors.Wrapf(ErrAlreadyInitialized, "vault %d", i)
		case !errors.ErrNotFound.Is(err):
			return errors.Wrapf(err, "vault %d", i)
		}
		v := &Vault{
			Metadata:     &pool.Metadata{Schema: 1},
			Seed:         g.Seed,
			Owner:        g.Owner,
			Custody:      CustodyAddress(g.Seed),
			Kind:         g.Kind,
			Policy:       g.Policy,
			RewardRatios: g.RewardRatios,
			TotalPool:    coin.NewCoinp(0, 0, conf.Ticker),
		}
		if err := bucket.Put(db, v.Seed, v); err != nil {
			return errors.Wrapf(err, "vault %d", i)
		}
	}
	return nil
}
