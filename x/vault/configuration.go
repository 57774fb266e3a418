package vault

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/gconf"
)

const (
	// DefaultTicker is the native currency used when no configuration
	// was provided at genesis.
	DefaultTicker = "IOV"
	// DefaultMaxRatioSlots is the reserved ratio table capacity. A
	// configuration can only lower it.
	DefaultMaxRatioSlots = 10
)

// Configuration of the vault extension, stored with gconf.
type Configuration struct {
	Metadata *pool.Metadata `json:"metadata"`
	// Ticker is the only currency vaults hold.
	Ticker string `json:"ticker"`
	// MaxRatioSlots is the largest reward ratio table a vault can be
	// created with.
	MaxRatioSlots int32 `json:"max_ratio_slots"`
	// FlatDeposit, when set, is deposited whenever a deposit message does
	// not declare an amount.
	FlatDeposit *coin.Coin `json:"flat_deposit,omitempty"`
}

// DefaultConfiguration is used when none was saved.
func DefaultConfiguration() Configuration {
	return Configuration{
		Metadata:      &pool.Metadata{Schema: 1},
		Ticker:        DefaultTicker,
		MaxRatioSlots: DefaultMaxRatioSlots,
	}
}

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if !coin.IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "ticker %q", c.Ticker)
	}
	if c.MaxRatioSlots < 1 || c.MaxRatioSlots > DefaultMaxRatioSlots {
		return errors.Wrapf(errors.ErrInvalidModel, "max ratio slots must be within 1 and %d", DefaultMaxRatioSlots)
	}
	if c.FlatDeposit != nil {
		if err := c.FlatDeposit.Validate(); err != nil {
			return errors.Wrap(err, "flat deposit")
		}
		if !c.FlatDeposit.IsPositive() {
			return errors.Wrap(errors.ErrInvalidModel, "flat deposit must be positive")
		}
		if c.FlatDeposit.Ticker != c.Ticker {
			return errors.Wrap(errors.ErrCurrency, "flat deposit must be in the vault ticker")
		}
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return pool.Encode(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return pool.Decode(raw, c)
}

// loadConf returns the stored configuration, or the default one if none
// was saved.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, "vault", &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}
