package vault

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
)

// CreateMsg initializes a new vault.
type CreateMsg struct {
	Metadata *pool.Metadata `json:"metadata"`
	Seed     []byte         `json:"seed"`
	// Owner defaults to the main signer.
	Owner        pool.Address `json:"owner,omitempty"`
	Kind         Kind         `json:"kind"`
	Policy       Policy       `json:"policy"`
	RewardRatios []uint32     `json:"reward_ratios,omitempty"`
}

var _ pool.Msg = (*CreateMsg)(nil)

// Path returns the routing path for this message.
func (CreateMsg) Path() string {
	return "vault/create"
}

// Validate checks the message content. The ratio table capacity depends
// on the configuration and is checked by the handler.
func (m *CreateMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateSeed(m.Seed); err != nil {
		return err
	}
	if m.Owner != nil {
		if err := m.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if err := m.Kind.Validate(); err != nil {
		return err
	}
	return validateRatios(m.Policy, m.RewardRatios)
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return pool.Encode(m)
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return pool.Decode(raw, m)
}

// StartRoundMsg opens a deposit round of a round vault.
type StartRoundMsg struct {
	Metadata *pool.Metadata `json:"metadata"`
	Seed     []byte         `json:"seed"`
}

var _ pool.Msg = (*StartRoundMsg)(nil)

func (StartRoundMsg) Path() string {
	return "vault/start_round"
}

func (m *StartRoundMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateSeed(m.Seed)
}

func (m *StartRoundMsg) Marshal() ([]byte, error) {
	return pool.Encode(m)
}

func (m *StartRoundMsg) Unmarshal(raw []byte) error {
	return pool.Decode(raw, m)
}

// DepositMsg moves coins from the depositor to the vault custody.
type DepositMsg struct {
	Metadata *pool.Metadata `json:"metadata"`
	Seed     []byte         `json:"seed"`
	// Depositor defaults to the main signer.
	Depositor pool.Address `json:"depositor,omitempty"`
	// Amount can be omitted if a flat deposit is configured.
	Amount *coin.Coin `json:"amount,omitempty"`
}

var _ pool.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return "vault/deposit"
}

func (m *DepositMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateSeed(m.Seed); err != nil {
		return err
	}
	if m.Depositor != nil {
		if err := m.Depositor.Validate(); err != nil {
			return errors.Wrap(err, "depositor")
		}
	}
	if m.Amount != nil {
		if err := m.Amount.Validate(); err != nil {
			return errors.Wrap(err, "amount")
		}
		if !m.Amount.IsPositive() {
			return errors.Wrapf(errors.ErrInvalidAmount, "non-positive amount: %s", m.Amount)
		}
	}
	return nil
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return pool.Encode(m)
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
	return pool.Decode(raw, m)
}

// EndRoundMsg closes the active round of a round vault and pays out its
// whole balance.
type EndRoundMsg struct {
	Metadata   *pool.Metadata `json:"metadata"`
	Seed       []byte         `json:"seed"`
	Recipients []pool.Address `json:"recipients"`
	// Amounts are required by the explicit policy only.
	Amounts []*coin.Coin `json:"amounts,omitempty"`
}

var _ pool.Msg = (*EndRoundMsg)(nil)

func (EndRoundMsg) Path() string {
	return "vault/end_round"
}

func (m *EndRoundMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateSeed(m.Seed); err != nil {
		return err
	}
	return validatePayoutLists(m.Recipients, m.Amounts)
}

func (m *EndRoundMsg) Marshal() ([]byte, error) {
	return pool.Encode(m)
}

func (m *EndRoundMsg) Unmarshal(raw []byte) error {
	return pool.Decode(raw, m)
}

// DistributeMsg pays out the whole balance of an open vault.
type DistributeMsg struct {
	Metadata   *pool.Metadata `json:"metadata"`
	Seed       []byte         `json:"seed"`
	Recipients []pool.Address `json:"recipients"`
	// Amounts are required by the explicit policy only.
	Amounts []*coin.Coin `json:"amounts,omitempty"`
}

var _ pool.Msg = (*DistributeMsg)(nil)

func (DistributeMsg) Path() string {
	return "vault/distribute"
}

func (m *DistributeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateSeed(m.Seed); err != nil {
		return err
	}
	return validatePayoutLists(m.Recipients, m.Amounts)
}

func (m *DistributeMsg) Marshal() ([]byte, error) {
	return pool.Encode(m)
}

func (m *DistributeMsg) Unmarshal(raw []byte) error {
	return pool.Decode(raw, m)
}

// validatePayoutLists checks every entry on its own. Whether both lists
// match is decided once the vault policy is known.
func validatePayoutLists(recipients []pool.Address, amounts []*coin.Coin) error {
	if len(recipients) == 0 {
		return errors.Wrap(errors.ErrEmpty, "recipients")
	}
	for i, r := range recipients {
		if err := r.Validate(); err != nil {
			return errors.Wrapf(err, "recipient %d", i)
		}
	}
	for i, a := range amounts {
		if a == nil {
			return errors.Wrapf(errors.ErrInvalidAmount, "amount %d is missing", i)
		}
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "amount %d", i)
		}
		if !a.IsPositive() {
			return errors.Wrapf(errors.ErrInvalidAmount, "amount %d is not positive", i)
		}
	}
	return nil
}
