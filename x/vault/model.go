package vault

import (
	"encoding/json"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/orm"
)

// BucketName is where vaults are stored.
const BucketName = "vault"

const maxSeedLength = 64

// Kind declares when a vault accepts deposits.
type Kind int32

const (
	// KindOpen vaults accept deposits at any time.
	KindOpen Kind = 1
	// KindRound vaults accept deposits only while a round is active.
	KindRound Kind = 2
)

var kindNames = map[Kind]string{
	KindOpen:  "open",
	KindRound: "round",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Validate returns an error for an unknown kind.
func (k Kind) Validate() error {
	if _, ok := kindNames[k]; !ok {
		return errors.Wrapf(errors.ErrInvalidInput, "unknown vault kind %d", k)
	}
	return nil
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "kind must be a string")
	}
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInvalidInput, "unknown vault kind %q", s)
}

// Policy declares how the vault balance is split between recipients.
type Policy int32

const (
	// PolicyExplicit pays amounts listed by the owner.
	PolicyExplicit Policy = 1
	// PolicyEqual splits the balance equally between the recipients.
	PolicyEqual Policy = 2
	// PolicyRatio splits the balance by the ratio table of the vault.
	PolicyRatio Policy = 3
)

var policyNames = map[Policy]string{
	PolicyExplicit: "explicit",
	PolicyEqual:    "equal",
	PolicyRatio:    "ratio",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return "unknown"
}

// Validate returns an error for an unknown policy.
func (p Policy) Validate() error {
	if _, ok := policyNames[p]; !ok {
		return errors.Wrapf(errors.ErrInvalidInput, "unknown payout policy %d", p)
	}
	return nil
}

func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Policy) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "policy must be a string")
	}
	for policy, name := range policyNames {
		if name == s {
			*p = policy
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInvalidInput, "unknown payout policy %q", s)
}

// Vault is the state of a single escrow instance. It is stored under its
// seed.
type Vault struct {
	Metadata *pool.Metadata `json:"metadata"`
	Seed     []byte         `json:"seed"`
	// Owner is the only address allowed to control rounds and distribute.
	Owner pool.Address `json:"owner"`
	// Custody is the address holding the pooled coins. It is always the
	// address of the seed custody condition.
	Custody      pool.Address `json:"custody"`
	Kind         Kind         `json:"kind"`
	Policy       Policy       `json:"policy"`
	RewardRatios []uint32     `json:"reward_ratios,omitempty"`
	// TotalPool is the sum of all deposits since the last distribution.
	TotalPool *coin.Coin `json:"total_pool"`
	Active    bool       `json:"active"`
	// Round counts started rounds.
	Round int64 `json:"round"`
}

var _ orm.Model = (*Vault)(nil)

// Validate checks the vault state invariants.
func (v *Vault) Validate() error {
	if err := v.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateSeed(v.Seed); err != nil {
		return err
	}
	if err := v.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if !v.Custody.Equals(CustodyAddress(v.Seed)) {
		return errors.Wrap(errors.ErrInvalidModel, "custody is not derived from the seed")
	}
	if err := v.Kind.Validate(); err != nil {
		return err
	}
	if err := validateRatios(v.Policy, v.RewardRatios); err != nil {
		return err
	}
	if v.TotalPool == nil {
		return errors.Wrap(errors.ErrInvalidModel, "missing total pool")
	}
	if err := v.TotalPool.Validate(); err != nil {
		return errors.Wrap(err, "total pool")
	}
	if !v.TotalPool.IsNonNegative() {
		return errors.Wrap(errors.ErrInvalidModel, "negative total pool")
	}
	if v.Active && v.Kind != KindRound {
		return errors.Wrap(errors.ErrInvalidModel, "only round vaults can be active")
	}
	if v.Round < 0 {
		return errors.Wrap(errors.ErrInvalidModel, "negative round")
	}
	return nil
}

func (v *Vault) Marshal() ([]byte, error) {
	return pool.Encode(v)
}

func (v *Vault) Unmarshal(raw []byte) error {
	return pool.Decode(raw, v)
}

// AcceptsDeposits returns an error if the vault cannot be funded now.
func (v *Vault) AcceptsDeposits() error {
	if v.Kind == KindRound && !v.Active {
		return errors.Wrapf(ErrRoundNotActive, "vault %X", v.Seed)
	}
	return nil
}

// canStartRound returns an error if a new round cannot be opened now.
func (v *Vault) canStartRound() error {
	if v.Kind != KindRound {
		return errors.Wrapf(errors.ErrInvalidInput, "%s vaults have no rounds", v.Kind)
	}
	if v.Active {
		return errors.Wrapf(ErrRoundAlreadyActive, "round %d", v.Round)
	}
	return nil
}

// canEndRound returns an error if there is no round to close.
func (v *Vault) canEndRound() error {
	if v.Kind != KindRound {
		return errors.Wrapf(errors.ErrInvalidInput, "%s vaults have no rounds", v.Kind)
	}
	if !v.Active {
		return errors.Wrapf(ErrRoundNotActive, "vault %X", v.Seed)
	}
	return nil
}

// canDistribute returns an error unless the vault is paid out on demand.
func (v *Vault) canDistribute() error {
	if v.Kind != KindOpen {
		return errors.Wrap(errors.ErrInvalidInput, "round vaults are distributed by ending the round")
	}
	return nil
}

func validateSeed(seed []byte) error {
	if len(seed) == 0 {
		return errors.Wrap(errors.ErrEmpty, "seed")
	}
	if len(seed) > maxSeedLength {
		return errors.Wrapf(errors.ErrInvalidInput, "seed longer than %d bytes", maxSeedLength)
	}
	return nil
}

// validateRatios ensures that only ratio vaults carry a ratio table and
// that the table sums to exactly 100.
func validateRatios(p Policy, ratios []uint32) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p != PolicyRatio {
		if len(ratios) != 0 {
			return errors.Wrapf(errors.ErrInvalidInput, "%s policy takes no reward ratios", p)
		}
		return nil
	}
	if len(ratios) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "ratio policy requires reward ratios")
	}
	var sum uint64
	for _, r := range ratios {
		sum += uint64(r)
	}
	if sum != 100 {
		return errors.Wrapf(ErrInvalidRatioSum, "got %d", sum)
	}
	return nil
}

// NewVaultBucket returns the bucket storing vaults under their seed, with
// an index on the owner.
func NewVaultBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Vault{},
		orm.WithIndex("owner", ownerIndexer, false))
}

func ownerIndexer(m orm.Model) ([]byte, error) {
	v, ok := m.(*Vault)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", m)
	}
	return v.Owner, nil
}
