package sigs

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/crypto"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData is the state kept for every public key that signed a
// transaction. The sequence is the nonce the next signature must carry.
type UserData struct {
	Metadata *pool.Metadata    `json:"metadata"`
	Pubkey   *crypto.PublicKey `json:"pubkey"`
	Sequence int64             `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

// NewUser returns the initial state of given public key.
func NewUser(pubkey *crypto.PublicKey) *UserData {
	return &UserData{
		Metadata: &pool.Metadata{Schema: 1},
		Pubkey:   pubkey,
	}
}

func (u *UserData) Validate() error {
	if err := u.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := u.Pubkey.Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	return pool.Encode(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return pool.Decode(raw, u)
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	// Clients represent the nonce as a float64, so it must stay an exact
	// integer there.
	const maxSequenceValue = (1 << 53) - 1
	next := u.Sequence + 1
	if next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// NewUserBucket returns the bucket storing users under the address of
// their public key.
func NewUserBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}
