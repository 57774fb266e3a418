package cash

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
)

const (
	sendTxCost int64 = 100

	maxMemoSize = 128
)

// SendMsg moves coins from the source account to the destination.
type SendMsg struct {
	Metadata    *pool.Metadata `json:"metadata"`
	Source      pool.Address   `json:"source"`
	Destination pool.Address   `json:"destination"`
	Amount      *coin.Coin     `json:"amount"`
	Memo        string         `json:"memo,omitempty"`
}

var _ pool.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	err := errors.Wrap(m.Metadata.Validate(), "metadata")
	if coin.IsEmpty(m.Amount) || !m.Amount.IsPositive() {
		err = errors.Append(err, errors.Wrapf(errors.ErrInvalidAmount, "non-positive amount: %v", m.Amount))
	} else {
		err = errors.Append(err, errors.Wrap(m.Amount.Validate(), "amount"))
	}
	err = errors.Append(err, errors.Wrap(m.Source.Validate(), "source"))
	err = errors.Append(err, errors.Wrap(m.Destination.Validate(), "destination"))
	if len(m.Memo) > maxMemoSize {
		err = errors.Append(err, errors.Wrap(errors.ErrInvalidState, "memo too long"))
	}
	return err
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return pool.Encode(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return pool.Decode(raw, m)
}
