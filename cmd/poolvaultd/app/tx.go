package app

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/x/cash"
	"github.com/iov-one/pool/x/sigs"
	"github.com/iov-one/pool/x/vault"
)

// Tx is the transaction accepted by the daemon. Exactly one message field
// must be set.
type Tx struct {
	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`

	SendMsg            *cash.SendMsg        `json:"send_msg,omitempty"`
	CreateVaultMsg     *vault.CreateMsg     `json:"create_vault_msg,omitempty"`
	StartRoundMsg      *vault.StartRoundMsg `json:"start_round_msg,omitempty"`
	DepositMsg         *vault.DepositMsg    `json:"deposit_msg,omitempty"`
	EndRoundMsg        *vault.EndRoundMsg   `json:"end_round_msg,omitempty"`
	DistributeVaultMsg *vault.DistributeMsg `json:"distribute_vault_msg,omitempty"`
}

// make sure tx fulfills all interfaces
var _ pool.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (pool.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// NewTx wraps the message into a transaction. Only messages handled by
// the daemon are accepted.
func NewTx(msg pool.Msg) (*Tx, error) {
	var tx Tx
	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *vault.CreateMsg:
		tx.CreateVaultMsg = m
	case *vault.StartRoundMsg:
		tx.StartRoundMsg = m
	case *vault.DepositMsg:
		tx.DepositMsg = m
	case *vault.EndRoundMsg:
		tx.EndRoundMsg = m
	case *vault.DistributeMsg:
		tx.DistributeVaultMsg = m
	default:
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "unsupported message %T", msg)
	}
	return &tx, nil
}

// GetMsg returns the single message carried by the transaction.
func (tx *Tx) GetMsg() (pool.Msg, error) {
	var msgs []pool.Msg
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.CreateVaultMsg != nil {
		msgs = append(msgs, tx.CreateVaultMsg)
	}
	if tx.StartRoundMsg != nil {
		msgs = append(msgs, tx.StartRoundMsg)
	}
	if tx.DepositMsg != nil {
		msgs = append(msgs, tx.DepositMsg)
	}
	if tx.EndRoundMsg != nil {
		msgs = append(msgs, tx.EndRoundMsg)
	}
	if tx.DistributeVaultMsg != nil {
		msgs = append(msgs, tx.DistributeVaultMsg)
	}

	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrInvalidMsg, "no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "%d messages in one transaction", len(msgs))
	}
}

// GetSignatures returns the signatures on this tx
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	signatures := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = signatures
	return bz, err
}

func (tx *Tx) Marshal() ([]byte, error) {
	return pool.Encode(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return pool.Decode(raw, tx)
}
