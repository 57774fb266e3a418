package vault

import "github.com/iov-one/pool/errors"

var (
	ErrAlreadyInitialized   = errors.Register(1100, "vault already initialized")
	ErrInvalidRatioSum      = errors.Register(1101, "reward ratios must sum to 100")
	ErrCapacityExceeded     = errors.Register(1102, "reward ratio capacity exceeded")
	ErrRoundAlreadyActive   = errors.Register(1103, "round already active")
	ErrRoundNotActive       = errors.Register(1104, "round not active")
	ErrMismatchedRecipients = errors.Register(1105, "recipients do not match reward ratios")
	ErrInsufficientFunds    = errors.Register(1106, "insufficient funds")
	ErrTransferFailed       = errors.Register(1107, "transfer failed")
)
