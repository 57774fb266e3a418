package sigs

import "github.com/iov-one/pool/errors"

// ErrInvalidSequence is returned when a signature nonce does not match the
// stored user sequence.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
