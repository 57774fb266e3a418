package utils

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ pool.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx, next pool.Checker) (_ *pool.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx, next pool.Deliverer) (_ *pool.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}
