package utils

import (
	"time"

	pool "github.com/iov-one/pool"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ pool.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug
func (r Logging) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx, next pool.Checker) (*pool.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx, next pool.Deliverer) (*pool.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx pool.Context, tx pool.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := pool.GetLogger(ctx).With("path", pool.GetPath(tx), "duration", delta/time.Microsecond)

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
