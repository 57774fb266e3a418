package weavetest

import pool "github.com/iov-one/pool"

// Decorator is a mock implementation of the pool.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ pool.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx, next pool.Checker) (*pool.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx, next pool.Deliverer) (*pool.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate wraps the handler with one decorator and returns it as a single
// handler. Minimal version of app.ChainDecorators for test cases.
func Decorate(h pool.Handler, d pool.Decorator) pool.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn pool.Handler
	dc pool.Decorator
}

var _ pool.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
