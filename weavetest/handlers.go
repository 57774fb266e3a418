package weavetest

import pool "github.com/iov-one/pool"

// Handler is a mock implementation of the pool.Handler interface.
//
// Each method call is counted. Set CheckErr or DeliverErr to force an error
// response. Returned results are copies of CheckResult and DeliverResult.
type Handler struct {
	checkCall   int
	CheckResult pool.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult pool.DeliverResult
	DeliverErr    error
}

var _ pool.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes a key/value pair to the store on every call and then
// returns Err. It is useful to verify that a failed call is rolled back.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ pool.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &pool.CheckResult{}, nil
}

func (h *WriteHandler) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &pool.DeliverResult{}, nil
}

// PanicHandler panics on every call.
type PanicHandler struct {
	Msg string
}

var _ pool.Handler = (*PanicHandler)(nil)

func (h *PanicHandler) Check(pool.Context, pool.KVStore, pool.Tx) (*pool.CheckResult, error) {
	panic(h.Msg)
}

func (h *PanicHandler) Deliver(pool.Context, pool.KVStore, pool.Tx) (*pool.DeliverResult, error) {
	panic(h.Msg)
}
