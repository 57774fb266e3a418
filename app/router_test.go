package app

import (
	"context"
	"testing"

	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/weavetest"
	"github.com/iov-one/pool/weavetest/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &weavetest.Handler{}
	bad := &weavetest.Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	}
	r.Handle("vault/good", good)
	r.Handle("vault/bad", bad)

	// invalid registrations panic
	assert.Panics(t, func() { r.Handle("vault/good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })

	ctx := context.Background()
	tx := func(path string) *weavetest.Tx {
		return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: path}}
	}

	_, err := r.Check(ctx, nil, tx("vault/good"))
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, nil, tx("vault/good"))
	assert.Nil(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, nil, tx("vault/bad"))
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 1, bad.CallCount())

	_, err = r.Check(ctx, nil, tx("vault/missing"))
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(ctx, nil, tx("vault/missing"))
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Deliver(ctx, nil, &weavetest.Tx{Err: errors.ErrInvalidMsg})
	assert.IsErr(t, errors.ErrInvalidMsg, err)
	assert.Equal(t, 2, good.CallCount())
}
