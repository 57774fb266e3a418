package client

import (
	"context"
	"testing"

	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/weavetest/assert"
)

func TestStatus(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	status, err := c.Status(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, false, status.CatchingUp)
	if status.Height < 1 {
		t.Fatalf("Unexpected height from status: %d", status.Height)
	}
}

func TestHeader(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx := context.Background()
	status, err := c.Status(ctx)
	assert.Nil(t, err)
	maxHeight := status.Height

	header, err := c.Header(ctx, maxHeight)
	assert.Nil(t, err)
	assert.Equal(t, maxHeight, header.Height)

	if _, err := c.Header(ctx, maxHeight+20); err == nil {
		t.Fatalf("Expected error for non-existent height")
	}
}

func TestSubscribeHeaders(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := context.WithCancel(context.Background())

	status, err := c.Status(ctx)
	assert.Nil(t, err)
	lastHeight := status.Height

	headers := make(chan Header, 5)
	assert.Nil(t, c.SubscribeHeaders(ctx, headers))

	// read three headers and ensure they are in order
	for i := 0; i < 3; i++ {
		h, ok := <-headers
		assert.Equal(t, true, ok)
		assert.Equal(t, lastHeight+1, h.Height)
		lastHeight++
	}

	// cancel the context and ensure the channel is closed
	cancel()
	for range headers {
	}
}

func TestSubscribeInvalidQuery(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	err := c.SubscribeTx(context.Background(), "vault=", make(chan CommitResult))
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestQueryUnknownPath(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	_, err := c.queryModels("/no-such-bucket", nil)
	assert.IsErr(t, errors.ErrNotFound, err)
}
