package pool

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextHeader(t *testing.T) {
	bg := context.Background()

	_, ok := GetHeader(bg)
	assert.False(t, ok)

	now := time.Date(2019, 4, 1, 12, 0, 0, 0, time.UTC)
	header := abci.Header{Height: 7, ChainID: "test-chain", Time: now}
	ctx := WithHeader(bg, header)

	got, ok := GetHeader(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.Height)
	assert.Equal(t, now, BlockTime(ctx))

	assert.Panics(t, func() { WithHeader(ctx, header) })
}

func TestContextHeight(t *testing.T) {
	ctx := WithHeight(context.Background(), 55)
	h, ok := GetHeight(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(55), h)
	assert.Panics(t, func() { WithHeight(ctx, 56) })
}

func TestContextChainID(t *testing.T) {
	bg := context.Background()
	assert.Panics(t, func() { GetChainID(bg) })
	assert.Panics(t, func() { WithChainID(bg, "bad") })

	ctx := WithChainID(bg, "pool-test")
	assert.Equal(t, "pool-test", GetChainID(ctx))
	assert.Panics(t, func() { WithChainID(ctx, "pool-other") })
}

func TestContextLogger(t *testing.T) {
	bg := context.Background()
	assert.Equal(t, DefaultLogger, GetLogger(bg))

	var buf bytes.Buffer
	ctx := WithLogger(bg, log.NewTMLogger(&buf))
	ctx = WithLogInfo(ctx, "vault", "first")
	GetLogger(ctx).Info("hello")

	out := buf.String()
	assert.True(t, strings.Contains(out, "hello"), out)
	assert.True(t, strings.Contains(out, "vault=first"), out)
}
