package pool

import (
	"io"
	"testing"

	"github.com/iov-one/pool/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/common"
)

func TestDeliverOrError(t *testing.T) {
	res := &DeliverResult{
		Data:    []byte("seed"),
		Log:     "ok",
		Tags:    []common.KVPair{{Key: []byte("vault"), Value: []byte("seed")}},
		GasUsed: 12,
	}
	abciRes := DeliverOrError(res, nil, false)
	assert.Equal(t, uint32(0), abciRes.Code)
	assert.Equal(t, []byte("seed"), abciRes.Data)
	assert.Equal(t, int64(12), abciRes.GasUsed)
	assert.Len(t, abciRes.Tags, 1)

	abciRes = DeliverOrError(nil, errors.Wrap(errors.ErrUnauthorized, "not owner"), false)
	assert.Equal(t, uint32(2), abciRes.Code)
	assert.Equal(t, "cannot deliver tx: not owner: unauthorized", abciRes.Log)

	abciRes = DeliverOrError(nil, io.EOF, false)
	assert.Equal(t, uint32(1), abciRes.Code)
	assert.Equal(t, "cannot deliver tx: internal error", abciRes.Log)
}

func TestCheckOrError(t *testing.T) {
	abciRes := CheckOrError(NewCheck(100, "fine"), nil, false)
	assert.Equal(t, uint32(0), abciRes.Code)
	assert.Equal(t, int64(100), abciRes.GasWanted)
	assert.Equal(t, "fine", abciRes.Log)

	abciRes = CheckOrError(nil, errors.ErrInvalidInput.New("bad"), false)
	assert.Equal(t, uint32(14), abciRes.Code)
	assert.Equal(t, "cannot check tx: bad: invalid input", abciRes.Log)
}

func TestMetadataValidate(t *testing.T) {
	var none *Metadata
	assert.True(t, errors.ErrInvalidModel.Is(none.Validate()))
	assert.True(t, errors.ErrInvalidModel.Is((&Metadata{}).Validate()))
	assert.NoError(t, (&Metadata{Schema: 1}).Validate())

	m := &Metadata{Schema: 2}
	cpy := m.Copy()
	cpy.Schema = 3
	assert.Equal(t, int32(2), m.Schema)
}

func TestOptionsReadOptions(t *testing.T) {
	opts := Options{"vault": []byte(`{"ticker": "IOV"}`)}
	var conf struct {
		Ticker string `json:"ticker"`
	}
	assert.NoError(t, opts.ReadOptions("missing", &conf))
	assert.Equal(t, "", conf.Ticker)
	assert.NoError(t, opts.ReadOptions("vault", &conf))
	assert.Equal(t, "IOV", conf.Ticker)
}

func TestParseQueryPath(t *testing.T) {
	path, mod := ParseQueryPath("/vaults/owner?prefix")
	assert.Equal(t, "/vaults/owner", path)
	assert.Equal(t, PrefixQueryMod, mod)
	assert.NoError(t, ValidateQueryMod(mod))

	path, mod = ParseQueryPath("/vaults")
	assert.Equal(t, "/vaults", path)
	assert.Equal(t, KeyQueryMod, mod)

	assert.True(t, errors.ErrInvalidInput.Is(ValidateQueryMod("range")))
}

func TestParseDeliverOrError(t *testing.T) {
	abciRes := DeliverOrError(nil, errors.Wrap(errors.ErrNotFound, "vault"), false)
	_, err := ParseDeliverOrError(abciRes)
	assert.True(t, errors.ErrNotFound.Is(err))

	abciRes = DeliverOrError(&DeliverResult{Data: []byte("ok"), GasUsed: 3}, nil, false)
	res, err := ParseDeliverOrError(abciRes)
	assert.NoError(t, err)
	assert.Equal(t, []byte("ok"), res.Data)
	assert.Equal(t, int64(3), res.GasUsed)
}
