package orm

import (
	"testing"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/store"
	"github.com/iov-one/pool/weavetest/assert"
)

type counter struct {
	Metadata *pool.Metadata
	Owner    pool.Address
	Count    int64
}

func (c *counter) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return err
	}
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInvalidModel, "negative count")
	}
	return nil
}

func (c *counter) Marshal() ([]byte, error) { return pool.Encode(c) }

func (c *counter) Unmarshal(raw []byte) error { return pool.Decode(raw, c) }

type otherModel struct {
	counter
}

func ownerIndexer(m Model) ([]byte, error) {
	c, ok := m.(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", m)
	}
	return c.Owner, nil
}

func newCounterBucket() ModelBucket {
	return NewModelBucket("counters", &counter{}, WithIndex("owner", ownerIndexer, false))
}

func TestModelBucketPutOneDelete(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()
	owner := pool.NewAddress([]byte("owner"))

	var c counter
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("a"), &c))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("a")))

	in := &counter{Metadata: &pool.Metadata{Schema: 1}, Owner: owner, Count: 5}
	assert.Nil(t, b.Put(db, []byte("a"), in))
	assert.Nil(t, b.Has(db, []byte("a")))

	assert.Nil(t, b.One(db, []byte("a"), &c))
	assert.Equal(t, int64(5), c.Count)
	assert.Equal(t, owner, c.Owner)

	assert.Nil(t, b.Delete(db, []byte("a")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("a"), &c))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("a")))
}

func TestModelBucketRejects(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	invalid := &counter{Metadata: &pool.Metadata{Schema: 1}, Count: -1}
	assert.IsErr(t, errors.ErrInvalidModel, b.Put(db, []byte("a"), invalid))

	noMeta := &counter{Count: 1}
	assert.IsErr(t, errors.ErrInvalidModel, b.Put(db, []byte("a"), noMeta))

	valid := &counter{Metadata: &pool.Metadata{Schema: 1}}
	assert.IsErr(t, errors.ErrEmpty, b.Put(db, nil, valid))

	other := &otherModel{counter: *valid}
	assert.IsErr(t, errors.ErrInvalidType, b.Put(db, []byte("a"), other))
}

func TestModelBucketIndex(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()
	alice := pool.NewAddress([]byte("alice"))
	bob := pool.NewAddress([]byte("bob"))

	put := func(key string, owner pool.Address) {
		t.Helper()
		c := &counter{Metadata: &pool.Metadata{Schema: 1}, Owner: owner}
		assert.Nil(t, b.Put(db, []byte(key), c))
	}
	put("c", alice)
	put("a", alice)
	put("b", bob)

	keys, err := b.ByIndex(db, "owner", alice)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("c")}, keys)

	// changing the owner moves the reference
	put("c", bob)
	keys, err = b.ByIndex(db, "owner", alice)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a")}, keys)
	keys, err = b.ByIndex(db, "owner", bob)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("b"), []byte("c")}, keys)

	assert.Nil(t, b.Delete(db, []byte("a")))
	keys, err = b.ByIndex(db, "owner", alice)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))

	_, err = b.ByIndex(db, "missing", alice)
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("uniques", &counter{}, WithIndex("owner", ownerIndexer, true))
	owner := pool.NewAddress([]byte("owner"))

	c := &counter{Metadata: &pool.Metadata{Schema: 1}, Owner: owner}
	assert.Nil(t, b.Put(db, []byte("a"), c))
	// saving the same entity again is fine
	assert.Nil(t, b.Put(db, []byte("a"), c))
	assert.IsErr(t, errors.ErrDuplicate, b.Put(db, []byte("b"), c))
}

func TestPrefixScan(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()
	for i, k := range []string{"x1", "x2", "y1"} {
		c := &counter{Metadata: &pool.Metadata{Schema: 1}, Count: int64(i)}
		assert.Nil(t, b.Put(db, []byte(k), c))
	}

	it, err := b.PrefixScan(db, []byte("x"), false)
	assert.Nil(t, err)
	defer it.Release()

	var keys []string
	for {
		var c counter
		key, err := it.LoadNext(&c)
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		assert.Nil(t, err)
		keys = append(keys, string(key))
	}
	assert.Equal(t, []string{"x1", "x2"}, keys)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()
	owner := pool.NewAddress([]byte("owner"))
	for _, k := range []string{"x1", "x2", "y1"} {
		c := &counter{Metadata: &pool.Metadata{Schema: 1}, Owner: owner}
		assert.Nil(t, b.Put(db, []byte(k), c))
	}

	qr := pool.NewQueryRouter()
	b.Register("counters", qr)

	h := qr.Handler("/counters")
	res, err := h.Query(db, pool.KeyQueryMod, []byte("x2"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, []byte("x2"), res[0].Key)

	res, err = h.Query(db, pool.KeyQueryMod, []byte("zz"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = h.Query(db, pool.PrefixQueryMod, []byte("x"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	_, err = h.Query(db, "range", nil)
	assert.IsErr(t, errors.ErrInvalidInput, err)

	res, err = qr.Handler("/counters/owner").Query(db, pool.KeyQueryMod, owner)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(res))
	assert.Equal(t, []byte("y1"), res[2].Key)
}

func TestMultiRef(t *testing.T) {
	m, err := NewMultiRef([]byte("c"), []byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, m.Add([]byte("b")))
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, m.Refs)
	assert.IsErr(t, errors.ErrDuplicate, m.Add([]byte("a")))

	assert.Nil(t, m.Remove([]byte("b")))
	assert.IsErr(t, errors.ErrNotFound, m.Remove([]byte("b")))

	raw, err := m.Marshal()
	assert.Nil(t, err)
	var got MultiRef
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, m.Refs, got.Refs)
}
