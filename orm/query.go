package orm

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/store"
)

// Register exposes the bucket under the path and every index under
// path/<index name>. Returned model keys are primary keys, without the
// bucket prefix.
func (b *modelBucket) Register(path string, r pool.QueryRouter) {
	r.Register("/"+path, bucketQuery{b: b})
	for name, idx := range b.indexes {
		r.Register("/"+path+"/"+name, indexQuery{b: b, idx: idx})
	}
}

type bucketQuery struct {
	b *modelBucket
}

var _ pool.QueryHandler = bucketQuery{}

func (q bucketQuery) Query(db pool.ReadOnlyKVStore, mod string, data []byte) ([]pool.Model, error) {
	switch mod {
	case pool.KeyQueryMod:
		raw, err := db.Get(q.b.dbKey(data))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, nil
		}
		return []pool.Model{pool.Pair(data, raw)}, nil
	case pool.PrefixQueryMod:
		start, end := store.PrefixRange(q.b.dbKey(data))
		it, err := db.Iterator(start, end)
		if err != nil {
			return nil, err
		}
		models, err := store.ReadAll(it)
		if err != nil {
			return nil, err
		}
		for i := range models {
			models[i].Key = models[i].Key[len(q.b.prefix):]
		}
		return models, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown query mod %q", mod)
	}
}

type indexQuery struct {
	b   *modelBucket
	idx *index
}

var _ pool.QueryHandler = indexQuery{}

// Query returns all entities referenced by the index value. Only key
// queries are supported.
func (q indexQuery) Query(db pool.ReadOnlyKVStore, mod string, data []byte) ([]pool.Model, error) {
	if mod != pool.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unsupported query mod %q", mod)
	}
	keys, err := q.idx.Keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]pool.Model, 0, len(keys))
	for _, k := range keys {
		raw, err := db.Get(q.b.dbKey(k))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, errors.Wrapf(errors.ErrHuman, "index %s references missing key %X", q.idx.name, k)
		}
		res = append(res, pool.Pair(k, raw))
	}
	return res, nil
}
