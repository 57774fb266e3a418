package orm

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/errors"
)

const indexPrefix = "_i."

// Indexer calculates the secondary index key for a given model. A nil key
// means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// index is stored as a set of primary keys, serialized under a single
// database key per index value. Use it only for indexes with a small number
// of entries per value, like an owner of a handful of vaults.
type index struct {
	name    string
	id      []byte
	unique  bool
	indexer Indexer
}

func newIndex(bucket, name string, indexer Indexer, unique bool) *index {
	return &index{
		name:    name,
		id:      []byte(indexPrefix + bucket + "_" + name + ":"),
		unique:  unique,
		indexer: indexer,
	}
}

// dbKey is the full key we store in the db, including prefix.
func (i *index) dbKey(value []byte) []byte {
	out := make([]byte, len(i.id)+len(value))
	copy(out, i.id)
	copy(out[len(i.id):], value)
	return out
}

// Update moves the reference of pk from the index value of prev to the
// index value of next. prev is nil on insert and next is nil on delete.
func (i *index) Update(db pool.KVStore, pk []byte, prev, next Model) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil model")
	}

	var prevVal, nextVal []byte
	var err error
	if prev != nil {
		if prevVal, err = i.indexer(prev); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if next != nil {
		if nextVal, err = i.indexer(next); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if prev != nil && next != nil && string(prevVal) == string(nextVal) {
		return nil
	}

	if prevVal != nil {
		if err := i.remove(db, prevVal, pk); err != nil {
			return err
		}
	}
	if nextVal != nil {
		if err := i.insert(db, nextVal, pk); err != nil {
			return err
		}
	}
	return nil
}

func (i *index) insert(db pool.KVStore, value, pk []byte) error {
	refs, err := i.refs(db, value)
	if err != nil {
		return err
	}
	if i.unique && len(refs.Refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(i.dbKey(value), raw)
}

func (i *index) remove(db pool.KVStore, value, pk []byte) error {
	refs, err := i.refs(db, value)
	if err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	if len(refs.Refs) == 0 {
		return db.Delete(i.dbKey(value))
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(i.dbKey(value), raw)
}

// Keys returns all primary keys indexed under given value, in ascending
// order.
func (i *index) Keys(db pool.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	refs, err := i.refs(db, value)
	if err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

func (i *index) refs(db pool.ReadOnlyKVStore, value []byte) (*MultiRef, error) {
	raw, err := db.Get(i.dbKey(value))
	if err != nil {
		return nil, err
	}
	var refs MultiRef
	if raw == nil {
		return &refs, nil
	}
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "index %s", i.name)
	}
	return &refs, nil
}
