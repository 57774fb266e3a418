package orm

import (
	"fmt"
	"reflect"
	"regexp"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/store"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	pool.Persistent
	Validate() error
}

// ModelBucket stores models of a single type under their primary keys.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db pool.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists and
	// ErrNotFound otherwise.
	Has(db pool.ReadOnlyKVStore, key []byte) error

	// Put validates and saves given model in the database. All indexes
	// are updated.
	Put(db pool.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db pool.KVStore, key []byte) error

	// ByIndex returns primary keys of all entities that the index with
	// given name maps to the value.
	ByIndex(db pool.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error)

	// PrefixScan returns an iterator over all entities with a primary key
	// starting with the prefix. A nil prefix iterates the whole bucket.
	PrefixScan(db pool.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error)

	// Register exposes the bucket and its indexes in the query router.
	Register(path string, r pool.QueryRouter)
}

// ModelIterator loads consecutive entities of a bucket.
type ModelIterator interface {
	// LoadNext loads the next entity into dest and returns its primary
	// key. It returns ErrIteratorDone when there are no more entities.
	LoadNext(dest Model) ([]byte, error)
	Release()
}

// ModelBucketOption configures a bucket at creation.
type ModelBucketOption func(*modelBucket)

// WithIndex declares a secondary index. The unique flag enforces that at
// most one entity maps to an index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(b *modelBucket) {
		if _, ok := b.indexes[name]; ok {
			panic(fmt.Sprintf("index %q declared twice", name))
		}
		b.indexes[name] = newIndex(b.name, name, indexer, unique)
	}
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// NewModelBucket returns a bucket storing models of the type of the
// prototype under given name.
func NewModelBucket(name string, prototype Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	t := reflect.TypeOf(prototype)
	if t.Kind() != reflect.Ptr {
		panic("prototype must be a pointer")
	}
	b := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   t.Elem(),
		indexes: make(map[string]*index),
	}
	for _, fn := range opts {
		fn(b)
	}
	return b
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]*index
}

var _ ModelBucket = (*modelBucket)(nil)

func (b *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	copy(out, b.prefix)
	copy(out[len(b.prefix):], key)
	return out
}

func (b *modelBucket) newModel() Model {
	return reflect.New(b.model).Interface().(Model)
}

func (b *modelBucket) checkType(dest Model) error {
	if reflect.TypeOf(dest) != reflect.PtrTo(b.model) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be stored in %s bucket", dest, b.name)
	}
	return nil
}

func (b *modelBucket) One(db pool.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := b.checkType(dest); err != nil {
		return err
	}
	raw, err := db.Get(b.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %T", dest)
	}
	return nil
}

func (b *modelBucket) Has(db pool.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(b.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "key %X in %s bucket", key, b.name)
	}
	return nil
}

func (b *modelBucket) Put(db pool.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := b.checkType(m); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}

	var prev Model
	if len(b.indexes) > 0 {
		prev = b.newModel()
		switch err := b.One(db, key, prev); {
		case errors.ErrNotFound.Is(err):
			prev = nil
		case err != nil:
			return err
		}
	}

	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}
	if err := db.Set(b.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, key, prev, m); err != nil {
			return err
		}
	}
	return nil
}

func (b *modelBucket) Delete(db pool.KVStore, key []byte) error {
	prev := b.newModel()
	if err := b.One(db, key, prev); err != nil {
		return err
	}
	if err := db.Delete(b.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, key, prev, nil); err != nil {
			return err
		}
	}
	return nil
}

func (b *modelBucket) ByIndex(db pool.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error) {
	idx, ok := b.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "no index %q in %s bucket", indexName, b.name)
	}
	return idx.Keys(db, value)
}

func (b *modelBucket) PrefixScan(db pool.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error) {
	start, end := store.PrefixRange(b.dbKey(prefix))
	var (
		it  pool.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	return &modelIterator{it: it, prefixLen: len(b.prefix)}, nil
}

type modelIterator struct {
	it        pool.Iterator
	prefixLen int
}

func (m *modelIterator) LoadNext(dest Model) ([]byte, error) {
	key, value, err := m.it.Next()
	if err != nil {
		return nil, err
	}
	if err := dest.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "cannot unmarshal %T", dest)
	}
	return key[m.prefixLen:], nil
}

func (m *modelIterator) Release() {
	m.it.Release()
}
