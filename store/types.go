package store

import pool "github.com/iov-one/pool"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = pool.ReadOnlyKVStore
	SetDeleter       = pool.SetDeleter
	KVStore          = pool.KVStore
	Batch            = pool.Batch
	Iterator         = pool.Iterator
	CacheableKVStore = pool.CacheableKVStore
	KVCacheWrap      = pool.KVCacheWrap
	CommitKVStore    = pool.CommitKVStore
	CommitID         = pool.CommitID
	Model            = pool.Model
)
