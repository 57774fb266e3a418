package app

import (
	pool "github.com/iov-one/pool"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...pool.Initializer) pool.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []pool.Initializer
}

var _ pool.Initializer = chainInitializer{}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts pool.Options, kv pool.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
