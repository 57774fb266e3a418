/*
Package app links together all the various components
to construct the pooled vault daemon.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/app"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/store/iavl"
	"github.com/iov-one/pool/x"
	"github.com/iov-one/pool/x/cash"
	"github.com/iov-one/pool/x/sigs"
	"github.com/iov-one/pool/x/utils"
	"github.com/iov-one/pool/x/vault"
)

// Name is reported by abci Info.
const Name = "poolvault"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// Ledger returns the coin ledger used by vaults. Transfers are allowed
// for signers and for vault custody accounts acting on behalf of the
// vault engine.
func Ledger() vault.Ledger {
	auth := x.ChainAuth(Authenticator(), vault.Authenticate{})
	return cash.NewAuthorizedController(cash.NewController(cash.NewWalletBucket()), auth)
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns a default router, dispatching to cash and vault
// messages.
func Router(authFn x.Authenticator, metrics *vault.Metrics) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, cash.NewController(cash.NewWalletBucket()))
	vault.RegisterRoutes(r, authFn, Ledger(), metrics)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth" and "/vaults"
func QueryRouter() pool.QueryRouter {
	r := pool.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		vault.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(metrics *vault.Metrics) pool.Handler {
	return Chain().WithHandler(Router(Authenticator(), metrics))
}

// Initializers returns all extensions reading the genesis app_state.
func Initializers() pool.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		vault.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h pool.Handler, tx pool.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (pool.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid database name %q", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
