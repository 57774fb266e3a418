package pool

import (
	"fmt"
	"strings"

	"github.com/iov-one/pool/errors"
)

const (
	// KeyQueryMod queries a single key.
	KeyQueryMod = ""
	// PrefixQueryMod queries all keys with given prefix.
	PrefixQueryMod = "prefix"
)

// Model groups together key and value to return
type Model struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}

// QueryHandler is anything that can process ABCI queries
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister is a function that adds some handlers
// to this router
type QueryRegister func(QueryRouter)

// QueryRouter allows us to register many query handlers
// to different paths and then direct each query
// to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 10),
	}
}

// RegisterAll registers a number of QueryRegister at once
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register adds a new Handler for the given path.
// panics if another Handler was already registered
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("Re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path.
// Returns nil if no handler is registered.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// ParseQueryPath splits "/vaults/owner?prefix" into the path and the query
// mod.
func ParseQueryPath(raw string) (path, mod string) {
	chunks := strings.SplitN(raw, "?", 2)
	path = chunks[0]
	if len(chunks) == 2 {
		mod = chunks[1]
	}
	return path, mod
}

// ValidateQueryMod returns an error for an unknown query mod.
func ValidateQueryMod(mod string) error {
	switch mod {
	case KeyQueryMod, PrefixQueryMod:
		return nil
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "unknown query mod %q", mod)
	}
}
