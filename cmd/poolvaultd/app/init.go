package app

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/commands/server"
	"github.com/iov-one/pool/crypto"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/x/vault"
	abci "github.com/tendermint/tendermint/abci/types"
)

// AddressPrefix is the human readable part of bech32 rendered addresses.
const AddressPrefix = "tiov"

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode
//
// Arguments are an optional ticker and an optional hex address. When no
// address is given a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := vault.DefaultTicker
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", ticker)
		}
	}

	var addr pool.Address
	if len(args) > 1 {
		a, err := pool.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		// if no address provided, auto-generate one
		// and print out the key
		key, err := GenerateKey(nil, crypto.DefaultDerivationPath)
		if err != nil {
			return nil, err
		}
		out, err := json.MarshalIndent(key, "", "  ")
		if err != nil {
			return nil, err
		}
		fmt.Println(string(out))
		addr = key.Address
	}

	opts := fmt.Sprintf(`
          {
            "cash": [
              {
                "address": "%s",
                "coins": [
                  {"whole": 123456789, "ticker": "%s"}
                ]
              }
            ],
            "conf": {
              "vault": {
                "metadata": {"schema": 1},
                "ticker": "%s",
                "max_ratio_slots": %d
              }
            },
            "vault": []
          }
	`, addr, ticker, ticker, vault.DefaultMaxRatioSlots)
	return []byte(opts), nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	dbPath := options.DBPath
	if dbPath == "" && options.Home != "" {
		dbPath = filepath.Join(options.Home, "poolvault.db")
	}

	stack := Stack(vault.DefaultMetrics())
	application, err := Application(Name, stack, TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(options.Logger)
	return application, nil
}

// KeyInfo describes a derived signing key.
type KeyInfo struct {
	Seed    string             `json:"seed"`
	Path    string             `json:"path"`
	Pubkey  *crypto.PublicKey  `json:"pub_key"`
	Secret  *crypto.PrivateKey `json:"secret"`
	Address pool.Address       `json:"address"`
	Bech32  string             `json:"bech32"`
}

// GenerateKey derives an ed25519 key from the seed along the path. A
// random seed is used when none is given.
func GenerateKey(seed []byte, path string) (*KeyInfo, error) {
	if seed == nil {
		seed = make([]byte, 32)
		if _, err := rand.Read(seed); err != nil {
			return nil, errors.Wrap(err, "read random seed")
		}
	}
	key, err := crypto.DeriveKey(seed, path)
	if err != nil {
		return nil, err
	}
	pub := key.PublicKey()
	addr := pub.Address()
	b32, err := addr.Bech32(AddressPrefix)
	if err != nil {
		return nil, err
	}
	return &KeyInfo{
		Seed:    hex.EncodeToString(seed),
		Path:    path,
		Pubkey:  pub,
		Secret:  key,
		Address: addr,
		Bech32:  b32,
	}, nil
}
