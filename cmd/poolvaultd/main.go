package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/cmd/poolvaultd/app"
	"github.com/iov-one/pool/commands/server"
	"github.com/iov-one/pool/crypto"
	"github.com/iov-one/pool/errors"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".poolvaultd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("poolvaultd")
	fmt.Println("        Pooled funds vault node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("validate  Check the app_state of genesis files")
	fmt.Println("getblock  Extract a block from the blockstore")
	fmt.Println("keys      Derive a signing key from a hex seed")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.poolvaultd")`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "poolvault")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(app.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(app.GenerateApp, logger, *varHome, rest)
	case "validate":
		paths := rest
		if len(paths) == 0 {
			paths = []string{server.GenesisPath(*varHome)}
		}
		err = server.ValidateGenesis(app.Initializers(), paths)
	case "getblock":
		err = server.GetBlockCmd(logger, *varHome, rest)
	case "keys":
		err = keysCmd(rest)
	case "version":
		fmt.Println(pool.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

// keysCmd prints a key derived from the hex seed given as the only
// argument. A random seed is used when none is given.
func keysCmd(args []string) error {
	keysFlags := flag.NewFlagSet("keys", flag.ContinueOnError)
	path := keysFlags.String("path", crypto.DefaultDerivationPath, "SLIP-0010 derivation path")
	if err := keysFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	var seed []byte
	if keysFlags.NArg() > 0 {
		raw, err := hex.DecodeString(keysFlags.Arg(0))
		if err != nil {
			return errors.Wrap(errors.ErrInvalidInput, "seed must be hex encoded")
		}
		seed = raw
	}
	key, err := app.GenerateKey(seed, *path)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
