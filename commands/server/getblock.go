package server

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iov-one/pool/errors"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

const flagHeight = "height"

var cdc = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(cdc)
}

// GetBlockCmd extracts a block from a blockstore.db and outputs as json
// It takes the last block unless -height is explicitly specified
// It writes the json to stdout
func GetBlockCmd(logger log.Logger, home string, args []string) error {
	getBlockFlags := flag.NewFlagSet("getblock", flag.ContinueOnError)
	height := getBlockFlags.Int64(flagHeight, 0, "height of the block to extract (default latest)")
	if err := getBlockFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	dbPath := filepath.Join(home, "data", "blockstore.db")
	if getBlockFlags.NArg() > 0 {
		dbPath = getBlockFlags.Arg(0)
	}

	db, err := openDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := blockchain.NewBlockStore(db)
	h := *height
	if h == 0 {
		h = store.Height()
	}
	js, err := blockJSON(store, h)
	if err != nil {
		return err
	}
	fmt.Println(string(js))
	return nil
}

// openDB opens the leveldb directory. The path must end with .db
func openDB(path string) (dbm.DB, error) {
	path = strings.TrimSuffix(path, "/")
	if !strings.HasSuffix(path, ".db") {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "database directory %q must end with .db", path)
	}
	dir, name := filepath.Split(strings.TrimSuffix(path, ".db"))
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return db, nil
}

func blockJSON(store *blockchain.BlockStore, height int64) ([]byte, error) {
	block := store.LoadBlock(height)
	if block == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no block at height %d", height)
	}
	js, err := cdc.MarshalJSONIndent(block, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidType, err.Error())
	}
	return js, nil
}
