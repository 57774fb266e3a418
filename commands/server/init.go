package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/pool/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DirConfig is the tendermint configuration directory inside home.
	DirConfig = "config"

	genesisFile = "genesis.json"
	appStateKey = "app_state"
	flagForce   = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath returns the location of the tendermint genesis file.
func GenesisPath(home string) string {
	return filepath.Join(home, DirConfig, genesisFile)
}

// InitCmd will add the app_state to an existing tendermint genesis file
// and write a default daemon configuration next to it. Run
// `tendermint init` first.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	force := initFlags.Bool(flagForce, false, "overwrite an existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return err
	}

	genFile := GenesisPath(home)
	doc, err := readGenesis(genFile)
	if err != nil {
		return err
	}
	if hasAppState(doc) && !*force {
		return errors.Wrapf(errors.ErrDuplicate, "app_state already set in %s, use -%s to overwrite", genFile, flagForce)
	}

	state, err := gen(initFlags.Args())
	if err != nil {
		return errors.Wrap(err, "generate app_state")
	}
	doc[appStateKey] = state
	if err := writeGenesis(genFile, doc); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)

	confFile := DefaultConfigPath(home)
	switch err := WriteConfig(confFile, DefaultConfig()); {
	case errors.ErrDuplicate.Is(err):
		logger.Info("Found config file", "path", confFile)
	case err != nil:
		return err
	default:
		logger.Info("Config file written", "path", confFile)
	}
	return nil
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func readGenesis(path string) (genesisDoc, error) {
	bz, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis, run `tendermint init` first")
	}
	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "genesis %s: %s", path, err)
	}
	return doc, nil
}

func writeGenesis(path string, doc genesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serialize genesis")
	}
	return errors.Wrap(ioutil.WriteFile(path, out, 0600), "write genesis")
}

func hasAppState(doc genesisDoc) bool {
	raw := doc[appStateKey]
	return len(raw) > 0 && string(raw) != "null" && string(raw) != "{}"
}
