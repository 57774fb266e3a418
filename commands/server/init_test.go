package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"testing"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const tmGenesis = `{
  "genesis_time": "2019-04-01T10:00:00.000000Z",
  "chain_id": "test-chain-Xl3qZ1",
  "validators": [],
  "app_hash": ""
}`

func genState(args []string) (json.RawMessage, error) {
	ticker := "IOV"
	if len(args) > 0 {
		ticker = args[0]
	}
	return json.RawMessage(`{"ticker": "` + ticker + `"}`), nil
}

func readAppState(t *testing.T, home string) map[string]string {
	t.Helper()
	doc, err := readGenesis(GenesisPath(home))
	require.NoError(t, err)
	var state map[string]string
	require.NoError(t, json.Unmarshal(doc[appStateKey], &state))
	return state
}

func TestInit(t *testing.T) {
	home, err := ioutil.TempDir("", "poolvaultd-init")
	require.NoError(t, err)
	defer os.RemoveAll(home)
	logger := log.NewNopLogger()

	// tendermint init has not been run
	err = InitCmd(genState, logger, home, nil)
	require.Error(t, err)

	writeFile(t, home, "config/genesis.json", tmGenesis)

	require.NoError(t, InitCmd(genState, logger, home, nil))
	assert.Equal(t, map[string]string{"ticker": "IOV"}, readAppState(t, home))

	doc, err := readGenesis(GenesisPath(home))
	require.NoError(t, err)
	assert.Equal(t, `"test-chain-Xl3qZ1"`, string(doc["chain_id"]))

	_, err = os.Stat(DefaultConfigPath(home))
	require.NoError(t, err)

	// app state is not silently replaced
	err = InitCmd(genState, logger, home, []string{"ETH"})
	assert.True(t, errors.ErrDuplicate.Is(err))
	assert.Equal(t, map[string]string{"ticker": "IOV"}, readAppState(t, home))

	require.NoError(t, InitCmd(genState, logger, home, []string{"-f", "ETH"}))
	assert.Equal(t, map[string]string{"ticker": "ETH"}, readAppState(t, home))
}

func TestValidateGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "poolvaultd-validate")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	requireTicker := pool.GenesisInitializer(func(opts pool.Options, db pool.KVStore) error {
		var ticker string
		if err := opts.ReadOptions("ticker", &ticker); err != nil {
			return errors.Wrap(errors.ErrInvalidInput, err.Error())
		}
		if ticker == "" {
			return errors.Wrap(errors.ErrEmpty, "ticker")
		}
		return db.Set([]byte("ticker"), []byte(ticker))
	})

	good := writeFile(t, dir, "good.json", `{"app_state": {"ticker": "IOV"}}`)
	empty := writeFile(t, dir, "empty.json", `{"chain_id": "x"}`)
	bad := writeFile(t, dir, "bad.json", `{"app_state": {"ticker": ""}}`)

	assert.NoError(t, ValidateGenesis(requireTicker, []string{good}))
	assert.True(t, errors.ErrEmpty.Is(ValidateGenesis(requireTicker, []string{good, empty})))
	assert.True(t, errors.ErrEmpty.Is(ValidateGenesis(requireTicker, []string{bad})))
	assert.Error(t, ValidateGenesis(requireTicker, []string{dir + "/missing.json"}))
}
