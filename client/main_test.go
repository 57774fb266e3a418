package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/iov-one/pool/cmd/poolvaultd/app"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/commands/server"
	"github.com/iov-one/pool/crypto"
	"github.com/iov-one/pool/x/cash"
	"github.com/iov-one/pool/x/vault"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	nm "github.com/tendermint/tendermint/node"
	rpctest "github.com/tendermint/tendermint/rpc/test"
)

// useful values for test cases
var (
	node   *nm.Node
	faucet = crypto.GenPrivKeyEd25519()
)

func getChainID() string {
	return rpctest.GetConfig().ChainID()
}

// genesisApp provides the application state the rpc test genesis file
// does not carry.
type genesisApp struct {
	abci.Application
	state []byte
}

func (g genesisApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if len(req.AppStateBytes) == 0 {
		req.AppStateBytes = g.state
	}
	return g.Application.InitChain(req)
}

func newVaultApp() (abci.Application, error) {
	application, err := app.GenerateApp(&server.Options{Logger: log.NewNopLogger()})
	if err != nil {
		return nil, err
	}
	state, err := json.Marshal(map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{
				Address: faucet.PublicKey().Address(),
				Coins:   []coin.Coin{coin.NewCoin(1000, 0, vault.DefaultTicker)},
			},
		},
		"conf": map[string]interface{}{
			"vault": vault.DefaultConfiguration(),
		},
	})
	if err != nil {
		return nil, err
	}
	return genesisApp{Application: application, state: state}, nil
}

func TestMain(m *testing.M) {
	config := rpctest.GetConfig()
	config.Moniker = "PoolClientTest"
	// IndexTags non-empty overrides IndexAllTags, both are needed for vault tag search
	config.TxIndex.IndexTags = ""
	config.TxIndex.IndexAllTags = true

	application, err := newVaultApp()
	if err != nil {
		fmt.Printf("Failed to build application: %s\n", err)
		os.Exit(1)
	}
	fmt.Println("Starting tendermint...")
	node = rpctest.StartTendermint(application)

	fmt.Println("Wait for first block...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_, err = NewLocalClient(node).WaitForNextBlock(ctx)
	cancel()

	var code int
	if err == nil {
		code = m.Run()
	} else {
		fmt.Printf("Failed to start tendermint: %s\n", err)
		code = 1
	}

	_ = node.Stop()
	node.Wait()
	os.Exit(code)
}

func timeoutCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
