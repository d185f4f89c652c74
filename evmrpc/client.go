// Package evmrpc is the EVM RPC collaborator: signature recovery, raw wBAN
// contract calls and the redemption-event log stream the Chain Scanner
// consumes, mirroring the teacher's EVMRPC package shape but against a
// single configured chain rather than a per-chain-ID map (spec.md §6).
package evmrpc

import (
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/ethclient"

	"banwbanbridge/config"
)

// WithClient dials each configured RPC endpoint in turn and runs f against
// the first one that connects and does not error, exactly as the teacher's
// EVMRPC.WithClient does across its multi-chain RPCList.
func WithClient[T any](f func(client *ethclient.Client) (T, error)) (res T, err error) {
	for _, url := range config.Config.EVM.RPCList {
		var client *ethclient.Client
		client, err = ethclient.Dial(url)
		if err != nil {
			log.Printf("error connecting to %s: %s", url, err.Error())
			continue
		}

		res, err = f(client)
		client.Close()
		if err == nil {
			return
		}
	}
	if err == nil {
		err = fmt.Errorf("no EVM RPC endpoints configured")
	}
	return
}

// Client is the EVM collaborator handle passed to ops, claim and scanner.
// It carries no connection state itself; WithClient redials per call, same
// as the teacher.
type Client struct{}

func New() *Client {
	return &Client{}
}
