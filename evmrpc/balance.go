package evmrpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"banwbanbridge/config"
)

var balanceOfSelector = crypto.Keccak256([]byte("balanceOf(address)"))[:4]

// WBANBalance returns the wBAN contract balance of addr, by a raw eth_call
// rather than a generated ABI binding (no ierc20 package is carried in this
// repo — see DESIGN.md).
func (c *Client) WBANBalance(ctx context.Context, addr string) (*big.Int, error) {
	data := append(append([]byte{}, balanceOfSelector...), common.LeftPadBytes(common.HexToAddress(addr).Bytes(), 32)...)
	contract := common.HexToAddress(config.Config.EVM.ContractAddress)

	result, err := WithClient(func(client *ethclient.Client) ([]byte, error) {
		return client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	})
	if err != nil {
		return nil, err
	}
	return big.NewInt(0).SetBytes(result), nil
}
