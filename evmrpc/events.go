package evmrpc

import (
	"context"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"banwbanbridge/config"
)

// RedemptionEventTopic is the wBAN contract's Redeem(address,uint256,string)
// event signature hash: event Redeem(address indexed user, uint256 amount,
// string banAddress), emitted when a user burns wBAN to redeem native BAN.
var RedemptionEventTopic = crypto.Keccak256Hash([]byte("Redeem(address,uint256,string)"))

var redeemDataArgs = abi.Arguments{
	{Type: mustType("uint256")},
	{Type: mustType("string")},
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// RedemptionEvent is a decoded Redeem log: a user's EVM address, the human
// readable amount they redeemed, and the native address they asked to be
// credited (spec.md §4.6/§4.8 job payload).
type RedemptionEvent struct {
	BlockchainAddr    string
	NativeAddr        string
	Amount            string // human-readable decimal string, spec.md §4.6
	TxnHash            string
	BlockNumber        uint64
	EventTimestampSecs int64
}

// BlockNumber returns the current EVM chain head (spec.md §4.8).
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return WithClient(func(client *ethclient.Client) (uint64, error) {
		return client.BlockNumber(ctx)
	})
}

// FetchRedemptions returns every decodable Redeem event emitted by the
// wBAN contract in [fromBlock, toBlock] (spec.md §4.8).
func (c *Client) FetchRedemptions(ctx context.Context, fromBlock, toBlock uint64) ([]RedemptionEvent, error) {
	contract := common.HexToAddress(config.Config.EVM.ContractAddress)

	logs, err := WithClient(func(client *ethclient.Client) ([]ethtypes.Log, error) {
		return client.FilterLogs(ctx, ethereum.FilterQuery{
			FromBlock: big.NewInt(int64(fromBlock)),
			ToBlock:   big.NewInt(int64(toBlock)),
			Addresses: []common.Address{contract},
			Topics:    [][]common.Hash{{RedemptionEventTopic}},
		})
	})
	if err != nil {
		return nil, err
	}

	events := make([]RedemptionEvent, 0, len(logs))
	for _, l := range logs {
		if len(l.Topics) < 2 {
			continue
		}
		values, err := redeemDataArgs.UnpackValues(l.Data)
		if err != nil || len(values) != 2 {
			continue
		}
		amount, ok := values[0].(*big.Int)
		if !ok {
			continue
		}
		nativeAddr, ok := values[1].(string)
		if !ok {
			continue
		}

		blockTime, err := WithClient(func(client *ethclient.Client) (uint64, error) {
			header, err := client.HeaderByNumber(ctx, big.NewInt(int64(l.BlockNumber)))
			if err != nil {
				return 0, err
			}
			return header.Time, nil
		})
		if err != nil {
			return nil, fmt.Errorf("fetching block time for %d: %w", l.BlockNumber, err)
		}

		events = append(events, RedemptionEvent{
			BlockchainAddr:     common.HexToAddress(l.Topics[1].Hex()).Hex(),
			NativeAddr:         nativeAddr,
			Amount:             weiToHuman(amount),
			TxnHash:            l.TxHash.Hex(),
			BlockNumber:        l.BlockNumber,
			EventTimestampSecs: int64(blockTime),
		})
	}
	return events, nil
}
