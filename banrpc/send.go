package banrpc

import (
	"context"
	"math/big"
	"strconv"

	"banwbanbridge/config"
)

// SendToAddress sends amount base units from the hot wallet to addr via the
// node's send action, returning the settled block hash (spec.md §4.4 step 7,
// §6 SendNative).
func (c *Client) SendToAddress(ctx context.Context, addr string, amount *big.Int) (string, error) {
	var out struct {
		Block string `json:"block"`
	}
	err := c.call(ctx, "send", map[string]interface{}{
		"source":      config.Config.BAN.HotWallet,
		"destination": addr,
		"amount":      amount.String(),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Block, nil
}

// DepositCandidate is a confirmed incoming block on the hot wallet account,
// used by the deposit scanner to discover BAN sent in by users (spec.md §2
// data flow). Account is the sender's own BAN address, i.e. the
// native_addr the deposit credits.
type DepositCandidate struct {
	Hash          string
	Account       string
	Amount        *big.Int
	Confirmations int64
}

// ListReceivable returns incoming blocks for the hot wallet not yet
// pocketed, via the node's receivable action, mirroring the teacher's
// ListSinceBlock deposit-discovery loop. Callers filter on Confirmations
// themselves against config.Config.BAN.Confirmations.
func (c *Client) ListReceivable(ctx context.Context, count int) ([]DepositCandidate, error) {
	var out struct {
		Blocks map[string]struct {
			Amount        string `json:"amount"`
			Source        string `json:"source"`
			Confirmations string `json:"confirmations"`
		} `json:"blocks"`
	}
	err := c.call(ctx, "receivable", map[string]interface{}{
		"account": config.Config.BAN.HotWallet,
		"count":   count,
		"source":  "true",
		"sorting": "true",
	}, &out)
	if err != nil {
		return nil, err
	}

	candidates := make([]DepositCandidate, 0, len(out.Blocks))
	for hash, block := range out.Blocks {
		amount, ok := big.NewInt(0).SetString(block.Amount, 10)
		if !ok {
			continue
		}
		confirmations, _ := strconv.ParseInt(block.Confirmations, 10, 64)
		candidates = append(candidates, DepositCandidate{
			Hash:          hash,
			Account:       block.Source,
			Amount:        amount,
			Confirmations: confirmations,
		})
	}
	return candidates, nil
}

// ReceiveBlock pockets a pending send block into the hot wallet account so
// its balance reflects the incoming deposit.
func (c *Client) ReceiveBlock(ctx context.Context, hash string) error {
	return c.call(ctx, "receive", map[string]interface{}{
		"wallet":  config.Config.BAN.HotWallet,
		"account": config.Config.BAN.HotWallet,
		"block":   hash,
	}, nil)
}
