package banrpc

import (
	"context"
	"fmt"
	"math/big"

	"banwbanbridge/config"
)

// GetBalance returns addr's confirmed balance in base units via the
// account_balance action (spec.md §6).
func (c *Client) GetBalance(ctx context.Context, addr string) (*big.Int, error) {
	var out struct {
		Balance string `json:"balance"`
	}
	if err := c.call(ctx, "account_balance", map[string]interface{}{"account": addr}, &out); err != nil {
		return nil, err
	}
	n, ok := big.NewInt(0).SetString(out.Balance, 10)
	if !ok {
		return nil, fmt.Errorf("malformed balance %q for %s", out.Balance, addr)
	}
	return n, nil
}

// GetHotWalletBalance returns the custodial hot wallet's spendable balance,
// consulted by the withdrawal state machine's step 6 (spec.md §4.4).
func (c *Client) GetHotWalletBalance(ctx context.Context) (*big.Int, error) {
	return c.GetBalance(ctx, config.Config.BAN.HotWallet)
}
