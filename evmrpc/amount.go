package evmrpc

import "math/big"

var weiPerWBAN, _ = big.NewFloat(0).SetString("1000000000000000000")

// weiToHuman renders a base-unit (1e18) wBAN amount as the human-readable
// decimal string the swap-to-BAN job payload carries (spec.md §4.6),
// mirroring the big.Float conversion the teacher does in processExecution.go.
func weiToHuman(wei *big.Int) string {
	bf := big.NewFloat(0).SetInt(wei)
	bf = bf.Quo(bf, weiPerWBAN)
	return bf.Text('f', 18)
}

// HumanToWei is the inverse conversion used when debiting or crediting base
// units for a human-readable decimal amount.
func HumanToWei(human string) (*big.Int, bool) {
	bf, ok := big.NewFloat(0).SetString(human)
	if !ok {
		return nil, false
	}
	bf = bf.Mul(bf, weiPerWBAN)
	wei, _ := bf.Int(nil)
	return wei, true
}
