// Package store implements the Ledger Store (LS): persisted balances,
// deposit/withdrawal/swap records, claim records and the chain checkpoint.
// Every mutation sequence for a given native_addr is protected by the
// balance:<native_addr> lock from the lock package (spec.md §3, §4.1).
package store

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeNative canonicalizes a BAN address to lowercase, the form used
// for every key segment, comparison and hash (spec.md §4.1, §9).
func NormalizeNative(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// NormalizeBlockchain canonicalizes an EVM address to its checksum form
// (spec.md §9 "Address normalization").
func NormalizeBlockchain(addr string) string {
	return common.HexToAddress(strings.TrimSpace(addr)).Hex()
}
