// Package domain holds the record types persisted by the ledger store and
// carried on queue job payloads. None of these types know how they are
// stored; that is store's and queue's job.
package domain

import "math/big"

// DepositRecord is immutable once written (spec.md §3).
type DepositRecord struct {
	NativeAddr  string   `json:"native_addr"`
	TxnHash     string   `json:"txn_hash"`
	TimestampMs int64    `json:"timestamp_ms"`
	Amount      *big.Int `json:"amount"`
}

// WithdrawalRecord is keyed uniquely by (NativeAddr, TimestampMs) — the
// client-supplied request timestamp, not a server-assigned one (spec.md §3,
// §9 Open Question).
type WithdrawalRecord struct {
	NativeAddr  string   `json:"native_addr"`
	TxnHash     string   `json:"txn_hash"`
	TimestampMs int64    `json:"timestamp_ms"`
	Amount      *big.Int `json:"amount"`
}

// SwapToWBANRecord documents a mint-receipt issuance (spec.md §3, §4.5).
type SwapToWBANRecord struct {
	NativeAddr     string   `json:"native_addr"`
	BlockchainAddr string   `json:"blockchain_addr"`
	ReceiptID      string   `json:"receipt_id"`
	UUID           string   `json:"uuid"`
	Amount         *big.Int `json:"amount"`
	TimestampMs    int64    `json:"timestamp_ms"`
}

// SwapToBANRecord documents a wBAN redemption credited to the ledger,
// unique on (BlockchainAddr, TxnHash) (spec.md §3, §4.6).
type SwapToBANRecord struct {
	BlockchainAddr string   `json:"blockchain_addr"`
	TxnHash        string   `json:"txn_hash"`
	NativeAddr     string   `json:"native_addr"`
	Amount         *big.Int `json:"amount"`
	TimestampMs    int64    `json:"timestamp_ms"`
}

// AuditEntry is the write-once descriptive record kept alongside every
// deposit/withdrawal/swap, keyed by its txn_hash or receipt_id (spec.md §3).
type AuditEntry struct {
	Type           string `json:"type"`
	NativeAddr     string `json:"native_addr,omitempty"`
	BlockchainAddr string `json:"blockchain_addr,omitempty"`
	TxnHash        string `json:"txn_hash,omitempty"`
	ReceiptID      string `json:"receipt_id,omitempty"`
	UUID           string `json:"uuid,omitempty"`
	Signature      string `json:"signature,omitempty"`
	Amount         string `json:"amount,omitempty"`
	TimestampMs    int64  `json:"timestamp_ms,omitempty"`
}

const (
	AuditTypeDeposit    = "deposit"
	AuditTypeWithdrawal = "withdrawal"
	AuditTypeSwapToWBAN = "swap-to-wban"
	AuditTypeSwapToBAN  = "swap-to-ban"
)

// HistoryEntry is the API-facing projection of an audit entry, enriched with
// the explorer link spec.md §6 requires on history responses.
type HistoryEntry struct {
	AuditEntry
	ExplorerLink string `json:"explorer_link,omitempty"`
}
