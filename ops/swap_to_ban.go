package ops

import (
	"context"

	"banwbanbridge/bridgeerr"
	"banwbanbridge/evmrpc"
	"banwbanbridge/queue"
)

// ProcessSwapToBAN runs the swap-to-BAN (redemption) state machine of
// spec.md §4.6. job.Amount arrives human-readable (the form CS's
// RedemptionEvent carries) and is converted back to native base units
// before crediting the ledger. Idempotency against redelivered chain
// events is enforced inside Store.StoreSwapToBAN itself, so a duplicate
// job for the same (blockchain_addr, txn_hash) is a safe no-op here.
func (p *Processor) ProcessSwapToBAN(ctx context.Context, job queue.Job) error {
	if job.NativeAddr == "" {
		return bridgeerr.New(bridgeerr.InvalidOwner, "redemption event carries no destination BAN wallet")
	}

	amount, ok := evmrpc.HumanToWei(job.Amount)
	if !ok {
		return bridgeerr.New(bridgeerr.InvalidAmount, "malformed human-readable amount "+job.Amount)
	}

	already, err := p.Store.ContainsSwapToBAN(ctx, job.BlockchainAddr, job.TxnHash)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "checking swap-to-ban idempotency for "+job.BlockchainAddr, err)
	}
	if already {
		return nil
	}

	return p.Store.StoreSwapToBAN(ctx, job.BlockchainAddr, job.NativeAddr, job.TxnHash, amount, job.TimestampMs)
}
