package ops

import (
	"context"

	"banwbanbridge/bridgeerr"
	"banwbanbridge/queue"
)

// ProcessDeposit runs the deposit state machine the Chain Scanner's native
// half feeds: pocket the pending send block into the hot wallet, credit
// the sender's ledger balance, then confirm any pending claim on that
// native_addr (spec.md §4.1, §4.7 "a deposit into native_addr is the
// trigger that invokes confirm"). ContainsDeposit makes redelivery of the
// same block a safe no-op, matching the scanner's at-least-once polling.
func (p *Processor) ProcessDeposit(ctx context.Context, job queue.Job) error {
	amount, err := parseAmount(job.Amount)
	if err != nil {
		return err
	}

	already, err := p.Store.ContainsDeposit(ctx, job.NativeAddr, job.TxnHash)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "checking deposit idempotency for "+job.NativeAddr, err)
	}
	if already {
		return nil
	}

	if err := p.Native.ReceiveBlock(ctx, job.TxnHash); err != nil {
		return bridgeerr.Wrap(bridgeerr.UpstreamChainFailure, "pocketing deposit block "+job.TxnHash, err)
	}

	if err := p.Store.StoreDeposit(ctx, job.NativeAddr, amount, job.TimestampMs, job.TxnHash); err != nil {
		return err
	}

	if err := p.Claims.Confirm(ctx, job.NativeAddr); err != nil {
		return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "confirming pending claim for "+job.NativeAddr, err)
	}
	return nil
}
