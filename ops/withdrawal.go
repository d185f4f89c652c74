package ops

import (
	"context"

	"banwbanbridge/bridgeerr"
	"banwbanbridge/queue"
)

// ProcessWithdrawal runs the withdrawal state machine of spec.md §4.4:
// reject duplicate requests by their exact timestamp, verify the owner's
// signature over the canonical withdrawal message, verify the claim
// binding, check both the user's ledger balance and the hot wallet's
// spendable balance, send the native transaction, then debit the ledger
// and record it under the real transaction hash.
func (p *Processor) ProcessWithdrawal(ctx context.Context, job queue.Job) error {
	amount, err := parseAmount(job.Amount)
	if err != nil {
		return err
	}

	duplicate, err := p.Store.ContainsWithdrawalRequest(ctx, job.NativeAddr, job.TimestampMs)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "checking duplicate withdrawal for "+job.NativeAddr, err)
	}
	if duplicate {
		// already processed in a prior attempt at this job; nothing left to do
		return nil
	}

	verified, err := p.verifyOwnerSignature(ctx, canonicalWithdrawMessage(job.Amount, job.NativeAddr), job.Signature, job.BlockchainAddr)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.UpstreamChainFailure, "verifying withdrawal signature for "+job.NativeAddr, err)
	}
	if !verified {
		return bridgeerr.New(bridgeerr.InvalidSignature, "withdrawal signature does not match "+job.NativeAddr)
	}

	claimed, err := p.Store.IsClaimed(ctx, job.NativeAddr)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "checking claim for "+job.NativeAddr, err)
	}
	if !claimed {
		return bridgeerr.New(bridgeerr.NotClaimed, job.NativeAddr+" has no confirmed claim")
	}
	hasClaim, err := p.Store.HasClaim(ctx, job.NativeAddr, job.BlockchainAddr)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "checking claim binding for "+job.NativeAddr, err)
	}
	if !hasClaim {
		return bridgeerr.New(bridgeerr.InvalidOwner, job.NativeAddr+" is not claimed to "+job.BlockchainAddr)
	}

	balance, err := p.Store.GetBalance(ctx, job.NativeAddr)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "reading balance for "+job.NativeAddr, err)
	}
	if balance.Cmp(amount) < 0 {
		return bridgeerr.New(bridgeerr.InsufficientBalance, job.NativeAddr+" has insufficient ledger balance for withdrawal")
	}

	hotBalance, err := p.Native.GetHotWalletBalance(ctx)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.UpstreamChainFailure, "reading hot wallet balance", err)
	}
	if hotBalance.Cmp(amount) < 0 {
		// the user's own funds are fine; the custodial hot wallet needs a
		// top-up. Retryable so the job waits in queue:delayed until an
		// operator refills it (spec.md §4.3 PendingWithdrawalTotal).
		return bridgeerr.New(bridgeerr.InsufficientHotWallet, "hot wallet balance below requested withdrawal amount")
	}

	txnHash, err := p.Native.SendToAddress(ctx, job.NativeAddr, amount)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.UpstreamChainFailure, "sending native withdrawal to "+job.NativeAddr, err)
	}

	if err := p.Store.StoreWithdrawal(ctx, job.NativeAddr, amount, job.TimestampMs, txnHash); err != nil {
		return err
	}
	return nil
}
