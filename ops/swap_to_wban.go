package ops

import (
	"context"
	"math/big"

	"banwbanbridge/bridgeerr"
	"banwbanbridge/config"
	"banwbanbridge/queue"
)

// ProcessSwapToWBAN runs the swap-to-wBAN state machine of spec.md §4.5,
// with the gasless-swap hook of SPEC_FULL §4.5/§3 inserted between the
// claim check and the debit: a granted GaslessSwapGrant still issues the
// user's requested mint receipt but debits the ledger by zero, the
// operator absorbing the amount for that one call.
func (p *Processor) ProcessSwapToWBAN(ctx context.Context, job queue.Job) error {
	amount, err := parseAmount(job.Amount)
	if err != nil {
		return err
	}

	verified, err := p.verifyOwnerSignature(ctx, canonicalSwapToWBANMessage(job.Amount, job.NativeAddr), job.Signature, job.BlockchainAddr)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.UpstreamChainFailure, "verifying swap-to-wban signature for "+job.NativeAddr, err)
	}
	if !verified {
		return bridgeerr.New(bridgeerr.InvalidSignature, "swap-to-wban signature does not match "+job.NativeAddr)
	}

	hasClaim, err := p.Store.HasClaim(ctx, job.NativeAddr, job.BlockchainAddr)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "checking claim for "+job.NativeAddr, err)
	}
	if !hasClaim {
		return bridgeerr.New(bridgeerr.InvalidOwner, job.NativeAddr+" is not claimed to "+job.BlockchainAddr)
	}

	var granted bool
	if config.Config.GaslessSwapEnabled {
		granted, err = p.Store.ConsumeFreeSwap(ctx, job.NativeAddr, job.TxnHash)
		if err != nil {
			return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "consuming gasless-swap grant for "+job.NativeAddr, err)
		}
	}

	if !granted {
		balance, err := p.Store.GetBalance(ctx, job.NativeAddr)
		if err != nil {
			return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "reading balance for "+job.NativeAddr, err)
		}
		if balance.Cmp(amount) < 0 {
			return bridgeerr.New(bridgeerr.InsufficientBalance, job.NativeAddr+" has insufficient ledger balance for swap")
		}
	}

	receipt, _, err := p.Mint.CreateMintReceipt(ctx, job.BlockchainAddr, amount)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.UpstreamChainFailure, "creating mint receipt for "+job.BlockchainAddr, err)
	}

	debit := amount
	if granted {
		debit = big.NewInt(0)
	}
	return p.Store.StoreSwapToWBAN(ctx, job.NativeAddr, job.BlockchainAddr, debit, job.TimestampMs, receipt.ReceiptID, receipt.UUID, receipt.Signature)
}
