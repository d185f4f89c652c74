package ops

import (
	"context"
	"fmt"

	"banwbanbridge/store"
)

// canonicalWithdrawMessage is the literal message string spec.md §4.4 step 2
// requires a withdrawal signature to cover.
func canonicalWithdrawMessage(amount, nativeAddr string) string {
	return fmt.Sprintf(`Withdraw %s BAN to my wallet "%s"`, amount, nativeAddr)
}

// canonicalSwapToWBANMessage is the literal message string spec.md §4.5
// requires a swap-to-wBAN signature to cover.
func canonicalSwapToWBANMessage(amount, nativeAddr string) string {
	return fmt.Sprintf(`Swap %s BAN for wBAN with BAN I deposited from my wallet "%s"`, amount, nativeAddr)
}

// verifyOwnerSignature reports whether signature was produced by the
// private key controlling blockchainAddr over message, mirroring
// claim.Manager.Claim's own recover-then-compare check.
func (p *Processor) verifyOwnerSignature(ctx context.Context, message, signature, blockchainAddr string) (bool, error) {
	recovered, err := p.Mint.VerifySignature(ctx, message, signature)
	if err != nil || recovered == "" {
		return false, nil
	}
	return store.NormalizeBlockchain(recovered) == store.NormalizeBlockchain(blockchainAddr), nil
}
