// Package claim implements the Claim Manager (CM): the pending-claim TTL
// record and the confirmed binding between a native address and a
// blockchain address (spec.md §4.7).
package claim

import (
	"context"
	"fmt"
	"log"

	"banwbanbridge/store"
)

type Result string

const (
	Ok                Result = "Ok"
	AlreadyDone       Result = "AlreadyDone"
	InvalidSignature  Result = "InvalidSignature"
	InvalidOwner      Result = "InvalidOwner"
	ResultBlacklisted Result = "Blacklisted"
	ResultError       Result = "Error"
)

// Signer recovers the address that produced signature over message. It is
// the signature-verification collaborator spec.md §6 places out of core
// scope; evmrpc.Client implements it.
type Signer interface {
	VerifySignature(ctx context.Context, message, signature string) (recoveredAddr string, err error)
}

// Blacklist is the wallet-blacklist collaborator (spec.md §6).
type Blacklist interface {
	IsBlacklisted(ctx context.Context, nativeAddr string) (alias string, blacklisted bool, err error)
}

type Manager struct {
	Store     *store.Store
	Signer    Signer
	Blacklist Blacklist
}

func New(s *store.Store, signer Signer, blacklist Blacklist) *Manager {
	return &Manager{Store: s, Signer: signer, Blacklist: blacklist}
}

// canonicalClaimMessage is the literal message string spec.md §4.7/§6
// requires claim signatures to cover.
func canonicalClaimMessage(nativeAddr string) string {
	return fmt.Sprintf(`I hereby claim that the BAN address "%s" is mine`, nativeAddr)
}

// Claim runs the ordered checks of spec.md §4.7 and either creates a new
// pending claim or reports why it could not.
func (m *Manager) Claim(ctx context.Context, nativeAddr, blockchainAddr, signature string) (Result, error) {
	nativeAddr = store.NormalizeNative(nativeAddr)

	recovered, err := m.Signer.VerifySignature(ctx, canonicalClaimMessage(nativeAddr), signature)
	if err != nil || recovered == "" {
		return InvalidSignature, nil
	}
	if store.NormalizeBlockchain(recovered) != store.NormalizeBlockchain(blockchainAddr) {
		return InvalidSignature, nil
	}

	if alias, blacklisted, err := m.Blacklist.IsBlacklisted(ctx, nativeAddr); err != nil {
		return ResultError, err
	} else if blacklisted {
		log.Printf("claim rejected: %s is blacklisted (alias %s)", nativeAddr, alias)
		return ResultBlacklisted, nil
	}

	if has, err := m.Store.HasClaim(ctx, nativeAddr, blockchainAddr); err != nil {
		return ResultError, err
	} else if has {
		return AlreadyDone, nil
	}

	pendingAddr, found, err := m.Store.GetPendingClaim(ctx, nativeAddr)
	if err != nil {
		return ResultError, err
	}
	if found {
		if store.NormalizeBlockchain(pendingAddr) == store.NormalizeBlockchain(blockchainAddr) {
			// retry of the same in-flight claim: idempotent (SPEC_FULL §4.7)
			return Ok, nil
		}
		return InvalidOwner, nil
	}

	created, err := m.Store.StorePendingClaim(ctx, nativeAddr, blockchainAddr)
	if err != nil {
		return ResultError, err
	}
	if created {
		return Ok, nil
	}

	// lost the conditional-create race to a concurrent claim; re-read to
	// decide whether it was our own retry or someone else's (SPEC_FULL §4.7,
	// spec.md §9 "pending-claim race" Open Question)
	pendingAddr, found, err = m.Store.GetPendingClaim(ctx, nativeAddr)
	if err != nil {
		return ResultError, err
	}
	if found && store.NormalizeBlockchain(pendingAddr) == store.NormalizeBlockchain(blockchainAddr) {
		return Ok, nil
	}
	return InvalidOwner, nil
}

// Confirm promotes nativeAddr's single pending claim into a permanent one.
// The trigger is the first deposit into nativeAddr (spec.md §4.7).
func (m *Manager) Confirm(ctx context.Context, nativeAddr string) error {
	return m.Store.ConfirmClaim(ctx, nativeAddr)
}
