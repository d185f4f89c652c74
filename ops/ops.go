// Package ops implements the Operation Processor (OP) state machines —
// deposit, withdrawal, swap-to-wBAN, swap-to-ban — behind a single
// queue.Handler, the Processor, which dispatches on queue.Job Kind. This
// mirrors the teacher's Worker_processExecution dispatch (a single loop
// that branches on which direction a pending bridge operation runs), but
// split into one handler per state machine instead of one branching
// function, since spec.md §4.4/§4.5/§4.6 name them as three contracts.
package ops

import (
	"context"
	"fmt"
	"math/big"

	"banwbanbridge/banrpc"
	"banwbanbridge/bridgeerr"
	"banwbanbridge/claim"
	"banwbanbridge/evmrpc"
	"banwbanbridge/queue"
	"banwbanbridge/store"
)

// Processor wires the Ledger Store, Claim Manager and chain collaborators
// the four handlers share, the same direct-dependency shape the teacher's
// workers package has on BGLRPC/EVMRPC.
type Processor struct {
	Store  *store.Store
	Claims *claim.Manager
	Native *banrpc.Client
	Mint   *evmrpc.Client
}

func New(s *store.Store, claims *claim.Manager, native *banrpc.Client, mint *evmrpc.Client) *Processor {
	return &Processor{Store: s, Claims: claims, Native: native, Mint: mint}
}

// Handle dispatches job to the state machine named by its Kind, implementing
// queue.Handler.
func (p *Processor) Handle(ctx context.Context, job queue.Job) error {
	switch job.Kind {
	case queue.KindDeposit:
		return p.ProcessDeposit(ctx, job)
	case queue.KindNativeWithdrawal:
		return p.ProcessWithdrawal(ctx, job)
	case queue.KindSwapToWBAN:
		return p.ProcessSwapToWBAN(ctx, job)
	case queue.KindSwapToBAN:
		return p.ProcessSwapToBAN(ctx, job)
	default:
		return bridgeerr.New(bridgeerr.InvalidAmount, fmt.Sprintf("unknown job kind %q", job.Kind))
	}
}

func parseAmount(s string) (*big.Int, error) {
	n, ok := big.NewInt(0).SetString(s, 10)
	if !ok {
		return nil, bridgeerr.New(bridgeerr.InvalidAmount, "malformed amount "+s)
	}
	if n.Sign() < 0 {
		return nil, bridgeerr.New(bridgeerr.InvalidAmount, "negative amount "+s)
	}
	return n, nil
}
