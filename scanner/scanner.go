// Package scanner implements the Chain Scanner (CS): Scanner polls the
// EVM collaborator for wBAN redemption events in ascending block order,
// behind a configured safety depth, and enqueues a swap-to-ban job per
// event, advancing the checkpoint only once a batch is fully enqueued.
// Mirrors the teacher's Worker_scanEVM loop shape (poll, compute a
// safety-windowed range, FilterLogs in batches, sleep) against a single
// configured chain rather than a per-chain-ID loop. NativeScanner, in
// native.go, is the same shape for the BAN side, grounded on the
// teacher's Worker_scanBGL.
package scanner

import (
	"context"
	"log"
	"time"

	"banwbanbridge/config"
	"banwbanbridge/evmrpc"
	"banwbanbridge/queue"
	"banwbanbridge/store"
)

// Shutdown, set to true, stops Run at its next poll.
var Shutdown bool

type Scanner struct {
	Store *store.Store
	Chain *evmrpc.Client
}

func New(s *store.Store, chain *evmrpc.Client) *Scanner {
	return &Scanner{Store: s, Chain: chain}
}

// Run polls for new redemption events until Shutdown is set (spec.md
// §4.8). It is meant to be started as its own goroutine from cmd/server.
func (sc *Scanner) Run(ctx context.Context) {
	for !Shutdown {
		time.Sleep(config.Config.Scanner.PollInterval)

		if err := sc.scanOnce(ctx); err != nil {
			log.Printf("scanner: %s", err.Error())
		}
	}
}

func (sc *Scanner) scanOnce(ctx context.Context) error {
	latest, err := sc.Chain.BlockNumber(ctx)
	if err != nil {
		return err
	}
	if uint64(config.Config.EVM.SafetyDepth) >= latest {
		return nil
	}
	safeHead := latest - uint64(config.Config.EVM.SafetyDepth)

	checkpoint, err := sc.Store.GetLastProcessedBlock(ctx, safeHead)
	if err != nil {
		return err
	}
	if checkpoint >= safeHead {
		// with no stored checkpoint the default is the current safe head;
		// persist it so the next pass scans forward from there
		return sc.Store.SetLastProcessedBlock(ctx, checkpoint)
	}

	batch := uint64(config.Config.EVM.BlockBatch)
	if batch == 0 {
		batch = 1
	}

	for from := checkpoint + 1; from <= safeHead; from += batch {
		to := from + batch - 1
		if to > safeHead {
			to = safeHead
		}

		log.Printf("scanner: scanning blocks %d to %d", from, to)

		events, err := sc.Chain.FetchRedemptions(ctx, from, to)
		if err != nil {
			return err
		}

		for _, ev := range events {
			job := queue.Job{
				Kind:           queue.KindSwapToBAN,
				NativeAddr:     ev.NativeAddr,
				BlockchainAddr: ev.BlockchainAddr,
				Amount:         ev.Amount,
				TxnHash:        ev.TxnHash,
				TimestampMs:    ev.EventTimestampSecs * 1000,
			}
			if err := queue.Enqueue(ctx, job); err != nil {
				return err
			}
		}

		if err := sc.Store.SetLastProcessedBlock(ctx, to); err != nil {
			return err
		}
	}
	return nil
}
