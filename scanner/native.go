package scanner

import (
	"context"
	"log"
	"time"

	"banwbanbridge/banrpc"
	"banwbanbridge/config"
	"banwbanbridge/queue"
	"banwbanbridge/store"
)

// NativeScanner polls the hot wallet's receivable blocks for confirmed
// incoming BAN deposits and enqueues a deposit job per one, mirroring the
// teacher's Worker_scanBGL loop shape against banrpc instead of BGLRPC.
type NativeScanner struct {
	Store  *store.Store
	Native *banrpc.Client
}

func NewNative(s *store.Store, native *banrpc.Client) *NativeScanner {
	return &NativeScanner{Store: s, Native: native}
}

// Run polls for new deposits until Shutdown is set (spec.md §4.1, §4.7).
// It is meant to be started as its own goroutine from cmd/server,
// alongside the EVM scanner's Run.
func (sc *NativeScanner) Run(ctx context.Context) {
	for !Shutdown {
		time.Sleep(config.Config.BAN.PollInterval)

		if err := sc.scanOnce(ctx); err != nil {
			log.Printf("native scanner: %s", err.Error())
		}
	}
}

func (sc *NativeScanner) scanOnce(ctx context.Context) error {
	batch := config.Config.BAN.ReceivableBatch
	if batch == 0 {
		batch = 100
	}

	candidates, err := sc.Native.ListReceivable(ctx, batch)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		if candidate.Confirmations < int64(config.Config.BAN.Confirmations) {
			continue
		}
		if candidate.Account == "" {
			// a receivable block with no resolvable sender cannot be
			// credited to anyone's ledger; leave it unpocketed for an
			// operator to inspect
			continue
		}

		already, err := sc.Store.ContainsDeposit(ctx, candidate.Account, candidate.Hash)
		if err != nil {
			return err
		}
		if already {
			continue
		}

		job := queue.Job{
			Kind:        queue.KindDeposit,
			NativeAddr:  candidate.Account,
			Amount:      candidate.Amount.String(),
			TxnHash:     candidate.Hash,
			TimestampMs: time.Now().UnixMilli(),
		}
		if err := queue.Enqueue(ctx, job); err != nil {
			return err
		}
	}
	return nil
}
