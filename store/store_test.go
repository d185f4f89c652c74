package store

import (
	"context"
	"math/big"
	"strconv"
	"testing"

	"banwbanbridge/config"
	"banwbanbridge/kv"
)

// requireRedis connects to a local Redis instance, skipping the test if one
// is not reachable — these exercise the actual key layout spec.md §6
// requires, not a mock, the same tradeoff the pack's websocket_test.go
// documents ("Requires running Redis instance").
func requireRedis(t *testing.T) *Store {
	t.Helper()

	config.Config.Server.RedisHost = "127.0.0.1"
	config.Config.Server.RedisPort = 6379
	kv.Init()

	conn := kv.Conn()
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		t.Skip("requires a running Redis instance on 127.0.0.1:6379")
	}

	return New()
}

func flush(t *testing.T) {
	conn := kv.Conn()
	defer conn.Close()
	if _, err := conn.Do("FLUSHDB"); err != nil {
		t.Fatalf("flushing test db: %v", err)
	}
}

func TestDepositThenBalance(t *testing.T) {
	s := requireRedis(t)
	flush(t)
	ctx := context.Background()

	addr := "ban_test_deposit"
	if err := s.StoreDeposit(ctx, addr, big.NewInt(1000), 1, "hash1"); err != nil {
		t.Fatalf("StoreDeposit: %v", err)
	}

	balance, err := s.GetBalance(ctx, addr)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("balance = %s, want 1000", balance.String())
	}

	contains, err := s.ContainsDeposit(ctx, addr, "hash1")
	if err != nil || !contains {
		t.Errorf("ContainsDeposit(hash1) = %v, %v, want true, nil", contains, err)
	}
}

func TestDuplicateWithdrawalRejected(t *testing.T) {
	s := requireRedis(t)
	flush(t)
	ctx := context.Background()

	addr := "ban_test_withdraw"
	if err := s.StoreDeposit(ctx, addr, big.NewInt(5000), 1, "dep1"); err != nil {
		t.Fatalf("StoreDeposit: %v", err)
	}

	if err := s.StoreWithdrawal(ctx, addr, big.NewInt(100), 42, "wd1"); err != nil {
		t.Fatalf("first StoreWithdrawal: %v", err)
	}

	dup, err := s.ContainsWithdrawalRequest(ctx, addr, 42)
	if err != nil {
		t.Fatalf("ContainsWithdrawalRequest: %v", err)
	}
	if !dup {
		t.Fatalf("expected (addr, 42) to be detected as a duplicate request")
	}
}

func TestWithdrawalRejectsNegativeBalance(t *testing.T) {
	s := requireRedis(t)
	flush(t)
	ctx := context.Background()

	addr := "ban_test_overdraw"
	err := s.StoreWithdrawal(ctx, addr, big.NewInt(1), 1, "wd1")
	if err == nil {
		t.Fatalf("expected StoreWithdrawal on a zero balance to fail")
	}
}

func TestSwapToBANIdempotent(t *testing.T) {
	s := requireRedis(t)
	flush(t)
	ctx := context.Background()

	blockchainAddr := NormalizeBlockchain("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	nativeAddr := "ban_test_swap"

	if err := s.StoreSwapToBAN(ctx, blockchainAddr, nativeAddr, "tx1", big.NewInt(250), 10); err != nil {
		t.Fatalf("first StoreSwapToBAN: %v", err)
	}
	if err := s.StoreSwapToBAN(ctx, blockchainAddr, nativeAddr, "tx1", big.NewInt(250), 10); err != nil {
		t.Fatalf("duplicate StoreSwapToBAN should be a no-op, not an error: %v", err)
	}

	balance, err := s.GetBalance(ctx, nativeAddr)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Cmp(big.NewInt(250)) != 0 {
		t.Errorf("balance after duplicate redemption delivery = %s, want 250 (credited once)", balance.String())
	}
}

func TestCheckpointMonotonic(t *testing.T) {
	s := requireRedis(t)
	flush(t)
	ctx := context.Background()

	if err := s.SetLastProcessedBlock(ctx, 100); err != nil {
		t.Fatalf("SetLastProcessedBlock(100): %v", err)
	}
	if err := s.SetLastProcessedBlock(ctx, 50); err != nil {
		t.Fatalf("SetLastProcessedBlock(50): %v", err)
	}

	got, err := s.GetLastProcessedBlock(ctx, 0)
	if err != nil {
		t.Fatalf("GetLastProcessedBlock: %v", err)
	}
	if got != 100 {
		t.Errorf("checkpoint regressed to %d, want it to stay at 100", got)
	}
}

func TestHistoryOrderingAndCap(t *testing.T) {
	s := requireRedis(t)
	flush(t)
	ctx := context.Background()

	addr := "ban_test_history"
	const total = 1200
	for i := 0; i < total; i++ {
		hash := "hash" + strconv.Itoa(i)
		if err := s.StoreDeposit(ctx, addr, big.NewInt(1), int64(i), hash); err != nil {
			t.Fatalf("StoreDeposit #%d: %v", i, err)
		}
	}

	entries, err := s.GetDeposits(ctx, addr)
	if err != nil {
		t.Fatalf("GetDeposits: %v", err)
	}
	if len(entries) != config.HistoryLimit {
		t.Fatalf("len(entries) = %d, want %d (capped)", len(entries), config.HistoryLimit)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].TimestampMs < entries[i].TimestampMs {
			t.Fatalf("entries not descending by timestamp at index %d: %d < %d", i, entries[i-1].TimestampMs, entries[i].TimestampMs)
		}
	}
	if entries[0].TimestampMs != total-1 {
		t.Errorf("most recent entry timestamp = %d, want %d", entries[0].TimestampMs, total-1)
	}
}
