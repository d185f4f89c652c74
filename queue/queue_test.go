package queue

import (
	"context"
	"testing"

	"banwbanbridge/config"
	"banwbanbridge/kv"
)

func requireRedis(t *testing.T) {
	t.Helper()

	config.Config.Server.RedisHost = "127.0.0.1"
	config.Config.Server.RedisPort = 6379
	kv.Init()

	conn := kv.Conn()
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		t.Skip("requires a running Redis instance on 127.0.0.1:6379")
	}
	if _, err := conn.Do("FLUSHDB"); err != nil {
		t.Fatalf("flushing test db: %v", err)
	}
}

func TestEnqueueThenPopNextFIFO(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()

	addr := "ban_test_queue"
	first := Job{Kind: KindNativeWithdrawal, NativeAddr: addr, Amount: "100", TimestampMs: 1}
	second := Job{Kind: KindNativeWithdrawal, NativeAddr: addr, Amount: "200", TimestampMs: 2}

	if err := Enqueue(ctx, first); err != nil {
		t.Fatalf("Enqueue(first): %v", err)
	}
	if err := Enqueue(ctx, second); err != nil {
		t.Fatalf("Enqueue(second): %v", err)
	}

	accounts, err := Accounts()
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}

	job, gotAddr, ok, err := popNext(accounts)
	if err != nil {
		t.Fatalf("popNext: %v", err)
	}
	if !ok {
		t.Fatalf("popNext found no work")
	}
	if gotAddr != addr || job.Amount != "100" {
		t.Errorf("popped %+v for %s, want amount 100 for %s", job, gotAddr, addr)
	}
	if err := Release(addr); err != nil {
		t.Fatalf("Release: %v", err)
	}

	job, _, ok, err = popNext([]string{addr})
	if err != nil {
		t.Fatalf("popNext (second pop): %v", err)
	}
	if !ok || job.Amount != "200" {
		t.Errorf("second popNext = %+v, ok=%v, want amount 200, ok=true", job, ok)
	}
}

func TestPopNextSkipsAccountAlreadyClaimed(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()

	addr := "ban_test_claimed"
	if err := Enqueue(ctx, Job{Kind: KindNativeWithdrawal, NativeAddr: addr, Amount: "1"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	_, _, ok, err := popNext([]string{addr})
	if err != nil || !ok {
		t.Fatalf("first popNext: ok=%v err=%v", ok, err)
	}

	_, _, ok, err = popNext([]string{addr})
	if err != nil {
		t.Fatalf("second popNext: %v", err)
	}
	if ok {
		t.Errorf("expected second popNext to find the account still claimed by the first worker")
	}
}

func TestRetryThenPromoteDue(t *testing.T) {
	requireRedis(t)

	addr := "ban_test_retry"
	job := Job{Kind: KindNativeWithdrawal, NativeAddr: addr, Amount: "50", Attempt: 0}

	if err := Retry(job); err != nil {
		t.Fatalf("Retry: %v", err)
	}

	total, err := PendingWithdrawalTotal()
	if err != nil {
		t.Fatalf("PendingWithdrawalTotal: %v", err)
	}
	if total.String() != "50" {
		t.Errorf("PendingWithdrawalTotal = %s, want 50", total.String())
	}

	// not due yet (retryBackoff is 30s): PromoteDue should move nothing.
	moved, err := PromoteDue(context.Background())
	if err != nil {
		t.Fatalf("PromoteDue: %v", err)
	}
	if moved != 0 {
		t.Errorf("PromoteDue moved %d jobs before they were due, want 0", moved)
	}
}

func TestRetryExceedsMaxAttempts(t *testing.T) {
	requireRedis(t)

	job := Job{Kind: KindNativeWithdrawal, NativeAddr: "ban_test_exhausted", Amount: "1", Attempt: maxAttempts}
	if err := Retry(job); err == nil {
		t.Fatalf("expected Retry to reject a job past maxAttempts")
	}
}
