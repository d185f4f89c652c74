package lock

import (
	"context"
	"testing"
	"time"

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

func TestAcquireThenReleaseAllowsReacquire(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()

	lease, err := Acquire(ctx, "res-a", time.Second)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := Release(lease); err != nil {
		t.Fatalf("Release: %v", err)
	}

	if _, err := Acquire(ctx, "res-a", time.Second); err != nil {
		t.Fatalf("Acquire after Release: %v", err)
	}
}

func TestAcquireIsExclusive(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()

	lease, err := Acquire(ctx, "res-b", 2*time.Second)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer Release(lease)

	shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := Acquire(shortCtx, "res-b", 2*time.Second); err == nil {
		t.Fatalf("expected Acquire to fail while res-b is held")
	}
}

func TestReleaseDoesNotClobberNewerHolder(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()

	stale, err := Acquire(ctx, "res-c", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	time.Sleep(100 * time.Millisecond) // let the TTL lapse

	fresh, err := Acquire(ctx, "res-c", 2*time.Second)
	if err != nil {
		t.Fatalf("Acquire after expiry: %v", err)
	}

	if err := Release(stale); err != nil {
		t.Fatalf("Release(stale): %v", err)
	}

	shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := Acquire(shortCtx, "res-c", 10*time.Millisecond); err == nil {
		t.Fatalf("expected res-c to still be held by the fresh lease after the stale lease's Release")
	}
	Release(fresh)
}

func TestWithLockReleasesOnError(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()

	wantErr := context.Canceled
	err := WithLock(ctx, "res-d", time.Second, func() error { return wantErr })
	if err != wantErr {
		t.Fatalf("WithLock returned %v, want %v", err, wantErr)
	}

	if _, err := Acquire(ctx, "res-d", time.Second); err != nil {
		t.Fatalf("expected res-d to be free after WithLock's fn returned an error: %v", err)
	}
}
