package claim

import (
	"context"
	"testing"

	"banwbanbridge/config"
	"banwbanbridge/kv"
	"banwbanbridge/store"
)

type fakeSigner struct {
	recovered string
	err       error
}

func (f fakeSigner) VerifySignature(ctx context.Context, message, signature string) (string, error) {
	return f.recovered, f.err
}

type fakeBlacklist struct {
	blacklisted map[string]string
}

func (f fakeBlacklist) IsBlacklisted(ctx context.Context, nativeAddr string) (string, bool, error) {
	alias, ok := f.blacklisted[store.NormalizeNative(nativeAddr)]
	return alias, ok, nil
}

func requireRedis(t *testing.T) *Manager {
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

	blockchainAddr := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	return New(store.New(), fakeSigner{recovered: blockchainAddr}, fakeBlacklist{blacklisted: map[string]string{}})
}

const testBlockchainAddr = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func TestClaimRejectsSignatureFromWrongAddress(t *testing.T) {
	m := requireRedis(t)
	m.Signer = fakeSigner{recovered: "0x000000000000000000000000000000000000beef"}

	result, err := m.Claim(context.Background(), "ban_test", testBlockchainAddr, "sig")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if result != InvalidSignature {
		t.Errorf("result = %s, want %s", result, InvalidSignature)
	}
}

func TestClaimRejectsBlacklistedAddress(t *testing.T) {
	m := requireRedis(t)
	m.Blacklist = fakeBlacklist{blacklisted: map[string]string{"ban_test": "sanctioned"}}

	result, err := m.Claim(context.Background(), "ban_test", testBlockchainAddr, "sig")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if result != ResultBlacklisted {
		t.Errorf("result = %s, want %s", result, ResultBlacklisted)
	}
}

func TestClaimCreatesPendingThenIsIdempotent(t *testing.T) {
	m := requireRedis(t)
	ctx := context.Background()

	result, err := m.Claim(ctx, "ban_test", testBlockchainAddr, "sig")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if result != Ok {
		t.Fatalf("first Claim result = %s, want %s", result, Ok)
	}

	result, err = m.Claim(ctx, "ban_test", testBlockchainAddr, "sig")
	if err != nil {
		t.Fatalf("Claim (retry): %v", err)
	}
	if result != Ok {
		t.Errorf("retrying the same claim should be idempotent, got %s", result)
	}
}

func TestClaimRejectsConflictingPendingOwner(t *testing.T) {
	m := requireRedis(t)
	ctx := context.Background()

	if _, err := m.Claim(ctx, "ban_test", testBlockchainAddr, "sig"); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	m.Signer = fakeSigner{recovered: "0x000000000000000000000000000000000000beef"}
	result, err := m.Claim(ctx, "ban_test", "0x000000000000000000000000000000000000beef", "sig2")
	if err != nil {
		t.Fatalf("Claim (conflicting): %v", err)
	}
	if result != InvalidOwner {
		t.Errorf("result = %s, want %s", result, InvalidOwner)
	}
}

func TestConfirmPromotesPendingClaim(t *testing.T) {
	m := requireRedis(t)
	ctx := context.Background()

	if _, err := m.Claim(ctx, "ban_test", testBlockchainAddr, "sig"); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if err := m.Confirm(ctx, "ban_test"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	result, err := m.Claim(ctx, "ban_test", testBlockchainAddr, "sig")
	if err != nil {
		t.Fatalf("Claim after Confirm: %v", err)
	}
	if result != AlreadyDone {
		t.Errorf("result = %s, want %s", result, AlreadyDone)
	}
}
