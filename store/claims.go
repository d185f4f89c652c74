package store

import (
	"context"
	"strings"

	"github.com/gomodule/redigo/redis"

	"banwbanbridge/config"
	"banwbanbridge/kv"
)

func pendingClaimKey(nativeAddr, blockchainAddr string) string {
	return "claims:pending:" + nativeAddr + ":" + blockchainAddr
}

func pendingClaimPrefix(nativeAddr string) string {
	return "claims:pending:" + nativeAddr + ":"
}

func claimKey(nativeAddr, blockchainAddr string) string {
	return "claims:" + nativeAddr + ":" + blockchainAddr
}

func reverseClaimKey(blockchainAddr string) string {
	return "claims:by-blockchain:" + blockchainAddr
}

// GetPendingClaim returns the blockchain_addr of the single pending claim
// entry for nativeAddr, if any (spec.md §4.7 step 4/5).
func (s *Store) GetPendingClaim(ctx context.Context, nativeAddr string) (blockchainAddr string, found bool, err error) {
	nativeAddr = NormalizeNative(nativeAddr)

	conn := kv.Conn()
	defer conn.Close()

	prefix := pendingClaimPrefix(nativeAddr)
	var cursor int64
	for {
		values, err := redis.Values(conn.Do("SCAN", cursor, "MATCH", prefix+"*", "COUNT", 100))
		if err != nil {
			return "", false, err
		}
		var keys []string
		if _, err := redis.Scan(values, &cursor, &keys); err != nil {
			return "", false, err
		}
		for _, key := range keys {
			return strings.TrimPrefix(key, prefix), true, nil
		}
		if cursor == 0 {
			break
		}
	}
	return "", false, nil
}

// HasPendingClaim reports whether nativeAddr has any pending claim,
// regardless of which blockchain_addr it names (spec.md §4.7).
func (s *Store) HasPendingClaim(ctx context.Context, nativeAddr string) (bool, error) {
	_, found, err := s.GetPendingClaim(ctx, nativeAddr)
	return found, err
}

// StorePendingClaim conditionally creates the pending-claim TTL record.
// The SET...NX closes the race the Open Question in spec.md §9 calls out:
// two concurrent claims for the same nativeAddr can no longer both observe
// "no pending claim" and each create one (SPEC_FULL §4.7).
func (s *Store) StorePendingClaim(ctx context.Context, nativeAddr, blockchainAddr string) (created bool, err error) {
	nativeAddr = NormalizeNative(nativeAddr)
	blockchainAddr = NormalizeBlockchain(blockchainAddr)

	conn := kv.Conn()
	defer conn.Close()

	reply, err := conn.Do("SET", pendingClaimKey(nativeAddr, blockchainAddr), "1", "NX", "EX", int(config.PendingClaimTTL.Seconds()))
	if err != nil {
		return false, err
	}
	return reply != nil, nil
}

// HasClaim reports whether nativeAddr is permanently bound to blockchainAddr
// (spec.md §4.1, §4.4, §4.5).
func (s *Store) HasClaim(ctx context.Context, nativeAddr, blockchainAddr string) (bool, error) {
	nativeAddr = NormalizeNative(nativeAddr)
	blockchainAddr = NormalizeBlockchain(blockchainAddr)

	conn := kv.Conn()
	defer conn.Close()

	exists, err := redis.Int(conn.Do("EXISTS", claimKey(nativeAddr, blockchainAddr)))
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

// IsClaimed reports whether nativeAddr has any confirmed claim at all
// (spec.md §4.4 step 3).
func (s *Store) IsClaimed(ctx context.Context, nativeAddr string) (bool, error) {
	nativeAddr = NormalizeNative(nativeAddr)

	conn := kv.Conn()
	defer conn.Close()

	prefix := "claims:" + nativeAddr + ":"
	var cursor int64
	for {
		values, err := redis.Values(conn.Do("SCAN", cursor, "MATCH", prefix+"*", "COUNT", 100))
		if err != nil {
			return false, err
		}
		var keys []string
		if _, err := redis.Scan(values, &cursor, &keys); err != nil {
			return false, err
		}
		for _, key := range keys {
			if strings.HasPrefix(key, prefix) && !strings.HasPrefix(key, "claims:pending:") && !strings.HasPrefix(key, "claims:by-blockchain:") {
				return true, nil
			}
		}
		if cursor == 0 {
			break
		}
	}
	return false, nil
}

// ConfirmClaim promotes the single pending entry for nativeAddr into a
// permanent claim, and populates the reverse index atomically (spec.md
// §3, §4.7; SPEC_FULL §4.1 reverse index expansion). It is idempotent: if
// no pending entry remains (e.g. a previous confirm already ran) but a
// permanent claim already exists, that is not an error.
func (s *Store) ConfirmClaim(ctx context.Context, nativeAddr string) error {
	nativeAddr = NormalizeNative(nativeAddr)

	blockchainAddr, found, err := s.GetPendingClaim(ctx, nativeAddr)
	if err != nil {
		return err
	}
	if !found {
		already, err := s.IsClaimed(ctx, nativeAddr)
		if err != nil {
			return err
		}
		if already {
			return nil
		}
		return nil
	}

	conn := kv.Conn()
	defer conn.Close()

	if err := conn.Send("MULTI"); err != nil {
		return err
	}
	conn.Send("SET", claimKey(nativeAddr, blockchainAddr), "1")
	conn.Send("SADD", reverseClaimKey(blockchainAddr), nativeAddr)
	conn.Send("DEL", pendingClaimKey(nativeAddr, blockchainAddr))

	_, err = conn.Do("EXEC")
	return err
}

// GetNativeAddressesForBlockchainAddress is the reverse lookup backed by
// the explicit claims:by-blockchain:<addr> set, replacing the teacher-style
// linear scan over claims:*:<addr> keys (spec.md §9).
func (s *Store) GetNativeAddressesForBlockchainAddress(ctx context.Context, blockchainAddr string) ([]string, error) {
	blockchainAddr = NormalizeBlockchain(blockchainAddr)

	conn := kv.Conn()
	defer conn.Close()

	return redis.Strings(conn.Do("SMEMBERS", reverseClaimKey(blockchainAddr)))
}
