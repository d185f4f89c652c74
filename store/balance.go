package store

import (
	"context"
	"errors"
	"math/big"

	"github.com/gomodule/redigo/redis"

	"banwbanbridge/bridgeerr"
	"banwbanbridge/config"
	"banwbanbridge/domain"
	"banwbanbridge/kv"
	"banwbanbridge/lock"
)

func balanceKey(nativeAddr string) string {
	return "ban-balance:" + nativeAddr
}

func depositsKey(nativeAddr string) string {
	return "deposits:" + nativeAddr
}

func withdrawalsKey(nativeAddr string) string {
	return "withdrawals:" + nativeAddr
}

// readBalance fetches the raw balance without taking any lock; callers that
// need point-in-time consistency wrap it in lock.WithLock themselves.
func readBalance(conn redis.Conn, nativeAddr string) (*big.Int, error) {
	s, err := redis.String(conn.Do("GET", balanceKey(nativeAddr)))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return big.NewInt(0), nil
		}
		return nil, err
	}
	n, ok := big.NewInt(0).SetString(s, 10)
	if !ok {
		return nil, bridgeerr.New(bridgeerr.StoreTransactionFailure, "corrupt balance value for "+nativeAddr)
	}
	return n, nil
}

// GetBalance returns the current ledger balance for nativeAddr, 0 if the
// account has never received a deposit (spec.md §4.1).
func (s *Store) GetBalance(ctx context.Context, nativeAddr string) (*big.Int, error) {
	nativeAddr = NormalizeNative(nativeAddr)

	var balance *big.Int
	err := lock.WithLock(ctx, lock.BalanceResource(nativeAddr), config.LockTTLRead, func() error {
		conn := kv.Conn()
		defer conn.Close()

		b, err := readBalance(conn, nativeAddr)
		if err != nil {
			return err
		}
		balance = b
		return nil
	})
	return balance, err
}

// StoreDeposit credits amount to nativeAddr's balance and records the
// deposit, all inside one MULTI/EXEC under the balance lock (spec.md §4.1).
func (s *Store) StoreDeposit(ctx context.Context, nativeAddr string, amount *big.Int, timestampMs int64, hash string) error {
	nativeAddr = NormalizeNative(nativeAddr)

	return lock.WithLock(ctx, lock.BalanceResource(nativeAddr), config.LockTTLDeposit, func() error {
		conn := kv.Conn()
		defer conn.Close()

		current, err := readBalance(conn, nativeAddr)
		if err != nil {
			return err
		}
		newBalance := big.NewInt(0).Add(current, amount)

		audit := domain.AuditEntry{
			Type:        domain.AuditTypeDeposit,
			NativeAddr:  nativeAddr,
			TxnHash:     hash,
			Amount:      amount.String(),
			TimestampMs: timestampMs,
		}

		if err := conn.Send("MULTI"); err != nil {
			return err
		}
		conn.Send("SET", balanceKey(nativeAddr), newBalance.String())
		conn.Send("ZADD", depositsKey(nativeAddr), timestampMs, hash)
		sendAudit(conn, hash, audit)

		if _, err := conn.Do("EXEC"); err != nil {
			return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "commit deposit for "+nativeAddr, err)
		}
		return nil
	})
}

// ContainsDeposit is a membership test on the deposits sequence (spec.md §4.1).
func (s *Store) ContainsDeposit(ctx context.Context, nativeAddr, hash string) (bool, error) {
	nativeAddr = NormalizeNative(nativeAddr)

	conn := kv.Conn()
	defer conn.Close()

	score, err := redis.Float64(conn.Do("ZSCORE", depositsKey(nativeAddr), hash))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return false, nil
		}
		return false, err
	}
	_ = score
	return true, nil
}

// StoreWithdrawal debits amount from nativeAddr's balance and records the
// withdrawal, keyed uniquely by (nativeAddr, timestampMs) (spec.md §4.1, §3).
func (s *Store) StoreWithdrawal(ctx context.Context, nativeAddr string, amount *big.Int, timestampMs int64, hash string) error {
	nativeAddr = NormalizeNative(nativeAddr)

	return lock.WithLock(ctx, lock.BalanceResource(nativeAddr), config.LockTTLWithdraw, func() error {
		conn := kv.Conn()
		defer conn.Close()

		current, err := readBalance(conn, nativeAddr)
		if err != nil {
			return err
		}
		newBalance := big.NewInt(0).Sub(current, amount)
		if newBalance.Sign() < 0 {
			return bridgeerr.New(bridgeerr.InsufficientBalance, "withdrawal would make balance negative for "+nativeAddr)
		}

		audit := domain.AuditEntry{
			Type:        domain.AuditTypeWithdrawal,
			NativeAddr:  nativeAddr,
			TxnHash:     hash,
			Amount:      amount.String(),
			TimestampMs: timestampMs,
		}

		if err := conn.Send("MULTI"); err != nil {
			return err
		}
		conn.Send("SET", balanceKey(nativeAddr), newBalance.String())
		conn.Send("ZADD", withdrawalsKey(nativeAddr), timestampMs, hash)
		sendAudit(conn, hash, audit)

		if _, err := conn.Do("EXEC"); err != nil {
			return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "commit withdrawal for "+nativeAddr, err)
		}
		return nil
	})
}

// ContainsWithdrawalRequest is the exact-timestamp membership test that
// enforces withdrawal request uniqueness (spec.md §4.1, §7 DuplicateRequest).
func (s *Store) ContainsWithdrawalRequest(ctx context.Context, nativeAddr string, timestampMs int64) (bool, error) {
	nativeAddr = NormalizeNative(nativeAddr)

	conn := kv.Conn()
	defer conn.Close()

	members, err := redis.Strings(conn.Do("ZRANGEBYSCORE", withdrawalsKey(nativeAddr), timestampMs, timestampMs))
	if err != nil {
		return false, err
	}
	return len(members) > 0, nil
}
