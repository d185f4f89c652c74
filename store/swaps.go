package store

import (
	"context"
	"errors"
	"log"
	"math/big"

	"github.com/gomodule/redigo/redis"

	"banwbanbridge/bridgeerr"
	"banwbanbridge/config"
	"banwbanbridge/domain"
	"banwbanbridge/kv"
	"banwbanbridge/lock"
)

func banToWBANKey(nativeAddr string) string {
	return "swaps:ban-to-wban:" + nativeAddr
}

func wbanToBANKey(blockchainAddr string) string {
	return "swaps:wban-to-ban:" + blockchainAddr
}

func gaslessKey(nativeAddr string) string {
	return "swaps:gasless:" + nativeAddr
}

// StoreSwapToWBAN debits amount from nativeAddr's balance and records the
// mint-receipt issuance to blockchainAddr, under the swaps:ban-to-wban:<addr>
// lock (spec.md §4.1, §4.5).
func (s *Store) StoreSwapToWBAN(ctx context.Context, nativeAddr, blockchainAddr string, amount *big.Int, timestampMs int64, receiptID, uuid, signature string) error {
	nativeAddr = NormalizeNative(nativeAddr)
	blockchainAddr = NormalizeBlockchain(blockchainAddr)

	return lock.WithLock(ctx, lock.SwapToWBANResource(nativeAddr), config.LockTTLSwap, func() error {
		conn := kv.Conn()
		defer conn.Close()

		current, err := readBalance(conn, nativeAddr)
		if err != nil {
			return err
		}
		newBalance := big.NewInt(0).Sub(current, amount)
		if newBalance.Sign() < 0 {
			return bridgeerr.New(bridgeerr.InsufficientBalance, "swap-to-wban would make balance negative for "+nativeAddr)
		}

		audit := domain.AuditEntry{
			Type:           domain.AuditTypeSwapToWBAN,
			NativeAddr:     nativeAddr,
			BlockchainAddr: blockchainAddr,
			ReceiptID:      receiptID,
			UUID:           uuid,
			Signature:      signature,
			Amount:         amount.String(),
			TimestampMs:    timestampMs,
		}

		if err := conn.Send("MULTI"); err != nil {
			return err
		}
		conn.Send("SET", balanceKey(nativeAddr), newBalance.String())
		conn.Send("ZADD", banToWBANKey(nativeAddr), timestampMs, receiptID)
		sendAudit(conn, receiptID, audit)

		if _, err := conn.Do("EXEC"); err != nil {
			return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "commit swap-to-wban for "+nativeAddr, err)
		}
		return nil
	})
}

// ContainsSwapToBAN is the idempotency check CS's redelivered events rely on
// (spec.md §4.1, §4.6, §8 property 2).
func (s *Store) ContainsSwapToBAN(ctx context.Context, blockchainAddr, hash string) (bool, error) {
	blockchainAddr = NormalizeBlockchain(blockchainAddr)

	conn := kv.Conn()
	defer conn.Close()

	_, err := redis.Float64(conn.Do("ZSCORE", wbanToBANKey(blockchainAddr), hash))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// StoreSwapToBAN credits amount to nativeAddr's balance for a wBAN
// redemption, re-checking idempotency under the balance lock so that
// duplicate event delivery from CS is a warned no-op, never a double credit
// (spec.md §4.1, §4.6, §8 property 2).
func (s *Store) StoreSwapToBAN(ctx context.Context, blockchainAddr, nativeAddr, hash string, amount *big.Int, eventTimestampMs int64) error {
	blockchainAddr = NormalizeBlockchain(blockchainAddr)
	nativeAddr = NormalizeNative(nativeAddr)

	return lock.WithLock(ctx, lock.BalanceResource(nativeAddr), config.LockTTLSwap, func() error {
		conn := kv.Conn()
		defer conn.Close()

		_, err := redis.Float64(conn.Do("ZSCORE", wbanToBANKey(blockchainAddr), hash))
		if err == nil {
			log.Printf("warning: swap-to-ban %s already recorded for %s, ignoring duplicate delivery", hash, blockchainAddr)
			return nil
		}
		if !errors.Is(err, redis.ErrNil) {
			return err
		}

		current, err := readBalance(conn, nativeAddr)
		if err != nil {
			return err
		}
		newBalance := big.NewInt(0).Add(current, amount)

		audit := domain.AuditEntry{
			Type:           domain.AuditTypeSwapToBAN,
			NativeAddr:     nativeAddr,
			BlockchainAddr: blockchainAddr,
			TxnHash:        hash,
			Amount:         amount.String(),
			TimestampMs:    eventTimestampMs,
		}

		if err := conn.Send("MULTI"); err != nil {
			return err
		}
		conn.Send("SET", balanceKey(nativeAddr), newBalance.String())
		conn.Send("ZADD", wbanToBANKey(blockchainAddr), eventTimestampMs, hash)
		sendAudit(conn, hash, audit)

		if _, err := conn.Do("EXEC"); err != nil {
			return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "commit swap-to-ban for "+blockchainAddr, err)
		}
		return nil
	})
}

// ConsumeFreeSwap atomically consumes nativeAddr's one-time gasless-swap
// allowance (spec.md §3 FreeSwapMark, SPEC_FULL §3 GaslessSwapGrant). It
// returns true only the first time it is called for a given native_addr.
func (s *Store) ConsumeFreeSwap(ctx context.Context, nativeAddr, txnID string) (bool, error) {
	nativeAddr = NormalizeNative(nativeAddr)

	conn := kv.Conn()
	defer conn.Close()

	reply, err := conn.Do("SET", gaslessKey(nativeAddr), txnID, "NX")
	if err != nil {
		return false, err
	}
	return reply != nil, nil
}
