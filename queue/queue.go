// Package queue is the Per-Account Work Queue (Q): a Redis list per
// account in FIFO order, a set tracking which accounts a worker currently
// has claimed (the single-flight lock, independent of the DLM balance
// lock), and a sorted set holding jobs delayed for retry, scored by their
// not-before timestamp. This mirrors the teacher's worker-goroutine shape
// (cmd/server/main.go's "go workers.Worker_X()" fan-out) with the
// bookkeeping spec.md §4.3 asks for layered on top of a plain redigo list.
package queue

import (
	"context"
	"encoding/json"
	"math/big"
	"time"

	"github.com/gomodule/redigo/redis"

	"banwbanbridge/bridgeerr"
	"banwbanbridge/kv"
)

const (
	accountsKey = "queue:accounts"
	activeKey   = "queue:active"
	delayedKey  = "queue:delayed"

	maxAttempts  = 10
	retryBackoff = 30 * time.Second
	maxBackoff   = 10 * time.Minute
)

func jobsKey(nativeAddr string) string {
	return "queue:jobs:" + nativeAddr
}

// Enqueue appends job to its account's list, tracking the account in the
// accounts set so workers can discover it without scanning key names.
func Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	conn := kv.Conn()
	defer conn.Close()

	if err := conn.Send("MULTI"); err != nil {
		return err
	}
	conn.Send("RPUSH", jobsKey(job.NativeAddr), payload)
	conn.Send("SADD", accountsKey, job.NativeAddr)
	if _, err := conn.Do("EXEC"); err != nil {
		return bridgeerr.Wrap(bridgeerr.StoreTransactionFailure, "enqueue job for "+job.NativeAddr, err)
	}
	return nil
}

// claimAccount takes the single-flight lock for nativeAddr, returning false
// if another worker already holds it.
func claimAccount(conn redis.Conn, nativeAddr string) (bool, error) {
	n, err := redis.Int(conn.Do("SADD", activeKey, nativeAddr))
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func releaseAccount(conn redis.Conn, nativeAddr string) error {
	_, err := conn.Do("SREM", activeKey, nativeAddr)
	return err
}

// popNext claims an unclaimed account with a pending job and pops its
// oldest job, releasing the claim immediately if the account turns out to
// have nothing queued (a stale accounts-set member). Returns ok=false when
// no claimable work was found this pass.
func popNext(accounts []string) (job *Job, nativeAddr string, ok bool, err error) {
	conn := kv.Conn()
	defer conn.Close()

	for _, addr := range accounts {
		claimed, cErr := claimAccount(conn, addr)
		if cErr != nil {
			return nil, "", false, cErr
		}
		if !claimed {
			continue
		}

		raw, pErr := redis.Bytes(conn.Do("LPOP", jobsKey(addr)))
		if pErr != nil {
			if pErr == redis.ErrNil {
				conn.Do("SREM", accountsKey, addr)
				releaseAccount(conn, addr)
				continue
			}
			releaseAccount(conn, addr)
			return nil, "", false, pErr
		}

		var j Job
		if err := json.Unmarshal(raw, &j); err != nil {
			releaseAccount(conn, addr)
			return nil, "", false, err
		}
		return &j, addr, true, nil
	}
	return nil, "", false, nil
}

// Release frees the account's single-flight claim. Workers must call this
// after processing a job they popped with popNext, whether or not handling
// succeeded.
func Release(nativeAddr string) error {
	conn := kv.Conn()
	defer conn.Close()
	return releaseAccount(conn, nativeAddr)
}

// Accounts lists the set of native_addrs with at least one job ever
// enqueued and not since fully drained. Used by the worker pool's poll
// loop in place of a blocking multi-key pop, since the set of account keys
// changes at runtime.
func Accounts() ([]string, error) {
	conn := kv.Conn()
	defer conn.Close()
	return redis.Strings(conn.Do("SMEMBERS", accountsKey))
}

// Retry re-enqueues job into queue:delayed, scored by a not-before
// timestamp that backs off with the attempt count (spec.md §4.3/§9). The
// scheduler goroutine moves it back onto the account's list once due.
func Retry(job Job) error {
	job.Attempt++
	if job.Attempt > maxAttempts {
		return bridgeerr.New(bridgeerr.StoreTransactionFailure, "job for "+job.NativeAddr+" exceeded max retry attempts")
	}

	backoff := time.Duration(job.Attempt) * retryBackoff
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	notBefore := time.Now().Add(backoff).UnixMilli()

	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	conn := kv.Conn()
	defer conn.Close()
	_, err = conn.Do("ZADD", delayedKey, notBefore, payload)
	return err
}

// PromoteDue moves every queue:delayed job whose not-before has elapsed
// back onto its account's list, returning how many it moved.
func PromoteDue(ctx context.Context) (int, error) {
	conn := kv.Conn()
	defer conn.Close()

	members, err := redis.Strings(conn.Do("ZRANGEBYSCORE", delayedKey, "-inf", time.Now().UnixMilli()))
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, member := range members {
		var j Job
		if err := json.Unmarshal([]byte(member), &j); err != nil {
			conn.Do("ZREM", delayedKey, member)
			continue
		}

		conn.Send("MULTI")
		conn.Send("ZREM", delayedKey, member)
		conn.Send("RPUSH", jobsKey(j.NativeAddr), member)
		conn.Send("SADD", accountsKey, j.NativeAddr)
		if _, err := conn.Do("EXEC"); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// PendingWithdrawalTotal sums the amount field of every native-withdrawal
// job currently sitting in queue:delayed, i.e. withdrawals that have been
// accepted but are waiting for a retry after a retryable error, such as a
// hot-wallet shortfall (spec.md §4.3).
func PendingWithdrawalTotal() (*big.Int, error) {
	conn := kv.Conn()
	defer conn.Close()

	members, err := redis.Strings(conn.Do("ZRANGE", delayedKey, 0, -1))
	if err != nil {
		return nil, err
	}

	total := big.NewInt(0)
	for _, member := range members {
		var j Job
		if err := json.Unmarshal([]byte(member), &j); err != nil {
			continue
		}
		if j.Kind != KindNativeWithdrawal {
			continue
		}
		amount, ok := big.NewInt(0).SetString(j.Amount, 10)
		if !ok {
			continue
		}
		total.Add(total, amount)
	}
	return total, nil
}
