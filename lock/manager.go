// Package lock implements the Distributed Lock Manager (DLM): advisory,
// TTL-bounded locks keyed by a resource name, built on the same Redis pool
// the ledger store uses. This is the keyed advisory-lock protocol spec.md
// §4.2/§9 describe: SET key token NX PX ttl to acquire, a Lua compare-and-
// delete to release so a lease can never clobber a newer holder's lock
// after its own TTL already expired.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	mrand "math/rand"
	"time"

	"github.com/gomodule/redigo/redis"

	"banwbanbridge/bridgeerr"
	"banwbanbridge/config"
	"banwbanbridge/kv"
)

// releaseScript deletes the lock key only if its value still matches the
// token the caller was granted, so a lease that outlived its TTL and was
// since reacquired by someone else cannot release the new holder's lock.
var releaseScript = redis.NewScript(1, `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// Lease is the scoped handle returned by Acquire. It must be released on
// every exit path, including error paths, or the resource stays locked
// until its TTL naturally expires.
type Lease struct {
	Resource   string
	token      string
	ValidUntil time.Time
}

func resourceKey(resource string) string {
	return fmt.Sprintf("locks:%s", resource)
}

func newToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Acquire attempts to take the named resource lock, retrying up to
// config.LockMaxAttempts times with a base delay plus jitter between
// attempts (spec.md §4.2). It bounds its own retry loop by ctx as well as
// by the attempt count, so a caller with a short deadline fails fast.
func Acquire(ctx context.Context, resource string, ttl time.Duration) (*Lease, error) {
	token := newToken()
	key := resourceKey(resource)
	ttlMs := ttl.Milliseconds()

	for attempt := 0; attempt < config.LockMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, bridgeerr.Wrap(bridgeerr.LockTimeout, "context cancelled while acquiring "+resource, err)
		}

		acquired, err := trySet(key, token, ttlMs)
		if err != nil {
			return nil, bridgeerr.Wrap(bridgeerr.LockTimeout, "redis error acquiring "+resource, err)
		}
		if acquired {
			drift := time.Duration(float64(ttl) * config.LockClockDriftFactor)
			return &Lease{Resource: resource, token: token, ValidUntil: time.Now().Add(ttl - drift)}, nil
		}

		delay := config.LockBaseDelay + time.Duration(mrand.Int63n(int64(config.LockMaxJitter)))
		select {
		case <-ctx.Done():
			return nil, bridgeerr.Wrap(bridgeerr.LockTimeout, "context cancelled while acquiring "+resource, ctx.Err())
		case <-time.After(delay):
		}
	}

	return nil, bridgeerr.New(bridgeerr.LockTimeout, fmt.Sprintf("could not acquire lock %q after %d attempts", resource, config.LockMaxAttempts))
}

func trySet(key, token string, ttlMs int64) (bool, error) {
	conn := kv.Conn()
	defer conn.Close()

	reply, err := conn.Do("SET", key, token, "NX", "PX", ttlMs)
	if err != nil {
		return false, err
	}
	return reply != nil, nil
}

// Release frees the lease's resource, and is a no-op if the lease's token
// was already superseded (e.g. because the TTL expired before Release ran).
func Release(lease *Lease) error {
	if lease == nil {
		return errors.New("nil lease")
	}

	conn := kv.Conn()
	defer conn.Close()

	_, err := releaseScript.Do(conn, resourceKey(lease.Resource), lease.token)
	if err != nil {
		log.Printf("error releasing lock %q: %s", lease.Resource, err.Error())
		return err
	}
	return nil
}

// BalanceResource names the per-account balance lock (spec.md §3, §5).
func BalanceResource(nativeAddr string) string {
	return "balance:" + nativeAddr
}

// SwapToWBANResource names the per-account swap-out lock (spec.md §4.1).
func SwapToWBANResource(nativeAddr string) string {
	return "swaps:ban-to-wban:" + nativeAddr
}

// WithLock acquires resource for the duration of fn and always releases it,
// even if fn panics or returns an error.
func WithLock(ctx context.Context, resource string, ttl time.Duration, fn func() error) error {
	lease, err := Acquire(ctx, resource, ttl)
	if err != nil {
		return err
	}
	defer func() {
		if relErr := Release(lease); relErr != nil {
			log.Printf("lock %q: release failed: %s", resource, relErr.Error())
		}
	}()
	return fn()
}
