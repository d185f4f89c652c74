// Package kv owns the single Redis connection pool shared by the lock
// manager, the ledger store and the per-account queue. Callers issue their
// own commands (MULTI/EXEC, Lua eval, ...) on connections from Conn.
package kv

import (
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"banwbanbridge/config"
)

var pool *redis.Pool

func timeoutDialOptions() []redis.DialOption {
	return []redis.DialOption{
		redis.DialConnectTimeout(5 * time.Second),
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}
}

// Init establishes the Redis pool. Must be called once before any other
// package in the process touches the store.
func Init() {
	addr := fmt.Sprintf("%s:%d", config.Config.Server.RedisHost, config.Config.Server.RedisPort)
	pool = &redis.Pool{
		MaxIdle: 10,
		Dial:    func() (redis.Conn, error) { return redis.Dial("tcp", addr, timeoutDialOptions()...) },
	}
}

// Conn checks out a pooled connection. Callers must Close it.
func Conn() redis.Conn {
	return pool.Get()
}
