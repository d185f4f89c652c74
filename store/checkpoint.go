package store

import (
	"context"
	"errors"

	"github.com/gomodule/redigo/redis"

	"banwbanbridge/kv"
)

const checkpointKey = "blockchain:blocks:latest"

// GetLastProcessedBlock returns the checkpoint, or defaultBlock if none has
// been written yet (spec.md §4.1).
func (s *Store) GetLastProcessedBlock(ctx context.Context, defaultBlock uint64) (uint64, error) {
	conn := kv.Conn()
	defer conn.Close()

	n, err := redis.Int64(conn.Do("GET", checkpointKey))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return defaultBlock, nil
		}
		return 0, err
	}
	return uint64(n), nil
}

// SetLastProcessedBlock writes n only if it strictly exceeds the current
// checkpoint, keeping it monotone non-decreasing (spec.md §4.1, §8 property 5).
func (s *Store) SetLastProcessedBlock(ctx context.Context, n uint64) error {
	conn := kv.Conn()
	defer conn.Close()

	current, err := redis.Int64(conn.Do("GET", checkpointKey))
	if err != nil && !errors.Is(err, redis.ErrNil) {
		return err
	}
	if err == nil && uint64(current) >= n {
		return nil
	}

	_, err = conn.Do("SET", checkpointKey, n)
	return err
}
