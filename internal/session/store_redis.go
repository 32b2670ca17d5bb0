package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session records in redis. Records expire with the same
// lifetime as the guard cookie so a browser never carries a cookie that
// outlives its record.
type RedisStore struct {
	rdb      *redis.Client
	ttl      time.Duration
	leaseTTL time.Duration
}

// Save leases are short-lived: they only cover one outstanding profile save
// and must not leave a session permanently locked if the process dies.
const defaultSaveLeaseTTL = 30 * time.Second

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, leaseTTL: defaultSaveLeaseTTL}
}

func (s *RedisStore) Put(ctx context.Context, key string, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: encode record: %w", err)
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: put record: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Record, bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("session: get record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		// Malformed stored data is a cache miss, not a user-visible failure.
		return Record{}, false, nil
	}
	return rec, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("session: delete record: %w", err)
	}
	return nil
}

func (s *RedisStore) TryAcquireSave(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.leaseTTL).Result()
	if err != nil {
		return false, fmt.Errorf("session: acquire save lease: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) ReleaseSave(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("session: release save lease: %w", err)
	}
	return nil
}
