package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobverse/internal/filter"
)

const (
	keyPrefix = "board:session:"

	// maxUpdateAttempts bounds optimistic retries when concurrent writers
	// race on the same session.
	maxUpdateAttempts = 10
)

// RedisStore keeps each session as a JSON value with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a store on rdb whose entries expire ttl after their
// last write.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(id string) string { return keyPrefix + id }

func (s *RedisStore) Create(ctx context.Context, id string, st filter.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (filter.State, error) {
	return s.load(ctx, s.rdb, id)
}

// Update runs fn inside a WATCH transaction and retries when another writer
// changed the session in between.
func (s *RedisStore) Update(ctx context.Context, id string, fn MutateFunc) (filter.State, error) {
	k := key(id)
	var next filter.State

	txf := func(tx *redis.Tx) error {
		cur, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		next, err = fn(cur)
		if err != nil {
			return err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, data, s.ttl)
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		err := s.rdb.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return filter.State{}, err
		}
		return next, nil
	}
	return filter.State{}, fmt.Errorf("update session %s: too much contention", id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) load(ctx context.Context, c getter, id string) (filter.State, error) {
	data, err := c.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return filter.State{}, ErrSessionNotFound
	}
	if err != nil {
		return filter.State{}, fmt.Errorf("load session: %w", err)
	}
	var st filter.State
	if err := json.Unmarshal(data, &st); err != nil {
		return filter.State{}, fmt.Errorf("decode session: %w", err)
	}
	return st, nil
}
