package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"pscfiling/internal/filing/models"
	"pscfiling/pkg/platform/sentinel"
)

const keyPrefix = "psc-filing"

// RedisStore keeps each filing as a JSON string under
// psc-filing:{variant}:{id}. Updates run in a WATCH transaction.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedis constructs a Redis-backed filing store.
func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Key returns the Redis key of a filing.
func Key(variant models.Variant, id string) string {
	return keyPrefix + ":" + string(variant) + ":" + id
}

func (s *RedisStore) Create(ctx context.Context, f models.Filing) error {
	data, err := models.Encode(f)
	if err != nil {
		return fmt.Errorf("encode filing: %w", err)
	}
	ok, err := s.client.SetNX(ctx, Key(f.Variant(), f.Common().ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("create filing: %w", err)
	}
	if !ok {
		return fmt.Errorf("filing %s already exists: %w", f.Common().ID, sentinel.ErrConflict)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, variant models.Variant, id string) (models.Filing, error) {
	data, err := s.client.Get(ctx, Key(variant, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("filing not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find filing by id: %w", err)
	}
	return decode(variant, data)
}

func (s *RedisStore) Update(ctx context.Context, f models.Filing, expectedEtag string) error {
	data, err := models.Encode(f)
	if err != nil {
		return fmt.Errorf("encode filing: %w", err)
	}
	key := Key(f.Variant(), f.Common().ID)

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("filing not found: %w", sentinel.ErrNotFound)
			}
			return fmt.Errorf("read filing for update: %w", err)
		}
		stored, err := decode(f.Variant(), current)
		if err != nil {
			return err
		}
		if stored.Common().Etag != expectedEtag {
			return fmt.Errorf("filing %s etag changed: %w", f.Common().ID, sentinel.ErrConflict)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("filing %s changed during update: %w", f.Common().ID, sentinel.ErrConflict)
	}
	return err
}
