package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "console:session:"

// RedisRepository stores each session as a JSON string whose key expires
// with the session.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) SessionRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Save(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ttl := time.Duration(0)
	if !rec.ExpiresAt.IsZero() {
		ttl = time.Until(rec.ExpiresAt)
		if ttl <= 0 {
			return r.Delete(ctx, rec.ID)
		}
	}
	return r.client.Set(ctx, redisKeyPrefix+rec.ID, data, ttl).Err()
}

func (r *RedisRepository) FindByID(ctx context.Context, id string) (*Record, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RedisRepository) List(ctx context.Context) ([]Record, error) {
	var records []Record
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKeyPrefix+id).Err()
}

// DeleteExpired is a no-op: Redis expires the keys itself.
func (r *RedisRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (r *RedisRepository) DeleteOtherVersions(ctx context.Context, version int) (int64, error) {
	records, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	var deleted int64
	for _, rec := range records {
		if rec.SchemaVersion == version {
			continue
		}
		if err := r.Delete(ctx, rec.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (r *RedisRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
