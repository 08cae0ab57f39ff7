package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/snapguide/pkg/errors"
	"github.com/matzehuels/snapguide/pkg/observability"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces keys; defaults to "snapguide".
	Prefix string
	// TTL expires traces after the given duration; zero keeps them.
	TTL time.Duration
}

// RedisStore keeps each trace as a JSON string and indexes IDs in a sorted
// set scored by creation time.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to redis at %s", cfg.Addr)
	}
	return NewRedisStoreWithClient(client, cfg.Prefix, cfg.TTL), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "snapguide"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string { return fmt.Sprintf("%s:trace:%s", s.prefix, id) }
func (s *RedisStore) indexKey() string     { return s.prefix + ":traces" }

func (s *RedisStore) Save(ctx context.Context, t *Trace) (err error) {
	defer func() { observability.Trace().OnTraceSave(ctx, "redis", t.ID, len(t.Samples), err) }()
	if err := t.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(t.ID), data, s.ttl)
		p.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(t.CreatedAt.UnixNano()), Member: t.ID})
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save trace %s", t.ID)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (t *Trace, err error) {
	defer func() { observability.Trace().OnTraceLoad(ctx, "redis", id, err) }()
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load trace %s", id)
	}
	var out Trace
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTrace, err, "decode trace %s", id)
	}
	return &out, nil
}

// List walks the index newest first. IDs whose trace expired are pruned
// from the index as they are found.
func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list traces")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list traces")
	}

	var out []Summary
	var stale []any
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var t Trace
		if err := json.Unmarshal([]byte(str), &t); err != nil {
			continue
		}
		out = append(out, t.Summary())
	}
	if len(stale) > 0 {
		_ = s.client.ZRem(ctx, s.indexKey(), stale...).Err()
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.key(id))
		p.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete trace %s", id)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) (int, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "clear traces")
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}
	keys = append(keys, s.indexKey())
	removed, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "clear traces")
	}
	// The index key itself is not a trace.
	if removed > 0 && len(ids) > 0 {
		removed--
	}
	return int(removed), nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
