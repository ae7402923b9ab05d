package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key used when the URI carries no `key` parameter.
const DefaultRedisKey = "tategaki:settings"

// kv is the subset of redis.Cmdable used by RedisStore.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps the record as JSON under a single key.
type RedisStore struct {
	client kv
	key    string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// OpenRedis connects using a redis:// URI. The optional `key` query
// parameter selects the key and is removed before the URI is parsed.
func OpenRedis(uri string) (*RedisStore, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis uri: %w", err)
	}
	q := u.Query()
	key := q.Get("key")
	q.Del("key")
	u.RawQuery = q.Encode()

	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, fmt.Errorf("parse redis uri: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts), key), nil
}

// Load reads the record. A missing key or corrupt JSON yields empty settings.
func (r *RedisStore) Load(ctx context.Context) (Settings, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Settings{}, nil
	}
	return Decode(raw), nil
}

// Save stores the record without expiry.
func (r *RedisStore) Save(ctx context.Context, s Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
