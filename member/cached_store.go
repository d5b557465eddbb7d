package member

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultCacheTTL = 5 * time.Minute

// CachedStore puts a Redis read-through cache in front of API-key lookups,
// which happen on every request that carries no valid access token. Redis
// failures degrade to the wrapped store. Cached entries never hold the
// password.
type CachedStore struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewCachedStore wraps next with a cache stored in client. A ttl of zero
// uses five minutes.
func NewCachedStore(next Store, client *redis.Client, ttl time.Duration, logger Logger) *CachedStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedStore{next: next, client: client, ttl: ttl, logger: logger}
}

// NewRedisClient parses url, connects and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// FindByAPIKey implements Store.
func (s *CachedStore) FindByAPIKey(ctx context.Context, apiKey string) (*Member, error) {
	key := apiKeyCacheKey(apiKey)

	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var m Member
		if err := json.Unmarshal(data, &m); err == nil {
			return &m, nil
		}
		s.client.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		s.warn("api key cache read failed", err)
	}

	m, err := s.next.FindByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(m); err == nil {
		if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.warn("api key cache write failed", err)
		}
	}

	return m, nil
}

// FindByUsername implements Store.
func (s *CachedStore) FindByUsername(ctx context.Context, username string) (*Member, error) {
	return s.next.FindByUsername(ctx, username)
}

// Create implements Store.
func (s *CachedStore) Create(ctx context.Context, m *Member) error {
	return s.next.Create(ctx, m)
}

// Update implements Store and evicts the cached entry for m.
func (s *CachedStore) Update(ctx context.Context, m *Member) error {
	if err := s.next.Update(ctx, m); err != nil {
		return err
	}

	if m.APIKey != "" {
		if err := s.client.Del(ctx, apiKeyCacheKey(m.APIKey)).Err(); err != nil {
			s.warn("api key cache eviction failed", err)
		}
	}
	return nil
}

func (s *CachedStore) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "error", err)
	}
}

// apiKeyCacheKey hashes the key so raw credentials never appear in Redis.
func apiKeyCacheKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return "member:api_key:" + hex.EncodeToString(sum[:])
}
