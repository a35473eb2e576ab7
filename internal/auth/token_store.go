package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore tracks issued refresh tokens by jti so they can be revoked.
type TokenStore interface {
	Save(ctx context.Context, id string, accountID uint, ttl time.Duration) error
	Active(ctx context.Context, id string) (bool, error)
	Revoke(ctx context.Context, id string) error
}

const refreshKeyPrefix = "agcbo:refresh:"

// RedisTokenStore keeps refresh token ids in Redis with their natural expiry.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

// NewRedisClient parses url and verifies the connection before returning.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, id string, accountID uint, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKeyPrefix+id, strconv.FormatUint(uint64(accountID), 10), ttl).Err()
}

func (s *RedisTokenStore) Active(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, refreshKeyPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, id string) error {
	return s.client.Del(ctx, refreshKeyPrefix+id).Err()
}

// MemoryTokenStore is the single-process fallback when no Redis is configured.
type MemoryTokenStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{entries: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryTokenStore) Save(_ context.Context, id string, _ uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, exp := range s.entries {
		if !exp.After(now) {
			delete(s.entries, key)
		}
	}
	s.entries[id] = now.Add(ttl)
	return nil
}

func (s *MemoryTokenStore) Active(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.entries[id]
	if !ok {
		return false, nil
	}
	if !exp.After(s.now()) {
		delete(s.entries, id)
		return false, nil
	}
	return true, nil
}

func (s *MemoryTokenStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}
