package auth

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// TokenBlacklist remembers logged-out sessions until their tokens expire
type TokenBlacklist interface {
	// AddToBlacklist revokes jti for ttl, the token's remaining lifetime.
	// A non-positive ttl is a no-op.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "mediaassoc:session:revoked:"

func revokedKey(jti string) string { return revokedKeyPrefix + jti }

// RedisTokenBlacklist shares revocations between instances. Keys expire
// with the token, so the set never needs sweeping.
type RedisTokenBlacklist struct {
	client *redis.Client
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// NewRedisTokenBlacklist connects and pings Redis; an unreachable server is
// an error at startup.
func NewRedisTokenBlacklist(ctx context.Context, cfg config.RedisConfig) (*RedisTokenBlacklist, error) {
	client := redis.NewClient(redisOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach session blacklist at %s: %w", cfg.RedisAddr(), err)
	}
	return &RedisTokenBlacklist{client: client}, nil
}

func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, revokedKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session blacklist: %w", err)
	}
	return n > 0, nil
}

// Ping backs the readiness endpoint
func (b *RedisTokenBlacklist) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisTokenBlacklist) Close() error {
	return b.client.Close()
}

// InMemoryTokenBlacklist keeps revocations in process memory. It serves a
// single instance running without Redis; a restart forgets every logout.
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
	now     func() time.Time
}

func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{revoked: make(map[string]time.Time), now: time.Now}
}

// AddToBlacklist also drops entries whose tokens have expired meanwhile
func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	maps.DeleteFunc(b.revoked, func(_ string, expires time.Time) bool { return now.After(expires) })
	if ttl > 0 {
		b.revoked[jti] = now.Add(ttl)
	}
	return nil
}

func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expires, ok := b.revoked[jti]
	return ok && !b.now().After(expires), nil
}

// Len counts tracked revocations, including expired ones not yet dropped
func (b *InMemoryTokenBlacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.revoked)
}

var (
	_ TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
)
