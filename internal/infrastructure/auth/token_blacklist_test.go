package auth

import (
	"context"
	"testing"
	"time"

	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_AddToBlacklist(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "test-jti-1", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "test-jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "test-jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_Expiration(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	blacklist.now = func() time.Time { return now }

	require.NoError(t, blacklist.AddToBlacklist(ctx, "short", time.Minute))
	require.NoError(t, blacklist.AddToBlacklist(ctx, "long", time.Hour))

	now = now.Add(2 * time.Minute)

	revoked, err := blacklist.IsBlacklisted(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "long")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 2, blacklist.Len(), "lookups leave expired entries for the next add")
}

func TestInMemoryTokenBlacklist_PrunesOnAdd(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	blacklist.now = func() time.Time { return now }

	for _, jti := range []string{"a", "b", "c"} {
		require.NoError(t, blacklist.AddToBlacklist(ctx, jti, time.Minute))
	}
	now = now.Add(time.Hour)
	require.NoError(t, blacklist.AddToBlacklist(ctx, "d", time.Minute))

	assert.Equal(t, 1, blacklist.Len())
}

func TestInMemoryTokenBlacklist_NonPositiveTTL(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()

	require.NoError(t, blacklist.AddToBlacklist(context.Background(), "gone", 0))

	assert.Equal(t, 0, blacklist.Len())
}

func TestNewRedisTokenBlacklist_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisTokenBlacklist(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1})

	assert.Error(t, err)
}

func TestRedisTokenBlacklist_Keys(t *testing.T) {
	assert.Equal(t, "mediaassoc:session:revoked:abc", revokedKey("abc"))
}

func TestRedisOptions(t *testing.T) {
	opts := redisOptions(config.RedisConfig{Host: "cache", Port: 6380, Password: "pw", DB: 2})

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 3*time.Second, opts.ReadTimeout)
}
