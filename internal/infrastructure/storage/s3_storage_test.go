package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func testS3Config() *config.StorageConfig {
	return &config.StorageConfig{
		Backend:        BackendS3,
		S3Bucket:       "test-bucket",
		S3AccessKey:    "test-key",
		S3SecretKey:    "test-secret",
		S3Region:       "eu-west-1",
		S3Endpoint:     "http://localhost:9000",
		S3UsePathStyle: true,
	}
}

func TestNewS3ObjectStorage(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil, nil)
		assert.EqualError(t, err, "storage configuration is required")
	})

	t.Run("missing credentials are listed together", func(t *testing.T) {
		cfg := testS3Config()
		cfg.S3Bucket = ""
		cfg.S3SecretKey = ""
		_, err := NewS3ObjectStorage(cfg, nil)
		assert.EqualError(t, err, "storage bucket, secret key is required")
	})

	t.Run("presign expiry", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(testS3Config(), zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Equal(t, "test-bucket", storage.Bucket())
		assert.Equal(t, time.Hour, storage.expires)

		cfg := testS3Config()
		cfg.S3PresignExpires = 15 * time.Minute
		storage, err = NewS3ObjectStorage(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, storage.expires)
	})
}

func TestS3Endpoint(t *testing.T) {
	assert.Equal(t, "", s3Endpoint(" "))
	assert.Equal(t, "https://minio.internal:9000", s3Endpoint("minio.internal:9000"))
	assert.Equal(t, "http://localhost:9000", s3Endpoint("http://localhost:9000"))
}

func TestIsMissing(t *testing.T) {
	assert.True(t, isMissing(&types.NoSuchKey{}))
	assert.True(t, isMissing(fmt.Errorf("head object: %w", &types.NotFound{})))
	assert.True(t, isMissing(errors.New("api error NoSuchKey: The specified key does not exist.")))
	assert.False(t, isMissing(errors.New("api error AccessDenied: Access Denied")))
}

func TestS3ObjectStorage_URL(t *testing.T) {
	storage, err := NewS3ObjectStorage(testS3Config(), nil)
	require.NoError(t, err)

	t.Run("empty key", func(t *testing.T) {
		_, err := storage.URL(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("presigned path-style URL", func(t *testing.T) {
		u, err := storage.URL(context.Background(), "uploads/2024/logo.png")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(u, "http://localhost:9000/test-bucket/uploads/2024/logo.png?"))
		assert.Contains(t, u, "X-Amz-Signature=")
		assert.Contains(t, u, "X-Amz-Expires=3600")
	})
}

func TestS3ObjectStorage_KeyValidation(t *testing.T) {
	storage, err := NewS3ObjectStorage(testS3Config(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, storage.Put(ctx, "../etc/passwd", strings.NewReader("x"), 1, "text/plain"), ErrInvalidKey)
	assert.ErrorIs(t, storage.Delete(ctx, ""), ErrInvalidKey)
	_, err = storage.Exists(ctx, "a/../../b")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

// newIntegrationStorage targets a MinIO reachable at MA_TEST_S3_ENDPOINT
func newIntegrationStorage(t *testing.T) *S3ObjectStorage {
	t.Helper()
	endpoint := os.Getenv("MA_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("set MA_TEST_S3_ENDPOINT to run against a live S3-compatible service")
	}

	cfg := &config.StorageConfig{
		S3Bucket:       "mediaassoc-test",
		S3AccessKey:    os.Getenv("MA_TEST_S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("MA_TEST_S3_SECRET_KEY"),
		S3Endpoint:     endpoint,
		S3UsePathStyle: true,
	}
	storage, err := NewS3ObjectStorage(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, storage.EnsureBucket(context.Background()))
	return storage
}

func TestIntegration_PutExistsDelete(t *testing.T) {
	storage := newIntegrationStorage(t)
	ctx := context.Background()
	key := "integration/hello.txt"
	body := "Hello from the uploads test"

	require.NoError(t, storage.Put(ctx, key, strings.NewReader(body), int64(len(body)), "text/plain"))

	exists, err := storage.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	u, err := storage.URL(ctx, key)
	require.NoError(t, err)
	assert.NotEmpty(t, u)

	require.NoError(t, storage.Delete(ctx, key))
	assert.ErrorIs(t, storage.Delete(ctx, key), ErrObjectNotFound)
}
