package storage

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultS3Region       = "us-east-1"
	defaultPresignExpires = time.Hour
)

// S3ObjectStorage keeps uploads in one bucket of an S3-compatible service
// (AWS S3, MinIO). Public URLs are presigned GETs.
type S3ObjectStorage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expires time.Duration
	logger  *zap.Logger
}

// NewS3ObjectStorage builds the client from the storage settings. No request
// is made; call EnsureBucket to check connectivity.
func NewS3ObjectStorage(cfg *config.StorageConfig, logger *zap.Logger) (*S3ObjectStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	var missing []string
	for _, f := range [...]struct{ name, value string }{
		{"bucket", cfg.S3Bucket},
		{"access key", cfg.S3AccessKey},
		{"secret key", cfg.S3SecretKey},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("storage %s is required", strings.Join(missing, ", "))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cmp.Or(cfg.S3Region, defaultS3Region)),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 client config: %w", err)
	}

	endpoint := s3Endpoint(cfg.S3Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	if logger == nil {
		logger = zap.NewNop()
	}
	expires := cfg.S3PresignExpires
	if expires <= 0 {
		expires = defaultPresignExpires
	}
	return &S3ObjectStorage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.S3Bucket,
		expires: expires,
		logger:  logger.With(zap.String("bucket", cfg.S3Bucket)),
	}, nil
}

// s3Endpoint lets MinIO hosts be configured without a scheme
func s3Endpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

// isMissing recognises "no such bucket/key" answers. Some S3-compatible
// services only put the code in the message.
func isMissing(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "NotFound") || strings.Contains(msg, "NoSuchKey")
}

// EnsureBucket creates the uploads bucket on first start
func (s *S3ObjectStorage) EnsureBucket(ctx context.Context) error {
	err := s.Ping(ctx)
	if err == nil {
		return nil
	}
	if !isMissing(err) {
		return fmt.Errorf("failed to reach uploads bucket: %w", err)
	}

	s.logger.Info("Creating uploads bucket")
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("failed to create uploads bucket: %w", err)
	}
	return nil
}

func (s *S3ObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to store upload %s: %w", key, err)
	}
	s.logger.Debug("Upload stored", zap.String("key", key), zap.Int64("size", size))
	return nil
}

// Delete answers ErrObjectNotFound for absent keys, which S3 itself does not
func (s *S3ObjectStorage) Delete(ctx context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	if ok, err := s.Exists(ctx, key); err != nil {
		return err
	} else if !ok {
		return ErrObjectNotFound
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete upload %s: %w", key, err)
	}
	s.logger.Debug("Upload deleted", zap.String("key", key))
	return nil
}

func (s *S3ObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	key, err := CleanKey(key)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	switch {
	case err == nil:
		return true, nil
	case isMissing(err):
		return false, nil
	default:
		return false, fmt.Errorf("failed to look up upload %s: %w", key, err)
	}
}

// URL presigns a GET valid for the configured expiry
func (s *S3ObjectStorage) URL(ctx context.Context, key string) (string, error) {
	key, err := CleanKey(key)
	if err != nil {
		return "", err
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload %s: %w", key, err)
	}
	return req.URL, nil
}

// Ping checks the bucket is reachable, for the readiness endpoint
func (s *S3ObjectStorage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func (s *S3ObjectStorage) Bucket() string { return s.bucket }

var _ ObjectStorage = (*S3ObjectStorage)(nil)
