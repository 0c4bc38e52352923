// Package minio wraps object storage access for document retrieval.
package minio

import (
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocFacts/pkg/errors"
)

var (
	ErrClientClosed     = errors.New(errors.ErrCodeInternal, "minio client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeServiceUnavailable, "failed to connect to minio")
)

// MinIOAPI abstracts the minio-go client for testing.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// Config holds object storage connection parameters.
type Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	Region          string        `mapstructure:"region"`
	Bucket          string        `mapstructure:"bucket"`
	MaxObjectSize   int64         `mapstructure:"max_object_size"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// MinIOClient wraps the minio-go client with a single document bucket and a
// closed guard.
type MinIOClient struct {
	api    MinIOAPI
	config *Config
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewMinIOClient connects to object storage, verifies reachability, and
// ensures the document bucket exists.
func NewMinIOClient(cfg *Config, log logging.Logger) (*MinIOClient, error) {
	applyDefaults(cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	client := &MinIOClient{
		api:    api,
		config: cfg,
		logger: log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := api.ListBuckets(ctx); err != nil {
		return nil, ErrConnectionFailed
	}
	if err := client.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return client, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "documents"
	}
	if cfg.MaxObjectSize == 0 {
		cfg.MaxObjectSize = 32 * 1024 * 1024
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = 1 * time.Hour
	}
}

// EnsureBucket creates the document bucket when missing.
func (c *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to check bucket existence")
	}
	if !exists {
		if err := c.api.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to create bucket "+c.config.Bucket)
		}
		c.logger.Info("created bucket", logging.String("bucket", c.config.Bucket))
	}
	return nil
}

func (c *MinIOClient) Bucket() string       { return c.config.Bucket }
func (c *MinIOClient) MaxObjectSize() int64 { return c.config.MaxObjectSize }

// GetObject opens the named object for reading.  The caller must close the
// returned reader.
func (c *MinIOClient) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	obj, err := c.api.GetObject(ctx, c.config.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (c *MinIOClient) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (minio.UploadInfo, error) {
	if c.isClosed() {
		return minio.UploadInfo{}, ErrClientClosed
	}
	return c.api.PutObject(ctx, c.config.Bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
}

func (c *MinIOClient) StatObject(ctx context.Context, key string) (minio.ObjectInfo, error) {
	if c.isClosed() {
		return minio.ObjectInfo{}, ErrClientClosed
	}
	return c.api.StatObject(ctx, c.config.Bucket, key, minio.StatObjectOptions{})
}

func (c *MinIOClient) RemoveObject(ctx context.Context, key string) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.api.RemoveObject(ctx, c.config.Bucket, key, minio.RemoveObjectOptions{})
}

func (c *MinIOClient) ListObjects(ctx context.Context, prefix string) <-chan minio.ObjectInfo {
	return c.api.ListObjects(ctx, c.config.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
}

func (c *MinIOClient) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if c.isClosed() {
		return "", ErrClientClosed
	}
	if expiry == 0 {
		expiry = c.config.PresignExpiry
	}
	u, err := c.api.PresignedGetObject(ctx, c.config.Bucket, key, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// HealthStatus reports storage reachability for readiness checks.
type HealthStatus struct {
	Healthy      bool
	Latency      time.Duration
	BucketExists bool
	Error        string
}

func (c *MinIOClient) HealthCheck(ctx context.Context) *HealthStatus {
	start := time.Now()
	_, err := c.api.ListBuckets(ctx)
	status := &HealthStatus{
		Healthy: err == nil,
		Latency: time.Since(start),
	}
	if err != nil {
		status.Error = err.Error()
		return status
	}

	exists, err := c.api.BucketExists(ctx, c.config.Bucket)
	status.BucketExists = exists
	if err != nil || !exists {
		status.Healthy = false
		status.Error = "bucket " + c.config.Bucket + " missing"
	}
	return status
}

func (c *MinIOClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *MinIOClient) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
