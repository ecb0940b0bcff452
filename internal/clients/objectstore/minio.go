package objectstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
)

const defaultRegion = "us-east-1"

// MinioConfig configures the MinIO client
type MinioConfig struct {
	// Endpoint is host:port without scheme
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
}

// Validate validates the config
func (cfg *MinioConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Endpoint == "" {
		vb.RequiredField("Endpoint")
	}
	if cfg.Bucket == "" {
		vb.RequiredField("Bucket")
	}
	return vb.Build()
}

type minioClient struct {
	client *minio.Client
	bucket string
	region string

	mu          sync.Mutex
	bucketReady bool
}

// NewMinio creates a Client backed by MinIO or any S3-compatible endpoint
func NewMinio(cfg *MinioConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create minio client")
	}

	return &minioClient{client: client, bucket: cfg.Bucket, region: region}, nil
}

// ensureBucket creates the bucket on first use
func (c *minioClient) ensureBucket(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bucketReady {
		return nil
	}

	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to check bucket existence")
	}
	if !exists {
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
			return errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to create bucket %s", c.bucket)
		}
	}
	c.bucketReady = true
	return nil
}

func (c *minioClient) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	if err := c.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.Wrapf(err, "put object %s failed", key)
	}
	return nil
}

func (c *minioClient) GetObject(ctx context.Context, key string) ([]byte, error) {
	reader, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.mapError(err, key)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, c.mapError(err, key)
	}
	return data, nil
}

func (c *minioClient) DeleteObject(ctx context.Context, key string) error {
	err := c.client.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return errors.Wrapf(err, "delete object %s failed", key)
	}
	return nil
}

func (c *minioClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}

	var objects []ObjectInfo
	for object := range c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, errors.Wrap(object.Err, "list objects failed")
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			LastModified: object.LastModified,
			Size:         object.Size,
		})
	}
	return objects, nil
}

func (c *minioClient) mapError(err error, key string) error {
	if isNoSuchKey(err) {
		return errors.NotFoundf("object %s not found", key)
	}
	return errors.Wrapf(err, "get object %s failed", key)
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
