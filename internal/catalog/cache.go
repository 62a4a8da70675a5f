package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/natefinch/atomic"

	"github.com/ItIsUday/artron/internal/objstore"
)

// DefaultCacheFile is where the raw catalog is kept between runs.
const DefaultCacheFile = "exofop_toi.csv"

// Cache stores the raw catalog bytes verbatim.
type Cache interface {
	// Get returns the cached catalog. ok is false when nothing is cached.
	Get(ctx context.Context) (data []byte, ok bool, err error)
	// Put replaces the cached catalog.
	Put(ctx context.Context, data []byte) error
	// Location describes where the cache lives, for logs.
	Location() string
}

// FileCache keeps the catalog in a local file.
type FileCache struct {
	Path string
}

// NewFileCache returns a cache backed by path, or DefaultCacheFile if empty.
func NewFileCache(path string) *FileCache {
	if path == "" {
		path = DefaultCacheFile
	}
	return &FileCache{Path: path}
}

func (c *FileCache) Get(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(c.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache %s: %w", c.Path, err)
	}
	return data, true, nil
}

// Put writes the catalog atomically so an interrupted run never leaves a
// truncated cache behind.
func (c *FileCache) Put(_ context.Context, data []byte) error {
	if dir := filepath.Dir(c.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	if err := atomic.WriteFile(c.Path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write cache %s: %w", c.Path, err)
	}
	return nil
}

func (c *FileCache) Location() string { return c.Path }

// s3API is the subset of *s3.Client used by S3Cache.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Cache keeps the catalog as an object in an S3-compatible bucket, so
// several machines can share one cached copy.
type S3Cache struct {
	client s3API
	bucket string
	key    string
}

// NewS3Cache creates an S3 cache. If endpoint is non-empty, path-style
// addressing is enabled (for MinIO and similar).
func NewS3Cache(ctx context.Context, bucket, key, region, endpoint string) (*S3Cache, error) {
	client, err := objstore.NewS3Client(ctx, region, endpoint)
	if err != nil {
		return nil, err
	}
	return &S3Cache{
		client: client,
		bucket: bucket,
		key:    key,
	}, nil
}

func (c *S3Cache) Get(ctx context.Context) ([]byte, bool, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("s3 read object: %w", err)
	}
	return data, true, nil
}

func (c *S3Cache) Put(ctx context.Context, data []byte) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(c.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}

func (c *S3Cache) Location() string {
	return "s3://" + c.bucket + "/" + c.key
}
