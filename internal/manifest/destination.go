package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/natefinch/atomic"

	"github.com/ItIsUday/artron/internal/objstore"
)

// Destination receives a rendered manifest.
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
	// String names the destination for logs.
	String() string
}

// Deliver writes data to every destination. A failing destination does not
// stop the others; all failures are returned together.
func Deliver(ctx context.Context, data []byte, dests ...Destination) error {
	var errs []error
	for _, d := range dests {
		if err := d.Write(ctx, data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d, err))
		}
	}
	return errors.Join(errs...)
}

// WriterDestination copies the manifest to an io.Writer such as stdout.
type WriterDestination struct {
	W    io.Writer
	Name string
}

func (d *WriterDestination) Write(_ context.Context, data []byte) error {
	_, err := d.W.Write(data)
	return err
}

func (d *WriterDestination) String() string {
	if d.Name == "" {
		return "writer"
	}
	return d.Name
}

// FileDestination writes the manifest to a local file, replacing it atomically.
type FileDestination struct {
	Path string
}

func (d *FileDestination) Write(_ context.Context, data []byte) error {
	if dir := filepath.Dir(d.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create manifest dir: %w", err)
		}
	}
	if err := atomic.WriteFile(d.Path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func (d *FileDestination) String() string { return d.Path }

// s3Putter is the subset of *s3.Client used by S3Destination.
type s3Putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Destination writes the manifest to an S3-compatible bucket.
type S3Destination struct {
	client s3Putter
	bucket string
	key    string
}

// NewS3Destination creates an S3 destination. If endpoint is non-empty,
// path-style addressing is enabled (for MinIO and similar).
func NewS3Destination(ctx context.Context, bucket, key, region, endpoint string) (*S3Destination, error) {
	client, err := objstore.NewS3Client(ctx, region, endpoint)
	if err != nil {
		return nil, err
	}
	return &S3Destination{
		client: client,
		bucket: bucket,
		key:    key,
	}, nil
}

// Write uploads data as the configured object key.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(d.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}

func (d *S3Destination) String() string {
	return "s3://" + d.bucket + "/" + d.key
}

// ParseS3URL splits "s3://bucket/key" into its parts. ok is false for any
// other form, including a URL with no key.
func ParseS3URL(s string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(s, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
