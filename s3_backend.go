package salesbase

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Backend implements Backend using AWS S3 (or S3-compatible storage)
type S3Backend struct {
	client *s3.Client
	bucket string
}

// NewS3Backend creates a new S3 backend over an existing client
func NewS3Backend(client *s3.Client, bucket string) *S3Backend {
	return &S3Backend{
		client: client,
		bucket: bucket,
	}
}

// NewS3BackendFromConfig creates an S3 backend from a BackendConfig.
// With an Endpoint set it targets S3-compatible services (MinIO et al) using
// path-style addressing and static credentials from the environment;
// otherwise it uses the default AWS credential chain for the given Region.
func NewS3BackendFromConfig(ctx context.Context, cfg BackendConfig, accessKey, secretKey string) (*S3Backend, error) {
	if cfg.Endpoint != "" {
		client := s3.New(s3.Options{
			BaseEndpoint: aws.String(cfg.Endpoint),
			Region:       "us-east-1", // S3-compatible services don't enforce regions, but the SDK requires one
			Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
			UsePathStyle: true,
		})
		return NewS3Backend(client, cfg.Bucket), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, WithContext(ErrInvalidConfig, map[string]interface{}{
			"field":  "Region",
			"reason": err.Error(),
		})
	}
	return NewS3Backend(s3.NewFromConfig(awsCfg), cfg.Bucket), nil
}

// Get retrieves data for the given key from S3
func (b *S3Backend) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NoSuchKey") {
			return nil, ErrNotFound
		}
		if strings.Contains(err.Error(), "AccessDenied") {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	defer func() { _ = result.Body.Close() }() //nolint:errcheck // Deferred close

	return io.ReadAll(result.Body)
}

// Put stores data for the given key to S3
func (b *S3Backend) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	return err
}

// Delete removes the object at the given key from S3
func (b *S3Backend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	return err
}

// Exists checks if an object exists at the given key in S3
func (b *S3Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns all keys under the prefix, paginating through the bucket
func (b *S3Backend) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, WithContext(ErrStoreUnavailable, map[string]interface{}{
				"bucket": b.bucket,
				"prefix": prefix,
				"reason": err.Error(),
			})
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	// ListObjectsV2 already returns keys in ascending order, but the
	// Backend contract promises it, so don't depend on S3 for it.
	sort.Strings(keys)
	return keys, nil
}

// Ping verifies the bucket is reachable
func (b *S3Backend) Ping(ctx context.Context) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucket),
	})
	if err != nil {
		return WithContext(ErrStoreUnavailable, map[string]interface{}{
			"bucket": b.bucket,
			"reason": err.Error(),
		})
	}
	return nil
}

// Close is a no-op; the S3 client holds no persistent connections to clean up
func (b *S3Backend) Close() error {
	return nil
}
