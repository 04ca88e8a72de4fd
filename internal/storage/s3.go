package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"shopapi/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI is the subset of the S3 client used by S3Store.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images in a bucket under images/<kind>/<name>.
type S3Store struct {
	client ObjectAPI
	bucket string
}

// NewS3Store wraps an existing client.
func NewS3Store(client ObjectAPI, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// NewS3StoreFromConfig builds an S3 client from cfg. Static credentials are
// used when both keys are set, otherwise the default AWS chain applies. A
// custom endpoint switches to path-style addressing for S3-compatible
// servers such as MinIO.
func NewS3StoreFromConfig(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Store(client, cfg.Bucket), nil
}

func objectKey(kind Kind, name string) string {
	return path.Join("images", string(kind), name)
}

// Save uploads r as the named object.
func (s *S3Store) Save(ctx context.Context, kind Kind, name string, r io.Reader) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(kind, name)),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("failed to upload image %s: %w", name, err)
	}
	return nil
}

// Remove deletes the named object.
func (s *S3Store) Remove(ctx context.Context, kind Kind, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(kind, name)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", name, err)
	}
	return nil
}
