package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Archiver uploads generated documents to a Cloudflare R2 bucket over the
// S3 API. Uploads are best-effort; callers log and continue on failure.
type R2Archiver struct {
	client *s3.Client
	bucket string
}

// R2Config carries the R2 connection settings.
type R2Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
}

// NewR2Archiver builds an archiver, or returns nil when R2 is not configured.
func NewR2Archiver(ctx context.Context, cfg R2Config) (*R2Archiver, error) {
	if cfg.AccessKey == "" || cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, nil
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config failed: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
	})

	return &R2Archiver{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads a document under the given key.
func (a *R2Archiver) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("r2 upload failed: %w", err)
	}
	return nil
}
