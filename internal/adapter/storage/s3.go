package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/remedyhub/internal/domain"
)

// S3Presigner issues presigned PUT URLs for contribution images.
type S3Presigner struct {
	presign *s3.PresignClient
	bucket  string
	clock   clockwork.Clock
}

var _ domain.UploadPresigner = (*S3Presigner)(nil)

// NewS3Presigner loads AWS credentials from the default chain (environment,
// shared config, instance role).
func NewS3Presigner(ctx context.Context, bucket, region string, clock clockwork.Clock) (*S3Presigner, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3PresignerFromClient(s3.NewFromConfig(cfg), bucket, clock), nil
}

func NewS3PresignerFromClient(client *s3.Client, bucket string, clock clockwork.Clock) *S3Presigner {
	return &S3Presigner{
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		clock:   clock,
	}
}

func (p *S3Presigner) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (*domain.UploadURL, error) {
	now := p.clock.Now()
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &domain.UploadURL{
		URL:       req.URL,
		Method:    req.Method,
		Key:       key,
		ExpiresAt: now.Add(ttl),
	}, nil
}
