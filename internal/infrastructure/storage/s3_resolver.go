package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	infraconfig "github.com/123shiju/ecommerce-client/internal/infrastructure/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3ImageResolver signs GET URLs for product images kept in an
// S3-compatible bucket (AWS S3, MinIO, RustFS).
type S3ImageResolver struct {
	presignClient     *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3ImageResolverOption is a functional option for configuring S3ImageResolver
type S3ImageResolverOption func(*S3ImageResolver)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3ImageResolverOption {
	return func(s *S3ImageResolver) {
		s.logger = logger
	}
}

// WithPresignExpiration sets how long signed URLs stay valid
func WithPresignExpiration(d time.Duration) S3ImageResolverOption {
	return func(s *S3ImageResolver) {
		s.presignExpiration = d
	}
}

// NewS3ImageResolver creates a resolver from the images configuration.
// No network call is made; signing is local.
func NewS3ImageResolver(cfg *infraconfig.ImagesConfig, opts ...S3ImageResolverOption) (*S3ImageResolver, error) {
	if cfg == nil {
		return nil, errors.New("images configuration is required")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("image bucket is required")
	}
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, errors.New("image bucket credentials are required")
	}

	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
		if cfg.S3Endpoint != "" {
			endpoint := cfg.S3Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	r := &S3ImageResolver{
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.S3Bucket,
		presignExpiration: cfg.PresignExpiry,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.presignExpiration <= 0 {
		r.presignExpiration = 15 * time.Minute
	}
	return r, nil
}

// ResolveImage signs a GET URL for the object key ref. Absolute URLs are
// returned unchanged.
func (r *S3ImageResolver) ResolveImage(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if isAbsolute(ref) {
		return ref, nil
	}

	req, err := r.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(strings.TrimLeft(ref, "/")),
	}, s3.WithPresignExpires(r.presignExpiration))
	if err != nil {
		r.logger.Warn("failed to sign image url", zap.String("key", ref), zap.Error(err))
		return "", fmt.Errorf("failed to sign image url: %w", err)
	}
	return req.URL, nil
}

// Bucket returns the configured bucket name
func (r *S3ImageResolver) Bucket() string {
	return r.bucket
}
