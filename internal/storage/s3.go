package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/iliyamo/lesson-booking/internal/config"
)

// objectPresigner is the part of s3.PresignClient used here.
type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var _ objectPresigner = (*s3.PresignClient)(nil)

// S3Images hands out short-lived GET URLs for objects in a bucket.
type S3Images struct {
	presigner objectPresigner
	bucket    string
	prefix    string
	ttl       time.Duration
}

// NewS3Images builds a presigning store from cfg. Static credentials are
// used when both keys are set, otherwise the default AWS chain applies.
func NewS3Images(ctx context.Context, cfg config.ImageConfig) (*S3Images, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Images(s3.NewPresignClient(client), cfg), nil
}

func newS3Images(p objectPresigner, cfg config.ImageConfig) *S3Images {
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &S3Images{presigner: p, bucket: cfg.Bucket, prefix: cfg.KeyPrefix, ttl: ttl}
}

// Resolve presigns a GET for prefix/name. Existence is not checked; a
// missing object surfaces as a 404 from the bucket.
func (s *S3Images) Resolve(ctx context.Context, name string) (Image, error) {
	clean, ok := cleanName(name)
	if !ok {
		return Image{}, ErrImageNotFound
	}
	key := clean
	if s.prefix != "" {
		key = s.prefix + "/" + clean
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.ttl
	})
	if err != nil {
		return Image{}, fmt.Errorf("presigning %s: %w", key, err)
	}
	return Image{URL: req.URL}, nil
}
