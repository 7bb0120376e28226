package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Settings locate a JSON price document in an S3-compatible bucket.
// Endpoint and the static keys are optional; without keys the default AWS
// credential chain is used.
type S3Settings struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type getObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) getObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Source reads the price document from S3 on every call.
type S3Source struct {
	client  getObjectAPI
	bucket  string
	key     string
	timeout time.Duration
}

func NewS3Source(ctx context.Context, s S3Settings, timeout time.Duration) (*S3Source, error) {
	if s.Bucket == "" || s.Key == "" {
		return nil, fmt.Errorf("s3 price source: bucket and key are required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(s.Region)}
	if s.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Source{client: client, bucket: s.Bucket, key: s.Key, timeout: timeout}, nil
}

func (s *S3Source) Price(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return 0, fmt.Errorf("get price object: %w", err)
	}
	defer out.Body.Close()

	return decodePrice(out.Body)
}
