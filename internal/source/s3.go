package source

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/inquiry-dashboard/internal/config"
	"github.com/ignite/inquiry-dashboard/internal/inquiry"
)

type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a CSV export that an office job uploads to S3.
type S3Source struct {
	client objectGetter
	bucket string
	key    string
}

// NewS3Source loads AWS credentials from static keys, a shared profile or the
// default chain, in that order.
func NewS3Source(ctx context.Context, cfg config.SourceConfig) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	switch {
	case cfg.AccessKey != "" && cfg.SecretKey != "":
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	case cfg.GetAWSProfile() != "":
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.GetAWSProfile()))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Source{client: s3.NewFromConfig(awsCfg), bucket: cfg.S3Bucket, key: cfg.S3Key}, nil
}

func (s *S3Source) Name() string { return fmt.Sprintf("s3://%s/%s", s.bucket, s.key) }

func (s *S3Source) FetchRows(ctx context.Context) ([]inquiry.RawRow, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("S3 GetObject %s/%s: %w", s.bucket, s.key, err)
	}
	defer resp.Body.Close()
	return readCSV(resp.Body)
}
