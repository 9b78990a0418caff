package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/metdatasystem/chprotolist/internal/config"
	"github.com/metdatasystem/chprotolist/internal/payload"
	"github.com/rs/zerolog/log"
)

// S3 uploads each payload as its own object, readable by the ClickHouse s3
// table function.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
	now    func() time.Time
}

func NewS3(ctx context.Context, cfg config.S3) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3_BUCKET is not set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &S3{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		now:    time.Now,
	}, nil
}

func objectKey(prefix string, format payload.Format, t time.Time) string {
	name := fmt.Sprintf("%d.%s.bin", t.UnixNano(), strings.ToLower(format.String()))
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func (s *S3) Write(ctx context.Context, p payload.Payload) error {
	key := objectKey(s.prefix, p.Format, s.now())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(p.Data),
		ContentType: aws.String(p.Format.ContentType()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Debug().Str("bucket", s.bucket).Str("key", key).Msg("uploaded payload")
	return nil
}

func (s *S3) Close() error { return nil }
