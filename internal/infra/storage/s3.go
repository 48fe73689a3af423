package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appconfig "github.com/phonica/phonica/internal/config"
)

// S3Store stages temp uploads on local disk (the prober reads them there) and
// promotes persisted assets into an S3 bucket.
type S3Store struct {
	local    *LocalStore
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

func NewS3Store(ctx context.Context, cfg *appconfig.Config) (*S3Store, error) {
	local, err := NewLocalStore(cfg.Storage.MaterialsDir, cfg.Storage.TempDir)
	if err != nil {
		return nil, err
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Storage.S3Region),
	}
	if cfg.Storage.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.S3AccessKey, cfg.Storage.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		local:    local,
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Storage.S3Bucket,
		prefix:   cfg.Storage.S3KeyPrefix,
	}, nil
}

func (s *S3Store) SaveTemp(ctx context.Context, tempID string, r io.Reader) (string, error) {
	return s.local.SaveTemp(ctx, tempID, r)
}

func (s *S3Store) TempPath(tempID string) string { return s.local.TempPath(tempID) }

func (s *S3Store) TempExists(tempID string) bool { return s.local.TempExists(tempID) }

func (s *S3Store) RemoveTemp(ctx context.Context, tempID string) error {
	return s.local.RemoveTemp(ctx, tempID)
}

func (s *S3Store) Promote(ctx context.Context, tempID string, finalBase string) (string, error) {
	src := s.local.TempPath(tempID)
	f, err := os.Open(src)
	if err != nil {
		return "", ErrTempMissing
	}

	key := path.Join(s.prefix, materialsPrefix, finalBase)
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}

	if err := os.Remove(src); err != nil {
		return "", err
	}
	return path.Join(materialsPrefix, finalBase), nil
}

func (s *S3Store) Remove(ctx context.Context, relPath string) error {
	key := path.Join(s.prefix, relPath)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
