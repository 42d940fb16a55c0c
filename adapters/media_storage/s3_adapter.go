package media_storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/khoahotran/portfolio-api/internal/application/service"
	"github.com/khoahotran/portfolio-api/internal/config"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

type s3Adapter struct {
	client *s3.Client
	bucket string
}

func NewS3Adapter(cfg config.Config, log logger.Logger) (service.AssetStore, error) {
	if cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket has not config")
	}

	awsCfg := aws.Config{
		Region:      cfg.S3.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
		o.UsePathStyle = true
	})

	log.Info("connect S3 successfully.")
	return &s3Adapter{client: client, bucket: cfg.S3.Bucket}, nil
}

func (a *s3Adapter) Store(ctx context.Context, path string, file io.Reader) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(path),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

func (a *s3Adapter) Delete(ctx context.Context, path string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
