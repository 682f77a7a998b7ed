package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ImageStore writes images to an S3 compatible bucket (AWS, R2, MinIO).
type S3ImageStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func CreateS3ImageStore(ctx context.Context, bucket, region, endpoint, accessKeyID, secretAccessKey, publicURL string) (*S3ImageStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 storage needs a bucket")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3ImageStore{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *S3ImageStore) Save(ctx context.Context, folder, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(folder + "/" + name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", folder, name, err)
	}

	return nil
}

func (s *S3ImageStore) URL(folder, name string) string {
	return publicURL(s.publicURL, folder, name)
}
