package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"plant-gallery/internal/config"
)

// PublicPrefix is the key prefix readable without credentials.
const PublicPrefix = "public/"

const publicReadPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/%s*"]
  }]
}`

// bucketAPI is the subset of *minio.Client used to prepare the bucket.
type bucketAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucketName, policy string) error
}

// NewMinioClient initializes a MinIO client, ensures the bucket exists and
// that objects under PublicPrefix are anonymously readable.
func NewMinioClient(cfg *config.Config, logger *zap.Logger) (*minio.Client, error) {
	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSSL,
	})
	if err != nil {
		return nil, err
	}
	if err := ensureBucket(context.Background(), minioClient, cfg.MinioBucket, logger); err != nil {
		return nil, err
	}
	return minioClient, nil
}

func ensureBucket(ctx context.Context, client bucketAPI, bucket string, logger *zap.Logger) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: ""}); err != nil {
			return err
		}
		logger.Info("created bucket", zap.String("bucket", bucket))
	}
	policy := fmt.Sprintf(publicReadPolicy, bucket, PublicPrefix)
	return client.SetBucketPolicy(ctx, bucket, policy)
}
