package config

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the S3 client and the dataset object location
type S3Config struct {
	Client *s3.Client
	Bucket string
	Key    string
}

// NewS3Config initializes the S3 client for the configured dataset object.
// Credentials and region resolve the usual AWS way (environment, shared
// config, instance role); AWS_REGION wins when set.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(os.Getenv("AWS_REGION")),
	)
	if err != nil {
		return nil, err
	}

	return &S3Config{
		Client: s3.NewFromConfig(awsCfg),
		Bucket: cfg.S3Bucket,
		Key:    cfg.S3Key,
	}, nil
}
