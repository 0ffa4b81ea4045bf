package store

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/mealprepai/backend/internal/model"
)

// ObjectGetter is the slice of the S3 client API the source depends on.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source serves the dataset from a JSON object in an S3 bucket.
type S3Source struct {
	client ObjectGetter
	bucket string
	key    string
}

// NewS3Source creates a source reading the given bucket/key on every Load.
func NewS3Source(client ObjectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// Load fetches and normalizes the dataset object.
func (s *S3Source) Load(ctx context.Context) ([]model.Recipe, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipe dataset from s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe dataset object: %w", err)
	}
	return DecodeRecipes(data)
}
