package mirror

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3ClientAPI is the interface for the AWS S3 client methods used by the mirror.
type S3ClientAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type service struct {
	client      S3ClientAPI
	bucket      string
	prefix      string
	parallelism int
	logger      *zap.Logger
}

// Service is the interface for mirroring release assets to S3.
type Service interface {
	Upload(ctx context.Context, version string, files []string) ([]string, error)
}
