// Package mirror copies release assets to an S3 bucket.
package mirror

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/thirukguru/release-cutter/shared/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultParallelism = 4

// NewService creates an S3 mirror for bucket/prefix.
func NewService(cfg aws.Config, bucket, prefix string, l *zap.Logger) Service {
	return newWithClient(s3.NewFromConfig(cfg), bucket, prefix, l)
}

func newWithClient(client S3ClientAPI, bucket, prefix string, l *zap.Logger) *service {
	return &service{
		client:      client,
		bucket:      bucket,
		prefix:      strings.Trim(prefix, "/"),
		parallelism: defaultParallelism,
		logger:      logger.OrNop(l),
	}
}

// ObjectKey returns the key an asset is stored under.
func ObjectKey(prefix, version, file string) string {
	v := "v" + strings.TrimPrefix(version, "v")
	return path.Join(strings.Trim(prefix, "/"), v, filepath.Base(file))
}

// Upload puts every file under <prefix>/v<version>/ and returns the s3:// URIs in input order.
func (s *service) Upload(ctx context.Context, version string, files []string) ([]string, error) {
	if s.bucket == "" {
		return nil, fmt.Errorf("mirror bucket is not configured")
	}
	locations := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, file := range files {
		g.Go(func() error {
			key := ObjectKey(s.prefix, version, file)
			if err := s.put(gctx, file, key); err != nil {
				return fmt.Errorf("failed to upload %s to s3://%s/%s: %w", file, s.bucket, key, err)
			}
			locations[i] = fmt.Sprintf("s3://%s/%s", s.bucket, key)
			s.logger.Info("asset mirrored", zap.String("location", locations[i]))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return locations, nil
}

func (s *service) put(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:            aws.String(s.bucket),
		Key:               aws.String(key),
		Body:              f,
		ContentLength:     aws.Int64(info.Size()),
		ContentType:       aws.String(contentType(file)),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
	})
	return err
}

func contentType(file string) string {
	switch {
	case strings.HasSuffix(file, ".tar.gz"), strings.HasSuffix(file, ".tgz"):
		return "application/gzip"
	case strings.HasSuffix(file, ".md"):
		return "text/markdown; charset=utf-8"
	case strings.HasSuffix(file, ".txt"):
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
