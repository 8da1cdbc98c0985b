// pkg/store/s3.go
package store

import (
	"context"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3Options configures the S3-compatible backend (R2 in production).
type S3Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Secure    bool
}

type s3Store struct {
	cli    *minio.Client
	bucket string
	log    *zap.SugaredLogger
}

func NewS3Store(opts S3Options, log *zap.SugaredLogger) (Store, error) {
	cli, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}
	log.Infow("s3 store ready", "endpoint", opts.Endpoint, "bucket", opts.Bucket)
	return &s3Store{cli: cli, bucket: opts.Bucket, log: log}, nil
}

// Get stats first so the size is known before any body byte is read, then
// opens a lazy object reader that streams on demand.
func (s *s3Store) Get(ctx context.Context, key string) (Object, error) {
	stat, err := s.cli.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.StatusCode == http.StatusNotFound {
			return Object{}, ErrNotFound
		}
		return Object{}, err
	}
	obj, err := s.cli.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Object{}, err
	}
	return Object{Body: obj, Size: stat.Size}, nil
}
