package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path"

	"github.com/m-mizutani/goerr/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/utils/safe"
)

// S3 is a KVStore on any S3 compatible object storage
type S3 struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ interfaces.KVStore = &S3{}

// Config holds the connection settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string `masq:"secret"`
	Bucket    string
	Prefix    string
	Secure    bool
}

func New(cfg Config) (*S3, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, goerr.New("s3 endpoint and bucket are required",
			goerr.V("endpoint", cfg.Endpoint), goerr.V("bucket", cfg.Bucket))
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create s3 client", goerr.V("endpoint", cfg.Endpoint))
	}

	return &S3{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (s *S3) objectName(key string) string {
	return path.Join(s.prefix, key+".json")
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(interfaces.ErrKeyNotFound, "object not found in s3", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get object", goerr.V("key", key), goerr.V("bucket", s.bucket))
	}
	defer safe.Close(ctx, obj)

	value, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(interfaces.ErrKeyNotFound, "object not found in s3", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("key", key), goerr.V("bucket", s.bucket))
	}
	return value, nil
}

func (s *S3) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectName(key), bytes.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return goerr.Wrap(err, "failed to put object", goerr.V("key", key), goerr.V("bucket", s.bucket))
	}
	return nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, s.objectName(key), minio.RemoveObjectOptions{}); err != nil {
		return goerr.Wrap(err, "failed to remove object", goerr.V("key", key), goerr.V("bucket", s.bucket))
	}
	return nil
}

// Close is a no-op; the minio client holds no long-lived resources
func (s *S3) Close() error {
	return nil
}
