// Package miniostorage provides structure to work with minio-storage
package miniostorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/config"
)

type MinioImageStorage struct {
	bucket    string
	publicURL string
	client    *minio.Client
}

func NewMinioClient(cfg *config.Config) (*MinioImageStorage, error) {
	bucket := cfg.GetString("BUCKET_NAME")

	if bucket == "" {
		bucket = "gambar"
		log.Printf("Bucket name is empty. Using default value %q...", bucket)
	}

	user := cfg.GetString("MINIO_USER")
	pass := cfg.GetString("MINIO_PASS")
	addr := cfg.GetString("MINIO_CONTAINER_NAME")

	strg, err := minio.New(addr+":9000", &minio.Options{
		Creds:  credentials.NewStaticV4(user, pass, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}

	// bucket must exist and be world-readable - the service hands out plain URLs
	if err := ensurePublicBucket(context.Background(), strg, bucket); err != nil {
		log.Println("Failed to prepare bucket in MinIO:", err)
		return nil, err
	}

	// base for composing object URLs; behind a proxy it differs from the minio addr
	publicURL := strings.TrimSuffix(cfg.GetString("PUBLIC_URL"), "/")
	if publicURL == "" {
		publicURL = "http://" + addr + ":9000"
	}

	return &MinioImageStorage{bucket: bucket, publicURL: publicURL, client: strg}, nil
}

// Upload stores the object and returns its public retrieval URL.
func (s *MinioImageStorage) Upload(ctx context.Context, key string, size int64, contentType string, r io.Reader) (string, error) {
	if r == nil {
		return "", errors.New("nil reader passed to storage.Upload")
	}

	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}

func (s *MinioImageStorage) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// ListKeys returns keys under prefix last modified before cutoff.
func (s *MinioImageStorage) ListKeys(ctx context.Context, prefix string, cutoff time.Time) ([]string, error) {
	var keys []string

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if obj.LastModified.Before(cutoff) {
			keys = append(keys, obj.Key)
		}
	}

	return keys, nil
}

func ensurePublicBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, bucket)

	return client.SetBucketPolicy(ctx, bucket, policy)
}
