package store

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AvatarStore keeps uploaded avatar images in a MinIO bucket.
type AvatarStore struct {
	client *minio.Client
	bucket string
}

// NewAvatarStore connects to MinIO and creates bucket if it is missing.
func NewAvatarStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*AvatarStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &AvatarStore{client: client, bucket: bucket}, nil
}

// Upload stores the image under key, replacing any previous object.
func (s *AvatarStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=300",
	})
	if err != nil {
		return fmt.Errorf("minio put %s: %w", key, err)
	}
	return nil
}

// Download opens the object for streaming. The caller closes the reader.
func (s *AvatarStore) Download(ctx context.Context, key string) (io.ReadCloser, int64, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, "", fmt.Errorf("minio get %s: %w", key, err)
	}

	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, 0, "", ErrNotFound
		}
		return nil, 0, "", fmt.Errorf("minio stat %s: %w", key, err)
	}
	return obj, info.Size, info.ContentType, nil
}

// Remove deletes the object. Removing a missing key is not an error.
func (s *AvatarStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
