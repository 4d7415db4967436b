package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/scenictrip/backend/internal/repository/ports"
)

func NewClient(endpoint, key, secret string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: useSSL,
	})
}

// Storage adapts a MinIO client to the ObjectStorage port. Uploaded objects
// are addressed by publicBaseURL when set, falling back to the endpoint the
// client was built with.
type Storage struct {
	client        *minio.Client
	publicBaseURL string
}

func NewStorage(client *minio.Client, publicBaseURL string) *Storage {
	return &Storage{
		client:        client,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *Storage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, objectName), nil
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), bucket, objectName), nil
}

var _ ports.ObjectStorage = (*Storage)(nil)
