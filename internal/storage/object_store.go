package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// minioAPI is the subset of *minio.Client the object store needs.
type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ObjectStore writes normalized photos into a bucket and hands out their public URLs.
type ObjectStore struct {
	client     minioAPI
	bucketName string
	publicBase string
	now        func() time.Time
	newID      func() string
}

// NewObjectStore wraps a MinIO client. publicBase is the externally reachable
// storage origin, e.g. https://cdn.example.com.
func NewObjectStore(client minioAPI, bucketName, publicBase string) *ObjectStore {
	return &ObjectStore{
		client:     client,
		bucketName: bucketName,
		publicBase: strings.TrimRight(publicBase, "/"),
		now:        time.Now,
		newID:      shortID,
	}
}

// ObjectKey builds a key from the upload's original name. The random segment
// keeps same-named uploads within one millisecond apart.
func (s *ObjectStore) ObjectKey(filename string) string {
	return fmt.Sprintf("%s%d-%s-%s", PublicPrefix, s.now().UnixMilli(), s.newID(), SanitizeFilename(filename))
}

func shortID() string {
	return uuid.NewString()[:8]
}

// SanitizeFilename replaces every whitespace run with a single underscore.
func SanitizeFilename(filename string) string {
	return whitespaceRun.ReplaceAllString(filename, "_")
}

// PublicURL returns the anonymous URL of key.
func (s *ObjectStore) PublicURL(key string) string {
	return s.publicBase + "/" + url.PathEscape(s.bucketName) + "/" + escapeKey(key)
}

// PutObject stores data under key and returns its public URL.
func (s *ObjectStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload to MinIO")
	}
	return s.PublicURL(key), nil
}

// RemoveObject deletes key from the bucket.
func (s *ObjectStore) RemoveObject(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, "failed to remove from MinIO")
	}
	return nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
