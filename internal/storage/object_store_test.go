package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMinioClient struct {
	mock.Mock
}

func (m *MockMinioClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockMinioClient) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Error(0)
}

func fixedStore(client minioAPI) *ObjectStore {
	s := NewObjectStore(client, "photos", "https://storage.example.com/")
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	s.newID = func() string { return "a1b2c3d4" }
	return s
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_fern.jpg", SanitizeFilename("my fern.jpg"))
	assert.Equal(t, "a_b_c.png", SanitizeFilename("a \t b\n\nc.png"))
	assert.Equal(t, "plain.webp", SanitizeFilename("plain.webp"))
}

func TestObjectKey(t *testing.T) {
	s := fixedStore(new(MockMinioClient))
	assert.Equal(t, "public/1700000000123-a1b2c3d4-monstera_leaf.jpg", s.ObjectKey("monstera  leaf.jpg"))
}

func TestObjectKeySameNameSameMillisecond(t *testing.T) {
	s := NewObjectStore(new(MockMinioClient), "photos", "https://storage.example.com")
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }

	first := s.ObjectKey("image.jpg")
	second := s.ObjectKey("image.jpg")
	assert.NotEqual(t, first, second)
	assert.Regexp(t, `^public/1700000000123-[0-9a-f]{8}-image\.jpg$`, first)
	assert.Regexp(t, `^public/1700000000123-[0-9a-f]{8}-image\.jpg$`, second)
}

func TestPublicURL(t *testing.T) {
	s := fixedStore(new(MockMinioClient))
	assert.Equal(t,
		"https://storage.example.com/photos/public/1700000000123-fern.jpg",
		s.PublicURL("public/1700000000123-fern.jpg"))
	assert.Equal(t,
		"https://storage.example.com/photos/public/1-caf%C3%A9%3F.jpg",
		s.PublicURL("public/1-café?.jpg"))
}

func TestPutObject(t *testing.T) {
	client := new(MockMinioClient)
	s := fixedStore(client)
	data := []byte("jpeg bytes")

	client.On("PutObject", mock.Anything, "photos", "public/1-a.jpg", mock.Anything, int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/jpeg"}).
		Return(minio.UploadInfo{Key: "public/1-a.jpg"}, nil)

	url, err := s.PutObject(context.Background(), "public/1-a.jpg", data, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/photos/public/1-a.jpg", url)
	client.AssertExpectations(t)
}

func TestPutObjectError(t *testing.T) {
	client := new(MockMinioClient)
	s := fixedStore(client)

	client.On("PutObject", mock.Anything, "photos", "public/1-a.jpg", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection refused"))

	url, err := s.PutObject(context.Background(), "public/1-a.jpg", []byte("x"), "image/jpeg")
	assert.Empty(t, url)
	assert.ErrorContains(t, err, "failed to upload to MinIO")
}

func TestRemoveObject(t *testing.T) {
	client := new(MockMinioClient)
	s := fixedStore(client)

	client.On("RemoveObject", mock.Anything, "photos", "public/1-a.jpg", minio.RemoveObjectOptions{}).Return(nil)

	require.NoError(t, s.RemoveObject(context.Background(), "public/1-a.jpg"))
	client.AssertExpectations(t)
}
