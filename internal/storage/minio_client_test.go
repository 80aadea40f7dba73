package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockBucketClient struct {
	mock.Mock
}

func (m *MockBucketClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockBucketClient) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockBucketClient) SetBucketPolicy(ctx context.Context, bucketName, policy string) error {
	args := m.Called(ctx, bucketName, policy)
	return args.Error(0)
}

func TestEnsureBucketCreatesMissingBucket(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	client := new(MockBucketClient)
	policy := fmt.Sprintf(publicReadPolicy, "photos", PublicPrefix)
	client.On("BucketExists", mock.Anything, "photos").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "photos", minio.MakeBucketOptions{}).Return(nil)
	client.On("SetBucketPolicy", mock.Anything, "photos", policy).Return(nil)

	require.NoError(t, ensureBucket(context.Background(), client, "photos", zap.New(core)))

	client.AssertExpectations(t)
	entries := logs.FilterMessage("created bucket").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "photos", entries[0].ContextMap()["bucket"])
}

func TestEnsureBucketExisting(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	client := new(MockBucketClient)
	client.On("BucketExists", mock.Anything, "photos").Return(true, nil)
	client.On("SetBucketPolicy", mock.Anything, "photos", mock.Anything).Return(nil)

	require.NoError(t, ensureBucket(context.Background(), client, "photos", zap.New(core)))

	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, logs.Len())
}

func TestEnsureBucketError(t *testing.T) {
	client := new(MockBucketClient)
	client.On("BucketExists", mock.Anything, "photos").Return(false, assert.AnError)

	err := ensureBucket(context.Background(), client, "photos", zap.NewNop())
	assert.ErrorIs(t, err, assert.AnError)
	client.AssertNotCalled(t, "SetBucketPolicy", mock.Anything, mock.Anything, mock.Anything)
}
