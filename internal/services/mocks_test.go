package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"plant-gallery/internal/conversion"
	"plant-gallery/internal/metadata"
	"plant-gallery/internal/metrics"
	"plant-gallery/internal/models"
)

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) ObjectKey(filename string) string {
	return "public/1700000000000-" + filename
}

func (m *MockObjectStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) RemoveObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) Identify(ctx context.Context, upload models.Upload) (*models.Identification, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identification), args.Error(1)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Reverse(ctx context.Context, lat, lon float64) (*models.Location, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

type MockPhotoWriter struct {
	mock.Mock
}

func (m *MockPhotoWriter) CreatePhoto(ctx context.Context, photo *models.PhotoRecord) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

type stubExtractor struct {
	meta *metadata.Metadata
	err  error
}

func (s stubExtractor) Extract([]byte) (*metadata.Metadata, error) { return s.meta, s.err }

type ingestionFixture struct {
	svc        *IngestionService
	store      *MockObjectStore
	recognizer *MockRecognizer
	geocoder   *MockGeocoder
	repo       *MockPhotoWriter
}

func newIngestionFixture(t *testing.T, extractor MetadataExtractor) *ingestionFixture {
	t.Helper()
	f := &ingestionFixture{
		store:      new(MockObjectStore),
		recognizer: new(MockRecognizer),
		geocoder:   new(MockGeocoder),
		repo:       new(MockPhotoWriter),
	}
	f.svc = NewIngestionService(
		conversion.NewNormalizer(),
		extractor,
		f.store,
		f.recognizer,
		f.geocoder,
		f.repo,
		metrics.NewPipelineMetrics(prometheus.NewRegistry()),
		zap.NewNop(),
	)
	return f
}

func pngUpload(t *testing.T, name string) models.Upload {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 24))
	for x := 0; x < 32; x++ {
		img.Set(x, x%24, color.NRGBA{G: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return models.Upload{Filename: name, ContentType: "image/png", Data: buf.Bytes()}
}
