package services

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"plant-gallery/internal/conversion"
	"plant-gallery/internal/metadata"
	"plant-gallery/internal/metrics"
	"plant-gallery/internal/models"
)

// ImageNormalizer resizes and re-encodes uploads.
type ImageNormalizer interface {
	Normalize(data []byte, contentType string) (*conversion.Result, error)
}

// MetadataExtractor reads EXIF capture metadata.
type MetadataExtractor interface {
	Extract(data []byte) (*metadata.Metadata, error)
}

// ObjectStore persists normalized images and resolves their public URLs.
type ObjectStore interface {
	ObjectKey(filename string) string
	PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error)
	RemoveObject(ctx context.Context, key string) error
}

// Recognizer identifies the plant in an image.
type Recognizer interface {
	Identify(ctx context.Context, upload models.Upload) (*models.Identification, error)
}

// ReverseGeocoder resolves coordinates to place names.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*models.Location, error)
}

// PhotoWriter stores finished photo records.
type PhotoWriter interface {
	CreatePhoto(ctx context.Context, photo *models.PhotoRecord) error
}

// IngestResult is a successfully stored photo and the time each stage took.
type IngestResult struct {
	Record  *models.PhotoRecord
	Timings *metrics.StageTimings
}

// Response is the client-facing summary of the stored photo.
func (r *IngestResult) Response() models.IngestResponse {
	return models.IngestResponse{
		PhotoURL: r.Record.PhotoURL,
		Family:   r.Record.Family,
		Genus:    r.Record.Genus,
	}
}

// IngestionService runs one upload through validation, normalization,
// storage, recognition, optional location enrichment and persistence.
// Stages run sequentially and are never retried.
type IngestionService struct {
	Normalizer ImageNormalizer
	Extractor  MetadataExtractor
	Store      ObjectStore
	Recognizer Recognizer
	Geocoder   ReverseGeocoder
	Repo       PhotoWriter
	Metrics    *metrics.PipelineMetrics
	Logger     *zap.Logger

	// CleanupOrphans removes the stored object when a later stage fails.
	CleanupOrphans bool
}

// NewIngestionService creates a new IngestionService from its collaborators.
func NewIngestionService(
	normalizer ImageNormalizer,
	extractor MetadataExtractor,
	store ObjectStore,
	recognizer Recognizer,
	geocoder ReverseGeocoder,
	repo PhotoWriter,
	pm *metrics.PipelineMetrics,
	logger *zap.Logger,
) *IngestionService {
	return &IngestionService{
		Normalizer: normalizer,
		Extractor:  extractor,
		Store:      store,
		Recognizer: recognizer,
		Geocoder:   geocoder,
		Repo:       repo,
		Metrics:    pm,
		Logger:     logger,
	}
}

// ingestion carries the state of one run.
type ingestion struct {
	svc     *IngestionService
	upload  models.Upload
	stage   Stage
	timings *metrics.StageTimings
	log     *zap.Logger

	objectKey string
}

func (in *ingestion) enter(stage Stage) {
	in.stage = stage
	in.timings.Start(string(stage))
	in.log.Debug("entering stage", zap.String("stage", string(stage)))
}

func (in *ingestion) leave() {
	d := in.timings.End(string(in.stage))
	in.svc.Metrics.RecordStage(string(in.stage), d)
}

// fail moves the run into the failed state, compensating for stored objects
// when configured, and returns the classified error.
func (in *ingestion) fail(ctx context.Context, kind Kind, message string, cause error) error {
	failedIn := in.stage
	in.timings.End(string(failedIn))
	in.timings.Fail(string(failedIn))
	in.timings.Finalize()
	in.stage = StageFailed

	if in.objectKey != "" && failedIn.orphaning() {
		in.svc.handleOrphan(ctx, in.log, failedIn, in.objectKey)
	}

	in.svc.Metrics.RecordIngestion(metrics.OutcomeFailure, string(failedIn))
	err := newError(kind, failedIn, message, cause)

	fields := []zap.Field{
		zap.String("stage", string(failedIn)),
		zap.String("kind", kind.String()),
		zap.String("timings", in.timings.String()),
	}
	if kind == KindValidation {
		in.log.Info("upload rejected", append(fields, zap.String("reason", message))...)
	} else {
		in.log.Error("ingestion failed", append(fields, zap.Error(cause), zap.String("stack", fmt.Sprintf("%+v", err.Err)))...)
	}
	return err
}

// Ingest processes upload end to end. The returned error is always an *Error.
func (s *IngestionService) Ingest(ctx context.Context, upload models.Upload) (*IngestResult, error) {
	in := &ingestion{
		svc:     s,
		upload:  upload,
		timings: metrics.NewStageTimings(upload.Filename),
		log: s.Logger.With(
			zap.String("filename", upload.Filename),
			zap.String("content_type", upload.ContentType),
			zap.Int("size", len(upload.Data)),
		),
	}

	in.enter(StageValidating)
	if len(upload.Data) == 0 {
		return nil, in.fail(ctx, KindValidation, "No file provided", nil)
	}
	if !conversion.IsAllowedContentType(upload.ContentType) {
		return nil, in.fail(ctx, KindValidation, "Invalid file type. Only JPEG, PNG and WebP images are allowed", nil)
	}
	in.leave()

	in.enter(StageNormalizing)
	normalized, err := s.Normalizer.Normalize(upload.Data, upload.ContentType)
	if err != nil {
		if errors.Is(err, conversion.ErrUnsupportedType) {
			return nil, in.fail(ctx, KindValidation, "Invalid file type. Only JPEG, PNG and WebP images are allowed", err)
		}
		return nil, in.fail(ctx, KindUnknown, "Image processing failed", err)
	}
	s.Metrics.RecordNormalizedSize(len(normalized.Data))
	// EXIF does not survive re-encoding, read it from the original bytes
	meta, metaErr := s.extract(upload.Data)
	meta = settle(in.log, "metadata extraction", meta, metaErr)
	in.leave()

	in.enter(StageUploading)
	key := s.Store.ObjectKey(upload.Filename)
	photoURL, err := s.Store.PutObject(ctx, key, normalized.Data, conversion.OutputContentType)
	if err != nil {
		return nil, in.fail(ctx, KindUpstream, "Storage upload failed", err)
	}
	in.objectKey = key
	in.leave()

	in.enter(StageRecognizing)
	identification, err := s.Recognizer.Identify(ctx, upload)
	if err != nil {
		return nil, in.fail(ctx, KindUpstream, "Plant recognition failed", err)
	}
	in.leave()

	record := &models.PhotoRecord{
		PhotoURL: photoURL,
		Family:   identification.Family,
		Genus:    identification.Genus,
	}
	if meta != nil {
		record.DateTaken = meta.DateTaken
	}

	if meta != nil && meta.GPS != nil {
		in.enter(StageEnrichingLocation)
		lat, lon := meta.GPS.Decimal()
		record.Latitude, record.Longitude = &lat, &lon
		loc, geoErr := s.reverse(ctx, lat, lon)
		if loc = settle(in.log, "reverse geocoding", loc, geoErr); loc != nil {
			record.Location = *loc
		}
		in.leave()
	}

	in.enter(StagePersisting)
	if err := s.Repo.CreatePhoto(ctx, record); err != nil {
		return nil, in.fail(ctx, KindPersistence, "Saving photo record failed", err)
	}
	in.leave()

	in.stage = StageDone
	in.timings.Finalize()
	s.Metrics.RecordIngestion(metrics.OutcomeSuccess, string(StageDone))
	in.log.Info("photo ingested",
		zap.String("photo_id", record.ID.String()),
		zap.String("photo_url", record.PhotoURL),
		zap.String("family", record.Family),
		zap.String("genus", record.Genus),
		zap.Float64("score", identification.Score),
		zap.Bool("located", record.Latitude != nil),
		zap.String("timings", in.timings.String()),
	)

	return &IngestResult{Record: record, Timings: in.timings}, nil
}

func (s *IngestionService) extract(data []byte) (*metadata.Metadata, error) {
	if s.Extractor == nil {
		return nil, errors.New("no metadata extractor configured")
	}
	return s.Extractor.Extract(data)
}

func (s *IngestionService) reverse(ctx context.Context, lat, lon float64) (*models.Location, error) {
	if s.Geocoder == nil {
		return nil, errors.New("no geocoder configured")
	}
	return s.Geocoder.Reverse(ctx, lat, lon)
}

func (s *IngestionService) handleOrphan(ctx context.Context, log *zap.Logger, stage Stage, key string) {
	cleaned := false
	if s.CleanupOrphans {
		// the request context may already be canceled
		if err := s.Store.RemoveObject(context.WithoutCancel(ctx), key); err != nil {
			log.Warn("could not remove orphaned object", zap.String("object_key", key), zap.Error(err))
		} else {
			cleaned = true
		}
	}
	s.Metrics.RecordOrphan(string(stage), cleaned)
	log.Warn("stored object has no photo record",
		zap.String("object_key", key),
		zap.String("stage", string(stage)),
		zap.Bool("cleaned", cleaned),
	)
}

// settle folds a best-effort step: errors are logged and become nil.
func settle[T any](log *zap.Logger, step string, v *T, err error) *T {
	if err != nil {
		log.Debug(step+" skipped", zap.Error(err))
		return nil
	}
	return v
}
