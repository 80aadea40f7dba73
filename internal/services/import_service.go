package services

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"plant-gallery/internal/extraction"
	"plant-gallery/internal/metrics"
	"plant-gallery/internal/models"
)

// Ingestor runs a single upload through the pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, upload models.Upload) (*IngestResult, error)
}

// ImportService feeds the images of a local archive through the ingestion
// pipeline one at a time.
type ImportService struct {
	Ingestor Ingestor
	Logger   *zap.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(ingestor Ingestor, logger *zap.Logger) *ImportService {
	return &ImportService{Ingestor: ingestor, Logger: logger}
}

// ImportArchive extracts archivePath and ingests every image entry. A failed
// entry is recorded in the summary and does not stop the import; only
// extraction problems and cancellation abort it.
func (s *ImportService) ImportArchive(ctx context.Context, archivePath string) (*metrics.ImportSummary, error) {
	summary := metrics.NewImportSummary()
	defer summary.Finalize()

	files, dir, err := extraction.ExtractArchive(ctx, archivePath)
	if err != nil {
		return summary, errors.Wrap(err, "failed to extract archive")
	}
	defer os.RemoveAll(dir)

	log := s.Logger.With(zap.String("archive", archivePath))
	log.Info("importing archive", zap.Int("entries", len(files)))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		rel, _ := filepath.Rel(dir, path)
		contentType := extraction.DetectContentType(path)
		if extraction.ShouldIgnoreFile(rel) || contentType == "" {
			log.Debug("skipping entry", zap.String("entry", rel))
			summary.Skipped()
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			summary.Failed(rel, err)
			log.Warn("could not read entry", zap.String("entry", rel), zap.Error(err))
			continue
		}

		res, err := s.Ingestor.Ingest(ctx, models.Upload{
			Filename:    filepath.Base(path),
			ContentType: contentType,
			Data:        data,
		})
		if err != nil {
			summary.Failed(rel, err)
			continue
		}
		summary.Succeeded(int64(len(data)))
		log.Info("entry imported",
			zap.String("entry", rel),
			zap.String("family", res.Record.Family),
			zap.String("genus", res.Record.Genus),
		)
	}
	return summary, nil
}
