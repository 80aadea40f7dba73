package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"plant-gallery/internal/models"
	"plant-gallery/internal/repository"
)

const (
	DefaultFamiliesLimit = 20
	MaxPageLimit         = 100
	// maxFamilyQueries bounds concurrent per-family lookups.
	maxFamilyQueries = 8
)

// PhotoReader is the read side of the photo repository.
type PhotoReader interface {
	ListPhotos(ctx context.Context, opts repository.ListOptions) ([]models.PhotoRecord, error)
	LatestByFamily(ctx context.Context, family string, limit int) ([]models.PhotoRecord, error)
	CountPhotos(ctx context.Context) (models.PhotoCounts, error)
}

// FamilyReader lists the plant family reference collection.
type FamilyReader interface {
	ListFamilies(ctx context.Context, offset, limit int) ([]models.PlantFamilyEntry, int64, error)
}

// ListRequest describes a listing as sent by a client. Zero values select defaults.
type ListRequest struct {
	Page      int
	Limit     int
	SortField string
	SortOrder string
}

// GalleryService answers the read-only gallery queries.
type GalleryService struct {
	Photos          PhotoReader
	Families        FamilyReader
	PageSize        int
	LatestPerFamily int
	Logger          *zap.Logger
}

// NewGalleryService creates a new GalleryService.
func NewGalleryService(photos PhotoReader, families FamilyReader, pageSize, latestPerFamily int, logger *zap.Logger) *GalleryService {
	return &GalleryService{
		Photos:          photos,
		Families:        families,
		PageSize:        pageSize,
		LatestPerFamily: latestPerFamily,
		Logger:          logger,
	}
}

// ListPhotos returns one page of photos, newest first unless another sort is
// requested. Pages past the end are empty, not an error.
func (s *GalleryService) ListPhotos(ctx context.Context, req ListRequest) ([]models.PhotoRecord, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Page < 1 {
		return nil, ValidationError("page must be a positive integer")
	}
	limit, err := resolveLimit(req.Limit, s.PageSize)
	if err != nil {
		return nil, err
	}
	column, desc, err := resolveSort(req.SortField, req.SortOrder, repository.ColumnCreatedAt)
	if err != nil {
		return nil, err
	}

	photos, err := s.Photos.ListPhotos(ctx, repository.ListOptions{
		Offset:     (req.Page - 1) * limit,
		Limit:      limit,
		SortColumn: column,
		Descending: desc,
	})
	if err != nil {
		return nil, newError(KindPersistence, "", "Failed to fetch photos", err)
	}
	return photos, nil
}

// ListCatalog returns every photo, by family name ascending unless another
// sort is requested.
func (s *GalleryService) ListCatalog(ctx context.Context, sortField, sortOrder string) ([]models.PhotoRecord, error) {
	column, desc, err := resolveSort(sortField, sortOrder, repository.ColumnFamily)
	if err != nil {
		return nil, err
	}
	photos, err := s.Photos.ListPhotos(ctx, repository.ListOptions{SortColumn: column, Descending: desc})
	if err != nil {
		return nil, newError(KindPersistence, "", "Failed to fetch photos", err)
	}
	return photos, nil
}

// LatestByFamilies returns the newest photos of each family, one entry per
// requested family in request order. Families without photos get an empty list.
func (s *GalleryService) LatestByFamilies(ctx context.Context, families []string) ([]models.FamilyPhotos, error) {
	requested := make([]string, 0, len(families))
	for _, f := range families {
		if f = strings.TrimSpace(f); f != "" {
			requested = append(requested, f)
		}
	}
	if len(requested) == 0 {
		return nil, ValidationError("At least one family parameter is required")
	}

	s.Logger.Debug("fetching latest photos by family",
		zap.Strings("families", requested), zap.Int("per_family", s.LatestPerFamily))

	results := make([]models.FamilyPhotos, len(requested))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFamilyQueries)
	for i, family := range requested {
		g.Go(func() error {
			photos, err := s.Photos.LatestByFamily(gctx, family, s.LatestPerFamily)
			if err != nil {
				return err
			}
			previews := make([]models.PhotoPreview, 0, len(photos))
			for _, p := range photos {
				previews = append(previews, models.PhotoPreview{PhotoURL: p.PhotoURL, CreatedAt: p.CreatedAt})
			}
			results[i] = models.FamilyPhotos{Family: family, Photos: previews}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, newError(KindPersistence, "", "Failed to fetch latest photos", err)
	}
	return results, nil
}

// LatestPhotoURL returns the URL of the newest photo of family.
func (s *GalleryService) LatestPhotoURL(ctx context.Context, family string) (string, error) {
	family = strings.TrimSpace(family)
	if family == "" {
		return "", ValidationError("family is required")
	}
	photos, err := s.Photos.LatestByFamily(ctx, family, 1)
	if err != nil {
		return "", newError(KindPersistence, "", "Failed to fetch latest photo", err)
	}
	if len(photos) == 0 {
		return "", NotFoundError("No photo found for family " + family)
	}
	return photos[0].PhotoURL, nil
}

// Counts returns the distinct family and genus counts and the total.
func (s *GalleryService) Counts(ctx context.Context) (models.PhotoCounts, error) {
	counts, err := s.Photos.CountPhotos(ctx)
	if err != nil {
		return models.PhotoCounts{}, newError(KindPersistence, "", "Failed to count photos", err)
	}
	return counts, nil
}

// ListFamilies returns one page of the plant family reference list.
func (s *GalleryService) ListFamilies(ctx context.Context, page, limit int) (*models.PlantFamilyPage, error) {
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, ValidationError("page must be a positive integer")
	}
	limit, err := resolveLimit(limit, DefaultFamiliesLimit)
	if err != nil {
		return nil, err
	}

	families, total, err := s.Families.ListFamilies(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, newError(KindPersistence, "", "Failed to fetch plant families", err)
	}
	return &models.PlantFamilyPage{
		Families:    families,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
	}, nil
}

func resolveLimit(limit, fallback int) (int, error) {
	switch {
	case limit == 0:
		return fallback, nil
	case limit < 0 || limit > MaxPageLimit:
		return 0, ValidationError("limit must be between 1 and 100")
	}
	return limit, nil
}

// resolveSort maps a client sort field and order onto a column. Text
// columns default to ascending, createdAt to newest first.
func resolveSort(field, order, fallback string) (string, bool, error) {
	column := fallback
	if field != "" {
		c, ok := repository.SortFields[field]
		if !ok {
			return "", false, ValidationError("unsupported sortField " + field)
		}
		column = c
	}

	switch strings.ToLower(order) {
	case "":
		return column, column == repository.ColumnCreatedAt, nil
	case "asc":
		return column, false, nil
	case "desc":
		return column, true, nil
	}
	return "", false, ValidationError("sortOrder must be asc or desc")
}
