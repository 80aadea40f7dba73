package handlers

import (
	"context"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"plant-gallery/internal/models"
	"plant-gallery/internal/services"
)

// Gallery is the read side of the photo collection.
type Gallery interface {
	ListPhotos(ctx context.Context, req services.ListRequest) ([]models.PhotoRecord, error)
	ListCatalog(ctx context.Context, sortField, sortOrder string) ([]models.PhotoRecord, error)
	LatestByFamilies(ctx context.Context, families []string) ([]models.FamilyPhotos, error)
	LatestPhotoURL(ctx context.Context, family string) (string, error)
	Counts(ctx context.Context) (models.PhotoCounts, error)
	ListFamilies(ctx context.Context, page, limit int) (*models.PlantFamilyPage, error)
}

// LatestURLResponse is the newest photo of one family.
type LatestURLResponse struct {
	URL string `json:"url"`
}

// GalleryHandler serves gallery listings and statistics.
type GalleryHandler struct {
	Service Gallery
	Logger  *zap.Logger
}

// NewGalleryHandler creates a new GalleryHandler with the given GalleryService.
func NewGalleryHandler(service Gallery, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{Service: service, Logger: logger}
}

// ListPhotos handles GET /photos.
// @Summary List photos page by page
// @Description Newest first unless sortField/sortOrder say otherwise
// @Tags photos
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size, at most 100"
// @Param sortField query string false "createdAt, family_scientificNameWithoutAuthor or genus_scientificNameWithoutAuthor"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {array} models.PhotoRecord
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /photos [get]
func (h *GalleryHandler) ListPhotos(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return respondError(c, err, "Invalid page")
	}
	photos, err := h.Service.ListPhotos(c.UserContext(), services.ListRequest{
		Page:      page,
		Limit:     c.QueryInt("limit", 0),
		SortField: c.Query("sortField"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		return h.fail(c, err, "Failed to fetch photos")
	}
	return c.JSON(photos)
}

// ListAllPhotos handles GET /photos/all.
// @Summary List every photo
// @Description Ordered by family name unless sortField/sortOrder say otherwise
// @Tags photos
// @Produce json
// @Param sortField query string false "createdAt, family_scientificNameWithoutAuthor or genus_scientificNameWithoutAuthor"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {array} models.PhotoRecord
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /photos/all [get]
func (h *GalleryHandler) ListAllPhotos(c *fiber.Ctx) error {
	photos, err := h.Service.ListCatalog(c.UserContext(), c.Query("sortField"), c.Query("sortOrder"))
	if err != nil {
		return h.fail(c, err, "Failed to fetch photos")
	}
	return c.JSON(photos)
}

// LatestByFamilies handles GET /photos/latest.
// @Summary Latest photos per family
// @Tags photos
// @Produce json
// @Param family query []string true "Family name, repeatable" collectionFormat(multi)
// @Success 200 {array} models.FamilyPhotos
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /photos/latest [get]
func (h *GalleryHandler) LatestByFamilies(c *fiber.Ctx) error {
	var families []string
	for _, f := range c.Context().QueryArgs().PeekMulti("family") {
		families = append(families, string(f))
	}

	groups, err := h.Service.LatestByFamilies(c.UserContext(), families)
	if err != nil {
		return h.fail(c, err, "Failed to fetch latest photos")
	}
	return c.JSON(groups)
}

// LatestPhotoURL handles GET /photos/latest/:family.
// @Summary URL of the newest photo of a family
// @Tags photos
// @Produce json
// @Param family path string true "Family name"
// @Success 200 {object} LatestURLResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /photos/latest/{family} [get]
func (h *GalleryHandler) LatestPhotoURL(c *fiber.Ctx) error {
	family, err := url.PathUnescape(c.Params("family"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid family"})
	}

	u, err := h.Service.LatestPhotoURL(c.UserContext(), family)
	if err != nil {
		return h.fail(c, err, "Failed to fetch latest photo")
	}
	return c.JSON(LatestURLResponse{URL: u})
}

// CountPhotos handles GET /photos/count.
// @Summary Gallery statistics
// @Tags photos
// @Produce json
// @Success 200 {object} models.PhotoCounts
// @Failure 500 {object} ErrorResponse
// @Router /photos/count [get]
func (h *GalleryHandler) CountPhotos(c *fiber.Ctx) error {
	counts, err := h.Service.Counts(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Failed to count photos")
	}
	return c.JSON(counts)
}

// ListPlantFamilies handles GET /plant-families.
// @Summary Page through the plant family reference list
// @Tags families
// @Produce json
// @Param page query int false "Page number, default 1"
// @Param limit query int false "Page size, default 20"
// @Success 200 {object} models.PlantFamilyPage
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /plant-families [get]
func (h *GalleryHandler) ListPlantFamilies(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return respondError(c, err, "Invalid page")
	}
	families, err := h.Service.ListFamilies(c.UserContext(), page, c.QueryInt("limit", 0))
	if err != nil {
		return h.fail(c, err, "Failed to fetch plant families")
	}
	return c.JSON(families)
}

// pageQuery reads the 1-based page parameter. A non-numeric value falls back
// to the first page; an explicit value below 1 is rejected.
func pageQuery(c *fiber.Ctx) (int, error) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		return 0, services.ValidationError("page must be a positive integer")
	}
	return page, nil
}

func (h *GalleryHandler) fail(c *fiber.Ctx, err error, summary string) error {
	if statusFor(err) >= fiber.StatusInternalServerError {
		h.Logger.Error(summary, zap.String("path", c.Path()), zap.Error(err))
	}
	return respondError(c, err, summary)
}
