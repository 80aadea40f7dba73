package handlers

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"plant-gallery/internal/models"
	"plant-gallery/internal/services"
)

// UploadField is the multipart field carrying the photo.
const UploadField = "images"

// Ingester runs an upload through the ingestion pipeline.
type Ingester interface {
	Ingest(ctx context.Context, upload models.Upload) (*services.IngestResult, error)
}

// UploadResponse is returned after a photo is stored and recognized.
type UploadResponse struct {
	Message string                `json:"message"`
	Data    models.IngestResponse `json:"data"`
}

// PhotoHandler handles photo uploads.
type PhotoHandler struct {
	Service Ingester
	Logger  *zap.Logger
}

// NewPhotoHandler creates a new PhotoHandler with the given ingestion service.
func NewPhotoHandler(service Ingester, logger *zap.Logger) *PhotoHandler {
	return &PhotoHandler{Service: service, Logger: logger}
}

// UploadPhoto handles POST /photos.
// @Summary Upload a plant photo
// @Description Normalizes the image, stores it, identifies the plant and saves the record. Location is added when the photo carries GPS EXIF data.
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Param images formData file true "JPEG, PNG or WebP image"
// @Success 200 {object} UploadResponse "Photo stored and recognized"
// @Failure 400 {object} ErrorResponse "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponse "Request body too large"
// @Failure 500 {object} ErrorResponse "Processing failed"
// @Router /photos [post]
func (h *PhotoHandler) UploadPhoto(c *fiber.Ctx) error {
	upload, err := readUpload(c)
	if err != nil {
		h.Logger.Info("upload without file", zap.String("ip", c.IP()), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "No file provided"})
	}

	res, err := h.Service.Ingest(c.UserContext(), upload)
	if err != nil {
		return respondError(c, err, "Failed to upload file")
	}

	for k, v := range res.Timings.GetHeaders() {
		c.Set(k, v)
	}
	return c.JSON(UploadResponse{
		Message: "File uploaded and record created successfully",
		Data:    res.Response(),
	})
}

// readUpload reads the photo part of a multipart request into memory.
func readUpload(c *fiber.Ctx) (models.Upload, error) {
	fh, err := c.FormFile(UploadField)
	if err != nil {
		return models.Upload{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return models.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.Upload{}, err
	}
	return models.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
