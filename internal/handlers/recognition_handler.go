package handlers

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"plant-gallery/internal/models"
)

// RecognitionQuerier forwards an image to the recognition service.
type RecognitionQuerier interface {
	Query(ctx context.Context, upload models.Upload) (json.RawMessage, error)
}

// RecognitionResponse wraps the unmodified upstream answer.
type RecognitionResponse struct {
	Data json.RawMessage `json:"data" swaggertype:"object"`
}

// RecognitionHandler exposes the recognition service directly.
type RecognitionHandler struct {
	Client RecognitionQuerier
	Logger *zap.Logger
}

// NewRecognitionHandler creates a new RecognitionHandler.
func NewRecognitionHandler(client RecognitionQuerier, logger *zap.Logger) *RecognitionHandler {
	return &RecognitionHandler{Client: client, Logger: logger}
}

// RecognizePlant handles POST /recognize-plant.
// @Summary Identify a plant without storing it
// @Description Forwards the image to the recognition service and returns its raw response.
// @Tags recognition
// @Accept multipart/form-data
// @Produce json
// @Param images formData file true "Plant image"
// @Success 200 {object} RecognitionResponse "Raw recognition result"
// @Failure 400 {object} ErrorResponse "Missing file"
// @Failure 500 {object} ErrorResponse "Recognition failed"
// @Router /recognize-plant [post]
func (h *RecognitionHandler) RecognizePlant(c *fiber.Ctx) error {
	upload, err := readUpload(c)
	if err != nil || len(upload.Data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "No file provided"})
	}

	raw, err := h.Client.Query(c.UserContext(), upload)
	if err != nil {
		h.Logger.Error("recognition proxy failed",
			zap.String("filename", upload.Filename),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Failed to recognize plant",
			Details: &ErrorDetails{Message: err.Error()},
		})
	}
	return c.JSON(RecognitionResponse{Data: raw})
}
