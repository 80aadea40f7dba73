package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"plant-gallery/internal/services"
)

// ErrorDetails carries the client-safe description of a failure.
type ErrorDetails struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Details *ErrorDetails `json:"details,omitempty"`
}

// statusFor maps a service error kind to an HTTP status code.
func statusFor(err error) int {
	switch services.KindOf(err) {
	case services.KindValidation:
		return fiber.StatusBadRequest
	case services.KindNotFound:
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// respondError writes err as JSON. Client errors carry the service message
// as the error; server errors use summary and put the message in details.
func respondError(c *fiber.Ctx, err error, summary string) error {
	status := statusFor(err)
	if status < fiber.StatusInternalServerError {
		return c.Status(status).JSON(ErrorResponse{Error: services.PublicMessage(err)})
	}
	return c.Status(status).JSON(ErrorResponse{
		Error:   summary,
		Details: &ErrorDetails{Message: services.PublicMessage(err)},
	})
}

// ErrorHandler is the app-wide fallback for errors no handler answered,
// including body limit and routing errors raised by Fiber itself.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
		}
		logger.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Internal Server Error"})
	}
}
