package handlers

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups the route handlers of the API.
type Handlers struct {
	Photos      *PhotoHandler
	Gallery     *GalleryHandler
	Recognition *RecognitionHandler
}

// NewApp creates the Fiber app with the JSON codec, body limit, error
// handler and middleware shared by every route.
func NewApp(bodyLimit int, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "plant-gallery",
		BodyLimit:             bodyLimit,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          ErrorHandler(logger),
		DisableStartupMessage: true,
	})
	app.Use(Recover(logger))
	app.Use(RequestLogger(logger))
	return app
}

// RegisterRoutes mounts the API under /api and the Prometheus endpoint at /metrics.
func RegisterRoutes(app *fiber.App, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Post("/photos", h.Photos.UploadPhoto)
	api.Get("/photos", h.Gallery.ListPhotos)
	api.Get("/photos/all", h.Gallery.ListAllPhotos)
	api.Get("/photos/latest", h.Gallery.LatestByFamilies)
	api.Get("/photos/latest/:family", h.Gallery.LatestPhotoURL)
	api.Get("/photos/count", h.Gallery.CountPhotos)
	api.Get("/plant-families", h.Gallery.ListPlantFamilies)
	api.Post("/recognize-plant", h.Recognition.RecognizePlant)

	api.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
