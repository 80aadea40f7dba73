package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "plant-gallery/docs"
	"plant-gallery/internal/clients"
	"plant-gallery/internal/config"
	"plant-gallery/internal/conversion"
	"plant-gallery/internal/handlers"
	"plant-gallery/internal/logging"
	"plant-gallery/internal/metadata"
	"plant-gallery/internal/metrics"
	"plant-gallery/internal/models"
	"plant-gallery/internal/repository"
	"plant-gallery/internal/services"
	"plant-gallery/internal/storage"
)

// @title Plant Gallery API
// @version 1.0
// @description Upload plant photos, identify them and browse the gallery.
// @BasePath /api
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		cancel()
	}()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// appState is the state shared by all subcommands once config and logger are loaded.
type appState struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCommand() *cobra.Command {
	rt := &appState{}
	root := &cobra.Command{
		Use:          "plant-gallery",
		Short:        "Plant photo recognition and gallery service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := InitConfig(rt.configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			rt.cfg, rt.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = rt.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&rt.configPath, "config", "", "Optional config file layered under environment variables")

	root.AddCommand(
		newServeCommand(rt),
		newMigrateCommand(rt),
		newImportCommand(rt),
		newSeedFamiliesCommand(rt),
	)
	return root
}

func InitConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, errors.Wrap(err, "config error")
	}
	return cfg, nil
}

func ConnectDatabase(cfg *config.Config) (*gorm.DB, error) {
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, err
	}
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "database connection failed")
	}
	return db, nil
}

func MigrateDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.PhotoRecord{}, &models.PlantFamilyEntry{}); err != nil {
		return errors.Wrap(err, "database migration failed")
	}
	return nil
}

func InitMinIOClient(cfg *config.Config, logger *zap.Logger) (*minio.Client, error) {
	minioClient, err := storage.NewMinioClient(cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "MinIO client initialization failed")
	}
	return minioClient, nil
}

// dependencies are the wired components behind the HTTP API and the importer.
type dependencies struct {
	db           *gorm.DB
	recognition  *clients.RecognitionClient
	geocodeCache *clients.CachingGeocoder
	ingestion    *services.IngestionService
	gallery      *services.GalleryService
}

func buildDependencies(cfg *config.Config, logger *zap.Logger) (*dependencies, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := ConnectDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := MigrateDatabase(db); err != nil {
		return nil, err
	}
	minioClient, err := InitMinIOClient(cfg, logging.Component(logger, "storage"))
	if err != nil {
		return nil, err
	}

	pm := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)
	recognition := clients.NewRecognitionClient(cfg.PlantNetBaseURL, cfg.PlantNetAPIKey, cfg.PlantNetOrgan, cfg.RecognitionTimeout, pm)
	deps := &dependencies{db: db, recognition: recognition}

	var geocoder services.ReverseGeocoder = clients.NewGeocoderClient(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout, pm)
	if cfg.GeocoderCacheEntries > 0 {
		deps.geocodeCache = clients.NewCachingGeocoder(geocoder, cfg.GeocoderCacheEntries, cfg.GeocoderCacheTTL)
		geocoder = deps.geocodeCache
	}
	photos := repository.NewPhotoRepository(db)

	deps.ingestion = services.NewIngestionService(
		conversion.NewNormalizer(),
		metadata.NewExtractor(),
		storage.NewObjectStore(minioClient, cfg.MinioBucket, cfg.StoragePublicURL),
		recognition,
		geocoder,
		photos,
		pm,
		logging.Component(logger, "ingestion"),
	)
	deps.ingestion.CleanupOrphans = cfg.CleanupOrphans

	deps.gallery = services.NewGalleryService(
		photos,
		repository.NewPlantFamilyRepository(db),
		cfg.PageSize,
		cfg.LatestPerFamily,
		logging.Component(logger, "gallery"),
	)

	return deps, nil
}

func newApp(cfg *config.Config, deps *dependencies, logger *zap.Logger) *fiber.App {
	httpLogger := logging.Component(logger, "http")
	app := handlers.NewApp(cfg.MaxBodyBytes, httpLogger)
	handlers.RegisterRoutes(app, handlers.Handlers{
		Photos:      handlers.NewPhotoHandler(deps.ingestion, httpLogger),
		Gallery:     handlers.NewGalleryHandler(deps.gallery, httpLogger),
		Recognition: handlers.NewRecognitionHandler(deps.recognition, httpLogger),
	})
	return app
}
