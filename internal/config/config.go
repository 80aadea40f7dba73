package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds all configuration values from environment or config file.
type Config struct {
	AppPort  string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioBucket      string
	MinioSSL         bool
	StoragePublicURL string

	// Recognition upstream (Pl@ntNet compatible)
	PlantNetAPIKey     string
	PlantNetBaseURL    string
	PlantNetOrgan      string
	RecognitionTimeout time.Duration

	GeocoderBaseURL   string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration
	// Zero entries disables the reverse geocoding cache.
	GeocoderCacheEntries int
	GeocoderCacheTTL     time.Duration

	MaxBodyBytes    int
	PageSize        int
	LatestPerFamily int
	CleanupOrphans  bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MINIO_BUCKET", "photos")
	v.SetDefault("MINIO_SSL", false)
	v.SetDefault("MYPLANTNET_API_BASE_URL", "https://my-api.plantnet.org/v2")
	v.SetDefault("PLANTNET_ORGAN", "auto")
	v.SetDefault("RECOGNITION_TIMEOUT", 30*time.Second)
	v.SetDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_USER_AGENT", "plant-gallery/1.0")
	v.SetDefault("GEOCODER_TIMEOUT", 10*time.Second)
	v.SetDefault("GEOCODER_CACHE_ENTRIES", 1024)
	v.SetDefault("GEOCODER_CACHE_TTL", 24*time.Hour)
	v.SetDefault("MAX_BODY_BYTES", 10<<20)
	v.SetDefault("PAGE_SIZE", 8)
	v.SetDefault("LATEST_PER_FAMILY", 5)
	v.SetDefault("CLEANUP_ORPHANS", false)
}

// LoadConfig loads configuration from environment variables, optionally
// layered over a config file when path is not empty.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	cfg := &Config{
		AppPort:  v.GetString("APP_PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		MinioEndpoint:    v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:   v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:   v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:      v.GetString("MINIO_BUCKET"),
		MinioSSL:         v.GetBool("MINIO_SSL"),
		StoragePublicURL: v.GetString("STORAGE_PUBLIC_URL"),

		PlantNetAPIKey:     v.GetString("MYPLANTNET_API_KEY"),
		PlantNetBaseURL:    strings.TrimRight(v.GetString("MYPLANTNET_API_BASE_URL"), "/"),
		PlantNetOrgan:      v.GetString("PLANTNET_ORGAN"),
		RecognitionTimeout: v.GetDuration("RECOGNITION_TIMEOUT"),

		GeocoderBaseURL:      strings.TrimRight(v.GetString("GEOCODER_BASE_URL"), "/"),
		GeocoderUserAgent:    v.GetString("GEOCODER_USER_AGENT"),
		GeocoderTimeout:      v.GetDuration("GEOCODER_TIMEOUT"),
		GeocoderCacheEntries: v.GetInt("GEOCODER_CACHE_ENTRIES"),
		GeocoderCacheTTL:     v.GetDuration("GEOCODER_CACHE_TTL"),

		MaxBodyBytes:    v.GetInt("MAX_BODY_BYTES"),
		PageSize:        v.GetInt("PAGE_SIZE"),
		LatestPerFamily: v.GetInt("LATEST_PER_FAMILY"),
		CleanupOrphans:  v.GetBool("CLEANUP_ORPHANS"),
	}

	if cfg.StoragePublicURL == "" && cfg.MinioEndpoint != "" {
		scheme := "http"
		if cfg.MinioSSL {
			scheme = "https"
		}
		cfg.StoragePublicURL = fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)
	}
	cfg.StoragePublicURL = strings.TrimRight(cfg.StoragePublicURL, "/")

	return cfg, nil
}

// ValidateDatabase reports whether the database settings are usable.
func (c *Config) ValidateDatabase() error {
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return errors.New("database configuration is incomplete")
	}
	return nil
}

// Validate checks everything the HTTP server and the importer need.
func (c *Config) Validate() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" || c.MinioBucket == "" {
		return errors.New("minio configuration is incomplete")
	}
	if c.PlantNetAPIKey == "" || c.PlantNetBaseURL == "" {
		return errors.New("recognition configuration is incomplete")
	}
	if c.PageSize <= 0 || c.LatestPerFamily <= 0 || c.MaxBodyBytes <= 0 {
		return errors.New("PAGE_SIZE, LATEST_PER_FAMILY and MAX_BODY_BYTES must be positive")
	}
	return nil
}

// ConnectDatabase initializes a GORM database connection to PostgreSQL.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres connection")
	}
	return db, nil
}
