package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plant-gallery/internal/logging"
	"plant-gallery/internal/models"
	"plant-gallery/internal/repository"
	"plant-gallery/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(st *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDependencies(st.cfg, st.logger)
			if err != nil {
				return err
			}
			app := newApp(st.cfg, deps, st.logger)

			st.logger.Info("registered routes")
			for _, r := range app.GetRoutes(true) {
				st.logger.Info("route", zap.String("method", r.Method), zap.String("path", r.Path))
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- app.Listen(":" + st.cfg.AppPort)
			}()
			st.logger.Info("server listening", zap.String("port", st.cfg.AppPort))

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				st.logger.Info("received interrupt signal, shutting down gracefully")
				if deps.geocodeCache != nil {
					stats := deps.geocodeCache.Stats()
					st.logger.Info("geocode cache",
						zap.Int("entries", stats.Entries),
						zap.Int64("hits", stats.Hits),
						zap.Int64("misses", stats.Misses),
						zap.Float64("hit_rate", stats.HitRate),
					)
				}
				return app.ShutdownWithTimeout(shutdownTimeout)
			}
		},
	}
}

func newMigrateCommand(st *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ConnectDatabase(st.cfg)
			if err != nil {
				return err
			}
			if err := MigrateDatabase(db); err != nil {
				return err
			}
			st.logger.Info("database migrated")
			return nil
		},
	}
}

func newImportCommand(st *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "import <archive>...",
		Short: "Ingest every image of one or more zip, tar, 7z or rar archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDependencies(st.cfg, st.logger)
			if err != nil {
				return err
			}
			importer := services.NewImportService(deps.ingestion, logging.Component(st.logger, "import"))

			failed := 0
			for _, archive := range args {
				summary, err := importer.ImportArchive(cmd.Context(), archive)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", archive, summary.GetSummary())
				if err != nil {
					return errors.Wrapf(err, "importing %s", archive)
				}
				failed += summary.FailedCount
			}
			if failed > 0 {
				return errors.Errorf("%d entries failed to import", failed)
			}
			return nil
		},
	}
}

func newSeedFamiliesCommand(st *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-families <file>",
		Short: "Load plant family names, one per line, into the reference list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := readFamilyNames(args[0])
			if err != nil {
				return err
			}
			db, err := ConnectDatabase(st.cfg)
			if err != nil {
				return err
			}
			if err := MigrateDatabase(db); err != nil {
				return err
			}

			entries := make([]models.PlantFamilyEntry, 0, len(names))
			for _, n := range names {
				entries = append(entries, models.PlantFamilyEntry{Family: n})
			}
			repo := repository.NewPlantFamilyRepository(db)
			if err := repo.CreateFamilies(cmd.Context(), entries); err != nil {
				return errors.Wrap(err, "seeding plant families")
			}
			st.logger.Info("plant families seeded", zap.Int("count", len(entries)))
			return nil
		},
	}
}

// readFamilyNames returns the non-empty lines of path. Lines starting with #
// are comments.
func readFamilyNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		names = append(names, line)
	}
	return names, scanner.Err()
}
