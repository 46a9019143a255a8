// Command treehealth serves the street tree health dashboard API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/logicalschema/data608-treehealth-dash/internal/adapter/httpadapter"
	"github.com/logicalschema/data608-treehealth-dash/internal/adapter/mapbox"
	"github.com/logicalschema/data608-treehealth-dash/internal/adapter/treecsv"
	"github.com/logicalschema/data608-treehealth-dash/internal/config"
	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
	"github.com/logicalschema/data608-treehealth-dash/internal/observability"
	"github.com/logicalschema/data608-treehealth-dash/internal/pipeline"
)

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	token, err := mapbox.ReadToken(cfg.MapboxTokenFile)
	if err != nil {
		logger.Error("failed to read mapbox token", "path", cfg.MapboxTokenFile, "error", err)
		os.Exit(1)
	}

	table, err := treecsv.Load(cfg.DatasetPath, logger)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}
	if prof, err := domain.ProfileTable(table); err == nil {
		logger.Info("dataset profile",
			"rows", prof.Rows,
			"species", prof.Species,
			"boroughs", len(prof.Boroughs),
			"species_median_trees", prof.SpeciesMedianTrees,
		)
	}

	// Static basemap composite (feature-flagged via BASEMAP_ENABLED).
	var basemap pipeline.Basemap
	if cfg.BasemapEnabled {
		client := mapbox.NewStaticClient(token, cfg.MapboxStaticStyle, cfg.MapboxTimeout, metrics, logger).
			WithBaseURL(cfg.MapboxAPIURL)
		basemap = mapbox.NewCachedBasemap(client, cfg.MapboxCacheSize, metrics)
		logger.Info("static basemap enabled", "style", cfg.MapboxStaticStyle, "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("static basemap disabled")
	}

	settings := pipeline.DefaultSettings()
	settings.Style = cfg.MapboxStyle
	settings.Zoom = cfg.MapZoom

	p := pipeline.New(table, token, settings, basemap, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
