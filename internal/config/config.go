package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Input files.
	DatasetPath     string
	MapboxTokenFile string

	// Interactive map presentation.
	MapboxStyle string
	MapZoom     float64

	// Static basemap composite (GET /api/map/static.png).
	BasemapEnabled    bool
	MapboxStaticStyle string
	MapboxAPIURL      string
	MapboxTimeout     time.Duration
	MapboxCacheSize   int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s"))
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	zoom, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("MAP_ZOOM", "10"), 64)
	if err != nil || zoom < 0 || zoom > 22 {
		return nil, errors.New("invalid MAP_ZOOM: must be 0-22")
	}

	basemapEnabled := false
	if v := os.Getenv("BASEMAP_ENABLED"); v != "" {
		basemapEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid BASEMAP_ENABLED")
		}
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatasetPath:     sharedcfg.EnvOrDefault("DATASET_PATH", "assets/2015_Street_Tree_Census_-_Tree_Data.csv.gz"),
		MapboxTokenFile: sharedcfg.EnvOrDefault("MAPBOX_TOKEN_FILE", "assets/api.key"),

		MapboxStyle: sharedcfg.EnvOrDefault("MAPBOX_STYLE", "light"),
		MapZoom:     zoom,

		BasemapEnabled:    basemapEnabled,
		MapboxStaticStyle: sharedcfg.EnvOrDefault("MAPBOX_STATIC_STYLE", "mapbox/light-v11"),
		MapboxAPIURL:      sharedcfg.EnvOrDefault("MAPBOX_API_URL", "https://api.mapbox.com/styles/v1"),
		MapboxTimeout:     mapboxTimeout,
		MapboxCacheSize:   parseMapboxCacheSize(),
	}

	return cfg, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 16
}
