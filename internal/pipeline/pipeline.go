package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
	"github.com/logicalschema/data608-treehealth-dash/internal/figure"
	"github.com/logicalschema/data608-treehealth-dash/internal/observability"
	"github.com/logicalschema/data608-treehealth-dash/internal/raster"
)

var (
	// ErrInvalidSelection wraps every selection validation failure.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrBasemapDisabled is returned by StaticMap when no basemap source is configured.
	ErrBasemapDisabled = errors.New("static basemap is disabled")
)

// Basemap returns a static basemap image for a viewport.
type Basemap interface {
	StaticImage(ctx context.Context, v raster.Viewport) (image.Image, error)
}

// Settings are the map presentation parameters shared by every request.
type Settings struct {
	Style  string
	Zoom   float64
	Center figure.LatLon
	Width  int
	Height int
}

// DefaultSettings returns the dashboard's map settings.
func DefaultSettings() Settings {
	return Settings{
		Style:  "light",
		Zoom:   10,
		Center: figure.DefaultCenter,
		Width:  800,
		Height: 800,
	}
}

// Pipeline holds the loaded table and credentials and turns a selection
// into view results. It is built once at startup and is safe for concurrent
// use: nothing it holds is mutated after New.
type Pipeline struct {
	table      *domain.Table
	token      string
	settings   Settings
	rasterizer raster.Rasterizer
	basemap    Basemap
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Pipeline over table. basemap may be nil to disable the
// static composite.
func New(table *domain.Table, token string, settings Settings, basemap Basemap, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	c := settings.Center
	p := &Pipeline{
		table:    table,
		token:    token,
		settings: settings,
		rasterizer: raster.CategoricalRasterizer{
			Shader:   healthShader(),
			Fallback: rasterExtent(table.Extent()),
			Center:   [2]float64{c.Lon, c.Lat},
		},
		basemap: basemap,
		logger:  logger,
		metrics: metrics,
	}
	metrics.DatasetRows.Set(float64(table.Len()))
	if basemap != nil {
		metrics.BasemapEnabled.Set(1)
	} else {
		metrics.BasemapEnabled.Set(0)
	}
	return p
}

// CheckReadiness returns nil once a non-empty table is loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.table == nil || p.table.Len() == 0 {
		return errors.New("tree table is empty")
	}
	return nil
}

// Table returns the loaded table.
func (p *Pipeline) Table() *domain.Table { return p.table }

// Validate checks a selection before it reaches the domain layer.
func (p *Pipeline) Validate(sel domain.Selection) error {
	if sel.MaxSteward < 0 || sel.MaxSteward > domain.MaxSteward {
		return fmt.Errorf("%w: steward must be between 0 and %d, got %d",
			ErrInvalidSelection, domain.MaxSteward, sel.MaxSteward)
	}
	return nil
}

// Filter validates sel and returns the matching rows.
func (p *Pipeline) Filter(sel domain.Selection) ([]domain.Tree, error) {
	if err := p.Validate(sel); err != nil {
		return nil, err
	}
	rows := domain.Filter(p.table, sel)
	p.metrics.FilteredRows.Observe(float64(len(rows)))
	return rows, nil
}

// observe records the outcome and duration of one view computation.
func (p *Pipeline) observe(view string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		p.logger.Warn("view failed", "view", view, "error", err)
	}
	p.metrics.ViewRequests.WithLabelValues(view, outcome).Inc()
	p.metrics.ViewDuration.WithLabelValues(view).Observe(clock.Since(start).Seconds())
}

func (p *Pipeline) viewport() raster.Viewport {
	s := p.settings
	return raster.Viewport{
		CenterLat: s.Center.Lat,
		CenterLon: s.Center.Lon,
		Zoom:      s.Zoom,
		Width:     s.Width,
		Height:    s.Height,
	}
}

func (p *Pipeline) mapOptions() figure.MapOptions {
	s := p.settings
	return figure.MapOptions{
		Style:       s.Style,
		AccessToken: p.token,
		Center:      s.Center,
		Zoom:        s.Zoom,
		Width:       s.Width,
		Height:      s.Height,
	}
}
