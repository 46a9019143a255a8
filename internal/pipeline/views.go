package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
	"github.com/logicalschema/data608-treehealth-dash/internal/figure"
	"github.com/logicalschema/data608-treehealth-dash/internal/raster"
)

// defaultSpeciesIndexes are the positions in the sorted species list that
// are pre-selected when the dashboard opens.
var defaultSpeciesIndexes = []int{0, 1, 52}

// StewardMark is one labelled stop of the steward slider.
type StewardMark struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// OptionsView lists the control vocabularies and their initial values.
type OptionsView struct {
	Species      []string         `json:"species"`
	Boroughs     []string         `json:"boroughs"`
	StewardMarks []StewardMark    `json:"steward_marks"`
	Defaults     domain.Selection `json:"defaults"`
}

// BarView is the grouped bar chart result.
type BarView struct {
	Selection   domain.Selection  `json:"selection"`
	Rows        int               `json:"rows"`
	Groups      []domain.BarGroup `json:"groups"`
	Figure      figure.Figure     `json:"figure"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// MapView is the density map result.
type MapView struct {
	Selection   domain.Selection `json:"selection"`
	Rows        int              `json:"rows"`
	Quad        raster.Quad      `json:"coordinates"`
	Figure      figure.Figure    `json:"figure"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// SummaryView is the textual proportion summary.
type SummaryView struct {
	Species     []string            `json:"species"`
	Boroughs    []string            `json:"boroughs"`
	Steward     string              `json:"steward"`
	Rows        int                 `json:"rows"`
	Proportions []domain.Proportion `json:"proportions"`
	Lines       []string            `json:"lines"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// DashboardView bundles the three views for one selection.
type DashboardView struct {
	Bar     BarView     `json:"bar"`
	Map     MapView     `json:"map"`
	Summary SummaryView `json:"summary"`
}

// DefaultSelection is the selection the dashboard opens with: the first,
// second and 53rd species when present, every borough, and all steward tiers.
func (p *Pipeline) DefaultSelection() domain.Selection {
	species := p.table.Species()
	sel := domain.Selection{
		Species:    []string{},
		Boroughs:   p.table.Boroughs(),
		MaxSteward: domain.MaxSteward,
	}
	for _, i := range defaultSpeciesIndexes {
		if i < len(species) {
			sel.Species = append(sel.Species, species[i])
		}
	}
	return sel
}

// Options returns the control vocabularies.
func (p *Pipeline) Options() OptionsView {
	marks := make([]StewardMark, len(domain.StewardOrder))
	for i, s := range domain.StewardOrder {
		marks[i] = StewardMark{Value: int(s), Label: s.Label()}
	}
	return OptionsView{
		Species:      p.table.Species(),
		Boroughs:     p.table.Boroughs(),
		StewardMarks: marks,
		Defaults:     p.DefaultSelection(),
	}
}

// Profile summarizes the loaded table.
func (p *Pipeline) Profile() (domain.Profile, error) {
	start := clock.Now()
	prof, err := domain.ProfileTable(p.table)
	p.observe("dataset", start, err)
	return prof, err
}

// Bar computes the grouped bar chart for sel.
func (p *Pipeline) Bar(_ context.Context, sel domain.Selection) (view BarView, err error) {
	start := clock.Now()
	defer func() { p.observe("bar", start, err) }()

	rows, err := p.Filter(sel)
	if err != nil {
		return BarView{}, err
	}
	groups := domain.CountByStewardHealth(rows)
	fig, err := figure.Bar(groups)
	if err != nil {
		return BarView{}, err
	}
	return BarView{
		Selection:   sel,
		Rows:        len(rows),
		Groups:      groups,
		Figure:      fig,
		GeneratedAt: clock.Now(),
	}, nil
}

// BarPNG renders the bar chart for sel to w.
func (p *Pipeline) BarPNG(_ context.Context, sel domain.Selection, w io.Writer) (err error) {
	start := clock.Now()
	defer func() { p.observe("bar_png", start, err) }()

	rows, err := p.Filter(sel)
	if err != nil {
		return err
	}
	return figure.RenderBarPNG(w, domain.CountByStewardHealth(rows), figure.BarPNGWidth, figure.BarPNGHeight)
}

// rasterize filters sel and returns the subset with its shaded raster.
func (p *Pipeline) rasterize(ctx context.Context, sel domain.Selection) ([]domain.Tree, *image.NRGBA, raster.Quad, error) {
	rows, err := p.Filter(sel)
	if err != nil {
		return nil, nil, raster.Quad{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, raster.Quad{}, err
	}
	img, quad := p.rasterizer.Rasterize(toPoints(rows), p.settings.Width, p.settings.Height)
	return rows, img, quad, nil
}

// Map computes the density map figure for sel.
func (p *Pipeline) Map(ctx context.Context, sel domain.Selection) (view MapView, err error) {
	start := clock.Now()
	defer func() { p.observe("map", start, err) }()

	rows, img, quad, err := p.rasterize(ctx, sel)
	if err != nil {
		return MapView{}, err
	}
	fig, err := figure.Map(rows, img, quad, p.mapOptions())
	if err != nil {
		return MapView{}, err
	}
	return MapView{
		Selection:   sel,
		Rows:        len(rows),
		Quad:        quad,
		Figure:      fig,
		GeneratedAt: clock.Now(),
	}, nil
}

// MapImage returns the bare density raster for sel.
func (p *Pipeline) MapImage(ctx context.Context, sel domain.Selection) (img image.Image, err error) {
	start := clock.Now()
	defer func() { p.observe("map_png", start, err) }()

	_, raw, _, err := p.rasterize(ctx, sel)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// StaticMap composites the density raster for sel over the static basemap.
func (p *Pipeline) StaticMap(ctx context.Context, sel domain.Selection) (img image.Image, err error) {
	if p.basemap == nil {
		return nil, ErrBasemapDisabled
	}
	start := clock.Now()
	defer func() { p.observe("map_static", start, err) }()

	_, layer, quad, err := p.rasterize(ctx, sel)
	if err != nil {
		return nil, err
	}
	v := p.viewport()
	base, err := p.basemap.StaticImage(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("fetch basemap: %w", err)
	}
	return raster.Overlay(base, layer, quad, v), nil
}

// Summary computes the proportion summary for sel.
func (p *Pipeline) Summary(_ context.Context, sel domain.Selection) (view SummaryView, err error) {
	start := clock.Now()
	defer func() { p.observe("summary", start, err) }()

	rows, err := p.Filter(sel)
	if err != nil {
		return SummaryView{}, err
	}
	props := domain.HealthProportions(rows)
	steward := sel.StewardCeiling().String()

	lines := []string{
		"Information:",
		"Species: " + pyList(sel.Species),
		"Borough: " + pyList(sel.Boroughs),
		"Steward Values Up to: " + steward,
		"Proportions for Tree Health",
	}
	for _, pr := range props {
		lines = append(lines, pr.String())
	}

	return SummaryView{
		Species:     sel.Species,
		Boroughs:    sel.Boroughs,
		Steward:     steward,
		Rows:        len(rows),
		Proportions: props,
		Lines:       lines,
		GeneratedAt: clock.Now(),
	}, nil
}

// Dashboard computes the bar, map and summary views for sel concurrently.
func (p *Pipeline) Dashboard(ctx context.Context, sel domain.Selection) (DashboardView, error) {
	if err := p.Validate(sel); err != nil {
		return DashboardView{}, err
	}

	var view DashboardView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view.Bar, err = p.Bar(gctx, sel)
		return err
	})
	g.Go(func() error {
		var err error
		view.Map, err = p.Map(gctx, sel)
		return err
	})
	g.Go(func() error {
		var err error
		view.Summary, err = p.Summary(gctx, sel)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardView{}, err
	}
	return view, nil
}

// pyList renders values the way the dashboard has always echoed a list
// selection, e.g. ['Pin Oak', 'Red Maple'].
func pyList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
