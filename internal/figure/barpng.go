package figure

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
	"github.com/logicalschema/data608-treehealth-dash/internal/raster"
)

// Default PNG size for the bar chart.
const (
	BarPNGWidth  = 8 * vg.Inch
	BarPNGHeight = 5 * vg.Inch
)

// clampedLog is a log10 axis that maps non-positive values to the axis
// minimum, so zero-height bars do not break the scale.
type clampedLog struct{}

func (clampedLog) Normalize(min, max, x float64) float64 {
	if x <= min {
		return 0
	}
	lo, hi := math.Log10(min), math.Log10(max)
	return (math.Log10(x) - lo) / (hi - lo)
}

// RenderBarPNG draws the same chart as Bar to w as a PNG image.
func RenderBarPNG(w io.Writer, groups []domain.BarGroup, width, height vg.Length) error {
	p := plot.New()
	p.Title.Text = BarTitle
	p.X.Label.Text = "steward"
	p.Y.Label.Text = "count"

	names := make([]string, len(domain.StewardOrder))
	for i, s := range domain.StewardOrder {
		names[i] = s.String()
	}

	barWidth := vg.Points(18)
	maxCount := 0
	for hi, h := range domain.HealthOrder {
		values := make(plotter.Values, len(domain.StewardOrder))
		present := false
		for _, g := range groups {
			if g.Health == h {
				values[g.Steward] = float64(g.Count)
				maxCount = max(maxCount, g.Count)
				present = true
			}
		}
		if !present {
			continue
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("bar chart %s: %w", h, err)
		}
		c, _ := raster.CSSColor(h.Color())
		bars.Color = c
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = barWidth * vg.Length(hi-1)
		p.Add(bars)
		p.Legend.Add(string(h), bars)
	}
	p.Legend.Top = true
	p.NominalX(names...)

	p.X.Min, p.X.Max = -0.5, float64(len(names))-0.5
	p.Y.Scale = clampedLog{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Min = 1
	p.Y.Max = math.Max(10, float64(maxCount)*1.5)

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write bar chart: %w", err)
	}
	return nil
}
