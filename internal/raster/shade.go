package raster

import (
	"image"
	"image/color"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// DefaultMinAlpha is the opacity given to the least populated non-empty cell.
const DefaultMinAlpha = 40

var cssColors = map[string]color.NRGBA{
	"red":    {R: 255, A: 255},
	"orange": {R: 255, G: 165, A: 255},
	"green":  {G: 128, A: 255},
	"blue":   {B: 255, A: 255},
	"black":  {A: 255},
	"gray":   {R: 128, G: 128, B: 128, A: 255},
}

// CSSColor resolves the handful of CSS color names used by the dashboard.
func CSSColor(name string) (color.NRGBA, bool) {
	c, ok := cssColors[name]
	return c, ok
}

// Shader colors a Grid. Each non-empty cell gets the count-weighted mean of
// its category colors; opacity follows the histogram-equalized cell total.
type Shader struct {
	Colors   []color.NRGBA
	MinAlpha uint8
}

// Shade renders g to an image flipped vertically so image row 0 is the grid's
// maximum Y. Empty cells stay fully transparent.
func (s Shader) Shade(g *Grid) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	if g.Points == 0 {
		return img
	}

	alpha := s.equalize(g)
	for row := 0; row < g.Height; row++ {
		y := g.Height - 1 - row
		for col := 0; col < g.Width; col++ {
			total := g.Total(row, col)
			if total == 0 {
				continue
			}
			var r, gr, b float64
			for c := 0; c < g.Categories; c++ {
				n := float64(g.Count(row, col, c))
				if n == 0 {
					continue
				}
				r += n * float64(s.Colors[c].R)
				gr += n * float64(s.Colors[c].G)
				b += n * float64(s.Colors[c].B)
			}
			t := float64(total)
			img.SetNRGBA(col, y, color.NRGBA{
				R: uint8(r/t + 0.5),
				G: uint8(gr/t + 0.5),
				B: uint8(b/t + 0.5),
				A: alpha[total],
			})
		}
	}
	return img
}

// equalize maps every distinct non-zero cell total to an alpha value through
// the empirical CDF of the totals, rescaled to [MinAlpha, 255].
func (s Shader) equalize(g *Grid) map[uint32]uint8 {
	freq := make(map[uint32]float64)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if n := g.Total(row, col); n > 0 {
				freq[n]++
			}
		}
	}

	values := make([]uint32, 0, len(freq))
	for v := range freq {
		values = append(values, v)
	}
	slices.Sort(values)

	weights := make([]float64, len(values))
	for i, v := range values {
		weights[i] = freq[v]
	}
	cdf := floats.CumSum(make([]float64, len(weights)), weights)
	floats.Scale(1/cdf[len(cdf)-1], cdf)

	lo, hi := cdf[0], cdf[len(cdf)-1]
	span := float64(255 - int(s.MinAlpha))
	out := make(map[uint32]uint8, len(values))
	for i, v := range values {
		norm := 1.0
		if hi > lo {
			norm = (cdf[i] - lo) / (hi - lo)
		}
		out[v] = uint8(float64(s.MinAlpha) + norm*span + 0.5)
	}
	return out
}
