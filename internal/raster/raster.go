// Package raster bins categorized points into a fixed grid and shades the
// grid into an image. It knows nothing about trees: callers map their rows to
// Points and pick the category colors.
package raster

import (
	"image"
	"math"
)

// minSpan is the width, in input units, given to an axis whose points all
// share one coordinate.
const minSpan = 1e-4

// Point is one input sample. Category indexes the shader's color list.
type Point struct {
	X, Y     float64
	Category int
}

// Extent is an axis-aligned box in input coordinates.
type Extent struct {
	MinX, MaxX, MinY, MaxY float64
}

// IsZero reports whether e was never populated.
func (e Extent) IsZero() bool { return e == Extent{} }

// Quad is the bounding quadrilateral of a raster, as [x, y] pairs in the order
// (minX,minY), (maxX,minY), (maxX,maxY), (minX,maxY).
type Quad [4][2]float64

// Rasterizer turns categorized points into a shaded image and its bounds.
// Implementations must return a fully transparent image for empty input.
type Rasterizer interface {
	Rasterize(points []Point, width, height int) (*image.NRGBA, Quad)
}

// Grid holds per-cell, per-category counts. Row 0 is the minimum Y.
type Grid struct {
	Width, Height int
	Categories    int

	// Counts is indexed by (row*Width+col)*Categories + category.
	Counts []uint32

	// XCoords and YCoords are the cell-centre coordinates along each axis.
	XCoords []float64
	YCoords []float64

	// Points is the number of samples that landed in the grid.
	Points int
}

// Count returns the count of category c in the given cell.
func (g *Grid) Count(row, col, c int) uint32 {
	return g.Counts[(row*g.Width+col)*g.Categories+c]
}

// Total returns the sum over categories for one cell.
func (g *Grid) Total(row, col int) uint32 {
	base := (row*g.Width + col) * g.Categories
	var n uint32
	for c := 0; c < g.Categories; c++ {
		n += g.Counts[base+c]
	}
	return n
}

// Quad returns the bounding quadrilateral from the first and last cell
// coordinates along each axis.
func (g *Grid) Quad() Quad {
	x0, x1 := g.XCoords[0], g.XCoords[len(g.XCoords)-1]
	y0, y1 := g.YCoords[0], g.YCoords[len(g.YCoords)-1]
	return Quad{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// Aggregate counts points per cell and category. The grid spans the data's
// own min/max on each axis; when points is empty the fallback extent is used
// instead. Points with a category outside [0, categories) or a non-finite
// coordinate are ignored. width, height and categories must be positive.
func Aggregate(points []Point, width, height, categories int, fallback Extent) *Grid {
	if width <= 0 || height <= 0 || categories <= 0 {
		panic("raster: grid dimensions and categories must be positive")
	}

	ext, ok := dataExtent(points, categories)
	if !ok {
		ext = fallback
	}
	ext.MinX, ext.MaxX = widen(ext.MinX, ext.MaxX)
	ext.MinY, ext.MaxY = widen(ext.MinY, ext.MaxY)

	g := &Grid{
		Width:      width,
		Height:     height,
		Categories: categories,
		Counts:     make([]uint32, width*height*categories),
		XCoords:    centres(ext.MinX, ext.MaxX, width),
		YCoords:    centres(ext.MinY, ext.MaxY, height),
	}

	sx := float64(width) / (ext.MaxX - ext.MinX)
	sy := float64(height) / (ext.MaxY - ext.MinY)
	for _, p := range points {
		if !usable(p, categories) {
			continue
		}
		col := bin(p.X, ext.MinX, sx, width)
		row := bin(p.Y, ext.MinY, sy, height)
		if col < 0 || row < 0 {
			continue
		}
		g.Counts[(row*width+col)*categories+p.Category]++
		g.Points++
	}
	return g
}

func usable(p Point, categories int) bool {
	if p.Category < 0 || p.Category >= categories {
		return false
	}
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func dataExtent(points []Point, categories int) (Extent, bool) {
	e := Extent{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	found := false
	for _, p := range points {
		if !usable(p, categories) {
			continue
		}
		found = true
		e.MinX = math.Min(e.MinX, p.X)
		e.MaxX = math.Max(e.MaxX, p.X)
		e.MinY = math.Min(e.MinY, p.Y)
		e.MaxY = math.Max(e.MaxY, p.Y)
	}
	return e, found
}

func widen(lo, hi float64) (float64, float64) {
	if hi-lo > 0 {
		return lo, hi
	}
	mid := (lo + hi) / 2
	return mid - minSpan/2, mid + minSpan/2
}

// bin maps v onto [0, n). The upper bound lands in the last cell; values
// outside the range return -1.
func bin(v, lo, scale float64, n int) int {
	i := int(math.Floor((v - lo) * scale))
	if i == n {
		return n - 1
	}
	if i < 0 || i > n {
		return -1
	}
	return i
}

func centres(lo, hi float64, n int) []float64 {
	step := (hi - lo) / float64(n)
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + step*(float64(i)+0.5)
	}
	return out
}

// CategoricalRasterizer is the Rasterizer used by the map view: per-category
// counts shaded by a Shader.
type CategoricalRasterizer struct {
	Shader Shader

	// Fallback is the extent used when there are no points. When it is zero,
	// the quad of an empty raster collapses onto Center.
	Fallback Extent
	Center   [2]float64
}

// Rasterize implements Rasterizer.
func (r CategoricalRasterizer) Rasterize(points []Point, width, height int) (*image.NRGBA, Quad) {
	g := Aggregate(points, width, height, len(r.Shader.Colors), r.Fallback)
	img := r.Shader.Shade(g)

	if g.Points == 0 && r.Fallback.IsZero() {
		c := r.Center
		return img, Quad{c, c, c, c}
	}
	return img, g.Quad()
}
