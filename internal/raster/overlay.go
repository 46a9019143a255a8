package raster

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// TileSize is the Web Mercator tile edge, in pixels, used by Mapbox styles.
const TileSize = 512

// Viewport describes a Web Mercator map image: centre, zoom and pixel size.
type Viewport struct {
	CenterLat float64
	CenterLon float64
	Zoom      float64
	Width     int
	Height    int
}

// Project converts lon/lat to pixel coordinates inside the viewport.
func (v Viewport) Project(lon, lat float64) (x, y float64) {
	wx, wy := mercator(lon, lat, v.Zoom)
	cx, cy := mercator(v.CenterLon, v.CenterLat, v.Zoom)
	return wx - cx + float64(v.Width)/2, wy - cy + float64(v.Height)/2
}

func mercator(lon, lat, zoom float64) (x, y float64) {
	world := TileSize * math.Exp2(zoom)
	phi := lat * math.Pi / 180
	x = (lon + 180) / 360 * world
	y = (1 - math.Log(math.Tan(phi)+1/math.Cos(phi))/math.Pi) / 2 * world
	return x, y
}

// Overlay draws layer over base, stretching it to the pixel rectangle that
// quad covers in the viewport. quad holds [lon, lat] pairs. A degenerate quad
// leaves the base untouched.
func Overlay(base, layer image.Image, quad Quad, v Viewport) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, v.Width, v.Height))
	if base != nil {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), base, base.Bounds(), xdraw.Src, nil)
	}

	x0, yBottom := v.Project(quad[0][0], quad[0][1])
	x1, yTop := v.Project(quad[2][0], quad[2][1])
	target := image.Rect(
		int(math.Round(x0)), int(math.Round(yTop)),
		int(math.Round(x1)), int(math.Round(yBottom)),
	)
	if target.Empty() || layer == nil {
		return dst
	}
	xdraw.NearestNeighbor.Scale(dst, target, layer, layer.Bounds(), xdraw.Over, nil)
	return dst
}
