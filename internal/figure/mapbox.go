package figure

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
	"github.com/logicalschema/data608-treehealth-dash/internal/raster"
)

// MapOptions are the fixed presentation settings of the map view.
type MapOptions struct {
	Style       string
	AccessToken string
	Center      LatLon
	Zoom        float64
	Width       int
	Height      int
}

// DefaultCenter is the map centre over lower Manhattan.
var DefaultCenter = LatLon{Lat: 40.70229736498986, Lon: -74.01581689028704}

// DefaultMapOptions returns the dashboard's map settings for token.
func DefaultMapOptions(token string) MapOptions {
	return MapOptions{
		Style:       "light",
		AccessToken: token,
		Center:      DefaultCenter,
		Zoom:        10,
		Width:       800,
		Height:      800,
	}
}

// Map builds the mapbox figure: the density raster as an image layer pinned
// to quad, plus a single scatter marker for the first row of the subset so the
// map has a trace to anchor to. An empty subset gets an empty scatter trace.
func Map(rows []domain.Tree, img image.Image, quad raster.Quad, opts MapOptions) (Figure, error) {
	src, err := PNGDataURL(img)
	if err != nil {
		return Figure{}, fmt.Errorf("encode map layer: %w", err)
	}

	marker := Trace{Type: "scattermapbox", Mode: "markers"}
	if len(rows) > 0 {
		first := rows[0]
		marker.Lat = []float64{first.Lat}
		marker.Lon = []float64{first.Lon}
		marker.HoverText = []string{first.ID}
	}

	return Figure{
		Data: []Trace{marker},
		Layout: Layout{
			Mapbox: &Mapbox{
				Style:       opts.Style,
				AccessToken: opts.AccessToken,
				Center:      opts.Center,
				Zoom:        opts.Zoom,
				Layers: []MapboxLayer{{
					SourceType:  "image",
					Source:      src,
					Coordinates: quad,
				}},
			},
			Width:  opts.Width,
			Height: opts.Height,
		},
	}, nil
}

// PNGDataURL encodes img as a base64 PNG data URL.
func PNGDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
