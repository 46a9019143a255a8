package pipeline

import (
	"image/color"

	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
	"github.com/logicalschema/data608-treehealth-dash/internal/raster"
)

// toPoints maps trees to raster samples: x is longitude, y is latitude and
// the category is the tree's position in domain.HealthOrder.
func toPoints(rows []domain.Tree) []raster.Point {
	points := make([]raster.Point, 0, len(rows))
	for i := range rows {
		points = append(points, raster.Point{
			X:        rows[i].Lon,
			Y:        rows[i].Lat,
			Category: rows[i].Health.Index(),
		})
	}
	return points
}

// healthShader colors raster categories with the health palette.
func healthShader() raster.Shader {
	colors := make([]color.NRGBA, len(domain.HealthOrder))
	for i, h := range domain.HealthOrder {
		c, ok := raster.CSSColor(h.Color())
		if !ok {
			panic("pipeline: no color for health " + string(h))
		}
		colors[i] = c
	}
	return raster.Shader{Colors: colors, MinAlpha: raster.DefaultMinAlpha}
}

func rasterExtent(e domain.Extent) raster.Extent {
	return raster.Extent{MinX: e.MinLon, MaxX: e.MaxLon, MinY: e.MinLat, MaxY: e.MaxLat}
}
