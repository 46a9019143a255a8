package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/logicalschema/data608-treehealth-dash/internal/adapter/httpadapter"
	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
	"github.com/logicalschema/data608-treehealth-dash/internal/observability"
	"github.com/logicalschema/data608-treehealth-dash/internal/pipeline"
	"github.com/logicalschema/data608-treehealth-dash/internal/raster"
)

func testTable() *domain.Table {
	rows := []domain.Tree{
		{ID: "1", Health: domain.HealthGood, Species: "Pin Oak", Steward: domain.StewardNone, Borough: "Queens", Lat: 40.72, Lon: -73.84},
		{ID: "2", Health: domain.HealthFair, Species: "Pin Oak", Steward: domain.Steward1or2, Borough: "Queens", Lat: 40.73, Lon: -73.83},
		{ID: "3", Health: domain.HealthPoor, Species: "Pin Oak", Steward: domain.Steward4orMore, Borough: "Queens", Lat: 40.74, Lon: -73.82},
		{ID: "4", Health: domain.HealthGood, Species: "Red Maple", Steward: domain.StewardNone, Borough: "Bronx", Lat: 40.85, Lon: -73.88},
	}
	return domain.NewTable(rows)
}

type stubBasemap struct{ err error }

func (s stubBasemap) StaticImage(_ context.Context, v raster.Viewport) (image.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	return image.NewRGBA(image.Rect(0, 0, v.Width, v.Height)), nil
}

func newTestServerWith(table *domain.Table, basemap pipeline.Basemap) *httpadapter.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	settings := pipeline.DefaultSettings()
	settings.Width, settings.Height = 64, 64
	p := pipeline.New(table, "pk.test", settings, basemap, logger, observability.NewMetricsForTesting())
	return httpadapter.NewServer(":0", p, logger)
}

func newTestServer() *httpadapter.Server {
	return newTestServerWith(testTable(), nil)
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenTableEmpty(t *testing.T) {
	rec := get(t, newTestServerWith(domain.NewTable(nil), nil), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "tree table is empty", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestOptionsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(), "/api/options")
	require.Equal(t, http.StatusOK, rec.Code)

	var body pipeline.OptionsView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Pin Oak", "Red Maple"}, body.Species)
	assert.Equal(t, []string{"Queens", "Bronx"}, body.Boroughs)
	assert.Len(t, body.StewardMarks, 4)
	assert.Equal(t, domain.MaxSteward, body.Defaults.MaxSteward)
}

func TestDatasetEndpoint(t *testing.T) {
	rec := get(t, newTestServer(), "/api/dataset")
	require.Equal(t, http.StatusOK, rec.Code)

	var body domain.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Rows)
}

func TestBarEndpoint_SelectionFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantRows int
	}{
		{"defaults", "", 4},
		{"one species", "?species=Pin+Oak", 3},
		{"species and borough", "?species=Pin+Oak&species=Red+Maple&borough=Bronx", 1},
		{"steward ceiling", "?species=Pin+Oak&steward=1", 2},
		{"none tier only", "?steward=0", 2},
		{"empty species selects nothing", "?species=", 0},
	}
	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, "/api/bar"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var body pipeline.BarView
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantRows, body.Rows)
		})
	}
}

func TestViewEndpoints_InvalidSteward(t *testing.T) {
	srv := newTestServer()
	for _, path := range []string{"/api/bar", "/api/map", "/api/summary", "/api/dashboard", "/api/bar.png", "/api/export.xlsx"} {
		for _, steward := range []string{"4", "-1", "many"} {
			t.Run(fmt.Sprintf("%s?steward=%s", path, steward), func(t *testing.T) {
				rec := get(t, srv, path+"?steward="+steward)
				assert.Equal(t, http.StatusBadRequest, rec.Code)

				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Contains(t, body["error"], "invalid selection")
			})
		}
	}
}

func TestSummaryEndpoint(t *testing.T) {
	rec := get(t, newTestServer(), "/api/summary?species=Pin+Oak&borough=Queens&steward=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var body pipeline.SummaryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "4orMore", body.Steward)
	assert.Equal(t, []string{
		"Information:",
		"Species: ['Pin Oak']",
		"Borough: ['Queens']",
		"Steward Values Up to: 4orMore",
		"Proportions for Tree Health",
		"Poor : 33.33%",
		"Fair : 33.33%",
		"Good : 33.33%",
	}, body.Lines)
}

func TestMapEndpoint(t *testing.T) {
	rec := get(t, newTestServer(), "/api/map?species=Pin+Oak")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 3, body["rows"], 0)
	assert.Len(t, body["coordinates"], 4)
	assert.Contains(t, body, "figure")
}

func TestPNGEndpoints(t *testing.T) {
	srv := newTestServer()
	for _, path := range []string{"/api/bar.png", "/api/map.png"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, srv, path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

			_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
			require.NoError(t, err)
		})
	}
}

func TestStaticMapEndpoint(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		rec := get(t, newTestServer(), "/api/map/static.png")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		rec := get(t, newTestServerWith(testTable(), stubBasemap{}), "/api/map/static.png")
		require.Equal(t, http.StatusOK, rec.Code)

		img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, 64, img.Bounds().Dx())
	})

	t.Run("upstream failure", func(t *testing.T) {
		rec := get(t, newTestServerWith(testTable(), stubBasemap{err: fmt.Errorf("mapbox down")}), "/api/map/static.png")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "mapbox down")
	})
}

func TestDashboardEndpoint(t *testing.T) {
	rec := get(t, newTestServer(), "/api/dashboard?borough=Queens")
	require.Equal(t, http.StatusOK, rec.Code)

	var body pipeline.DashboardView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Bar.Rows)
	assert.Equal(t, 3, body.Map.Rows)
	assert.Equal(t, 3, body.Summary.Rows)
}

func TestExportEndpoint(t *testing.T) {
	rec := get(t, newTestServer(), "/api/export.xlsx?species=Pin+Oak")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Trees")
	require.NoError(t, err)
	assert.Len(t, rows, 4) // header plus three Pin Oaks
}

func TestUnknownRouteReturns404(t *testing.T) {
	rec := get(t, newTestServer(), "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
