package mapbox

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicalschema/data608-treehealth-dash/internal/observability"
	"github.com/logicalschema/data608-treehealth-dash/internal/raster"
)

const (
	testToken         = "test-token"
	testStyle         = "mapbox/light-v11"
	contentTypePNG    = "image/png"
	headerContentType = "Content-Type"
)

var testViewport = raster.Viewport{
	CenterLat: 40.70229736498986,
	CenterLon: -74.01581689028704,
	Zoom:      10,
	Width:     800,
	Height:    800,
}

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *StaticClient {
	return &StaticClient{
		token:      testToken,
		style:      testStyle,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		backoff:    time.Millisecond,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func writePNG(t *testing.T, w http.ResponseWriter, width, height int) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.White)
	w.Header().Set(headerContentType, contentTypePNG)
	require.NoError(t, png.Encode(w, img))
}

func TestStaticClient_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mapbox/light-v11/static/-74.015817,40.702297,10,0,0/800x800", r.URL.Path)
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))
		assert.Equal(t, "false", r.URL.Query().Get("logo"))
		writePNG(t, w, 800, 800)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	img, err := c.StaticImage(context.Background(), testViewport)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 800), img.Bounds())
}

func TestStaticClient_APIError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized - Invalid Token"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.StaticImage(context.Background(), testViewport)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestStaticClient_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writePNG(t, w, 4, 4)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	img, err := c.StaticImage(context.Background(), testViewport)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, int32(2), calls.Load())
}

func TestStaticClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.StaticImage(context.Background(), testViewport)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(maxAttempts), calls.Load())
}

func TestStaticClient_NotAnImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("definitely not a png"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.StaticImage(context.Background(), testViewport)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestStaticClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient = &http.Client{Timeout: 50 * time.Millisecond}

	_, err := c.StaticImage(context.Background(), testViewport)
	require.Error(t, err)
}

func TestNewStaticClient_WithBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/styles/v1/mapbox/light-v11/static/-74.015817,40.702297,10,0,0/800x800", r.URL.Path)
		writePNG(t, w, 2, 2)
	}))
	defer srv.Close()

	c := NewStaticClient(testToken, testStyle, time.Second, testMetrics(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	c.WithBaseURL(srv.URL + "/styles/v1/")
	img, err := c.StaticImage(context.Background(), testViewport)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
}
