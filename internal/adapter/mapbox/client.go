package mapbox

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // static styles may be served as JPEG
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/logicalschema/data608-treehealth-dash/internal/observability"
	"github.com/logicalschema/data608-treehealth-dash/internal/raster"
)

const (
	// DefaultBaseURL is the public Static Images API root.
	DefaultBaseURL = "https://api.mapbox.com/styles/v1"
	maxAttempts    = 3
)

// StaticClient fetches basemap images from the Mapbox Static Images API.
type StaticClient struct {
	token      string
	style      string
	httpClient *http.Client
	baseURL    string
	backoff    time.Duration
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewStaticClient creates a static-image client for a style such as
// "mapbox/light-v11".
func NewStaticClient(token, style string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *StaticClient {
	return &StaticClient{
		token: token,
		style: style,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: DefaultBaseURL,
		backoff: 200 * time.Millisecond,
		metrics: metrics,
		logger:  logger,
	}
}

// WithBaseURL points the client at another API root, such as a caching proxy.
func (c *StaticClient) WithBaseURL(baseURL string) *StaticClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// StaticImage returns the basemap covering v. Transient failures (network
// errors, 429 and 5xx) are retried with exponential backoff.
func (c *StaticClient) StaticImage(ctx context.Context, v raster.Viewport) (image.Image, error) {
	u := c.imageURL(v)

	backoff := c.backoff
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		img, retryable, err := c.doRequest(ctx, u)
		if err == nil {
			c.metrics.MapboxRequests.WithLabelValues("success").Inc()
			return img, nil
		}
		lastErr = err
		if !retryable || attempt == maxAttempts {
			break
		}
		c.logger.Warn("mapbox static image failed, retrying", "attempt", attempt, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			lastErr = ctx.Err()
			break
		}
		backoff = retry.NextBackoff(backoff, 2*time.Second)
	}
	c.metrics.MapboxRequests.WithLabelValues("error").Inc()
	return nil, lastErr
}

func (c *StaticClient) imageURL(v raster.Viewport) string {
	// Mapbox uses lon,lat order.
	pos := fmt.Sprintf("%.6f,%.6f,%s,0,0",
		v.CenterLon, v.CenterLat, strconv.FormatFloat(v.Zoom, 'f', -1, 64))
	params := url.Values{
		"access_token": {c.token},
		"attribution":  {"false"},
		"logo":         {"false"},
	}
	return fmt.Sprintf("%s/%s/static/%s/%dx%d?%s", c.baseURL, c.style, pos, v.Width, v.Height, params.Encode())
}

func (c *StaticClient) doRequest(ctx context.Context, fullURL string) (image.Image, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.MapboxAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("static image request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("decode static image: %w", err)
	}
	return img, false, nil
}
