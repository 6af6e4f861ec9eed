package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
	"github.com/couchcryptid/skywatch-fusion/internal/observability"
)

const (
	provider  = "nominatim"
	userAgent = "skywatch-fusion/1.0 (+https://github.com/couchcryptid/skywatch-fusion)"
)

// Client implements domain.Geocoder using the Nominatim search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim search client against baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode searches for query inside Ukraine. A zero result with a nil error
// means nothing was found.
func (c *Client) Geocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	params := url.Values{
		"q":               {query + ", Ukraine"},
		"format":          {"jsonv2"},
		"limit":           {"1"},
		"countrycodes":    {"ua"},
		"accept-language": {"uk"},
	}

	start := time.Now()
	result, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.GeocodeAPIDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues(provider, "error").Inc()
	case !result.Found():
		c.metrics.GeocodeRequests.WithLabelValues(provider, "empty").Inc()
		c.logger.Debug("nominatim found nothing", "query", query)
	default:
		c.metrics.GeocodeRequests.WithLabelValues(provider, "success").Inc()
	}
	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.GeocodingResult{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return domain.GeocodingResult{}, nil
	}

	p := places[0]
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode lat %q: %w", p.Lat, err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode lon %q: %w", p.Lon, err)
	}

	label := p.Name
	if label == "" {
		label = p.DisplayName
	}
	return domain.GeocodingResult{Lat: lat, Lng: lng, Label: label, Provider: provider}, nil
}

// Nominatim jsonv2 response types. Coordinates arrive as strings.

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}
