package navcanada

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/upper-winds-etl/internal/domain"
	"github.com/couchcryptid/upper-winds-etl/internal/observability"
)

// DefaultBaseURL is the NAV CANADA alpha-numeric weather endpoint.
const DefaultBaseURL = "https://plan.navcanada.ca/weather/api/alpha/"

// upperWindProduct selects the upper winds forecast from the alpha endpoint.
const upperWindProduct = "upperwind"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// Client fetches upper wind forecasts from the NAV CANADA weather API.
// It implements pipeline.Fetcher.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a forecast client. Every request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch retrieves and decodes the upper wind forecast for one site. Any
// failure is returned as a *domain.FetchError.
func (c *Client) Fetch(ctx context.Context, airportCode string) (domain.RawForecast, error) {
	start := time.Now()
	raw, err := c.fetch(ctx, airportCode)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("error").Inc()
		return domain.RawForecast{}, &domain.FetchError{AirportCode: airportCode, Err: err}
	}
	c.metrics.FetchRequests.WithLabelValues("success").Inc()
	c.logger.Debug("forecast fetched", "airport_code", airportCode, "entries", len(raw.Entries))
	return raw, nil
}

func (c *Client) fetch(ctx context.Context, airportCode string) (domain.RawForecast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(airportCode), nil)
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.RawForecast{}, fmt.Errorf("navcanada API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("read response: %w", err)
	}

	return domain.ParseRawForecast(body)
}

func (c *Client) requestURL(airportCode string) string {
	params := url.Values{
		"site":  {airportCode},
		"alpha": {upperWindProduct},
	}
	return c.baseURL + "?" + params.Encode()
}
