// Package kakao resolves Korean road addresses to coordinates with the Kakao Local
// address search API.
package kakao

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"academy-map-api/internal/metrics"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the address search endpoint.
const DefaultBaseURL = "https://dapi.kakao.com/v2/local/search/address.json"

var (
	// ErrNotFound means the API answered but matched no address.
	ErrNotFound = errors.New("kakao: address not found")
	// ErrQuotaExhausted means the daily call budget is spent, locally or upstream.
	ErrQuotaExhausted = errors.New("kakao: daily call budget exhausted")
)

// Coordinates is a resolved WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type addressResponse struct {
	Documents []struct {
		AddressName string `json:"address_name"`
		X           string `json:"x"`
		Y           string `json:"y"`
	} `json:"documents"`
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at another endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithRateLimit sets the requests-per-second rate limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
}

// WithDailyLimit caps the number of calls the client makes. Zero means unlimited.
func WithDailyLimit(n int) Option {
	return func(c *Client) {
		c.dailyLimit = int64(n)
	}
}

// Client calls the address search API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
	dailyLimit int64
	calls      atomic.Int64
}

// NewClient creates a client authenticating with the REST API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		limiter:    rate.NewLimiter(10, 10),
		dailyLimit: 100000,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calls returns the number of requests issued so far.
func (c *Client) Calls() int64 {
	return c.calls.Load()
}

// Geocode returns the coordinates of the first document matching address. It returns
// ErrNotFound when nothing matches and ErrQuotaExhausted once the budget is spent.
func (c *Client) Geocode(ctx context.Context, address string) (Coordinates, error) {
	if c.apiKey == "" {
		return Coordinates{}, eris.New("kakao: api key not configured")
	}
	if c.dailyLimit > 0 && c.calls.Load() >= c.dailyLimit {
		return Coordinates{}, ErrQuotaExhausted
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Coordinates{}, eris.Wrap(err, "kakao: rate limit")
	}

	reqURL := c.baseURL + "?" + url.Values{"query": {address}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Coordinates{}, eris.Wrap(err, "kakao: build request")
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	c.calls.Add(1)
	metrics.GeocodeRequestsTotal.Inc()
	start := time.Now()
	coords, err := c.do(req)
	metrics.GeocodeDurationMs.Observe(float64(time.Since(start).Milliseconds()))

	switch {
	case err == nil:
		metrics.GeocodeSuccessTotal.Inc()
	case errors.Is(err, ErrNotFound):
		metrics.GeocodeNotFoundTotal.Inc()
	default:
		metrics.GeocodeFailTotal.Inc()
	}
	return coords, err
}

func (c *Client) do(req *http.Request) (Coordinates, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, eris.Wrap(err, "kakao: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusTooManyRequests {
		return Coordinates{}, ErrQuotaExhausted
	}
	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, eris.Errorf("kakao: returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coordinates{}, eris.Wrap(err, "kakao: read body")
	}

	var parsed addressResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Coordinates{}, eris.Wrap(err, "kakao: parse response")
	}
	if len(parsed.Documents) == 0 {
		return Coordinates{}, ErrNotFound
	}

	first := parsed.Documents[0]
	lat, err := strconv.ParseFloat(first.Y, 64)
	if err != nil {
		return Coordinates{}, eris.Wrapf(err, "kakao: parse latitude %q", first.Y)
	}
	lng, err := strconv.ParseFloat(first.X, 64)
	if err != nil {
		return Coordinates{}, eris.Wrapf(err, "kakao: parse longitude %q", first.X)
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}
