// Package neis reads the academy registry of the NEIS education open data API.
package neis

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"academy-map-api/internal/metrics"
	"academy-map-api/internal/models"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the academy registry endpoint.
const DefaultBaseURL = "https://open.neis.go.kr/hub/acaInsTiInfo"

// MaxPageSize is the largest page the API serves.
const MaxPageSize = 1000

const (
	codeOK     = "INFO-000"
	codeNoData = "INFO-200"
)

// Row is one academy as listed by the registry.
type Row struct {
	RegionCode   string `json:"ATPT_OFCDC_SC_CODE"`
	RegionName   string `json:"ATPT_OFCDC_SC_NM"`
	DistrictArea string `json:"ADMST_ZONE_NM"`
	Number       string `json:"ACA_ASNUM"`
	Name         string `json:"ACA_NM"`
	Course       string `json:"LE_CRSE_NM"`
	RoadAddress  string `json:"FA_RDNMA"`
	Phone        string `json:"FA_TELNO"`
}

// Academy converts the row into an academy without ID or coordinates.
func (r Row) Academy() models.Academy {
	return models.Academy{
		Name:         strings.TrimSpace(r.Name),
		Course:       strings.TrimSpace(r.Course),
		Address:      strings.TrimSpace(r.RoadAddress),
		Phone:        strings.TrimSpace(r.Phone),
		RegionCode:   r.RegionCode,
		RegionName:   r.RegionName,
		DistrictArea: r.DistrictArea,
	}
}

// Page is one page of registry rows with the total the registry reported.
type Page struct {
	Rows  []Row
	Total int
}

type result struct {
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

// The registry answers either {"acaInsTiInfo": [{"head": [...]}, {"row": [...]}]}
// or a bare {"RESULT": {...}} when there is nothing to return.
type envelope struct {
	Sections []struct {
		Head []struct {
			ListTotalCount *int    `json:"list_total_count"`
			Result         *result `json:"RESULT"`
		} `json:"head"`
		Row []Row `json:"row"`
	} `json:"acaInsTiInfo"`
	Result *result `json:"RESULT"`
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

// WithPageSize sets the rows requested per page, capped at MaxPageSize.
func WithPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = min(max(1, n), MaxPageSize)
	}
}

// WithMaxAttempts sets how many times a single page is requested before giving up.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		c.maxAttempts = max(1, n)
	}
}

// WithRateLimit sets the requests-per-second rate limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
}

// Client pages through the academy registry.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	pageSize    int
	maxAttempts int
	limiter     *rate.Limiter
}

// NewClient creates a registry client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		pageSize:    MaxPageSize,
		maxAttempts: 3,
		limiter:     rate.NewLimiter(5, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage requests one page (1-based) of a region's academies. An empty page is
// not an error.
func (c *Client) FetchPage(ctx context.Context, regionCode string, page int) (Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Page{}, eris.Wrap(err, "neis: rate limit")
	}

	params := url.Values{
		"KEY":                {c.apiKey},
		"Type":               {"json"},
		"pIndex":             {strconv.Itoa(page)},
		"pSize":              {strconv.Itoa(c.pageSize)},
		"ATPT_OFCDC_SC_CODE": {regionCode},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Page{}, eris.Wrap(err, "neis: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Page{}, eris.Wrap(err, "neis: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return Page{}, eris.Errorf("neis: returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, eris.Wrap(err, "neis: read body")
	}
	metrics.RegistryPagesTotal.Inc()

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Page{}, eris.Wrap(err, "neis: parse response")
	}

	if env.Result != nil {
		if env.Result.Code == codeNoData {
			return Page{}, nil
		}
		return Page{}, eris.Errorf("neis: %s %s", env.Result.Code, env.Result.Message)
	}

	var out Page
	for _, s := range env.Sections {
		for _, h := range s.Head {
			if h.ListTotalCount != nil {
				out.Total = *h.ListTotalCount
			}
			if h.Result != nil && h.Result.Code != codeOK {
				return Page{}, eris.Errorf("neis: %s %s", h.Result.Code, h.Result.Message)
			}
		}
		out.Rows = append(out.Rows, s.Row...)
	}
	return out, nil
}

// FetchRegion pages through a region from page 1, handing every non-empty page to fn.
// It stops on an empty page, a short page, or once the reported total is reached. A
// page that fails maxAttempts times in a row ends the region with an error; rows
// already handed to fn stay delivered. It returns the number of rows delivered.
func (c *Client) FetchRegion(ctx context.Context, regionCode string, fn func([]Row) error) (int, error) {
	delivered := 0
	for page := 1; ; page++ {
		p, err := c.fetchWithAttempts(ctx, regionCode, page)
		if err != nil {
			return delivered, err
		}
		if len(p.Rows) == 0 {
			return delivered, nil
		}

		if err := fn(p.Rows); err != nil {
			return delivered, eris.Wrapf(err, "neis: handle %s page %d", regionCode, page)
		}
		delivered += len(p.Rows)
		log.Debug().Str("region", regionCode).Int("page", page).Int("rows", len(p.Rows)).Int("total", p.Total).Msg("registry page fetched")

		if len(p.Rows) < c.pageSize || (p.Total > 0 && delivered >= p.Total) {
			return delivered, nil
		}
	}
}

func (c *Client) fetchWithAttempts(ctx context.Context, regionCode string, page int) (Page, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		p, err := c.FetchPage(ctx, regionCode, page)
		if err == nil {
			return p, nil
		}
		if ctx.Err() != nil {
			return Page{}, eris.Wrap(ctx.Err(), "neis: fetch cancelled")
		}
		lastErr = err
		log.Warn().Err(err).Str("region", regionCode).Int("page", page).Int("attempt", attempt).Msg("registry page failed")
	}
	return Page{}, eris.Wrapf(lastErr, "neis: %s page %d failed after %d attempts", regionCode, page, c.maxAttempts)
}
