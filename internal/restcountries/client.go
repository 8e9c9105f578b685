package restcountries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("not found")

// Fetcher defines the record operations atlas needs from the API.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]Country, error)
	FetchByRegion(ctx context.Context, region string) ([]Country, error)
	FetchByName(ctx context.Context, name string) (*Country, error)
	FetchByCodes(ctx context.Context, codes []string) ([]Country, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the REST Countries HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// Options configure a Client. Zero values use defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

const (
	DefaultBaseURL   = "https://restcountries.com/v3.1"
	defaultUserAgent = "atlas/0.1"
	defaultTimeout   = 10 * time.Second

	// The /all endpoint rejects projections with more than ten fields.
	recordFields = "name,capital,region,subregion,population,languages,currencies,cca2,cca3,borders"
)

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: defaultUserAgent,
	}, nil
}

// FetchAll retrieves every country.
func (c *Client) FetchAll(ctx context.Context) ([]Country, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Country
	if err := c.do(ctx, "/all", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchByRegion retrieves the countries of a single region.
func (c *Client) FetchByRegion(ctx context.Context, region string) ([]Country, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	region = strings.TrimSpace(region)
	if region == "" {
		return c.FetchAll(ctx)
	}
	var payload []Country
	if err := c.do(ctx, "/region/"+region, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchByName looks a country up by name. A nil country with a nil error
// means the API knows no such country.
func (c *Client) FetchByName(ctx context.Context, name string) (*Country, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var payload []Country
	if err := c.do(ctx, "/name/"+name, nil, &payload); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}
	return &payload[0], nil
}

// FetchByCodes retrieves the countries matching cca2/cca3 codes.
func (c *Client) FetchByCodes(ctx context.Context, codes []string) ([]Country, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	cleaned := make([]string, 0, len(codes))
	for _, code := range codes {
		if code = strings.TrimSpace(code); code != "" {
			cleaned = append(cleaned, code)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	values := url.Values{}
	values.Set("codes", strings.Join(cleaned, ","))
	var payload []Country
	if err := c.do(ctx, "/alpha", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, rel string, values url.Values, dest any) error {
	if values == nil {
		values = url.Values{}
	}
	values.Set("fields", recordFields)

	reqURL := *c.baseURL
	reqURL.Path = path.Join(c.baseURL.Path, rel)
	reqURL.RawQuery = values.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("api %s: %w", rel, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
