package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"FundLens/internal/model"
)

const (
	// DefaultBaseURL is the public mutual fund NAV API.
	DefaultBaseURL = "https://api.mfapi.in"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5
)

// APIError is a non-200 answer from the upstream API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mfapi: status %d, endpoint: %s, body: %s", e.StatusCode, e.Endpoint, e.Body)
}

// NotFound reports whether the upstream does not know the requested resource.
func (e *APIError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// MFAPIFetcher implements Fetcher using the mfapi.in REST API.
type MFAPIFetcher struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures an MFAPIFetcher.
type Option func(*MFAPIFetcher)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(f *MFAPIFetcher) {
		if baseURL != "" {
			f.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithProxy routes requests through an HTTP(S) proxy.
func WithProxy(proxyURL string) Option {
	return func(f *MFAPIFetcher) {
		if proxyURL == "" {
			return
		}
		if u, err := url.Parse(proxyURL); err == nil {
			f.client.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *MFAPIFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) Option {
	return func(f *MFAPIFetcher) {
		if requestsPerSecond > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// NewMFAPIFetcher creates a new fetcher.
func NewMFAPIFetcher(opts ...Option) *MFAPIFetcher {
	f := &MFAPIFetcher{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *MFAPIFetcher) Name() string { return "mfapi" }

// FetchSchemes returns the full scheme directory.
func (f *MFAPIFetcher) FetchSchemes(ctx context.Context) ([]model.Scheme, error) {
	var schemes []model.Scheme
	if err := f.get(ctx, "/mf", &schemes); err != nil {
		return nil, errors.Wrap(err, "fetch schemes")
	}
	return schemes, nil
}

// FetchScheme returns metadata and NAV history of one scheme.
func (f *MFAPIFetcher) FetchScheme(ctx context.Context, code int) (*model.SchemeDetails, error) {
	var details model.SchemeDetails
	if err := f.get(ctx, fmt.Sprintf("/mf/%d", code), &details); err != nil {
		return nil, errors.Wrapf(err, "fetch scheme %d", code)
	}
	return &details, nil
}

func (f *MFAPIFetcher) get(ctx context.Context, path string, out interface{}) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limit wait")
	}

	endpoint := f.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Endpoint: path, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}
