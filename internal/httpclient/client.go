package httpclient

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
)

// HTTPClientConfig holds configuration for HTTP client creation
type HTTPClientConfig struct {
	Timeout            time.Duration
	FollowRedirects    bool
	MaxRedirects       int
	InsecureSkipVerify bool
	UserAgent          string
	CustomHeaders      map[string]string
}

// DefaultHTTPClientConfig returns a config with sensible defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:         30 * time.Second,
		FollowRedirects: true,
		MaxRedirects:    10,
	}
}

// HTTPClient wraps http.Client with configuration
type HTTPClient struct {
	client *http.Client
	config HTTPClientConfig
}

// HTTPClientBuilder provides a fluent interface for building HTTP clients
type HTTPClientBuilder struct {
	config HTTPClientConfig
}

// NewHTTPClientBuilder creates a new builder with default configuration
func NewHTTPClientBuilder() *HTTPClientBuilder {
	return &HTTPClientBuilder{config: DefaultHTTPClientConfig()}
}

// WithTimeout sets the overall request timeout
func (b *HTTPClientBuilder) WithTimeout(timeout time.Duration) *HTTPClientBuilder {
	b.config.Timeout = timeout
	return b
}

// WithRedirects controls whether redirects are followed
func (b *HTTPClientBuilder) WithRedirects(follow bool) *HTTPClientBuilder {
	b.config.FollowRedirects = follow
	return b
}

// WithUserAgent sets the User-Agent header sent with every request
func (b *HTTPClientBuilder) WithUserAgent(userAgent string) *HTTPClientBuilder {
	b.config.UserAgent = userAgent
	return b
}

// WithInsecureSkipVerify disables TLS certificate verification
func (b *HTTPClientBuilder) WithInsecureSkipVerify(skip bool) *HTTPClientBuilder {
	b.config.InsecureSkipVerify = skip
	return b
}

// WithCustomHeaders sets additional headers sent with every request
func (b *HTTPClientBuilder) WithCustomHeaders(headers map[string]string) *HTTPClientBuilder {
	b.config.CustomHeaders = headers
	return b
}

// Build creates the configured HTTP client
func (b *HTTPClientBuilder) Build() (*HTTPClient, error) {
	if b.config.Timeout <= 0 {
		return nil, errorwrapper.NewError("HTTP client timeout must be positive, got %v", b.config.Timeout)
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if b.config.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := &http.Client{
		Timeout:   b.config.Timeout,
		Transport: transport,
	}

	if b.config.FollowRedirects {
		maxRedirects := b.config.MaxRedirects
		if maxRedirects <= 0 {
			maxRedirects = 10
		}
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errorwrapper.NewError("stopped after %d redirects", maxRedirects)
			}
			return nil
		}
	} else {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &HTTPClient{client: client, config: b.config}, nil
}

// FetchResult holds the response of a single GET request
type FetchResult struct {
	StatusCode int
	Body       []byte
	FinalURL   string
}

// Get performs a GET request and reads the full response body. The returned
// FinalURL reflects any redirects that were followed. A non-2xx status is not
// an error; callers inspect StatusCode.
func (c *HTTPClient) Get(ctx context.Context, url string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create request for "+url)
	}

	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	for key, value := range c.config.CustomHeaders {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errorwrapper.NewNetworkError(url, err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorwrapper.NewNetworkError(url, "failed to read response body: "+err.Error(), err)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &FetchResult{
		StatusCode: resp.StatusCode,
		Body:       body,
		FinalURL:   finalURL,
	}, nil
}
