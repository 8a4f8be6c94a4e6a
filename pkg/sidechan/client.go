// Package sidechan is the client for chatmux's side-channel generation
// capabilities: image generation, structured task generation and external
// UI generation. Each capability is a plain JSON request/response call; a
// failed call is terminal for that turn and is reported to the caller as a
// typed error, never retried implicitly.
package sidechan

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the default chatmux backend address.
	DefaultBaseURL = "http://127.0.0.1:8390"

	// DefaultTimeout is the default request timeout. Generation calls can
	// take a while; the timeout covers the whole round trip.
	DefaultTimeout = 120 * time.Second
)

// Client is the side-channel API client.
type Client struct {
	// Image provides image generation.
	Image *ImageService

	// Task provides structured task generation.
	Task *TaskService

	// Preview provides external UI generation.
	Preview *PreviewService

	config *clientConfig
	http   *httpClient
}

// clientConfig holds the client configuration.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithBaseURL sets a custom backend base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetry sets the maximum number of retries for retryable transport
// errors. The default is zero: a settled side-channel call is final.
func WithRetry(maxRetries int) Option {
	return func(c *clientConfig) {
		c.maxRetries = maxRetries
	}
}

// NewClient creates a side-channel client.
func NewClient(opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
	}

	c := &Client{
		config: cfg,
		http:   newHTTPClient(cfg),
	}
	c.Image = &ImageService{client: c}
	c.Task = &TaskService{client: c}
	c.Preview = &PreviewService{client: c}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.baseURL
}
