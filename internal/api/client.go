// Package api implements the HTTP model client: request dispatch and
// streamed response decoding for the configured backends.
package api

import (
	"fmt"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// DefaultTimeoutSeconds bounds a single exchange, including the full
// streamed read.
const DefaultTimeoutSeconds = 300

// Client dispatches chat requests to a model backend
type Client struct {
	httpClient tls_client.HttpClient
	timeout    int
	proxyURL   string
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithProxy routes all requests of this client through the given proxy
// URL
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithTimeout sets the per-request timeout in seconds
func WithTimeout(seconds int) ClientOption {
	return func(c *Client) {
		c.timeout = seconds
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		timeout: DefaultTimeoutSeconds,
	}

	for _, opt := range opts {
		opt(client)
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(client.timeout),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}
	if client.proxyURL != "" {
		options = append(options, tls_client.WithProxyUrl(client.proxyURL))
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	client.httpClient = httpClient

	return client, nil
}
