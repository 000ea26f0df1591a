package network

import (
	"crypto/tls"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Settings configures a Client.
type Settings struct {
	Timeout time.Duration
	Proxy   string
	// RateLimit is requests per second (0 = unlimited)
	RateLimit float64
	// Retries applies to transport errors only; HTTP statuses are never retried.
	Retries        int
	NoFollowRedirs bool
}

// Client wraps http.Client with optional retry logic and rate limiting.
type Client struct {
	HTTPClient  *http.Client
	RateLimiter *RateLimiter
	retries     int
}

// NewClient creates a new Client instance.
func NewClient(s Settings) (*Client, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout:   s.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		// Probes are sequential, a small pool is enough
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: s.Timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if s.Proxy != "" {
		pURL, err := url.Parse(s.Proxy)
		if err != nil || pURL.Host == "" {
			return nil, fmt.Errorf("invalid proxy URL %q", s.Proxy)
		}
		transport.Proxy = http.ProxyURL(pURL)
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   s.Timeout,
	}
	if s.NoFollowRedirs {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	retries := s.Retries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		HTTPClient:  httpClient,
		RateLimiter: NewRateLimiter(s.RateLimit),
		retries:     retries,
	}, nil
}

// Do sends an HTTP request with rate limiting and transport-error retries.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.RateLimiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	var resp *http.Response
	var err error

	for i := 0; i <= c.retries; i++ {
		if i > 0 {
			// Exponential backoff: 100ms, 200ms, 400ms
			backoff := time.Duration(math.Pow(2, float64(i-1))*100) * time.Millisecond
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(backoff):
			}
		}

		resp, err = c.HTTPClient.Do(req)
		if err == nil {
			return resp, nil
		}
		if req.Context().Err() != nil {
			return nil, err
		}
	}

	if c.retries > 0 {
		return nil, fmt.Errorf("request failed after %d retries: %w", c.retries, err)
	}
	return nil, err
}
