// Package probe issues the HTTP request for a single test case.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lcalzada-xor/rxss/pkg/config"
	"github.com/lcalzada-xor/rxss/pkg/scanner/identity"
)

// maxBodySize caps how much of a response is kept for classification.
const maxBodySize = 10 * 1024 * 1024

// Doer is satisfied by *http.Client and *network.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is the captured outcome of a successful probe. Any HTTP
// status counts as success.
type Response struct {
	Body       string
	StatusCode int
	Header     http.Header
	Identity   string
}

// Failure is a network-level probe error.
type Failure struct {
	URL string
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("probe %s: %v", f.URL, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Executor sends one GET per test URL and then waits the configured delay.
type Executor struct {
	client  Doer
	rotator identity.Rotator
	delay   time.Duration
	headers map[string]string
}

// NewExecutor creates an Executor with the default delay.
func NewExecutor(client Doer, rotator identity.Rotator) *Executor {
	if rotator == nil {
		rotator = identity.NewRandom(nil)
	}
	return &Executor{
		client:  client,
		rotator: rotator,
		delay:   config.DefaultDelay,
	}
}

// SetDelay sets the pause applied after every request.
func (e *Executor) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	e.delay = d
}

// Delay returns the pause applied after every request.
func (e *Executor) Delay() time.Duration {
	return e.delay
}

// SetHeaders sets extra headers sent with each probe. User-Agent is always
// taken from the rotator.
func (e *Executor) SetHeaders(headers map[string]string) {
	e.headers = headers
}

// Probe performs the request. Errors are always *Failure.
func (e *Executor) Probe(ctx context.Context, testURL string) (*Response, error) {
	resp, err := e.do(ctx, testURL)
	e.wait(ctx)
	return resp, err
}

func (e *Executor) do(ctx context.Context, testURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, testURL, nil)
	if err != nil {
		return nil, &Failure{URL: testURL, Err: err}
	}
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}
	ua := e.rotator.Pick()
	req.Header.Set("User-Agent", ua)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &Failure{URL: testURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Failure{URL: testURL, Err: fmt.Errorf("read body: %w", err)}
	}

	return &Response{
		Body:       string(body),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Identity:   ua,
	}, nil
}

func (e *Executor) wait(ctx context.Context) {
	if e.delay <= 0 {
		return
	}
	timer := time.NewTimer(e.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
