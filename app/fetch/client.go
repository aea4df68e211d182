package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTimeout      = 60 * time.Second
	DefaultMaxRedirects = 5

	// NoRedirects as MaxRedirects makes any redirect an error.
	NoRedirects = -1
)

type Request struct {
	URL          string
	Headers      map[string]string
	Timeout      time.Duration
	MaxRedirects int
}

type Response struct {
	Status  int
	Headers http.Header
	Body    string
}

// Client performs a single GET request. Timeout and redirect limits are
// applied by the implementation.
type Client interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	transport http.RoundTripper
}

func NewHTTPClient() *HTTPClient {
	return &HTTPClient{transport: http.DefaultTransport}
}

func (c *HTTPClient) Do(ctx context.Context, req Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxRedirects := req.MaxRedirects
	switch {
	case maxRedirects == 0:
		maxRedirects = DefaultMaxRedirects
	case maxRedirects < 0:
		maxRedirects = 0
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	client := &http.Client{
		Transport: c.transport,
		CheckRedirect: func(r *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Body:    string(body),
	}, nil
}
