package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"
)

// Version is set at build time via -ldflags
var Version = "dev"

const DefaultAccept = "application/rss+xml, application/atom+xml, application/feed+json, text/x-opml"

var ErrNotModified = errors.New("not modified")

// StatusError reports an unexpected upstream status code.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Code, e.URL)
}

// Options tune a single fetch. A zero Timeout or MaxRedirects takes the
// default; use NoRedirects to refuse redirects altogether. Unconditional
// skips the remembered validators so the server always sends a body.
type Options struct {
	Headers       map[string]string
	Timeout       time.Duration
	MaxRedirects  int
	Unconditional bool
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	switch {
	case o.MaxRedirects == 0:
		o.MaxRedirects = DefaultMaxRedirects
	case o.MaxRedirects < 0:
		o.MaxRedirects = NoRedirects
	}
	return o
}

func DefaultOptions() Options {
	return Options{
		Timeout:      DefaultTimeout,
		MaxRedirects: DefaultMaxRedirects,
	}
}

func DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": "feedkit/" + Version,
		"Accept":     DefaultAccept,
	}
}

// Fetcher issues conditional GET requests, remembering the validators of
// the last successful response per URL.
type Fetcher struct {
	client Client

	mu           sync.Mutex
	etags        map[string]string
	lastModified map[string]string
}

func NewFetcher(client Client) *Fetcher {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Fetcher{
		client:       client,
		etags:        make(map[string]string),
		lastModified: make(map[string]string),
	}
}

// Fetch returns the body of url. It returns ErrNotModified when the server
// answers 304 and a *StatusError for any other status of 300 or above.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts Options) (string, error) {
	opts = opts.withDefaults()

	headers := DefaultHeaders()
	maps.Copy(headers, opts.Headers)

	if !opts.Unconditional {
		f.mu.Lock()
		if etag, ok := f.etags[url]; ok {
			headers["If-None-Match"] = etag
		}
		if lastModified, ok := f.lastModified[url]; ok {
			headers["If-Modified-Since"] = lastModified
		}
		f.mu.Unlock()
	}

	resp, err := f.client.Do(ctx, Request{
		URL:          url,
		Headers:      headers,
		Timeout:      opts.Timeout,
		MaxRedirects: opts.MaxRedirects,
	})
	if err != nil {
		return "", err
	}

	if resp.Status == http.StatusNotModified && !opts.Unconditional {
		slog.Debug("Feed not modified", "url", url)
		return "", ErrNotModified
	}
	if resp.Status >= 300 {
		return "", &StatusError{URL: url, Code: resp.Status}
	}

	etag := resp.Headers.Get("ETag")
	lastModified := resp.Headers.Get("Last-Modified")

	f.mu.Lock()
	if etag != "" {
		f.etags[url] = etag
	}
	if lastModified != "" {
		f.lastModified[url] = lastModified
	}
	f.mu.Unlock()

	slog.Debug("Feed fetched", "url", url, "status", resp.Status, "bytes", len(resp.Body))

	return resp.Body, nil
}
