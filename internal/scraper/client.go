package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	// ErrUpstream marks failures of the scraped site: transport errors and non-2xx responses.
	ErrUpstream = errors.New("upstream request failed")
	// ErrNotHTML is returned when a page is not an HTML document.
	ErrNotHTML = errors.New("page is not html")
	// ErrBodyTooLarge is returned when a page exceeds Options.MaxBodyBytes.
	ErrBodyTooLarge = errors.New("page body too large")
)

// UpstreamError reports a non-2xx response from the scraped site.
type UpstreamError struct {
	URL        string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d for %s", e.StatusCode, e.URL)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	MaxRetries      int
	SpecConcurrency int
	MaxBodyBytes    int64
	Logger          *slog.Logger
	// Transport overrides the base HTTP transport; it is still traced and size-limited.
	Transport http.RoundTripper
}

// Page is a fetched HTML document.
type Page struct {
	// URL is the final URL after redirects.
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
}

// Client fetches and parses vehicle catalog pages. It is safe for concurrent use.
type Client struct {
	http *resty.Client
	opts Options
	log  *slog.Logger
}

// New builds a Client with a traced, retrying resty client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.SpecConcurrency <= 0 {
		opts.SpecConcurrency = 4
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	client := resty.New()
	client.SetTransport(otelhttp.NewTransport(limitTransport{base: base, max: opts.MaxBodyBytes}))
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.MaxRetries)
	client.SetRetryWaitTime(250 * time.Millisecond)
	client.SetRetryMaxWaitTime(2 * time.Second)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return !errors.Is(err, ErrBodyTooLarge) && !errors.Is(err, context.Canceled)
		}
		return res.StatusCode() == http.StatusTooManyRequests || res.StatusCode() >= http.StatusInternalServerError
	})
	client.SetHeader("Accept", "text/html,application/xhtml+xml")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{http: client, opts: opts, log: opts.Logger}
}

// Fetch downloads a single HTML page.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	res, err := c.http.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		if errors.Is(err, ErrBodyTooLarge) {
			return nil, fmt.Errorf("fetch %s: %w", rawURL, ErrBodyTooLarge)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", rawURL, ctxErr)
		}
		return nil, fmt.Errorf("fetch %s: %w: %w", rawURL, ErrUpstream, err)
	}
	if !res.IsSuccess() {
		return nil, &UpstreamError{URL: rawURL, StatusCode: res.StatusCode()}
	}

	body := res.Body()
	contentType := res.Header().Get("Content-Type")
	if !isHTML(contentType, body) {
		return nil, fmt.Errorf("fetch %s (%s): %w", rawURL, contentType, ErrNotHTML)
	}
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}

	finalURL := rawURL
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &Page{
		URL:         finalURL,
		StatusCode:  res.StatusCode(),
		ContentType: contentType,
		Body:        body,
		FetchedAt:   res.ReceivedAt().UTC(),
	}, nil
}

func isHTML(contentType string, body []byte) bool {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// limitTransport caps response bodies at max bytes; max <= 0 disables the cap.
type limitTransport struct {
	base http.RoundTripper
	max  int64
}

func (t limitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil || t.max <= 0 {
		return res, err
	}
	if res.ContentLength > t.max {
		res.Body.Close()
		return nil, ErrBodyTooLarge
	}
	res.Body = &limitedBody{rc: res.Body, remaining: t.max}
	return res, nil
}

type limitedBody struct {
	rc        io.ReadCloser
	remaining int64
}

func (b *limitedBody) Read(p []byte) (int, error) {
	// read one byte past the limit so an oversized body is detected
	if int64(len(p)) > b.remaining+1 {
		p = p[:b.remaining+1]
	}
	n, err := b.rc.Read(p)
	b.remaining -= int64(n)
	if b.remaining < 0 {
		return n, ErrBodyTooLarge
	}
	return n, err
}

func (b *limitedBody) Close() error { return b.rc.Close() }
