// Package appwrite talks to an Appwrite-compatible REST API. One Client is
// one session-capable handle: it keeps the session cookie the platform sets
// on login and sends it on every later call.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	"golang.org/x/net/publicsuffix"
)

const (
	headerProject         = "X-Appwrite-Project"
	headerResponseFormat  = "X-Appwrite-Response-Format"
	headerFallbackCookies = "X-Fallback-Cookies"
	headerUploadID        = "X-Appwrite-ID"

	responseFormat = "1.5.0"
	userAgent      = "simple-blog-go"
)

// Config options for the REST client
type Config struct {
	Endpoint  string        // API root including the version, e.g. https://cloud.appwrite.io/v1
	ProjectID string        // Project the client is bound to
	Timeout   time.Duration // Per-attempt HTTP timeout (default: 30s)
	RetryMax  int           // Retries on connection errors and 5xx (default: 0)
	ChunkSize int           // Upload chunk size in bytes (default: 5 MiB)
	Logger    *slog.Logger  // Transport logger (default: slog.Default())
}

// Client is a REST handle implementing AccountAPI, DocumentStore and FileStore.
type Client struct {
	endpoint  *url.URL
	projectID string
	chunkSize int
	http      *retryablehttp.Client

	mu              sync.RWMutex
	fallbackCookies string
}

var (
	_ simpleblog.AccountAPI    = (*Client)(nil)
	_ simpleblog.DocumentStore = (*Client)(nil)
	_ simpleblog.FileStore     = (*Client)(nil)
)

// New creates a REST client. The underlying HTTP client, cookie jar
// included, is created once and reused for every call.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if config.ProjectID == "" {
		return nil, errors.New("project id is required")
	}
	endpoint, err := (simpleblog.Config{EndpointURL: config.Endpoint}).Endpoint()
	if err != nil {
		return nil, err
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = config.RetryMax
	rc.Logger = config.Logger
	rc.HTTPClient.Jar = jar
	rc.HTTPClient.Timeout = config.Timeout
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		endpoint:  endpoint,
		projectID: config.ProjectID,
		chunkSize: config.ChunkSize,
		http:      rc,
	}, nil
}

// Endpoint returns the API root the client is bound to.
func (c *Client) Endpoint() *url.URL {
	u := *c.endpoint
	return &u
}

type errorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

// request describes one REST call.
type request struct {
	op          string
	method      string
	path        []string
	query       url.Values
	body        any
	rawBody     []byte
	contentType string
	headers     http.Header
}

func (c *Client) newRequest(ctx context.Context, r request) (*retryablehttp.Request, error) {
	u := simpleblog.JoinSegments(c.endpoint, r.path...)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body any
	contentType := r.contentType
	switch {
	case r.rawBody != nil:
		body = r.rawBody
	case r.body != nil:
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request: %w", r.op, err)
		}
		body = b
		contentType = "application/json"
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", r.op, err)
	}
	req.Header.Set(headerProject, c.projectID)
	req.Header.Set(headerResponseFormat, responseFormat)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range r.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if fb := c.fallback(); fb != "" {
		req.Header.Set(headerFallbackCookies, fb)
	}
	return req, nil
}

// do runs a call and decodes a JSON answer into out (which may be nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", r.op, err)
	}
	defer resp.Body.Close()

	if fb := resp.Header.Get(headerFallbackCookies); fb != "" {
		c.setFallback(fb)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(r.op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", r.op, err)
	}
	return nil
}

func decodeError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = string(bytes.TrimSpace(raw))
		if body.Message == "" {
			body.Message = http.StatusText(resp.StatusCode)
		}
	}
	return simpleblog.NewPlatformError(op, resp.StatusCode, body.Type, body.Message)
}

func (c *Client) fallback() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fallbackCookies
}

func (c *Client) setFallback(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallbackCookies = v
}
