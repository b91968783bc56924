// Package client talks to the Aryabhata service, which owns tokenization,
// calculation and the character, colour and raga tables.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/tliron/commonlog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.apratyaksh.org/api/v1"
	DefaultTimeout   = 30 * time.Second
	DefaultCacheTTL  = 10 * time.Minute
	DefaultRateLimit = 5.0
	DefaultRateBurst = 5

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 8 << 20
)

var log = commonlog.GetLogger("varnamala.client")

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	CacheTTL time.Duration

	// RateLimit is the sustained request rate per second. Negative disables
	// limiting.
	RateLimit float64
	RateBurst int

	HTTPClient *http.Client
}

// Client is an Aryabhata service client. It is safe for concurrent use.
type Client struct {
	http     *http.Client
	baseURL  string
	token    string
	limiter  *rate.Limiter
	cache    *gocache.Cache
	cacheTTL time.Duration
}

// New creates a client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = DefaultRateBurst
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Limit(opts.RateLimit)
	if opts.RateLimit < 0 {
		limit = rate.Inf
	}

	return &Client{
		http:     httpClient,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		token:    opts.Token,
		limiter:  rate.NewLimiter(limit, opts.RateBurst),
		cache:    gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		cacheTTL: opts.CacheTTL,
	}
}

// APIError is a failed service call: a non-2xx status, or a 2xx response
// that reports an error in its body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("service returned %d: %s", e.Status, e.Message)
}

// errorBody is the shape of the service's error payloads.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (b errorBody) message() string {
	if b.Detail != "" {
		return b.Detail
	}
	return b.Error
}

// getCached performs a GET, serving repeated calls within the cache TTL from
// memory. If check is non-nil it runs after decoding, and a body it rejects
// is not cached.
func (c *Client) getCached(ctx context.Context, path string, out any, check func() error) error {
	if c.cacheTTL > 0 {
		if body, ok := c.cache.Get(path); ok {
			log.Debugf("cache hit: %s", path)
			return decode(body.([]byte), out)
		}
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := decode(body, out); err != nil {
		return err
	}
	if check != nil {
		if err := check(); err != nil {
			return err
		}
	}
	if c.cacheTTL > 0 {
		c.cache.Set(path, body, c.cacheTTL)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	return decode(body, out)
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	log.Debugf("%s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		return nil, &APIError{Status: resp.StatusCode, Message: eb.message()}
	}
	return body, nil
}

// Invalidate drops all cached responses.
func (c *Client) Invalidate() {
	c.cache.Flush()
}

func decode(body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
