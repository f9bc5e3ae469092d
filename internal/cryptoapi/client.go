// Package cryptoapi provides the shared REST client for the crypto portal backend.
//
// Every request goes through one Client configured with a fixed base URL and
// credential passthrough. The access token is fetched from a credential
// Provider per request and sent as a bearer credential when present.
package cryptoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/neboloop/cryptoportal/internal/credential"
)

// maxErrorBody bounds how much of a failed response is kept on APIError.
const maxErrorBody = 64 << 10

// Config is fixed at construction.
type Config struct {
	BaseURL string
	// WithCredentials keeps cookies set by the backend and replays them,
	// the server-side analogue of a browser's cross-origin credentials flag.
	WithCredentials bool
	Timeout         time.Duration
	// Transport overrides http.DefaultTransport (tests, proxies).
	Transport http.RoundTripper
}

// Client communicates with the crypto portal REST API.
type Client struct {
	baseURL  string
	cfg      Config
	http     *http.Client
	provider credential.Provider
}

// New creates a client. A nil provider means requests are sent without a
// bearer credential.
func New(cfg Config, provider credential.Provider) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", cfg.BaseURL)
	}
	if provider == nil {
		provider = credential.None
	}
	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		cfg:      cfg,
		provider: provider,
	}
	c.http = c.newHTTPClient()
	return c, nil
}

func (c *Client) newHTTPClient() *http.Client {
	hc := &http.Client{
		Timeout:   c.cfg.Timeout,
		Transport: c.cfg.Transport,
	}
	if c.cfg.WithCredentials {
		// cookiejar.New never returns an error.
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		hc.Jar = jar
	}
	return hc
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// For returns a client with the same configuration that takes its token from
// provider. It gets its own cookie jar so cookies never leak between callers.
func (c *Client) For(provider credential.Provider) *Client {
	if provider == nil {
		provider = credential.None
	}
	d := &Client{
		baseURL:  c.baseURL,
		cfg:      c.cfg,
		provider: provider,
	}
	d.http = d.newHTTPClient()
	return d
}

// Get sends GET path and decodes the JSON response into dest.
func (c *Client) Get(ctx context.Context, path string, dest any) error {
	return c.Do(ctx, http.MethodGet, path, nil, dest)
}

// Post sends body as JSON to path and decodes the response into dest.
func (c *Client) Post(ctx context.Context, path string, body, dest any) error {
	return c.Do(ctx, http.MethodPost, path, body, dest)
}

// Put sends body as JSON to path and decodes the response into dest.
func (c *Client) Put(ctx context.Context, path string, body, dest any) error {
	return c.Do(ctx, http.MethodPut, path, body, dest)
}

// Patch sends body as JSON to path and decodes the response into dest.
func (c *Client) Patch(ctx context.Context, path string, body, dest any) error {
	return c.Do(ctx, http.MethodPatch, path, body, dest)
}

// Delete sends DELETE path and decodes the response into dest.
func (c *Client) Delete(ctx context.Context, path string, dest any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, dest)
}

// Do sends one request. Transport errors are returned as the http.Client
// produced them; non-2xx responses become *APIError. There is no retry.
func (c *Client) Do(ctx context.Context, method, path string, reqBody, dest any) error {
	req, err := c.newRequest(ctx, method, path, reqBody)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(resp.StatusCode, b)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil && err != io.EOF {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// newRequest builds the request and attaches the bearer credential when the
// provider currently has a token.
func (c *Client) newRequest(ctx context.Context, method, path string, reqBody any) (*http.Request, error) {
	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))

	if token, ok := c.provider.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// requestID reuses the id chi assigned to the incoming request, if any.
func requestID(ctx context.Context) string {
	if id := chimw.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
