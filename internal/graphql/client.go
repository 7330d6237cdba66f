// Package graphql is a minimal GraphQL HTTP transport: JSON POST
// operations, response envelope decoding, per-host rate limiting, and a
// short-lived response cache for repeat fetches of the same operation.
package graphql

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultCacheTTL = 10 * time.Minute

	// Per-host steady rate and burst. Introspection is a handful of
	// requests at most, so these only matter when one endpoint is hit
	// repeatedly (the web generate path).
	perHostRate  = 2
	perHostBurst = 5
)

// Request is one GraphQL operation.
type Request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Response is the standard GraphQL response envelope.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors"`
}

// ResponseError is one server-reported error.
type ResponseError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path"`
}

// Client posts GraphQL operations over HTTP.
type Client struct {
	httpClient *http.Client
	cache      *Cache

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewClient creates a client with the default timeout, response cache
// and per-host rate limits.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		cache:      NewCache(defaultCacheTTL),
		limiters:   make(map[string]*rate.Limiter),
	}
}

// limiter returns or creates the token bucket for a host.
func (c *Client) limiter(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(perHostRate), perHostBurst)
	c.limiters[host] = l
	return l
}

// Do posts req to endpoint and decodes the response envelope. Identical
// operations within the cache TTL are served from memory. Transport
// failures, non-200 statuses, and server-reported GraphQL errors all
// surface as Go errors; a Response is returned only when Data is
// present.
func (c *Client) Do(ctx context.Context, endpoint string, req Request, headers map[string]string) (*Response, error) {
	key := cacheKey(endpoint, req, headers)
	if cached, ok := c.cache.Get(key); ok {
		if resp, ok := cached.(*Response); ok {
			return resp, nil
		}
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL %q: %w", endpoint, err)
	}
	if err := c.limiter(u.Host).Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for rate limit: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", endpoint, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("endpoint returned %s: %s", httpResp.Status, strings.TrimSpace(string(snippet)))
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("endpoint reported errors: %s", strings.Join(msgs, "; "))
	}
	if len(resp.Data) == 0 || string(bytes.TrimSpace(resp.Data)) == "null" {
		return nil, fmt.Errorf("endpoint returned no data")
	}

	c.cache.Set(key, &resp)
	return &resp, nil
}

// cacheKey hashes everything that can change the response: endpoint,
// operation, variables, and headers (authorization changes results).
func cacheKey(endpoint string, req Request, headers map[string]string) string {
	h := sha256.New()
	io.WriteString(h, endpoint)
	h.Write([]byte{0})
	io.WriteString(h, req.Query)
	if len(req.Variables) > 0 {
		if v, err := json.Marshal(req.Variables); err == nil {
			h.Write([]byte{0})
			h.Write(v)
		}
	}
	if len(headers) > 0 {
		if v, err := json.Marshal(headers); err == nil {
			h.Write([]byte{0})
			h.Write(v)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
