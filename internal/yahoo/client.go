// Package yahoo is a client for the Yahoo Finance query API.
//
// Responses are decoded into generic JSON trees. Formatted number wrappers
// ({"raw": 1.5, "fmt": "1.50"}) are flattened to their raw value and known
// epoch date fields are turned into time.Time.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://query2.finance.yahoo.com"
	DefaultCookieURL = "https://fc.yahoo.com"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
	DefaultCrumbTTL  = 30 * time.Minute
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Client talks to the Yahoo Finance query hosts.
type Client struct {
	baseURL   string
	cookieURL string
	userAgent string
	timeout   time.Duration
	crumbTTL  time.Duration
	http      *resty.Client
	limiter   *rate.Limiter
	session   *session
	log       zerolog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets the query host.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithCookieURL sets the page visited to obtain session cookies.
func WithCookieURL(cookieURL string) ClientOption {
	return func(c *Client) {
		c.cookieURL = cookieURL
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRateLimit sets the outbound request rate.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithCrumbTTL sets how long a session crumb is reused.
func WithCrumbTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		if ttl > 0 {
			c.crumbTTL = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a new client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		cookieURL: DefaultCookieURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		crumbTTL:  DefaultCrumbTTL,
		limiter:   rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:       logger.With("yahoo"),
	}
	for _, opt := range opts {
		opt(c)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		c.log.Error().Err(err).Msg("failed to create cookie jar")
	}

	c.http = resty.New().
		SetTimeout(c.timeout).
		SetCookieJar(jar).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": c.userAgent,
		})
	c.session = newSession(c.http, c.cookieURL, c.baseURL+"/v1/test/getcrumb", c.crumbTTL, c.log)

	return c
}

// APIError is a non-success answer from the provider.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo finance error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited, crumb-authenticated GET and returns the
// decoded body with raw numbers.
func (c *Client) get(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	return c.fetch(ctx, path, params, false)
}

// fetch is get with a choice of number style: with displayStrings set,
// formatted wrappers decode to their display string instead of the raw
// value. A rejected crumb is refreshed and the call retried once.
func (c *Client) fetch(ctx context.Context, path string, params url.Values, displayStrings bool) (map[string]any, error) {
	if params == nil {
		params = url.Values{}
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		crumb, err := c.session.crumb(ctx)
		if err != nil {
			return nil, err
		}
		params.Set("crumb", crumb)

		c.log.Debug().Str("endpoint", path).Msg("yahoo request")

		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParamsFromValues(params).
			Get(c.baseURL + path)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}

		if attempt == 0 && crumbRejected(resp.StatusCode(), resp.Body()) {
			c.log.Info().Str("endpoint", path).Int("status", resp.StatusCode()).Msg("crumb rejected, refreshing session")
			c.session.invalidate()
			continue
		}

		return decodeResponse(path, resp.StatusCode(), resp.Body(), displayStrings)
	}
}

func crumbRejected(status int, body []byte) bool {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return true
	}
	s := string(body)
	return strings.Contains(s, "Invalid Crumb") || strings.Contains(s, "Invalid Cookie")
}

// decodeResponse turns a raw answer into a flattened tree, or an APIError
// when the status or the provider's error envelope says so.
func decodeResponse(endpoint string, status int, body []byte, displayStrings bool) (map[string]any, error) {
	var tree map[string]any
	jsonErr := json.Unmarshal(body, &tree)

	if msg := envelopeError(tree); msg != "" {
		if status < 400 {
			status = http.StatusBadGateway
		}
		return nil, &APIError{StatusCode: status, Message: msg, Endpoint: endpoint}
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Message: strings.TrimSpace(string(body)), Endpoint: endpoint}
	}
	if jsonErr != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", endpoint, jsonErr)
	}

	if displayStrings {
		out, _ := unwrapWith(tree, "fmt").(map[string]any)
		return out, nil
	}
	out, _ := revive(unwrapWith(tree, "raw")).(map[string]any)
	return out, nil
}

// envelopeError extracts the description of a provider error envelope,
// e.g. {"chart": {"result": null, "error": {"code": "Not Found", ...}}}.
func envelopeError(tree map[string]any) string {
	for _, v := range tree {
		env, ok := v.(map[string]any)
		if !ok {
			continue
		}
		e, ok := env["error"].(map[string]any)
		if !ok {
			continue
		}
		if d, ok := e["description"].(string); ok && d != "" {
			return d
		}
		if code, ok := e["code"].(string); ok && code != "" {
			return code
		}
		return "unknown error"
	}
	return ""
}

// firstResult returns env.result[0] for an envelope key such as "finance".
func firstResult(tree map[string]any, key string) (map[string]any, bool) {
	env, ok := tree[key].(map[string]any)
	if !ok {
		return nil, false
	}
	list, ok := env["result"].([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	first, ok := list[0].(map[string]any)
	return first, ok
}

func notFound(endpoint, what string) error {
	return &APIError{StatusCode: http.StatusNotFound, Message: what + " not found", Endpoint: endpoint}
}
