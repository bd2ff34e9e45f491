// Package clickup implements the service.Service interface over the ClickUp REST API.
package clickup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"clickform/internal/cache"
	"clickform/internal/credential"
	"clickform/internal/logger"
	"clickform/internal/metrics"
	"clickform/internal/service"
)

const (
	// DefaultBaseURL is the ClickUp API root; the version segment is appended per call.
	DefaultBaseURL = "https://api.clickup.com/api/"

	// APITimeout is the default timeout for API calls.
	APITimeout = 30 * time.Second

	// CacheTTL is how long lookup results are served from cache.
	CacheTTL = time.Hour

	// APIVersion is the version used by every endpoint except docs.
	APIVersion = "v2"

	// DocsAPIVersion is the version of the docs endpoint.
	DocsAPIVersion = "v3"
)

var endpointUnsafe = regexp.MustCompile(`[^a-zA-Z0-9/_-]`)

// Client implements service.Service using the ClickUp API.
type Client struct {
	http    *resty.Client
	baseURL string
	timeout time.Duration
	creds   *credential.Provider
	cache   cache.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (for testing or proxies).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		c.baseURL = baseURL
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

// New creates a ClickUp client reading its token from creds and caching
// lookups in store.
func New(creds *credential.Provider, store cache.Cache, opts ...Option) *Client {
	c := &Client{
		http:    resty.New(),
		baseURL: DefaultBaseURL,
		timeout: APITimeout,
		creds:   creds,
		cache:   store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOptions override the request defaults field by field.
// A non-nil Headers map replaces the default header set as a whole.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Body    any
	Timeout time.Duration
}

// Request issues an authenticated call to endpoint and returns the raw JSON body.
// The endpoint is reduced to [A-Za-z0-9/_-] before it is joined to the base URL.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions, apiVersion string) (json.RawMessage, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, token, endpoint, opts, apiVersion)
}

// SetToken persists token as the credential for subsequent calls.
func (c *Client) SetToken(token string) error {
	return c.creds.Set(token)
}

func (c *Client) token(ctx context.Context) (string, error) {
	token, err := c.creds.Token()
	if err != nil {
		return "", service.WrapError(service.KindNoToken, "failed to read API token", err)
	}
	if token == "" {
		logger.FromContext(ctx).Debug("no API token configured")
		return "", service.NewError(service.KindNoToken, "No API token configured")
	}
	return token, nil
}

func (c *Client) do(ctx context.Context, token, endpoint string, opts RequestOptions, apiVersion string) (json.RawMessage, error) {
	log := logger.FromContext(ctx)

	endpoint = endpointUnsafe.ReplaceAllString(endpoint, "")
	if apiVersion == "" {
		apiVersion = APIVersion
	}
	url := c.baseURL + apiVersion + "/" + strings.TrimLeft(endpoint, "/")

	method := http.MethodGet
	if opts.Method != "" {
		method = opts.Method
	}
	headers := map[string]string{
		"Authorization": token,
		"Content-Type":  "application/json",
	}
	if opts.Headers != nil {
		headers = opts.Headers
	}
	timeout := c.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := c.http.R().SetContext(ctx).SetHeaders(headers)
	if opts.Body != nil {
		body, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		metrics.APIRequests.WithLabelValues(method, "transport").Inc()
		log.Debug("clickup request failed", "method", method, "endpoint", endpoint, "error", err)
		return nil, wrapTransportError(err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	log.Debug("clickup request completed", "method", method, "endpoint", endpoint, "status", status)

	if status == http.StatusUnauthorized {
		metrics.APIRequests.WithLabelValues(method, "invalid_token").Inc()
		c.rejectToken(ctx, token)
		return nil, service.NewError(service.KindInvalidToken, "API token is invalid")
	}
	if status < 200 || status >= 300 {
		metrics.APIRequests.WithLabelValues(method, "api_error").Inc()
		msg := gjson.GetBytes(body, "err").String()
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, service.NewError(service.KindAPI, msg)
	}

	metrics.APIRequests.WithLabelValues(method, "ok").Inc()
	return json.RawMessage(body), nil
}

// rejectToken clears the stored credential after a 401, whatever call caused it.
func (c *Client) rejectToken(ctx context.Context, token string) {
	log := logger.FromContext(ctx)
	log.Warn("API token rejected, clearing stored credential")
	if err := c.creds.Invalidate(); err != nil {
		log.Error("failed to clear stored credential", "error", err)
	}
	if err := c.cache.Delete(ctx, workspacesKey(token)); err != nil {
		log.Debug("failed to drop cached workspaces", "error", err)
	}
}

// wrapTransportError gives transport failures a user-facing message.
func wrapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return service.WrapError(service.KindTransport, "request timed out", err)
	}
	return service.WrapError(service.KindTransport, fmt.Sprintf("request failed: %v", err), err)
}

var _ service.Service = (*Client)(nil)
