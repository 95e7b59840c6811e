package sparkpost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"os"
	"path"
	"runtime"
	"strings"
	"time"
)

// Version is the library version reported in the User-Agent header.
const Version = "0.1.0"

// APIKeyEnv names the environment variable consulted when Config.APIKey
// is empty.
const APIKeyEnv = "SPARKPOST_API_KEY"

const (
	defaultOrigin     = "https://api.sparkpost.com:443"
	defaultAPIVersion = "v1"
)

// HTTPClient executes HTTP requests. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the settings used to construct a Client.
type Config struct {
	// APIKey is sent verbatim in the Authorization header. Falls back to
	// the SPARKPOST_API_KEY environment variable.
	APIKey string

	// Origin is the scheme, host and port of the API. Endpoint is an
	// alias consulted when Origin is empty.
	Origin   string
	Endpoint string

	// APIVersion defaults to "v1".
	APIVersion string

	// Headers are sent on every request, after the built-in defaults.
	Headers map[string]string

	// Debug attaches DebugInfo to every Response.
	Debug bool

	// StackIdentity is prepended to the User-Agent, e.g. "myapp/1.2.0".
	StackIdentity string

	HTTPClient HTTPClient
	Logger     *slog.Logger
}

// Client is a SparkPost API client. It is safe for concurrent use; its
// configuration is fixed at construction.
type Client struct {
	apiKey     string
	baseURL    *url.URL
	headers    map[string]string
	debug      bool
	httpClient HTTPClient
	logger     *slog.Logger

	Events          *EventsService
	InboundDomains  *InboundDomainsService
	MessageEvents   *MessageEventsService
	RecipientLists  *RecipientListsService
	RelayWebhooks   *RelayWebhooksService
	SendingDomains  *SendingDomainsService
	Subaccounts     *SubaccountsService
	SuppressionList *SuppressionListService
	Templates       *TemplatesService
	Transmissions   *TransmissionsService
	Webhooks        *WebhooksService
}

// New creates a Client from cfg, applying defaults for unset fields.
func New(cfg Config) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	origin := cfg.Origin
	if origin == "" {
		origin = cfg.Endpoint
	}
	if origin == "" {
		origin = defaultOrigin
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	baseURL, err := url.Parse(fmt.Sprintf("%s/api/%s/", strings.TrimRight(origin, "/"), apiVersion))
	if err != nil {
		return nil, fmt.Errorf("sparkpost: invalid origin %q: %w", origin, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("sparkpost: invalid origin %q: scheme and host are required", origin)
	}

	headers := map[string]string{
		"User-Agent":   userAgent(cfg.StackIdentity),
		"Content-Type": "application/json",
	}
	maps.Copy(headers, cfg.Headers)

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		headers:    headers,
		debug:      cfg.Debug,
		httpClient: httpClient,
		logger:     logger,
	}

	s := service{client: c}
	c.Events = (*EventsService)(&s)
	c.InboundDomains = (*InboundDomainsService)(&s)
	c.MessageEvents = (*MessageEventsService)(&s)
	c.RecipientLists = (*RecipientListsService)(&s)
	c.RelayWebhooks = (*RelayWebhooksService)(&s)
	c.SendingDomains = (*SendingDomainsService)(&s)
	c.Subaccounts = (*SubaccountsService)(&s)
	c.SuppressionList = (*SuppressionListService)(&s)
	c.Templates = (*TemplatesService)(&s)
	c.Transmissions = (*TransmissionsService)(&s)
	c.Webhooks = (*WebhooksService)(&s)

	return c, nil
}

// service is the shared state of every resource service.
type service struct {
	client *Client
}

// BaseURL returns the resolved API base, e.g. https://api.sparkpost.com:443/api/v1/.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get issues req as a GET request.
func (c *Client) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.doMethod(ctx, http.MethodGet, req)
}

// Post issues req as a POST request.
func (c *Client) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.doMethod(ctx, http.MethodPost, req)
}

// Put issues req as a PUT request.
func (c *Client) Put(ctx context.Context, req *Request) (*Response, error) {
	return c.doMethod(ctx, http.MethodPut, req)
}

// Delete issues req as a DELETE request.
func (c *Client) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.doMethod(ctx, http.MethodDelete, req)
}

func (c *Client) doMethod(ctx context.Context, method string, req *Request) (*Response, error) {
	if req == nil {
		return nil, &ValidationError{Field: "request"}
	}
	r := *req
	r.Method = method
	return c.Do(ctx, &r)
}

// Do performs a single round trip for req. Responses with a 4xx or 5xx
// status are returned as *APIError. Transport errors from the HTTPClient
// are returned unchanged.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, &ValidationError{Field: "request"}
	}

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("sparkpost request",
		"method", httpReq.Method,
		"uri", httpReq.URL.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if isErrorStatus(resp.StatusCode) {
		return nil, newAPIError(resp.Status, resp.StatusCode, body)
	}

	result := &Response{StatusCode: resp.StatusCode}
	if len(bytes.TrimSpace(body)) > 0 {
		if !json.Valid(body) {
			return nil, fmt.Errorf("failed to decode response: invalid JSON body (HTTP %d)", resp.StatusCode)
		}
		result.Body = json.RawMessage(body)
	}

	if c.debug {
		result.Debug = &DebugInfo{
			Method:          httpReq.Method,
			URL:             httpReq.URL.String(),
			RequestHeaders:  redactedHeaders(httpReq.Header),
			Status:          resp.Status,
			ResponseHeaders: resp.Header.Clone(),
		}
	}

	return result, nil
}

// newHTTPRequest resolves the URI, encodes the body and query, and merges
// headers: defaults, then configured headers, then per-call headers, then
// the API key.
func (c *Client) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target, err := c.resolveURI(req.URI)
	if err != nil {
		return nil, err
	}

	if len(req.Query) > 0 {
		q := target.Query()
		for k, v := range req.Query {
			q.Add(k, v)
		}
		target.RawQuery = q.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Authorization", c.apiKey)

	return httpReq, nil
}

// resolveURI leaves absolute URLs untouched. Other URIs are joined to the
// base path and cleaned; a leading slash makes the URI origin-relative.
func (c *Client) resolveURI(uri string) (*url.URL, error) {
	if strings.HasPrefix(uri, "http") {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("invalid request URI %q: %w", uri, err)
		}
		return u, nil
	}

	// uri is an escaped path; ids are escaped by the builders, so a '?'
	// here always starts the query.
	rawPath, rawQuery, _ := strings.Cut(uri, "?")

	escaped := path.Join(c.baseURL.EscapedPath(), rawPath)
	if strings.HasPrefix(rawPath, "/") {
		escaped = path.Clean(rawPath)
	}

	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, fmt.Errorf("invalid request URI %q: %w", uri, err)
	}

	u := *c.baseURL
	u.Path = decoded
	u.RawPath = escaped
	u.RawQuery = rawQuery

	return &u, nil
}

func userAgent(stackIdentity string) string {
	ua := fmt.Sprintf("sparkpost-lite/%s go/%s", Version, strings.TrimPrefix(runtime.Version(), "go"))
	if stackIdentity != "" {
		ua = stackIdentity + " " + ua
	}
	return ua
}

func redactedHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out.Get("Authorization") != "" {
		out.Set("Authorization", "REDACTED")
	}
	return out
}
