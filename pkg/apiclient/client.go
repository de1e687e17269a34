package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"campo-listings/pkg/logger"
	"campo-listings/pkg/metrics"
	"campo-listings/pkg/session"

	"github.com/google/uuid"
)

const defaultAccept = "application/json, text/plain, */*"

// Client manages authenticated requests against the listings API.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	store        session.Store
	handler      *Handler
	timeout      time.Duration
	userAgent    string
	strict       bool
	newRequestID func() string
}

// New creates a client for the API rooted at baseURL. A nil store keeps the
// token in memory.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	if store == nil {
		store = session.NewMemoryStore()
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{},
		store:        store,
		userAgent:    "campo-cli/1.0",
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.handler = NewHandler(store, c.strict)
	return c
}

// BaseURL returns the API origin without trailing slashes.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Store returns the session store the client reads its token from.
func (c *Client) Store() session.Store {
	return c.store
}

// URL builds the absolute URL for path and q.
func (c *Client) URL(path string, q *Query) string {
	return BuildURL(c.baseURL, path, q)
}

// OnAuthExpired subscribes fn to 401 responses. See Handler.OnAuthExpired.
func (c *Client) OnAuthExpired(fn AuthExpiredFunc) (unsubscribe func()) {
	return c.handler.OnAuthExpired(fn)
}

// Request sends method to path and decodes the response into out.
//
// out may be nil to discard the body, a *string or *[]byte to receive the
// raw text, or any other pointer to receive decoded JSON.
func (c *Client) Request(ctx context.Context, method, path string, out any, opts ...RequestOption) error {
	rc := requestConfig{auth: true, headers: make(http.Header)}
	for _, opt := range opts {
		opt(&rc)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := BuildURL(c.baseURL, path, rc.query)
	body, contentType, err := encodeBody(rc.body)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to encode request body: method=%s, url=%s, error=%v", method, target, err)
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to create request: method=%s, url=%s, error=%v", method, target, err)
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range rc.headers {
		req.Header[k] = v
	}
	c.fillHeaders(ctx, req, rc.auth, contentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := transportError(ctx, err)
		apiErr.Method, apiErr.URL = method, target
		c.record(method, apiErr.Kind.String(), start)
		if apiErr.Kind == KindCanceled {
			logger.GlobalLogger.Debugf("Request canceled: method=%s, url=%s", method, target)
		} else {
			logger.GlobalLogger.Errorf("Failed to send request: method=%s, url=%s, error=%v", method, target, err)
		}
		return apiErr
	}

	decoded, err := c.handler.Handle(ctx, resp)
	c.record(method, strconv.Itoa(resp.StatusCode), start)
	if err != nil {
		if apiErr, ok := err.(*Error); ok {
			apiErr.Method, apiErr.URL = method, target
			c.logFailure(apiErr)
		}
		return err
	}
	logger.GlobalLogger.Debugf("%s %s %d %v", method, target, resp.StatusCode, time.Since(start))

	if err := decodeInto(decoded, out); err != nil {
		err.Method, err.URL, err.Status = method, target, resp.StatusCode
		logger.GlobalLogger.Errorf("Failed to decode response: method=%s, url=%s, error=%v", method, target, err.Err)
		return err
	}
	return nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodGet, path, out, opts...)
}

// Post sends body as a POST request.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodPost, path, out, append([]RequestOption{WithBody(body)}, opts...)...)
}

// Put sends body as a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodPut, path, out, append([]RequestOption{WithBody(body)}, opts...)...)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodDelete, path, out, opts...)
}

// fillHeaders only fills gaps: a header the caller set is never replaced.
func (c *Client) fillHeaders(ctx context.Context, req *http.Request, auth bool, contentType string) {
	h := req.Header
	if contentType != "" && h.Get("Content-Type") == "" {
		h.Set("Content-Type", contentType)
	}
	if auth && h.Get("Authorization") == "" {
		if token := c.store.Get(ctx); token != "" {
			h.Set("Authorization", "Bearer "+token)
		}
	}
	if h.Get("Accept") == "" {
		h.Set("Accept", defaultAccept)
	}
	if c.userAgent != "" && h.Get("User-Agent") == "" {
		h.Set("User-Agent", c.userAgent)
	}
	if h.Get("X-Request-ID") == "" {
		h.Set("X-Request-ID", c.newRequestID())
	}
}

func (c *Client) record(method, status string, start time.Time) {
	metrics.APIRequestsTotal.WithLabelValues(method, status).Inc()
	metrics.APIRequestDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
}

func (c *Client) logFailure(err *Error) {
	switch {
	case err.Kind == KindHTTP && err.Status >= 500:
		logger.GlobalLogger.Errorf("Request failed: method=%s, url=%s, status=%d, message=%s", err.Method, err.URL, err.Status, err.Message)
	case err.Kind == KindCanceled:
		logger.GlobalLogger.Debugf("Request canceled: method=%s, url=%s", err.Method, err.URL)
	case err.Kind == KindNetwork:
		logger.GlobalLogger.Errorf("Failed to read response: method=%s, url=%s, error=%v", err.Method, err.URL, err.Err)
	default:
		logger.GlobalLogger.Debugf("Request failed: method=%s, url=%s, status=%d, message=%s", err.Method, err.URL, err.Status, err.Message)
	}
}

// encodeBody returns the request body and the content type to fill in.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *FormData:
		if b == nil {
			return nil, "", nil
		}
		buf, contentType, err := b.Encode()
		if err != nil {
			return nil, "", err
		}
		return buf, contentType, nil
	case io.Reader:
		return b, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func decodeInto(body *Body, out any) *Error {
	switch dst := out.(type) {
	case nil:
		return nil
	case *string:
		*dst = string(body.Raw)
		return nil
	case *[]byte:
		*dst = append((*dst)[:0], body.Raw...)
		return nil
	}

	// A degraded body stands for an empty object: out keeps its zero value.
	if body.Degraded {
		return nil
	}
	raw := body.Raw
	if !body.JSON && len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{
			Kind:    KindDecode,
			Message: fmt.Sprintf("failed to decode response: %v", err),
			Body:    body.Raw,
			Err:     err,
		}
	}
	return nil
}
