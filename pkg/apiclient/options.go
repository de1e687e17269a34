package apiclient

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request. Zero, the default, means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent filled into requests that lack one.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithStrictDecoding makes malformed JSON responses fail with KindDecode.
func WithStrictDecoding() Option {
	return func(c *Client) {
		c.strict = true
	}
}

// WithRequestIDGenerator overrides how X-Request-ID values are produced.
func WithRequestIDGenerator(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newRequestID = fn
		}
	}
}

type requestConfig struct {
	auth    bool
	query   *Query
	headers http.Header
	body    any
}

// RequestOption configures a single request.
type RequestOption func(*requestConfig)

// WithoutAuth sends the request without the session's bearer token.
func WithoutAuth() RequestOption {
	return func(rc *requestConfig) {
		rc.auth = false
	}
}

// WithAuth toggles bearer token injection. It is on by default.
func WithAuth(enabled bool) RequestOption {
	return func(rc *requestConfig) {
		rc.auth = enabled
	}
}

// WithQuery sets the query parameters appended to the URL.
func WithQuery(q *Query) RequestOption {
	return func(rc *requestConfig) {
		rc.query = q
	}
}

// WithHeader sets a request header. Caller headers always win over the
// ones the client fills in.
func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) {
		rc.headers.Set(key, value)
	}
}

// WithHeaders sets several request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(rc *requestConfig) {
		for k, v := range headers {
			rc.headers.Set(k, v)
		}
	}
}

// WithBody sets the request body: a *FormData, an io.Reader sent as is, or
// any value to be encoded as JSON.
func WithBody(body any) RequestOption {
	return func(rc *requestConfig) {
		rc.body = body
	}
}
