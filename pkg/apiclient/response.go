package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"

	"campo-listings/pkg/logger"
	"campo-listings/pkg/metrics"
	"campo-listings/pkg/session"
)

// AuthExpiredFunc is called after a 401 response has cleared the session.
type AuthExpiredFunc func(ctx context.Context, resp *http.Response)

// Body is a decoded response body.
type Body struct {
	// JSON reports whether the response declared a JSON media type.
	JSON bool
	// Raw holds the bytes as received.
	Raw []byte
	// Value is the decoded JSON value, or the text body as a string.
	Value any
	// Degraded is set when a JSON body could not be parsed and Value was
	// replaced by an empty object.
	Degraded bool
}

// Text returns the raw body as a string.
func (b *Body) Text() string {
	return string(b.Raw)
}

// Handler turns raw responses into bodies or errors and owns the 401
// session reset.
type Handler struct {
	store  session.Store
	strict bool

	mu          sync.RWMutex
	nextID      int
	subscribers map[int]AuthExpiredFunc
	order       []int
}

// NewHandler builds a handler that clears store on 401. With strict set,
// malformed JSON in a successful response fails with KindDecode instead of
// degrading to an empty object.
func NewHandler(store session.Store, strict bool) *Handler {
	if store == nil {
		store = session.NewMemoryStore()
	}
	return &Handler{
		store:       store,
		strict:      strict,
		subscribers: make(map[int]AuthExpiredFunc),
	}
}

// OnAuthExpired registers fn for every future 401. The returned function
// removes the subscription.
func (h *Handler) OnAuthExpired(fn AuthExpiredFunc) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.subscribers[id] = fn
	h.order = append(h.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, id)
			for i, v := range h.order {
				if v == id {
					h.order = append(h.order[:i], h.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Handle reads and closes resp.Body. On a non-2xx status it returns the
// decoded body together with a KindHTTP *Error.
func (h *Handler) Handle(ctx context.Context, resp *http.Response) (*Body, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	body := &Body{JSON: isJSON(resp.Header.Get("Content-Type")), Raw: raw}
	var decodeErr error
	if body.JSON {
		decodeErr = decodeJSON(body)
	} else {
		body.Value = string(raw)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			h.expire(ctx, resp)
		}
		return body, &Error{
			Kind:    KindHTTP,
			Status:  resp.StatusCode,
			Message: failureMessage(body, resp.StatusCode),
			Body:    raw,
		}
	}

	if decodeErr != nil {
		if h.strict {
			return body, &Error{
				Kind:    KindDecode,
				Status:  resp.StatusCode,
				Message: fmt.Sprintf("malformed JSON response: %v", decodeErr),
				Body:    raw,
				Err:     decodeErr,
			}
		}
		logger.GlobalLogger.Warnf("malformed JSON response, using empty object: status=%d, error=%v", resp.StatusCode, decodeErr)
	}
	return body, nil
}

func (h *Handler) expire(ctx context.Context, resp *http.Response) {
	// the session must be reset even when the caller's context is already done
	ctx = context.WithoutCancel(ctx)
	h.store.Clear(ctx)
	metrics.AuthExpiredTotal.Inc()
	logger.GlobalLogger.Warnf("session expired: url=%s", requestURL(resp))

	h.mu.RLock()
	subs := make([]AuthExpiredFunc, 0, len(h.order))
	for _, id := range h.order {
		subs = append(subs, h.subscribers[id])
	}
	h.mu.RUnlock()

	for _, fn := range subs {
		fn(ctx, resp)
	}
}

// decodeJSON fills body.Value. An empty or malformed body becomes an empty
// object; malformed input is reported through the returned error.
func decodeJSON(body *Body) error {
	if len(strings.TrimSpace(string(body.Raw))) == 0 {
		body.Value = map[string]any{}
		body.Degraded = true
		return nil
	}
	var v any
	if err := json.Unmarshal(body.Raw, &v); err != nil {
		body.Value = map[string]any{}
		body.Degraded = true
		return err
	}
	body.Value = v
	return nil
}

func failureMessage(body *Body, status int) string {
	if body.JSON {
		if obj, ok := body.Value.(map[string]any); ok {
			if msg, ok := obj["message"].(string); ok && msg != "" {
				return msg
			}
		}
	} else if len(body.Raw) > 0 {
		return string(body.Raw)
	}
	return fmt.Sprintf("HTTP %d", status)
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func requestURL(resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.Redacted()
	}
	return ""
}

// transportError classifies an error from the transport or body read.
func transportError(ctx context.Context, err error) *Error {
	kind := KindNetwork
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		kind = KindCanceled
	}
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}
