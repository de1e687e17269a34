package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"campo-listings/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	Method  string
	Path    string
	Query   string
	Header  http.Header
	Body    []byte
	Form    map[string][]string
	Files   map[string]string
	FileCTs map[string]string
}

// recordingServer answers every request with status/contentType/body and
// keeps the last request it saw.
func recordingServer(t *testing.T, status int, contentType, body string) (*httptest.Server, func() captured) {
	t.Helper()
	var mu sync.Mutex
	var last captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := captured{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Header: r.Header.Clone()}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(1 << 20); err == nil {
				c.Form = r.MultipartForm.Value
				c.Files = make(map[string]string)
				c.FileCTs = make(map[string]string)
				for field, headers := range r.MultipartForm.File {
					f, _ := headers[0].Open()
					data, _ := io.ReadAll(f)
					f.Close()
					c.Files[field] = headers[0].Filename + ":" + string(data)
					c.FileCTs[field] = headers[0].Header.Get("Content-Type")
				}
			}
		} else {
			c.Body, _ = io.ReadAll(r.Body)
		}
		mu.Lock()
		last = c
		mu.Unlock()

		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, func() captured {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func TestClientAttachesBearerToken(t *testing.T) {
	srv, last := recordingServer(t, 200, "application/json", `{"ok":true}`)
	store := session.NewMemoryStore()
	store.Set(context.Background(), "abc123")
	c := New(srv.URL, store)

	var out map[string]bool
	require.NoError(t, c.Get(context.Background(), "/admin/stats", &out))
	assert.True(t, out["ok"])
	assert.Equal(t, "Bearer abc123", last().Header.Get("Authorization"))
	assert.Equal(t, defaultAccept, last().Header.Get("Accept"))
	assert.Equal(t, "campo-cli/1.0", last().Header.Get("User-Agent"))
	assert.NotEmpty(t, last().Header.Get("X-Request-ID"))
}

func TestClientWithoutAuth(t *testing.T) {
	srv, last := recordingServer(t, 200, "application/json", `[]`)
	store := session.NewMemoryStore()
	store.Set(context.Background(), "abc123")
	c := New(srv.URL, store)

	require.NoError(t, c.Get(context.Background(), "/properties", nil, WithoutAuth()))
	assert.Empty(t, last().Header.Values("Authorization"))

	require.NoError(t, c.Get(context.Background(), "/properties", nil, WithAuth(false)))
	assert.Empty(t, last().Header.Values("Authorization"))
}

func TestClientNoTokenNoHeader(t *testing.T) {
	srv, last := recordingServer(t, 200, "application/json", `{}`)
	c := New(srv.URL, nil)

	require.NoError(t, c.Get(context.Background(), "/auth/me", nil))
	assert.Empty(t, last().Header.Values("Authorization"))
}

func TestClientCallerHeadersWin(t *testing.T) {
	srv, last := recordingServer(t, 200, "application/json", `{}`)
	store := session.NewMemoryStore()
	store.Set(context.Background(), "stored")
	c := New(srv.URL, store, WithUserAgent("agent/2"))

	err := c.Post(context.Background(), "/contact", map[string]string{"name": "Ana"}, nil,
		WithHeader("Authorization", "Bearer explicit"),
		WithHeaders(map[string]string{
			"Content-Type": "application/vnd.campo+json",
			"Accept":       "application/json",
			"X-Request-ID": "req-1",
		}),
	)
	require.NoError(t, err)
	got := last()
	assert.Equal(t, "Bearer explicit", got.Header.Get("Authorization"))
	assert.Equal(t, "application/vnd.campo+json", got.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "req-1", got.Header.Get("X-Request-ID"))
	assert.Equal(t, "agent/2", got.Header.Get("User-Agent"))
	assert.JSONEq(t, `{"name":"Ana"}`, string(got.Body))
}

func TestClientJSONBody(t *testing.T) {
	srv, last := recordingServer(t, 201, "application/json", `{"id":"p9","title":"Parcela"}`)
	c := New(srv.URL, nil, WithRequestIDGenerator(func() string { return "fixed" }))

	var out struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, c.Put(context.Background(), "properties/p9", map[string]any{"title": "Parcela"}, &out))
	assert.Equal(t, "p9", out.ID)
	got := last()
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/properties/p9", got.Path)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "fixed", got.Header.Get("X-Request-ID"))
	assert.JSONEq(t, `{"title":"Parcela"}`, string(got.Body))
}

func TestClientMultipartBody(t *testing.T) {
	srv, last := recordingServer(t, 200, "application/json", `{"uploaded":1}`)
	c := New(srv.URL, nil)

	form := NewFormData().
		Add("caption", "Vista al lago").
		AddFile("images", "lago.jpg", strings.NewReader("jpegdata")).
		AddFileWithType("plano", "plano.bin", "application/pdf", strings.NewReader("pdf"))
	assert.Equal(t, 3, form.Len())

	require.NoError(t, c.Post(context.Background(), "/properties/p1/images", form, nil))
	got := last()
	ct := got.Header.Get("Content-Type")
	assert.True(t, strings.HasPrefix(ct, "multipart/form-data; boundary="), ct)
	assert.NotContains(t, ct, "application/json")
	assert.Equal(t, []string{"Vista al lago"}, got.Form["caption"])
	assert.Equal(t, "lago.jpg:jpegdata", got.Files["images"])
	assert.Equal(t, "image/jpeg", got.FileCTs["images"])
	assert.Equal(t, "application/pdf", got.FileCTs["plano"])
}

func TestClientReaderBodyPassthrough(t *testing.T) {
	srv, last := recordingServer(t, 200, "text/plain", "ok")
	c := New(srv.URL, nil)

	var out string
	require.NoError(t, c.Post(context.Background(), "/raw", strings.NewReader("a,b,c"), &out,
		WithHeader("Content-Type", "text/csv")))
	assert.Equal(t, "ok", out)
	assert.Equal(t, "a,b,c", string(last().Body))
	assert.Equal(t, "text/csv", last().Header.Get("Content-Type"))
}

func TestClientQuery(t *testing.T) {
	srv, last := recordingServer(t, 200, "application/json", `{"data":[]}`)
	c := New(srv.URL+"/api/", nil)

	q := NewQuery().Set("region", []string{"Los Lagos", "Aysén"}).Set("page", 2).Set("q", nil)
	require.NoError(t, c.Get(context.Background(), "/properties?page=1", nil, WithQuery(q)))
	assert.Equal(t, "/api/properties", last().Path)
	assert.Equal(t, "page=2&region=Los+Lagos&region=Ays%C3%A9n", last().Query)
	assert.Equal(t, srv.URL+"/api/properties?page=2", c.URL("properties", NewQuery().Set("page", 2)))
}

func TestClientHTTPError(t *testing.T) {
	srv, _ := recordingServer(t, 500, "application/json", `{"message":"boom"}`)
	c := New(srv.URL, nil)

	err := c.Delete(context.Background(), "/properties/p1", nil)
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindHTTP, apiErr.Kind)
	assert.Equal(t, http.MethodDelete, apiErr.Method)
	assert.Equal(t, srv.URL+"/properties/p1", apiErr.URL)
	assert.Equal(t, 500, StatusCode(err))
}

func TestClientUnauthorizedClearsSession(t *testing.T) {
	srv, _ := recordingServer(t, 401, "application/json", `{"message":"no autorizado"}`)
	ctx := context.Background()
	store := session.NewMemoryStore()
	store.Set(ctx, "expired")
	nav := &fakeNavigator{path: "/admin"}
	c := New(srv.URL, store)
	c.OnAuthExpired(NewLoginRedirector(nav, DefaultLoginPath))

	err := c.Get(ctx, "/auth/me", nil)
	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, store.Get(ctx))
	assert.Equal(t, []string{"/admin/login"}, nav.redirects)

	// already on the login page: cleared again, no second redirect
	err = c.Post(ctx, "/auth/login", map[string]string{"email": "a@b.cl"}, nil, WithoutAuth())
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, []string{"/admin/login"}, nav.redirects)
}

func TestClientDecodeMismatch(t *testing.T) {
	srv, _ := recordingServer(t, 200, "application/json", `{"id":123}`)
	c := New(srv.URL, nil)

	var out struct {
		ID string `json:"id"`
	}
	err := c.Get(context.Background(), "/properties/1", &out)
	require.Error(t, err)
	assert.Equal(t, KindDecode, KindOf(err))
	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestClientDegradedBodyDecodesToZero(t *testing.T) {
	srv, _ := recordingServer(t, 200, "application/json", `not json`)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, New(srv.URL, nil).Get(context.Background(), "/x", &out))
	assert.Empty(t, out.ID)

	err := New(srv.URL, nil, WithStrictDecoding()).Get(context.Background(), "/x", &out)
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestClientEmptyJSONReplyLeavesTargetUntouched(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusNoContent, "application/json", "")

	ids := []int{}
	require.NoError(t, New(srv.URL, nil).Get(context.Background(), "/x", &ids))
	assert.Empty(t, ids)

	var page struct {
		Total int `json:"total"`
	}
	require.NoError(t, New(srv.URL, nil, WithStrictDecoding()).Get(context.Background(), "/x", &page))
	assert.Zero(t, page.Total)
}

func TestClientDegradedBodyIntoSlice(t *testing.T) {
	srv, _ := recordingServer(t, 200, "application/json", `[1,`)

	ids := []int{}
	require.NoError(t, New(srv.URL, nil).Get(context.Background(), "/x", &ids))
	assert.Empty(t, ids)
}

func TestClientRawBytes(t *testing.T) {
	srv, _ := recordingServer(t, 200, "application/json", `{"a":1}`)
	var raw []byte
	require.NoError(t, New(srv.URL, nil).Get(context.Background(), "/x", &raw))
	assert.Equal(t, `{"a":1}`, string(raw))
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	err := New(base, nil).Get(context.Background(), "/properties", nil)
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.False(t, IsCanceled(err))
	assert.Zero(t, StatusCode(err))
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	err := New(srv.URL, nil, WithTimeout(50*time.Millisecond)).Get(context.Background(), "/slow", nil)
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestAbortCancelsOnlyItsOwnRequest(t *testing.T) {
	arrived := make(chan string, 2)
	gate := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived <- r.URL.Path
		switch r.URL.Path {
		case "/slow":
			<-r.Context().Done()
		case "/gated":
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"ok":true}`)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	aborted := Abortable(context.Background())
	other := Abortable(nil)

	errA := make(chan error, 1)
	errB := make(chan error, 1)
	go func() { errA <- c.Get(aborted.Context(), "/slow", nil) }()
	go func() {
		var out map[string]bool
		err := c.Get(other.Context(), "/gated", &out)
		if err == nil && !out["ok"] {
			err = errors.New("missing body")
		}
		errB <- err
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-arrived:
		case <-time.After(5 * time.Second):
			t.Fatal("requests did not reach the server")
		}
	}

	aborted.Abort()
	select {
	case err := <-errA:
		assert.True(t, IsCanceled(err), "got %v", err)
		assert.Equal(t, KindCanceled, KindOf(err))
	case <-time.After(5 * time.Second):
		t.Fatal("aborted request did not return")
	}
	assert.True(t, aborted.Aborted())
	assert.False(t, other.Aborted())

	close(gate)
	select {
	case err := <-errB:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("unrelated request did not return")
	}

	aborted.Abort()
	other.Abort()
	assert.True(t, other.Aborted())
}

func TestAbortBeforeSend(t *testing.T) {
	srv, _ := recordingServer(t, 200, "application/json", `{}`)
	h := Abortable(context.Background())
	h.Abort()

	err := New(srv.URL, nil).Get(h.Context(), "/properties", nil)
	assert.True(t, IsCanceled(err))
}
