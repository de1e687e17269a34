package apitest

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"campo-listings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func do(t *testing.T, method, url, token, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := New(t)

	resp, body := do(t, http.MethodGet, s.APIURL()+"/admin/stats", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"message":"authorization header required"}`, body)

	token := s.Token(t)
	resp, _ = do(t, http.MethodGet, s.APIURL()+"/admin/stats", token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s.ExpireTokens()
	resp, body = do(t, http.MethodGet, s.APIURL()+"/admin/stats", token, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "token expired")
}

func TestFailServesCannedResponseOnce(t *testing.T) {
	s := New(t)
	s.Fail(http.MethodGet, "/api/health", http.StatusServiceUnavailable, "", "")

	resp, body := do(t, http.MethodGet, s.APIURL()+"/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Empty(t, body)

	resp, body = do(t, http.MethodGet, s.APIURL()+"/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
	assert.Len(t, s.Requests(), 2)
}

func TestListFiltersAndPaginates(t *testing.T) {
	s := New(t, WithProperties(
		models.Property{Title: "Fundo Los Robles", Region: "Maule", PropertyType: "fundo", Price: 900, Hectares: 120, Featured: true},
		models.Property{Title: "Parcela El Sauce", Region: "Ñuble", PropertyType: "parcela", Price: 150, Hectares: 5},
		models.Property{Title: "Parcela Río Claro", Region: "Maule", PropertyType: "parcela", Price: 300, Hectares: 8},
	))

	resp, body := do(t, http.MethodGet, s.APIURL()+"/properties?region=Maule&sort=-price&limit=1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Fundo Los Robles")
	assert.NotContains(t, body, "Río Claro")
	assert.Contains(t, body, `"total":2`)
	assert.Contains(t, body, `"total_pages":2`)
}

func TestContactRateLimit(t *testing.T) {
	s := New(t, WithContactRateLimit(rate.Limit(0.001), 1))
	payload := `{"name":"Ana","email":"ana@correo.cl","message":"Quiero visitar el campo"}`

	resp, _ := do(t, http.MethodPost, s.APIURL()+"/contact", "", payload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, body := do(t, http.MethodPost, s.APIURL()+"/contact", "", payload)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"message":"rate limit exceeded"}`, body)
	assert.Len(t, s.Contacts(), 1)
}
