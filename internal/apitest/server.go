// Package apitest runs an in-process listings API for tests. It speaks the
// same routes and error shapes as the real backend.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"campo-listings/internal/models"
	"campo-listings/pkg/auth"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Credentials accepted by POST /auth/login.
const (
	AdminEmail    = "admin@campos.cl"
	AdminPassword = "campo1234"
)

var AdminUser = models.User{ID: "u1", Name: "Administradora", Email: AdminEmail, Role: "admin"}

// RecordedRequest is what the server saw of one request.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
}

type cannedResponse struct {
	method, path string
	status       int
	contentType  string
	body         string
}

type options struct {
	contactRate  rate.Limit
	contactBurst int
	seed         []models.Property
}

type Option func(*options)

// WithContactRateLimit limits /contact and /listing-requests per client.
func WithContactRateLimit(r rate.Limit, burst int) Option {
	return func(o *options) {
		o.contactRate, o.contactBurst = r, burst
	}
}

// WithProperties seeds the catalogue.
func WithProperties(props ...models.Property) Option {
	return func(o *options) {
		o.seed = append(o.seed, props...)
	}
}

type Server struct {
	*httptest.Server
	Router *gin.Engine

	mu         sync.Mutex
	secretKey  string
	generation int
	nextID     int
	properties map[string]models.Property
	order      []string
	contacts   []models.ContactRequest
	listings   []models.ListingRequest
	requests   []RecordedRequest
	failures   []cannedResponse
}

// New starts a server and closes it when t finishes.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	gin.SetMode(gin.TestMode)
	s := &Server{
		secretKey:  "stub-secret-0",
		properties: make(map[string]models.Property),
	}
	for _, p := range o.seed {
		s.insert(p)
	}

	s.Router = gin.New()
	s.Router.Use(gin.Recovery(), loggingMiddleware(), s.recordMiddleware())
	s.setupRoutes(o)

	s.Server = httptest.NewServer(s.Router)
	t.Cleanup(s.Server.Close)
	return s
}

// APIURL is the base URL clients should be configured with.
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

func (s *Server) setupRoutes(o options) {
	api := s.Router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		api.POST("/auth/login", s.login)

		public := api.Group("")
		if o.contactRate > 0 {
			public.Use(rateLimitMiddleware(newRateLimiter(o.contactRate, o.contactBurst)))
		}
		public.POST("/contact", s.submitContact)
		public.POST("/listing-requests", s.submitListing)

		api.GET("/properties", s.listProperties)
		api.GET("/properties/:id", s.getProperty)

		protected := api.Group("")
		protected.Use(s.authMiddleware())
		{
			protected.GET("/auth/me", s.me)
			protected.POST("/properties", s.createProperty)
			protected.PUT("/properties/:id", s.updateProperty)
			protected.DELETE("/properties/:id", s.deleteProperty)
			protected.POST("/properties/:id/images", s.uploadImages)
			protected.GET("/admin/stats", s.stats)
		}
	}
}

func (s *Server) secret() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secretKey
}

// Token issues a valid admin token without going through login.
func (s *Server) Token(t testing.TB) string {
	t.Helper()
	details, err := auth.GenerateJWT(AdminUser.ID, AdminUser.Name, AdminUser.Email, AdminUser.Role, s.secret(), 0)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return details.Token
}

// ExpireTokens rotates the signing secret so every issued token is rejected.
func (s *Server) ExpireTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.secretKey = fmt.Sprintf("stub-secret-%d", s.generation)
}

// Fail makes the next request matching method and path (including the /api
// prefix) receive the given response instead of reaching its handler.
func (s *Server) Fail(method, path string, status int, contentType, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, cannedResponse{method: method, path: path, status: status, contentType: contentType, body: body})
}

// takeFailure must be called with s.mu held.
func (s *Server) takeFailure(method, path string) (cannedResponse, bool) {
	for i, f := range s.failures {
		if f.method == method && f.path == path {
			s.failures = append(s.failures[:i], s.failures[i+1:]...)
			return f, true
		}
	}
	return cannedResponse{}, false
}

// Requests returns every request received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request, or the zero value.
func (s *Server) LastRequest() RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}
	}
	return s.requests[len(s.requests)-1]
}

// Properties returns the catalogue in insertion order.
func (s *Server) Properties() []models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Property, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.properties[id])
	}
	return out
}

func (s *Server) Contacts() []models.ContactRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ContactRequest(nil), s.contacts...)
}

func (s *Server) Listings() []models.ListingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ListingRequest(nil), s.listings...)
}
