package apitest

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"campo-listings/pkg/auth"
	"campo-listings/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// authMiddleware requires a bearer token signed with the server's current
// secret.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithMessage(c, http.StatusUnauthorized, "authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithMessage(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := auth.ValidateJWT(parts[1], s.secret())
		if err != nil {
			abortWithMessage(c, http.StatusUnauthorized, "token expired or invalid")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.GlobalLogger.Debugf("stub %s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// recordMiddleware keeps every request for later assertions and serves
// canned failures queued with Fail.
func (s *Server) recordMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Query:  c.Request.URL.RawQuery,
			Header: c.Request.Header.Clone(),
		})
		canned, ok := s.takeFailure(c.Request.Method, c.Request.URL.Path)
		s.mu.Unlock()

		if ok {
			if canned.contentType != "" {
				c.Header("Content-Type", canned.contentType)
			}
			c.Status(canned.status)
			_, _ = c.Writer.WriteString(canned.body)
			c.Abort()
			return
		}
		c.Next()
	}
}

// rateLimiter holds one limiter per client IP.
type rateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

func newRateLimiter(r rate.Limit, b int) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    b,
	}
}

func (rl *rateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	limiter, exists := rl.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[ip] = limiter
	}
	return limiter
}

func rateLimitMiddleware(rl *rateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getLimiter(c.ClientIP()).Allow() {
			abortWithMessage(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
