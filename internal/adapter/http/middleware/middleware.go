package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"sanctuary-mural/internal/core/ports"
	"sanctuary-mural/pkg/apperror"
	"sanctuary-mural/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"

	// apiKeyScheme prefixes the admin credential: "Authorization: ApiKey <secret>".
	apiKeyScheme = "ApiKey "

	// Context keys
	CtxRequestID = "request_id"
	CtxSanctuary = "sanctuary"
)

// RequestID propagates X-Request-ID, generating one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// KeyChecker reports whether a presented admin secret is valid.
type KeyChecker func(secret string) bool

// StaticKey matches a plain shared secret in constant time. An empty key
// matches nothing.
func StaticKey(apiKey string) KeyChecker {
	expected := []byte(apiKey)
	return func(secret string) bool {
		return len(expected) > 0 && subtle.ConstantTimeCompare([]byte(secret), expected) == 1
	}
}

// APIKeyAuth guards admin routes with "Authorization: ApiKey <secret>".
// A nil checker rejects every request.
func APIKeyAuth(check KeyChecker, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(HeaderAuthorization)
		secret, ok := strings.CutPrefix(header, apiKeyScheme)
		if !ok || check == nil || !check(secret) {
			log.Warn().
				Str("path", c.Request.URL.Path).
				Str("client_ip", c.ClientIP()).
				Msg("admin request rejected")
			response.Error(c, apperror.ErrUnauthorized())
			c.Abort()
			return
		}
		c.Next()
	}
}

// Metrics records request count and latency per route template.
func Metrics(m ports.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.IncRequestsTotal(route, c.Writer.Status())
		m.ObserveRequestDuration(route, time.Since(start))
	}
}

// MaxBodySize limits the request body. Reads past the limit fail and the
// handler rejects the request.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("request_id", c.GetString(CtxRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("sanctuary", c.Param(CtxSanctuary)).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				response.Error(c, apperror.New("SYS_000", "Internal server error", http.StatusInternalServerError))
				c.Abort()
			}
		}()
		c.Next()
	}
}
