package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuditLog records successful admin writes (pixel identifier changes) to the
// audit logger. Reads and failed requests are skipped.
func AuditLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		action := mapRouteToAction(c.FullPath())
		if action == "" {
			return
		}

		log.Info().
			Str("audit_action", action).
			Str("sanctuary", c.Param(CtxSanctuary)).
			Str("column", c.Param("column")).
			Str("row", c.Param("row")).
			Str("request_id", c.GetString(CtxRequestID)).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Msg("audit")
	}
}

func mapRouteToAction(route string) string {
	if strings.HasSuffix(route, "/pixels/update/:column/:row") {
		return "pixel.update_identifier"
	}
	return ""
}
