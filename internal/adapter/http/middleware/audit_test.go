package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func auditRouter(buf *bytes.Buffer, status int) *gin.Engine {
	r := gin.New()
	r.Use(AuditLog(zerolog.New(buf)))
	r.POST("/sanctuaries/:sanctuary/pixels/update/:column/:row", func(c *gin.Context) {
		c.Status(status)
	})
	r.GET("/sanctuaries/:sanctuary/pixels/current", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/sanctuaries/:sanctuary/donations/:providerId/live", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func TestAuditLog_IdentifierUpdate(t *testing.T) {
	var buf bytes.Buffer
	r := auditRouter(&buf, http.StatusOK)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sanctuaries/hollow/pixels/update/3/4", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), `"audit_action":"pixel.update_identifier"`)
	assert.Contains(t, buf.String(), `"sanctuary":"hollow"`)
	assert.Contains(t, buf.String(), `"column":"3"`)
	assert.Contains(t, buf.String(), `"row":"4"`)
}

func TestAuditLog_SkipsFailedWrite(t *testing.T) {
	var buf bytes.Buffer
	r := auditRouter(&buf, http.StatusNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sanctuaries/hollow/pixels/update/3/4", nil))

	assert.Empty(t, buf.String())
}

func TestAuditLog_SkipsGET(t *testing.T) {
	var buf bytes.Buffer
	r := auditRouter(&buf, http.StatusOK)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sanctuaries/hollow/pixels/current", nil))

	assert.Empty(t, buf.String())
}

func TestAuditLog_SkipsUnmappedWrite(t *testing.T) {
	var buf bytes.Buffer
	r := auditRouter(&buf, http.StatusOK)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sanctuaries/hollow/donations/twitch/live", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, buf.String())
}

func TestMapRouteToAction(t *testing.T) {
	assert.Equal(t, "pixel.update_identifier", mapRouteToAction("/sanctuaries/:sanctuary/pixels/update/:column/:row"))
	assert.Equal(t, "", mapRouteToAction("/sanctuaries/:sanctuary/pixels/current"))
	assert.Equal(t, "", mapRouteToAction(""))
}
