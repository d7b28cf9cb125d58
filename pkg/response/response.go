package response

import (
	"errors"
	"net/http"

	"sanctuary-mural/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SuccessResponse is the acknowledgement body returned to webhook callers.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
	RequestID string `json:"request_id"`
}

// Success sends {"success":true} with the given status.
func Success(c *gin.Context, status int) {
	c.JSON(status, SuccessResponse{Success: true})
}

// Raw sends a pre-encoded body. An empty body writes headers only.
func Raw(c *gin.Context, status int, contentType string, body []byte) {
	if len(body) == 0 {
		c.Status(status)
		return
	}
	c.Data(status, contentType, body)
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			Error:     appErr.Message,
			ErrorCode: appErr.Code,
			RequestID: getRequestID(c),
		})
		return
	}

	// Unknown error -> 500
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     "Internal server error",
		ErrorCode: "SYS_000",
		RequestID: getRequestID(c),
	})
}

// getRequestID retrieves request ID from context, or generates one.
func getRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
