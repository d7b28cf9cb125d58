package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Security & Verification (SEC) ----

func ErrUnauthorized() *AppError {
	return New("SEC_001", "Unauthorized", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Message timestamp outside accepted window", http.StatusUnauthorized)
}

func ErrIPNNotVerified() *AppError {
	return New("SEC_004", "IPN verification failed", http.StatusBadRequest)
}

// ---- Payload Validation (VAL) ----

func ErrInvalidPayload(err error) *AppError {
	return Wrap("VAL_001", "Invalid payload", http.StatusBadRequest, err)
}

func ErrInvalidAmount(err error) *AppError {
	return Wrap("VAL_002", "Invalid amount", http.StatusBadRequest, err)
}

func ErrUnknownMessageType(messageType string) *AppError {
	return New("VAL_003", fmt.Sprintf("Unknown message type %q", messageType), http.StatusBadRequest)
}

func ErrMalformedProvider() *AppError {
	return New("VAL_004", "Malformed provider id", http.StatusBadRequest)
}

func ErrPayloadTooLarge() *AppError {
	return New("VAL_005", "Payload too large", http.StatusRequestEntityTooLarge)
}

// ---- Business Rules (BIZ) ----

func ErrEnvironmentMismatch(message string) *AppError {
	return New("BIZ_001", message, http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("BIZ_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Mural (MUR) ----

func ErrPixelNotFound(column, row int) *AppError {
	return New("MUR_001", fmt.Sprintf("No pixel at %d:%d", column, row), http.StatusNotFound)
}

func ErrGridUnavailable(err error) *AppError {
	return Wrap("MUR_002", "Mural grid unavailable", http.StatusServiceUnavailable, err)
}

func ErrCoordinateOutOfRange(column, row int) *AppError {
	return New("MUR_003", fmt.Sprintf("Coordinate %d:%d is outside the mural", column, row), http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrStoreFailure(err error) *AppError {
	return Wrap("SYS_001", "Internal storage error", http.StatusInternalServerError, err)
}

func ErrUpstreamFailure(err error) *AppError {
	return Wrap("SYS_002", "Upstream service failure", http.StatusBadGateway, err)
}

func ErrProviderInit(err error) *AppError {
	return Wrap("SYS_003", "Provider initialization failed", http.StatusServiceUnavailable, err)
}

func ErrActorStopped() *AppError {
	return New("SYS_004", "Service shutting down", http.StatusServiceUnavailable)
}

// InternalError wraps an internal error as a SYS_000 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_000", "Internal server error", http.StatusInternalServerError, err)
}
