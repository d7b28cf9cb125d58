// Package provider defines the contract shared by donation webhook verifiers.
package provider

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/core/ports"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Outcomes recorded on the donations metric.
const (
	OutcomeAccepted  = "accepted"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)

// ValidID reports whether s is a well-formed provider route segment.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// Request is an inbound webhook call.
type Request struct {
	Header     http.Header
	Body       []byte
	ReceivedAt time.Time
}

// Response is written back to the webhook caller as-is.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Success returns {"success":true} with status.
func Success(status int) *Response {
	b, _ := json.Marshal(map[string]bool{"success": true})
	return &Response{Status: status, ContentType: "application/json; charset=utf-8", Body: b}
}

// Text returns a plain-text response.
func Text(status int, body string) *Response {
	return &Response{Status: status, ContentType: "text/plain; charset=utf-8", Body: []byte(body)}
}

// Empty returns a response with no body.
func Empty(status int) *Response {
	return &Response{Status: status}
}

// Provider verifies and handles one provider's webhook calls for one sanctuary.
// Errors are *apperror.AppError values carrying the HTTP status to return.
type Provider interface {
	ID() domain.ProviderID
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// Env is what a provider needs from its sanctuary.
type Env struct {
	Sanctuary string
	Config    ports.ConfigStore
	Queue     ports.DonationQueue
	Metrics   ports.Metrics
	Log       zerolog.Logger
}

// Factory constructs a sanctuary's provider. Init may perform one-time
// external setup and must return an error rather than a half-built provider.
type Factory interface {
	ID() domain.ProviderID
	Init(ctx context.Context, env Env) (Provider, error)
}
