package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"sanctuary-mural/internal/provider"
	"sanctuary-mural/pkg/apperror"
	"sanctuary-mural/pkg/response"

	"github.com/gin-gonic/gin"
)

// DonationService routes a webhook call to the sanctuary's provider.
type DonationService interface {
	Handle(ctx context.Context, providerID string, req *provider.Request) (*provider.Response, error)
}

// DonationLookup resolves a sanctuary's donation actor.
type DonationLookup func(sanctuary string) (DonationService, bool)

// DonationHandler handles inbound donation webhooks.
type DonationHandler struct {
	lookup DonationLookup
	now    func() time.Time
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(lookup DonationLookup) *DonationHandler {
	return &DonationHandler{lookup: lookup, now: time.Now}
}

// Receive handles POST /donations/:providerId/live.
// The provider's response is written back verbatim.
func (h *DonationHandler) Receive(c *gin.Context) {
	svc, ok := h.lookup(c.Param("sanctuary"))
	if !ok {
		response.Error(c, apperror.ErrNotFound("Sanctuary"))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, apperror.ErrPayloadTooLarge())
			return
		}
		response.Error(c, apperror.ErrInvalidPayload(err))
		return
	}

	req := &provider.Request{
		Header:     c.Request.Header.Clone(),
		Body:       body,
		ReceivedAt: h.now().UTC(),
	}

	resp, err := svc.Handle(c.Request.Context(), c.Param("providerId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, resp.Status, resp.ContentType, resp.Body)
}
