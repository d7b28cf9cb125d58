package handler

import (
	"context"
	"net/http"

	"sanctuary-mural/internal/adapter/http/dto"
	"sanctuary-mural/pkg/apperror"
	"sanctuary-mural/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MuralService is a sanctuary's mural actor as seen by the HTTP layer.
type MuralService interface {
	Current(ctx context.Context) ([]byte, error)
	Sync(w http.ResponseWriter, r *http.Request) error
	UpdateIdentifier(ctx context.Context, column, row int, identifier string) error
}

// MuralLookup resolves a sanctuary's mural actor.
type MuralLookup func(sanctuary string) (MuralService, bool)

// MuralHandler handles pixel read, sync and admin update requests.
type MuralHandler struct {
	lookup MuralLookup
	log    zerolog.Logger
}

// NewMuralHandler creates a new MuralHandler.
func NewMuralHandler(lookup MuralLookup, log zerolog.Logger) *MuralHandler {
	return &MuralHandler{lookup: lookup, log: log}
}

func (h *MuralHandler) mural(c *gin.Context) (MuralService, bool) {
	m, ok := h.lookup(c.Param("sanctuary"))
	if !ok {
		response.Error(c, apperror.ErrNotFound("Sanctuary"))
	}
	return m, ok
}

// Current handles GET /pixels/current.
func (h *MuralHandler) Current(c *gin.Context) {
	m, ok := h.mural(c)
	if !ok {
		return
	}

	body, err := m.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	response.Raw(c, http.StatusOK, "application/json; charset=utf-8", body)
}

// Sync handles GET /pixels/sync (WebSocket upgrade).
func (h *MuralHandler) Sync(c *gin.Context) {
	m, ok := h.mural(c)
	if !ok {
		return
	}

	// A failed upgrade has already been answered by the upgrader.
	if err := m.Sync(c.Writer, c.Request); err != nil {
		h.log.Debug().Err(err).Str("sanctuary", c.Param("sanctuary")).Msg("Sync upgrade failed")
	}
}

// UpdateIdentifier handles POST /pixels/update/:column/:row.
func (h *MuralHandler) UpdateIdentifier(c *gin.Context) {
	m, ok := h.mural(c)
	if !ok {
		return
	}

	var path dto.PixelPath
	if err := c.ShouldBindUri(&path); err != nil {
		response.Error(c, apperror.ErrInvalidPayload(err))
		return
	}

	var req dto.UpdateIdentifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidPayload(err))
		return
	}
	dto.SanitizeStruct(&req)
	if req.Identifier == "" {
		response.Error(c, apperror.ErrInvalidPayload(nil))
		return
	}

	if err := m.UpdateIdentifier(c.Request.Context(), path.Column, path.Row, req.Identifier); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK)
}
