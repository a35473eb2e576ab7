package api

import (
	"net/http"

	"agcbo/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

// RegisterForEvent signs the caller up. The body is optional.
func (h *HTTPHandler) RegisterForEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.EventRegistrationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			InvalidPayload(c, nil)
			return
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	reg, err := h.svc.Events.Register(ctx, CurrentViewer(c), id, req)
	if err != nil {
		respondError(c, err, "failed to register for event")
		return
	}
	c.JSON(http.StatusCreated, reg)
}

func (h *HTTPHandler) ConfirmRegistration(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	reg, err := h.svc.Events.ConfirmRegistration(ctx, CurrentViewer(c), id)
	if err != nil {
		respondError(c, err, "failed to confirm registration")
		return
	}
	c.JSON(http.StatusOK, reg)
}
