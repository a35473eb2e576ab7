package api

import (
	"net/http"

	"agcbo/internal/entity/converter"

	"github.com/gin-gonic/gin"
)

// MyProfile returns the caller's member profile, creating it on first use.
func (h *HTTPHandler) MyProfile(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := h.svc.Members.Me(ctx, CurrentViewer(c))
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *HTTPHandler) UpdateMyProfile(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := h.svc.Members.UpdateMe(ctx, CurrentViewer(c), payload)
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *HTTPHandler) ApproveProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.svc.Members.ApproveProfile(ctx, CurrentViewer(c), id)
	if err != nil {
		respondError(c, err, "failed to approve member")
		return
	}
	c.JSON(http.StatusOK, converter.AccountToSummary(account))
}

func (h *HTTPHandler) RejectProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.svc.Members.RejectProfile(ctx, CurrentViewer(c), id)
	if err != nil {
		respondError(c, err, "failed to reject member")
		return
	}
	c.JSON(http.StatusOK, converter.AccountToSummary(account))
}
