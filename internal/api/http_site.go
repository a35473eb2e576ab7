package api

import (
	"net/http"

	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) GetSettings(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := h.svc.Settings.Settings(ctx)
	if err != nil {
		respondError(c, err, "failed to load settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *HTTPHandler) SaveSettings(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := h.svc.Settings.SaveSettings(ctx, CurrentViewer(c), payload)
	if err != nil {
		respondError(c, err, "failed to save settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *HTTPHandler) GetAbout(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	about, err := h.svc.Settings.About(ctx)
	if err != nil {
		respondError(c, err, "failed to load about page")
		return
	}
	c.JSON(http.StatusOK, about)
}

func (h *HTTPHandler) SaveAbout(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	about, err := h.svc.Settings.SaveAbout(ctx, CurrentViewer(c), payload)
	if err != nil {
		respondError(c, err, "failed to save about page")
		return
	}
	c.JSON(http.StatusOK, about)
}

// SubmitContact accepts the public contact form.
func (h *HTTPHandler) SubmitContact(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.svc.Contact.Submit(ctx, CurrentViewer(c), req)
	if err != nil {
		respondError(c, err, "failed to send message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "message": "thank you, we will get back to you"})
}

func (h *HTTPHandler) ListContactMessages(c *gin.Context) {
	q, err := listQuery(c)
	if err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	items, meta, err := h.svc.Contact.List(ctx, CurrentViewer(c), q)
	if err != nil {
		respondError(c, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, dto.Page[db.ContactMessage]{Items: items, Meta: meta})
}

func (h *HTTPHandler) GetContactMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.svc.Contact.Get(ctx, CurrentViewer(c), id)
	if err != nil {
		respondError(c, err, "failed to load message")
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *HTTPHandler) UpdateContactStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		MissingField(c, "status")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.svc.Contact.SetStatus(ctx, CurrentViewer(c), id, req.Status)
	if err != nil {
		respondError(c, err, "failed to update message")
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *HTTPHandler) DeleteContactMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Contact.Delete(ctx, CurrentViewer(c), id); err != nil {
		respondError(c, err, "failed to delete message")
		return
	}
	c.Status(http.StatusNoContent)
}
