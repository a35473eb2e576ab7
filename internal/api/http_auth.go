package api

import (
	"net/http"

	"agcbo/internal/access"
	"agcbo/internal/entity/converter"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

// RegisterMember creates a member account awaiting approval.
func (h *HTTPHandler) RegisterMember(c *gin.Context) {
	var req dto.MemberRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.svc.Accounts.RegisterMember(ctx, req)
	h.registered(c, account, err)
}

func (h *HTTPHandler) RegisterDonor(c *gin.Context) {
	var req dto.DonorRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.svc.Accounts.RegisterDonor(ctx, req)
	h.registered(c, account, err)
}

func (h *HTTPHandler) RegisterCountyOfficial(c *gin.Context) {
	var req dto.CountyOfficialRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.svc.Accounts.RegisterCountyOfficial(ctx, req)
	h.registered(c, account, err)
}

func (h *HTTPHandler) registered(c *gin.Context, account *db.Account, err error) {
	if err != nil {
		respondError(c, err, "failed to register account")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "registration received; you can log in once your account is approved",
		"user":    converter.AccountToSummary(account),
	})
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "username and password are required")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	pair, err := h.svc.Accounts.Login(ctx, req, access.ClientIP(c.Request))
	if err != nil {
		respondError(c, err, "failed to log in")
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh rotates a refresh token into a new pair.
func (h *HTTPHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		MissingField(c, "refresh")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	pair, err := h.svc.Accounts.Refresh(ctx, req.Refresh)
	if err != nil {
		respondError(c, err, "failed to refresh token")
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *HTTPHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		MissingField(c, "refresh")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Accounts.Logout(ctx, req.Refresh); err != nil {
		respondError(c, err, "failed to log out")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) Me(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.svc.Accounts.Me(ctx, CurrentViewer(c))
	if err != nil {
		respondError(c, err, "failed to load account")
		return
	}
	c.JSON(http.StatusOK, converter.AccountToSummary(account))
}

func (h *HTTPHandler) Constituencies(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.svc.Accounts.Constituencies(ctx)
	if err != nil {
		respondError(c, err, "failed to load constituencies")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Wards lists the wards of one constituency.
func (h *HTTPHandler) Wards(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.svc.Accounts.Wards(ctx, id)
	if err != nil {
		respondError(c, err, "failed to load wards")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *HTTPHandler) Departments(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Accounts.Departments())
}
