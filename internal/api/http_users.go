package api

import (
	"context"
	"net/http"

	"agcbo/internal/access"
	"agcbo/internal/entity/converter"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var query dto.AccountQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	if query.Keyword == "" {
		query.Keyword = c.Query("search")
	}
	query.Normalize()

	ctx, cancel := requestContext(c)
	defer cancel()

	accounts, meta, err := h.svc.Accounts.ListAccounts(ctx, CurrentViewer(c), &query)
	if err != nil {
		respondError(c, err, "failed to load users")
		return
	}
	c.JSON(http.StatusOK, dto.Page[dto.AccountSummary]{
		Items: converter.AccountsToSummaries(accounts),
		Meta:  meta,
	})
}

func (h *HTTPHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.svc.Accounts.GetAccount(ctx, CurrentViewer(c), id)
	if err != nil {
		respondError(c, err, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, converter.AccountToSummary(account))
}

func (h *HTTPHandler) CreateUser(c *gin.Context) {
	var req dto.AccountCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid user payload")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.svc.Accounts.CreateAccount(ctx, CurrentViewer(c), req)
	if err != nil {
		respondError(c, err, "failed to create user")
		return
	}
	c.JSON(http.StatusCreated, converter.AccountToSummary(account))
}

func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AccountUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid user payload")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.svc.Accounts.UpdateAccount(ctx, CurrentViewer(c), id, req)
	if err != nil {
		respondError(c, err, "failed to update user")
		return
	}
	c.JSON(http.StatusOK, converter.AccountToSummary(account))
}

func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Accounts.DeleteAccount(ctx, CurrentViewer(c), id); err != nil {
		respondError(c, err, "failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}

type gateAction func(ctx context.Context, viewer access.Viewer, id uint) (*db.Account, error)

// gate wraps approve, reject and verify, which share a shape.
func (h *HTTPHandler) gate(action gateAction, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		account, err := action(ctx, CurrentViewer(c), id)
		if err != nil {
			respondError(c, err, message)
			return
		}
		c.JSON(http.StatusOK, converter.AccountToSummary(account))
	}
}

func (h *HTTPHandler) ListAuditLogs(c *gin.Context) {
	var query dto.AuditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	query.Normalize()

	ctx, cancel := requestContext(c)
	defer cancel()

	entries, meta, err := h.svc.Audit.List(ctx, CurrentViewer(c), &query)
	if err != nil {
		respondError(c, err, "failed to load audit log")
		return
	}
	c.JSON(http.StatusOK, dto.Page[db.AuditLog]{Items: entries, Meta: meta})
}

func (h *HTTPHandler) Dashboard(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	overview, err := h.svc.Dashboard.Overview(ctx, CurrentViewer(c))
	if err != nil {
		respondError(c, err, "failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, overview)
}
