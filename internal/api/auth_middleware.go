package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"agcbo/internal/access"
	"agcbo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	viewerContextKey = "viewer"
)

// AuthMiddleware resolves an optional bearer token into a viewer. Requests
// without an Authorization header run as anonymous; a header that fails to
// resolve is rejected so that an expired token never degrades silently.
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := access.ClientIP(c.Request)
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			viewer := access.Anonymous()
			viewer.IP = ip
			c.Set(viewerContextKey, viewer)
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "invalid authorization header",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		account, err := h.svc.Accounts.ResolveAccess(ctx, parts[1])
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrUnauthenticated):
				c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
					Code:    ErrCodeSessionExpired,
					Message: "token is invalid or expired",
				})
			case errors.Is(err, service.ErrAccountDisabled), errors.Is(err, service.ErrAccountPending):
				c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
					Code:    ErrCodeUserDisabled,
					Message: err.Error(),
				})
			default:
				logrus.WithError(err).Error("failed to resolve access token")
				c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
					Code:    ErrCodeInternalError,
					Message: "failed to verify account",
				})
			}
			return
		}

		c.Set(viewerContextKey, access.FromAccount(account, ip))
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func (h *HTTPHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentViewer(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireStaff admits admins and super admins only.
func (h *HTTPHandler) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := CurrentViewer(c)
		if !viewer.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "authentication required",
			})
			return
		}
		if !viewer.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeForbidden,
				Message: "staff privileges required",
			})
			return
		}
		c.Next()
	}
}

// CurrentViewer returns the request viewer, anonymous when unset.
func CurrentViewer(c *gin.Context) access.Viewer {
	value, exists := c.Get(viewerContextKey)
	if !exists {
		return access.Anonymous()
	}
	viewer, ok := value.(access.Viewer)
	if !ok {
		return access.Anonymous()
	}
	return viewer
}
