package web

import (
	"errors"
	"net/http"
	"net/url"

	"agcbo/internal/access"
	"agcbo/internal/config"
	"agcbo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const (
	sessionAccountKey = "account_id"
	sessionRoleKey    = "role"
	viewerContextKey  = "web_viewer"
)

// NewSessionStore builds the signed cookie store for panel sessions.
func NewSessionStore(cfg config.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.SecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAgeSeconds,
		HttpOnly: true,
		Secure:   cfg.SessionSecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (h *Handler) session(c *gin.Context) *sessions.Session {
	// A tampered or expired cookie yields a fresh session and an error;
	// the fresh session is what we want either way.
	sess, err := h.sessions.Get(c.Request, h.cfg.SessionName)
	if err != nil {
		logrus.WithError(err).Debug("discarding unreadable session cookie")
	}
	return sess
}

// loadViewer resolves the session account on every request. Accounts that
// were disabled or lost their gate since login are signed out.
func (h *Handler) loadViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := access.ClientIP(c.Request)
		viewer := access.FromAccount(nil, ip)

		sess := h.session(c)
		if id, ok := sess.Values[sessionAccountKey].(uint); ok && id != 0 {
			ctx, cancel := requestContext(c)
			account, err := h.svc.Accounts.ActiveAccount(ctx, id)
			cancel()
			switch {
			case err == nil:
				viewer = access.FromAccount(account, ip)
			case errors.Is(err, service.ErrUnauthenticated),
				errors.Is(err, service.ErrAccountDisabled),
				errors.Is(err, service.ErrAccountPending):
				h.clearSession(c)
			default:
				logrus.WithError(err).WithField("account_id", id).Warn("failed to resolve session account")
			}
		}
		c.Set(viewerContextKey, viewer)
		c.Next()
	}
}

func (h *Handler) signIn(c *gin.Context, accountID uint, role string) error {
	sess := h.session(c)
	sess.Values[sessionAccountKey] = accountID
	sess.Values[sessionRoleKey] = role
	return sess.Save(c.Request, c.Writer)
}

func (h *Handler) clearSession(c *gin.Context) {
	sess := h.session(c)
	delete(sess.Values, sessionAccountKey)
	delete(sess.Values, sessionRoleKey)
	if err := sess.Save(c.Request, c.Writer); err != nil {
		logrus.WithError(err).Warn("failed to clear session")
	}
}

func (h *Handler) flash(c *gin.Context, message string) {
	sess := h.session(c)
	sess.AddFlash(message)
	if err := sess.Save(c.Request, c.Writer); err != nil {
		logrus.WithError(err).Warn("failed to save flash message")
	}
}

func (h *Handler) takeFlashes(c *gin.Context) []string {
	sess := h.session(c)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(c.Request, c.Writer); err != nil {
		logrus.WithError(err).Warn("failed to consume flash messages")
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}

func currentViewer(c *gin.Context) access.Viewer {
	if v, ok := c.Get(viewerContextKey); ok {
		if viewer, ok := v.(access.Viewer); ok {
			return viewer
		}
	}
	return access.Anonymous()
}

// requireLogin sends anonymous visitors to the login page.
func (h *Handler) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentViewer(c).Authenticated() {
			c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireStaff guards /manage: anonymous visitors log in, everyone else
// who is not staff goes back to the home page.
func (h *Handler) requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := currentViewer(c)
		if !viewer.Authenticated() {
			c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		if !viewer.IsStaff() {
			h.flash(c, "You do not have access to the management panel.")
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
