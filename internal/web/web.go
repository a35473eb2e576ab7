// Package web serves the server-rendered site and the /manage panel. It
// shares the domain services with the JSON API; only the transport differs:
// signed session cookies instead of bearer tokens, redirects instead of
// 401/403 bodies.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"agcbo/internal/access"
	"agcbo/internal/config"
	"agcbo/internal/entity/db"
	"agcbo/internal/service"
	"agcbo/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

//go:embed templates
var embedded embed.FS

const requestTimeout = 10 * time.Second

// Handler renders the public site and the management panel.
type Handler struct {
	cfg      config.Config
	svc      *service.Services
	sessions *sessions.CookieStore
	pages    map[string]*template.Template
}

// NewHandler parses the page templates, from cfg.TemplateDir when set and
// from the embedded copies otherwise.
func NewHandler(cfg config.Config, svc *service.Services) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("services are required")
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("a secret key is required for session cookies")
	}
	if cfg.SessionName == "" {
		cfg.SessionName = "agcbo_session"
	}

	var fsys fs.FS
	if cfg.TemplateDir != "" {
		fsys = os.DirFS(cfg.TemplateDir)
	} else {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}
	pages, err := loadPages(fsys, templateFuncs(cfg))
	if err != nil {
		return nil, err
	}
	return &Handler{
		cfg:      cfg,
		svc:      svc,
		sessions: NewSessionStore(cfg),
		pages:    pages,
	}, nil
}

// loadPages parses every page against the shared layout. Each page gets its
// own set so the "content" blocks do not collide.
func loadPages(fsys fs.FS, funcs template.FuncMap) (map[string]*template.Template, error) {
	names, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("no page templates found")
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.New(path.Base(name)).Funcs(funcs).ParseFS(fsys, "layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[strings.TrimSuffix(path.Base(name), ".html")] = tmpl
	}
	return pages, nil
}

func templateFuncs(cfg config.Config) template.FuncMap {
	return template.FuncMap{
		"date":       formatDate,
		"datetime":   formatDateTime,
		"money":      func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"media":      func(key string) string { return storage.PublicURL(cfg.StoragePublicBaseURL, key) },
		"safe":       func(s string) template.HTML { return template.HTML(s) },
		"title":      humanize,
		"cell":       cell,
		"fieldError": fieldError,
		"isStaff":    db.IsStaffRole,
		"pageOf":     pageLabel,
		"prevPage":   prevPage,
		"nextPage":   nextPage,
	}
}

func fieldError(errs map[string]string, name string) string {
	return errs[name]
}

func formatDate(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2 Jan 2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDate(*t)
	case db.Date:
		return formatDate(t.Time())
	case *db.Date:
		if t == nil {
			return ""
		}
		return formatDate(t.Time())
	}
	return ""
}

func formatDateTime(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2 Jan 2006 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDateTime(*t)
	}
	return ""
}

// humanize turns a snake_case value into a label: "on_hold" -> "On hold".
func humanize(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// pageView is what every template receives.
type pageView struct {
	Title    string
	Path     string
	Viewer   access.Viewer
	Settings *db.SiteSettings
	CSRF     string
	Flashes  []string
	Data     gin.H
}

func (h *Handler) render(c *gin.Context, status int, page, title string, data gin.H) {
	tmpl, ok := h.pages[page]
	if !ok {
		logrus.WithField("page", page).Error("unknown page template")
		c.String(http.StatusInternalServerError, "page not available")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	settings, err := h.svc.Settings.Settings(ctx)
	if err != nil {
		logrus.WithError(err).Warn("failed to load site settings for page")
		settings = &db.SiteSettings{SiteName: "AGCBO"}
	}
	if data == nil {
		data = gin.H{}
	}

	view := pageView{
		Title:    title,
		Path:     c.Request.URL.Path,
		Viewer:   currentViewer(c),
		Settings: settings,
		CSRF:     csrfToken(c),
		Flashes:  h.takeFlashes(c),
		Data:     data,
	}
	c.Render(status, render.HTML{Template: tmpl, Name: "layout", Data: view})
}

// fail maps a service error onto the web conventions: sign-in redirect,
// home redirect, a 404 page, or a generic error page.
func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.Redirect(http.StatusSeeOther, "/login")
	case errors.Is(err, service.ErrForbidden):
		h.flash(c, "You do not have permission to do that.")
		c.Redirect(http.StatusSeeOther, "/")
	case errors.Is(err, service.ErrNotFound):
		h.render(c, http.StatusNotFound, "error", "Not found", gin.H{"Message": "The page you asked for does not exist."})
	default:
		var rule *service.RuleError
		if errors.As(err, &rule) {
			h.render(c, http.StatusBadRequest, "error", "Not allowed", gin.H{"Message": rule.Message})
			return
		}
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error(message)
		h.render(c, http.StatusInternalServerError, "error", "Something went wrong", gin.H{"Message": message})
	}
}

// back redirects to path after a state change, carrying a flash message.
func (h *Handler) back(c *gin.Context, path, message string) {
	if message != "" {
		h.flash(c, message)
	}
	c.Redirect(http.StatusSeeOther, path)
}

// fieldErrors extracts the per-field messages of a validation error so a
// form can be shown again with them.
func fieldErrors(err error) (map[string]string, bool) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

// Register mounts the site and the panel on r.
func (h *Handler) Register(r *gin.Engine) {
	site := r.Group("/")
	site.Use(CSRF(h.cfg.SessionSecureCookie), h.loadViewer())

	site.GET("/", h.Home)
	site.GET("/about", h.About)
	site.GET("/officials", h.Officials)
	site.GET("/youth-jobs", h.YouthJobs)
	site.GET("/contact", h.ContactForm)
	site.POST("/contact", h.SubmitContact)
	site.GET("/projects", h.Projects)
	site.GET("/projects/:slug", h.ProjectDetail)
	site.GET("/events", h.Events)
	site.GET("/events/:slug", h.EventDetail)
	site.POST("/events/:slug/register", h.requireLogin(), h.RegisterForEvent)
	site.GET("/gallery", h.Gallery)
	site.GET("/sports", h.Sports)
	site.GET("/reports", h.Reports)

	site.GET("/login", h.LoginForm)
	site.POST("/login", h.Login)
	site.POST("/logout", h.Logout)
	site.GET("/register", h.RegisterForm(kindMember))
	site.POST("/register", h.SubmitRegistration(kindMember))
	site.GET("/register/donor", h.RegisterForm(kindDonor))
	site.POST("/register/donor", h.SubmitRegistration(kindDonor))
	site.GET("/register/county-official", h.RegisterForm(kindCountyOfficial))
	site.POST("/register/county-official", h.SubmitRegistration(kindCountyOfficial))
	site.GET("/register/success", h.RegistrationSuccess)
	site.GET("/dashboard", h.requireLogin(), h.MemberDashboard)
	site.GET("/ajax/wards", h.WardLookup)

	h.registerManage(site.Group("/manage", h.requireStaff()))
}
