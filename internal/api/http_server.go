package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"agcbo/internal/config"
	"agcbo/internal/service"
	"agcbo/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const requestTimeout = 5 * time.Second

// HTTPHandler serves the JSON API and the media endpoint.
type HTTPHandler struct {
	cfg       config.Config
	svc       *service.Services
	mediaRoot string
}

// NewHTTPHandler builds the API handler. Media is served from disk only when
// store is backed by a local directory.
func NewHTTPHandler(cfg config.Config, svc *service.Services, store storage.Storage) (*HTTPHandler, error) {
	if svc == nil {
		return nil, errors.New("services are required")
	}
	handler := &HTTPHandler{cfg: cfg, svc: svc}
	if local, ok := store.(storage.LocalBaseDirProvider); ok {
		handler.mediaRoot = local.LocalBaseDir()
	}
	return handler, nil
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// LoggingMiddleware writes one access log entry per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start).String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}

// CORSMiddleware allows the configured origins. Debug builds with no origin
// list accept any origin.
func CORSMiddleware(cfg config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	origins := make([]string, 0, len(cfg.CORSOrigins))
	for _, origin := range cfg.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, strings.TrimRight(trimmed, "/"))
		}
	}
	if len(origins) == 0 {
		if !cfg.Debug {
			return func(c *gin.Context) { c.Next() }
		}
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = origins
	}
	return cors.New(corsCfg)
}

// NewEngine builds a gin engine with the shared middleware stack: access
// log, recovery and CORS.
func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware(cfg))
	if err := r.SetTrustedProxies(nil); err != nil {
		logrus.WithError(err).Warn("failed to reset trusted proxies")
	}
	return r
}
