package server

import (
	"context"
	"net/http"
	"pos-proximity/internal/config"
	"pos-proximity/internal/dataset"
	"pos-proximity/internal/jobs"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const sessionName = "posproximity"

type Server struct {
	cfg    config.Config
	holder *dataset.Holder
	jobs   *jobs.Registry
	logger *zap.Logger

	// parent of export job contexts; cancelled on shutdown
	baseCtx      context.Context
	hasTemplates bool
}

func New(ctx context.Context, cfg config.Config, holder *dataset.Holder, registry *jobs.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		holder:  holder,
		jobs:    registry,
		logger:  logger,
		baseCtx: ctx,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	store := cookie.NewStore([]byte(s.cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 12 * 3600, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))

	if s.cfg.TemplatesGlob != "" {
		r.LoadHTMLGlob(s.cfg.TemplatesGlob)
		s.hasTemplates = true
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "env": s.cfg.Env})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/login", func(c *gin.Context) {
		s.render(c, http.StatusOK, "login.html", gin.H{})
	})
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)

	pages := r.Group("/")
	pages.Use(s.pageAuth())
	{
		pages.GET("/", s.index)
		pages.GET("/download-result/:filename", s.downloadResult)
	}

	api := r.Group("/api")
	api.Use(s.apiAuth())
	{
		api.GET("/summary", s.summary)
		api.GET("/outlets", s.searchOutlets)
		api.GET("/outlets/:code", s.getOutlet)
		api.GET("/nearby", s.nearby)
		api.GET("/map", s.mapView)
		api.POST("/reload", s.reload)
		api.POST("/export", s.startExport)
		api.GET("/jobs/:id", s.jobStatus)
		api.GET("/jobs/:id/logs", s.jobLogs)
		api.POST("/jobs/:id/cancel", s.cancelJob)
	}

	return r
}

// render falls back to JSON when the server runs without HTML templates.
func (s *Server) render(c *gin.Context, code int, name string, obj gin.H) {
	if s.hasTemplates {
		c.HTML(code, name, obj)
		return
	}
	c.JSON(code, obj)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
