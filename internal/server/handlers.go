package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"pos-proximity/internal/calculator"
	"pos-proximity/internal/dashboard"
	"pos-proximity/internal/jobs"
	"pos-proximity/internal/metrics"
	"pos-proximity/internal/search"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *Server) index(c *gin.Context) {
	store := s.holder.Store()
	s.render(c, http.StatusOK, "index.html", gin.H{
		"Stats":         store.Stats(),
		"LoadedAt":      s.holder.LoadedAt(),
		"MinRadiusKm":   s.cfg.MinRadiusKm,
		"MaxRadiusKm":   s.cfg.MaxRadiusKm,
		"DefaultRadius": s.cfg.DefaultRadiusKm,
		"LimitChoices":  s.cfg.LimitChoices,
		"DefaultLimit":  s.cfg.DefaultLimit,
	})
}

func (s *Server) summary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats":             s.holder.Store().Stats(),
		"loaded_at":         s.holder.LoadedAt(),
		"min_radius_km":     s.cfg.MinRadiusKm,
		"max_radius_km":     s.cfg.MaxRadiusKm,
		"default_radius_km": s.cfg.DefaultRadiusKm,
		"limit_choices":     s.cfg.LimitChoices,
		"default_limit":     s.cfg.DefaultLimit,
	})
}

func (s *Server) searchOutlets(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	outlets := search.NewMatcher(s.holder.Store()).SearchOutlets(query)
	c.JSON(http.StatusOK, gin.H{
		"query":    query,
		"searched": query != "",
		"outlets":  outlets,
	})
}

func (s *Server) getOutlet(c *gin.Context) {
	outlet, ok := search.NewMatcher(s.holder.Store()).ResolveOutlet(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "outlet not found"})
		return
	}
	c.JSON(http.StatusOK, outlet)
}

// queryParams reads radius_km and limit, falling back to the configured
// defaults, and keeps them inside the configured choices.
func (s *Server) queryParams(c *gin.Context) (float64, int, error) {
	radiusKm := s.cfg.DefaultRadiusKm
	if raw := c.Query("radius_km"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, 0, errors.Errorf("invalid radius_km %q", raw)
		}
		radiusKm = v
	}
	if !(radiusKm >= s.cfg.MinRadiusKm && radiusKm <= s.cfg.MaxRadiusKm) {
		return 0, 0, errors.Errorf("radius_km must be between %v and %v", s.cfg.MinRadiusKm, s.cfg.MaxRadiusKm)
	}

	limit := s.cfg.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errors.Errorf("invalid limit %q", raw)
		}
		limit = v
	}
	if !slices.Contains(s.cfg.LimitChoices, limit) {
		return 0, 0, errors.Errorf("limit must be one of %v", s.cfg.LimitChoices)
	}

	return radiusKm, limit, nil
}

// evaluate runs the dashboard pipeline for the request's query parameters
// against store. It writes the error response itself and reports false when
// the handler should stop.
func (s *Server) evaluate(c *gin.Context, store dashboard.Source) (dashboard.View, bool) {
	radiusKm, limit, err := s.queryParams(c)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return dashboard.View{}, false
	}

	start := time.Now()
	view, err := dashboard.Evaluate(c.Request.Context(), store, dashboard.Request{
		Query:    c.Query("q"),
		Code:     c.Query("code"),
		RadiusKm: radiusKm,
		Limit:    limit,
	})
	metrics.NearbySeconds.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
	case calculator.IsPrecondition(err):
		metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return view, false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "query cancelled"})
		return view, false
	default:
		s.logger.Error("nearby evaluation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		return view, false
	}

	metrics.SearchesTotal.WithLabelValues(string(view.Stage)).Inc()
	return view, true
}

func (s *Server) nearby(c *gin.Context) {
	view, ok := s.evaluate(c, s.holder.Store())
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) mapView(c *gin.Context) {
	store := s.holder.Store()
	view, ok := s.evaluate(c, store)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dashboard.Map(store, view, s.cfg.MapSamplePerRole))
}

func (s *Server) reload(c *gin.Context) {
	stats, err := s.holder.Reload()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
			"stats": stats,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "loaded_at": s.holder.LoadedAt()})
}

func (s *Server) startExport(c *gin.Context) {
	radiusKm, limit, err := s.queryParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job := s.jobs.New()
	ctx, cancel := context.WithCancel(s.baseCtx)
	job.SetCancel(cancel)
	job.Log(fmt.Sprintf("Export started (radius %.0f km, top %d).", radiusKm, limit))

	// the export keeps working on the store it started with, even across reloads
	store := s.holder.Store()
	go func() {
		defer cancel()
		jobs.RunExport(ctx, job, store, jobs.ExportParams{
			RadiusKm:  radiusKm,
			Limit:     limit,
			OutputDir: s.cfg.OutputDir,
		}, s.logger)
	}()

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID, "status": jobs.StatusRunning})
}

func (s *Server) jobStatus(c *gin.Context) {
	job := s.jobs.Get(c.Param("id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job.Snapshot())
}

func (s *Server) jobLogs(c *gin.Context) {
	job := s.jobs.Get(c.Param("id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	snap := job.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"logs":     snap.Logs,
		"status":   snap.Status,
		"progress": snap.Progress,
	})
}

func (s *Server) cancelJob(c *gin.Context) {
	job := s.jobs.Get(c.Param("id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": job.Cancel()})
}

func (s *Server) downloadResult(c *gin.Context) {
	filename := c.Param("filename")
	if filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		c.String(http.StatusBadRequest, "invalid file name")
		return
	}

	target := filepath.Join(s.cfg.OutputDir, filename)
	if _, err := os.Stat(target); err != nil {
		c.String(http.StatusNotFound, "file not found")
		return
	}
	c.FileAttachment(target, filename)
}
