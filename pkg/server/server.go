// Package server exposes the scan engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lcalzada-xor/rxss/pkg/logger"
	"github.com/lcalzada-xor/rxss/pkg/models"
	"github.com/lcalzada-xor/rxss/pkg/scanner"
)

const (
	msgNoPayloads = "At least one payload is required"
	msgInternal   = "Internal server error"
)

// Engine runs one scan. *scanner.Scanner satisfies it.
type Engine interface {
	Scan(ctx context.Context, targets, payloadOverride []string, progress scanner.ProgressFunc) (*models.ScanReport, error)
}

// Server holds the routes and the most recent completed report.
type Server struct {
	engine Engine
	log    *logger.Logger

	mu   sync.RWMutex
	last *models.ScanReport
}

// New creates a Server around engine.
func New(engine Engine, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{engine: engine, log: log}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.healthHandler)
	api := r.Group("/api/scan")
	api.POST("", s.scanHandler)
	api.POST("/stream", s.streamHandler)
	api.GET("/last", s.lastHandler)
	return r
}

// Run listens on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:           addr,
		Handler:        s.Router(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   0, // scans are long-running
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("[server] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("[server] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Last returns the most recent completed report, or nil.
func (s *Server) Last() *models.ScanReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Server) setLast(r *models.ScanReport) {
	s.mu.Lock()
	s.last = r
	s.mu.Unlock()
}

// bindRequest decodes and validates the body. On failure it has already
// written the 400 response.
func (s *Server) bindRequest(c *gin.Context, handler string) (*models.ScanRequest, bool) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Warn("[%s] invalid request: %v", handler, err)
		msg := models.ErrNoURL.Error()
		// Targets are checked first, so a bad payload entry only matters
		// once the targets themselves are usable
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && strings.HasPrefix(typeErr.Field, "payloads") && req.Validate() == nil {
			msg = msgNoPayloads
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return nil, false
	}
	if err := req.Validate(); err != nil {
		s.log.Warn("[%s] invalid request: %v", handler, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return &req, true
}

// validationBody maps an engine validation error to its response body.
func validationBody(err error) gin.H {
	if errors.Is(err, scanner.ErrNoPayloads) {
		return gin.H{"error": msgNoPayloads}
	}
	return gin.H{"error": models.ErrNoURL.Error()}
}

func (s *Server) scanHandler(c *gin.Context) {
	req, ok := s.bindRequest(c, "scanHandler")
	if !ok {
		return
	}
	targets := req.Targets()
	s.log.Info("[scanHandler] scanning %s", models.JoinTargets(targets))

	report, err := s.engine.Scan(c.Request.Context(), targets, req.Payloads, func(p int) {
		s.log.Progress(p)
	})
	switch {
	case errors.Is(err, scanner.ErrValidation):
		s.log.Warn("[scanHandler] rejected: %v", err)
		c.JSON(http.StatusBadRequest, validationBody(err))
	case err != nil:
		s.log.Error("[scanHandler] scan failed: %v", err)
		body := gin.H{"error": msgInternal}
		if report != nil {
			body["url"] = report.URL
			body["vulnerabilities"] = report.Vulnerabilities
			body["scanTime"] = report.ScanTime
			body["status"] = report.Status
		}
		c.JSON(http.StatusInternalServerError, body)
	default:
		s.setLast(report)
		s.log.Info("[scanHandler] %d vulnerabilities found", len(report.Vulnerabilities))
		c.JSON(http.StatusOK, report)
	}
}

func (s *Server) streamHandler(c *gin.Context) {
	req, ok := s.bindRequest(c, "streamHandler")
	if !ok {
		return
	}
	targets := req.Targets()
	s.log.Info("[streamHandler] scanning %s", models.JoinTargets(targets))

	streaming := false
	report, err := s.engine.Scan(c.Request.Context(), targets, req.Payloads, func(p int) {
		s.log.Progress(p)
		streaming = true
		c.SSEvent("progress", p)
		c.Writer.Flush()
	})

	// Nothing has been streamed yet when the engine rejects the input
	if errors.Is(err, scanner.ErrValidation) && !streaming {
		s.log.Warn("[streamHandler] rejected: %v", err)
		c.JSON(http.StatusBadRequest, validationBody(err))
		return
	}
	if err != nil {
		s.log.Error("[streamHandler] scan failed: %v", err)
		c.SSEvent("error", gin.H{"error": msgInternal, "report": report})
		c.Writer.Flush()
		return
	}
	s.setLast(report)
	c.SSEvent("report", report)
	c.Writer.Flush()
}

func (s *Server) lastHandler(c *gin.Context) {
	last := s.Last()
	if last == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scan completed yet"})
		return
	}
	c.JSON(http.StatusOK, last)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
