// Package server exposes the interview agent over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ivstih/interviewd/internal/interview"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Deps aggregates everything the HTTP layer needs.
type Deps struct {
	Logger     *zap.Logger
	Store      interview.Store
	Controller *interview.Controller
	Scheduler  *interview.Scheduler
	Completer  *interview.Completer
}

// Server wires the interview components into a gin engine.
type Server struct {
	engine *gin.Engine
	logger *zap.Logger
}

// New creates the HTTP server and registers all routes.
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestLogger(logger), gin.Recovery())

	api := engine.Group("/api")
	api.POST("/schedule", handleSchedule(deps.Scheduler, logger))

	iv := api.Group("/interview")
	iv.GET("/plan", handlePlan(deps.Store))
	iv.POST("/start", handleStart(deps.Controller, logger))
	iv.POST("/turn", handleTurn(deps.Controller, logger))
	iv.POST("/complete", handleComplete(deps.Completer, logger))

	hr := api.Group("/hr")
	hr.GET("/report", handleReportStatus(deps.Store))
	hr.GET("/report/pdf", handleReportPDF(deps.Store))

	return &Server{engine: engine, logger: logger}
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on the given address until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context, listen string) error {
	srv := &http.Server{
		Addr:    listen,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("http server listening", zap.String("addr", listen))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
