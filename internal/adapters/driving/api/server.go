// Package api exposes the analyzer over HTTP.
//
// Routes:
//
//	GET  /check/healthy  liveness
//	GET  /v1/presets     analysis modes
//	POST /v1/analyze     multipart upload (file, mode, question, k)
//	POST /v1/retrieve    same form, retrieval only
//
// Failures are JSON {code, error, kind, pages} with a status chosen by
// error kind.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/resume-ats/internal/core/ports/driving"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// DefaultBodyLimit caps uploads at 10 MiB.
const DefaultBodyLimit = 10 << 20

const shutdownTimeout = 5 * time.Second

// Config holds server options.
type Config struct {
	// BodyLimit is the largest accepted request body in bytes.
	BodyLimit int
}

// Server is the HTTP front end.
type Server struct {
	app *fiber.App
}

// NewServer registers the routes on a new fiber app.
func NewServer(analyzer driving.AnalyzerService, cfg Config) *Server {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}

	var (
		app = fiber.New(fiber.Config{
			AppName:               "resume-ats",
			ErrorHandler:          ErrorHandler,
			BodyLimit:             cfg.BodyLimit,
			DisableStartupMessage: true,
		})
		handler = NewAnalyzeHandler(analyzer)
		check   = app.Group("/check")
		apiv1   = app.Group("/v1")
	)

	app.Use(requestLogger)

	check.Get("/healthy", handler.HandleHealthy)
	apiv1.Get("/presets", handler.HandlePresets)
	apiv1.Post("/analyze", handler.HandleAnalyze)
	apiv1.Post("/retrieve", handler.HandleRetrieve)

	return &Server{app: app}
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()
	logger.Info("listening on %s", addr)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	case err := <-errCh:
		return err
	}
}

// requestLogger logs one line per request.
func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		// The error handler has not run yet; report the status it will pick.
		status = errorStatus(err)
	}
	logger.Logger().Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("took", time.Since(start)).
		Msg("request")
	return err
}

func errorStatus(err error) int {
	switch e := err.(type) { //nolint:errorlint
	case Error:
		return e.Code
	case ValidationError:
		return e.Code
	case *fiber.Error:
		return e.Code
	default:
		return StatusFor(err)
	}
}
