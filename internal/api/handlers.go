// Package api contains the HTTP handlers for the workflow controller REST API.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"workflow-controller/internal/logging"
	"workflow-controller/internal/repository"
	"workflow-controller/internal/sessions"
)

// Server holds the dependencies for the API server.
type Server struct {
	Controller *sessions.Controller
	Repo       repository.Repository
	Logger     *logging.Logger
}

// NewServer creates a new Server.
func NewServer(controller *sessions.Controller, repo repository.Repository, logger *logging.Logger) *Server {
	return &Server{Controller: controller, Repo: repo, Logger: logger}
}

// RegisterRoutes mounts all API routes on the given group.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.GET("/workflows", s.ListWorkflows)
	g.POST("/workflows/:workflow_id_or_name/open/:interactive_session_type", s.OpenInteractiveSession)
	g.POST("/workflows/:workflow_id_or_name/close", s.CloseInteractiveSession)
}

// messageResponse is the error and confirmation body shape used across the
// API: always a human-readable message, never a stack trace.
type messageResponse struct {
	Message string `json:"message"`
}

// pathResponse carries the access path of a freshly opened session.
type pathResponse struct {
	Path string `json:"path"`
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK).
func (s *Server) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "workflow-controller",
		Version:   "1.0.0",
	})
}

// HandleReady reports whether the service can serve traffic. Unlike
// HandleHealth it checks the session store, so orchestrators can hold
// traffic while the database is unreachable.
func (s *Server) HandleReady(c echo.Context) error {
	if err := s.Repo.Ping(c.Request().Context()); err != nil {
		s.Logger.Error("readiness check failed: %v", err)
		return c.JSON(http.StatusServiceUnavailable, HealthStatus{
			Status:    "unavailable",
			Timestamp: time.Now(),
			Service:   "workflow-controller",
			Version:   "1.0.0",
		})
	}
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "workflow-controller",
		Version:   "1.0.0",
	})
}

// statusForKind maps every controller failure kind to an HTTP status. The
// switch is exhaustive over sessions.Kind so that a newly added kind must be
// classified here rather than silently becoming a 500.
func statusForKind(kind sessions.Kind) int {
	switch kind {
	case sessions.KindUnknownSessionType,
		sessions.KindWorkflowNotFound,
		sessions.KindWorkflowDeleted,
		sessions.KindSessionAlreadyOpen,
		sessions.KindNoOpenSession:
		return http.StatusNotFound
	case sessions.KindBadRequest:
		return http.StatusBadRequest
	case sessions.KindBackend:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// domainError renders a controller failure as the API's message envelope.
func (s *Server) domainError(c echo.Context, err error) error {
	var serr *sessions.Error
	if errors.As(err, &serr) {
		if serr.Kind == sessions.KindBackend {
			s.Logger.Error("session operation failed: %v", err)
		}
		return c.JSON(statusForKind(serr.Kind), messageResponse{Message: serr.Message})
	}
	s.Logger.Error("unclassified session operation failure: %v", err)
	// The message is the underlying failure's description, not a generic
	// string, to preserve diagnosability.
	return c.JSON(http.StatusInternalServerError, messageResponse{Message: err.Error()})
}
