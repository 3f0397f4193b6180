package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"workflow-controller/internal/sessions"
)

// openSessionRequest is the optional body of an open request.
type openSessionRequest struct {
	// Image replaces the default container image of the interactive session.
	Image string `json:"image"`
}

// OpenInteractiveSession starts an interactive session inside the workflow
// workspace.
// (POST /api/workflows/:workflow_id_or_name/open/:interactive_session_type)
func (s *Server) OpenInteractiveSession(c echo.Context) error {
	ctx := c.Request().Context()

	var owner uuid.UUID
	if err := runtime.BindQueryParameter("form", true, true, "user", c.QueryParams(), &owner); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Malformed request."})
	}

	var body openSessionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Malformed request."})
		}
	}

	path, err := s.Controller.Open(ctx, sessions.OpenRequest{
		WorkflowRef: c.Param("workflow_id_or_name"),
		Owner:       owner,
		SessionType: c.Param("interactive_session_type"),
		Image:       body.Image,
	})
	if err != nil {
		return s.domainError(c, err)
	}

	return c.JSON(http.StatusOK, pathResponse{Path: path})
}

// CloseInteractiveSession closes an interactive workflow session.
// (POST /api/workflows/:workflow_id_or_name/close)
func (s *Server) CloseInteractiveSession(c echo.Context) error {
	ctx := c.Request().Context()

	var owner uuid.UUID
	if err := runtime.BindQueryParameter("form", true, true, "user", c.QueryParams(), &owner); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Malformed request."})
	}

	if err := s.Controller.Close(ctx, c.Param("workflow_id_or_name"), owner); err != nil {
		return s.domainError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "The interactive session has been closed"})
}
