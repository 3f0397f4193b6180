package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"workflow-controller/pkg/models"
)

// ListWorkflows returns all workflows owned by the requesting user.
// (GET /api/workflows)
func (s *Server) ListWorkflows(c echo.Context) error {
	ctx := c.Request().Context()

	var owner uuid.UUID
	if err := runtime.BindQueryParameter("form", true, true, "user", c.QueryParams(), &owner); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Malformed request."})
	}

	workflows, err := s.Repo.ListWorkflows(ctx, owner)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: err.Error()})
	}
	if workflows == nil {
		// An owner with no workflows gets an empty array, not null.
		workflows = []*models.Workflow{}
	}

	return c.JSON(http.StatusOK, workflows)
}
