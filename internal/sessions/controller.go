// Package sessions implements the interactive session lifecycle controller:
// it decides whether a session may be opened or closed given the current
// workflow and session state, and owns the single-session-per-workflow
// invariant.
package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"workflow-controller/internal/logging"
	"workflow-controller/internal/repository"
	"workflow-controller/pkg/models"
)

// RunManager abstracts the orchestration side of the lifecycle: it turns a
// session descriptor into a running resource and back.
type RunManager interface {
	StartInteractiveSession(ctx context.Context, workflow *models.Workflow, sessionType models.InteractiveSessionType, image string) (string, error)
	StopInteractiveSession(ctx context.Context, session *models.InteractiveSession) error
}

// OpenRequest carries the inputs of an open operation.
type OpenRequest struct {
	// WorkflowRef is a workflow UUID or name.
	WorkflowRef string
	// Owner is the UUID of the workflow owner.
	Owner uuid.UUID
	// SessionType names the kind of session to open.
	SessionType string
	// Image optionally replaces the default container image.
	Image string
}

// Controller validates session lifecycle operations against workflow and
// session state and sequences calls to the run manager and the record store.
// It is stateless between invocations; all state lives in the collaborators.
type Controller struct {
	repo   repository.Repository
	runs   RunManager
	logger *logging.Logger

	opened metric.Int64Counter
	closed metric.Int64Counter
}

// NewController creates a new Controller.
func NewController(repo repository.Repository, runs RunManager, logger *logging.Logger) *Controller {
	meter := otel.Meter("workflow-controller/sessions")
	opened, _ := meter.Int64Counter("sessions.opened",
		metric.WithDescription("Number of interactive sessions opened"))
	closed, _ := meter.Int64Counter("sessions.closed",
		metric.WithDescription("Number of interactive sessions closed"))

	return &Controller{
		repo:   repo,
		runs:   runs,
		logger: logger,
		opened: opened,
		closed: closed,
	}
}

// Open starts an interactive session inside the workflow's workspace and
// returns the access path clients use to reach it. Validation short-circuits
// on the first failure; all failures are *Error values.
func (c *Controller) Open(ctx context.Context, req OpenRequest) (string, error) {
	sessionType, err := models.ParseInteractiveSessionType(req.SessionType)
	if err != nil {
		return "", newError(KindUnknownSessionType, fmt.Sprintf(
			"Interactive session type %s not found, try with one of: %s",
			req.SessionType, models.SessionTypeNames()))
	}

	workflow, oerr := c.resolveWorkflow(ctx, req.WorkflowRef, req.Owner)
	if oerr != nil {
		return "", oerr
	}

	_, err = c.repo.GetWorkflowSession(ctx, workflow.ID)
	switch {
	case err == nil:
		return "", newError(KindSessionAlreadyOpen, "Interactive session is already open")
	case !errors.Is(err, repository.ErrNoSession):
		return "", backendError(err.Error(), err)
	}

	if workflow.Status == models.RunStatusDeleted {
		return "", newError(KindWorkflowDeleted,
			"Interactive session can't be opened from a deleted workflow")
	}

	path, err := c.runs.StartInteractiveSession(ctx, workflow, sessionType, req.Image)
	if err != nil {
		// The record store decides races between concurrent opens; a lost
		// claim is reported the same way as the pre-check above.
		if errors.Is(err, repository.ErrSessionExists) {
			return "", newError(KindSessionAlreadyOpen, "Interactive session is already open")
		}
		return "", backendError(err.Error(), err)
	}

	c.opened.Add(ctx, 1)
	return path, nil
}

// Close tears down the workflow's interactive session. All failures are
// *Error values.
func (c *Controller) Close(ctx context.Context, workflowRef string, owner uuid.UUID) error {
	workflow, oerr := c.resolveWorkflow(ctx, workflowRef, owner)
	if oerr != nil {
		return oerr
	}

	session, err := c.repo.GetWorkflowSession(ctx, workflow.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoSession) {
			return newError(KindNoOpenSession, fmt.Sprintf(
				"Workflow - %s has no open interactive session.", workflowRef))
		}
		return backendError(err.Error(), err)
	}

	if err := c.runs.StopInteractiveSession(ctx, session); err != nil {
		return backendError(err.Error(), err)
	}

	c.closed.Add(ctx, 1)
	return nil
}

func (c *Controller) resolveWorkflow(ctx context.Context, ref string, owner uuid.UUID) (*models.Workflow, *Error) {
	workflow, err := c.repo.GetWorkflowByIDOrName(ctx, ref, owner)
	if err != nil {
		if errors.Is(err, repository.ErrWorkflowNotFound) {
			return nil, newError(KindWorkflowNotFound, fmt.Sprintf("Workflow %s does not exist", ref))
		}
		return nil, backendError(err.Error(), err)
	}
	return workflow, nil
}
