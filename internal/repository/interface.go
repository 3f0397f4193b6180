package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"workflow-controller/pkg/models"
)

var (
	// ErrWorkflowNotFound is returned when no workflow matches the given
	// reference for the given owner.
	ErrWorkflowNotFound = errors.New("workflow not found")
	// ErrSessionExists is returned by CreateSession when the workflow already
	// has an active session. The uniqueness guarantee lives in the store, not
	// in the caller's pre-check.
	ErrSessionExists = errors.New("interactive session already exists")
	// ErrNoSession is returned when a workflow has no active session.
	ErrNoSession = errors.New("no interactive session")
)

// Repository is the durable store of workflow and session state queried by
// the session lifecycle controller.
type Repository interface {
	// GetWorkflowByIDOrName resolves a workflow reference, which may be a
	// UUID or a human-chosen name, scoped to the owning user. Names are not
	// globally unique; the latest workflow with that name owned by ownerID
	// wins.
	GetWorkflowByIDOrName(ctx context.Context, ref string, ownerID uuid.UUID) (*models.Workflow, error)
	// GetWorkflowSession returns the workflow's active session, or
	// ErrNoSession when there is none.
	GetWorkflowSession(ctx context.Context, workflowID uuid.UUID) (*models.InteractiveSession, error)
	// CreateSession inserts a session record if and only if the workflow has
	// no active session, returning ErrSessionExists otherwise. The insert is
	// atomic against concurrent callers.
	CreateSession(ctx context.Context, session *models.InteractiveSession) error
	// DeleteSession removes a session record by ID.
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
	// CreateWorkflow persists a new workflow.
	CreateWorkflow(ctx context.Context, workflow *models.Workflow) error
	// ListWorkflows returns all workflows owned by ownerID.
	ListWorkflows(ctx context.Context, ownerID uuid.UUID) ([]*models.Workflow, error)
	// Ping verifies store connectivity.
	Ping(ctx context.Context) error
}
