package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workflow-controller/pkg/models"
)

// PostgresStore is a PostgreSQL implementation of the Repository interface.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetWorkflowByIDOrName resolves a workflow reference for an owner. A
// reference that parses as a UUID is looked up by ID; anything else is
// treated as a name, with the most recently created match winning.
func (s *PostgresStore) GetWorkflowByIDOrName(ctx context.Context, ref string, ownerID uuid.UUID) (*models.Workflow, error) {
	const cols = "id, name, owner_id, status, workspace, created_at, updated_at"

	var row pgx.Row
	if id, err := uuid.Parse(ref); err == nil {
		row = s.db.QueryRow(ctx,
			"SELECT "+cols+" FROM workflows WHERE id = $1 AND owner_id = $2", id, ownerID)
	} else {
		row = s.db.QueryRow(ctx,
			"SELECT "+cols+" FROM workflows WHERE name = $1 AND owner_id = $2 ORDER BY created_at DESC LIMIT 1",
			ref, ownerID)
	}

	var wf models.Workflow
	err := row.Scan(&wf.ID, &wf.Name, &wf.OwnerID, &wf.Status, &wf.Workspace, &wf.CreatedAt, &wf.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkflowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workflow %q: %w", ref, err)
	}
	return &wf, nil
}

// GetWorkflowSession returns the workflow's active session, if any.
func (s *PostgresStore) GetWorkflowSession(ctx context.Context, workflowID uuid.UUID) (*models.InteractiveSession, error) {
	var session models.InteractiveSession
	err := s.db.QueryRow(ctx,
		"SELECT id, name, type, workflow_id, path, status, pod_name, created_at FROM sessions WHERE workflow_id = $1",
		workflowID,
	).Scan(&session.ID, &session.Name, &session.Type, &session.WorkflowID,
		&session.Path, &session.Status, &session.PodName, &session.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session for workflow %s: %w", workflowID, err)
	}
	return &session, nil
}

// CreateSession inserts a session record, relying on the unique constraint on
// workflow_id so that concurrent opens for the same workflow cannot both
// succeed. A conflicting insert affects zero rows and maps to
// ErrSessionExists.
func (s *PostgresStore) CreateSession(ctx context.Context, session *models.InteractiveSession) error {
	tag, err := s.db.Exec(ctx,
		`INSERT INTO sessions (id, name, type, workflow_id, path, status, pod_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (workflow_id) DO NOTHING`,
		session.ID, session.Name, session.Type, session.WorkflowID,
		session.Path, session.Status, session.PodName, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionExists
	}
	return nil
}

// DeleteSession removes a session record by ID.
func (s *PostgresStore) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.db.Exec(ctx, "DELETE FROM sessions WHERE id = $1", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}

// CreateWorkflow persists a new workflow.
func (s *PostgresStore) CreateWorkflow(ctx context.Context, workflow *models.Workflow) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO workflows (id, name, owner_id, status, workspace, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		workflow.ID, workflow.Name, workflow.OwnerID, workflow.Status,
		workflow.Workspace, workflow.CreatedAt, workflow.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}
	return nil
}

// ListWorkflows returns all workflows owned by ownerID, newest first.
func (s *PostgresStore) ListWorkflows(ctx context.Context, ownerID uuid.UUID) ([]*models.Workflow, error) {
	rows, err := s.db.Query(ctx,
		"SELECT id, name, owner_id, status, workspace, created_at, updated_at FROM workflows WHERE owner_id = $1 ORDER BY created_at DESC",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []*models.Workflow
	for rows.Next() {
		var wf models.Workflow
		if err := rows.Scan(&wf.ID, &wf.Name, &wf.OwnerID, &wf.Status, &wf.Workspace, &wf.CreatedAt, &wf.UpdatedAt); err != nil {
			return nil, err
		}
		workflows = append(workflows, &wf)
	}
	return workflows, rows.Err()
}

// Ping verifies store connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
