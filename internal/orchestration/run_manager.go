package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"workflow-controller/internal/logging"
	"workflow-controller/internal/repository"
	"workflow-controller/pkg/models"
)

// RunManager sequences session provisioning and teardown against the
// orchestrator and the session record store. The session record is claimed
// before the orchestrator is invoked, so the store's unique constraint on
// workflow identity decides races between concurrent opens; a lost race
// surfaces as repository.ErrSessionExists without a second provision call.
type RunManager struct {
	repo   repository.Repository
	client Client
	logger *logging.Logger
}

// NewRunManager creates a new RunManager.
func NewRunManager(repo repository.Repository, client Client, logger *logging.Logger) *RunManager {
	return &RunManager{
		repo:   repo,
		client: client,
		logger: logger,
	}
}

// StartInteractiveSession provisions a session of the given type inside the
// workflow's workspace and returns the access path clients use to reach it.
func (m *RunManager) StartInteractiveSession(ctx context.Context, workflow *models.Workflow, sessionType models.InteractiveSessionType, image string) (string, error) {
	sessionID := uuid.New()
	podName := fmt.Sprintf("interactive-%s-%s", sessionType, sessionID)
	session := &models.InteractiveSession{
		ID:         sessionID,
		Name:       fmt.Sprintf("%s-%s", workflow.Name, sessionType),
		Type:       sessionType,
		WorkflowID: workflow.ID,
		Path:       "/" + sessionID.String(),
		Status:     models.SessionStatusCreated,
		PodName:    podName,
		CreatedAt:  time.Now().UTC(),
	}

	// Claim the record first; the unique constraint makes the claim atomic.
	if err := m.repo.CreateSession(ctx, session); err != nil {
		return "", err
	}

	// The orchestrator creates the resource under the pod name recorded in
	// the claim, so teardown always targets the name that was provisioned.
	err := m.client.Provision(ctx, ProvisionSpec{
		SessionID:   session.ID,
		SessionName: session.Name,
		Type:        session.Type,
		Image:       image,
		Workspace:   workflow.Workspace,
		PodName:     session.PodName,
		AccessPath:  session.Path,
	})
	if err != nil {
		// Release the claim so a later open can retry.
		if delErr := m.repo.DeleteSession(ctx, session.ID); delErr != nil {
			m.logger.Error("failed to release session record %s after provisioning failure: %v", session.ID, delErr)
		}
		return "", fmt.Errorf("failed to provision interactive session: %w", err)
	}

	m.logger.Info("interactive session %s opened for workflow %s", session.ID, workflow.ID)
	return session.Path, nil
}

// StopInteractiveSession tears down a running session and removes its record.
func (m *RunManager) StopInteractiveSession(ctx context.Context, session *models.InteractiveSession) error {
	if err := m.client.Teardown(ctx, session.PodName); err != nil {
		return fmt.Errorf("failed to tear down interactive session: %w", err)
	}

	if err := m.repo.DeleteSession(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to remove session record: %w", err)
	}

	m.logger.Info("interactive session %s closed", session.ID)
	return nil
}
