package orchestration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-controller/internal/logging"
	"workflow-controller/internal/repository"
	"workflow-controller/pkg/models"
)

type fakeRepo struct {
	sessions map[uuid.UUID]*models.InteractiveSession
	claimErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: make(map[uuid.UUID]*models.InteractiveSession)}
}

func (f *fakeRepo) GetWorkflowByIDOrName(ctx context.Context, ref string, ownerID uuid.UUID) (*models.Workflow, error) {
	return nil, repository.ErrWorkflowNotFound
}

func (f *fakeRepo) GetWorkflowSession(ctx context.Context, workflowID uuid.UUID) (*models.InteractiveSession, error) {
	for _, s := range f.sessions {
		if s.WorkflowID == workflowID {
			return s, nil
		}
	}
	return nil, repository.ErrNoSession
}

func (f *fakeRepo) CreateSession(ctx context.Context, session *models.InteractiveSession) error {
	if f.claimErr != nil {
		return f.claimErr
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeRepo) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeRepo) CreateWorkflow(ctx context.Context, workflow *models.Workflow) error { return nil }

func (f *fakeRepo) ListWorkflows(ctx context.Context, ownerID uuid.UUID) ([]*models.Workflow, error) {
	return nil, nil
}

func (f *fakeRepo) Ping(ctx context.Context) error { return nil }

type fakeClient struct {
	provisioned  []ProvisionSpec
	tornDown     []string
	provisionErr error
	teardownErr  error
}

func (f *fakeClient) Provision(ctx context.Context, spec ProvisionSpec) error {
	f.provisioned = append(f.provisioned, spec)
	return f.provisionErr
}

func (f *fakeClient) Teardown(ctx context.Context, podName string) error {
	f.tornDown = append(f.tornDown, podName)
	return f.teardownErr
}

func testWorkflow() *models.Workflow {
	return &models.Workflow{
		ID:        uuid.New(),
		Name:      "mytest",
		OwnerID:   uuid.New(),
		Status:    models.RunStatusRunning,
		Workspace: "/var/workflows/mytest",
	}
}

func TestStartInteractiveSession(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeClient{}
	m := NewRunManager(repo, client, logging.NewLogger())
	wf := testWorkflow()

	path, err := m.StartInteractiveSession(context.Background(), wf, models.SessionTypeJupyter, "acme/jupyter:custom")

	require.NoError(t, err)
	require.Len(t, client.provisioned, 1)
	spec := client.provisioned[0]
	assert.Equal(t, "/"+spec.SessionID.String(), path)
	assert.Equal(t, models.SessionTypeJupyter, spec.Type)
	assert.Equal(t, "acme/jupyter:custom", spec.Image)
	assert.Equal(t, wf.Workspace, spec.Workspace)

	// The record survives with the pod name and access path the client was
	// told to provision, so teardown targets the resource that exists.
	session, err := repo.GetWorkflowSession(context.Background(), wf.ID)
	require.NoError(t, err)
	assert.Equal(t, path, session.Path)
	require.NotEmpty(t, spec.PodName)
	assert.Equal(t, spec.PodName, session.PodName)
}

func TestStartInteractiveSession_LostClaimSkipsProvision(t *testing.T) {
	repo := newFakeRepo()
	repo.claimErr = repository.ErrSessionExists
	client := &fakeClient{}
	m := NewRunManager(repo, client, logging.NewLogger())

	_, err := m.StartInteractiveSession(context.Background(), testWorkflow(), models.SessionTypeJupyter, "")

	assert.ErrorIs(t, err, repository.ErrSessionExists)
	assert.Empty(t, client.provisioned)
}

func TestStartInteractiveSession_ProvisionFailureReleasesClaim(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeClient{provisionErr: errors.New("no nodes available")}
	m := NewRunManager(repo, client, logging.NewLogger())
	wf := testWorkflow()

	_, err := m.StartInteractiveSession(context.Background(), wf, models.SessionTypeJupyter, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no nodes available")
	_, err = repo.GetWorkflowSession(context.Background(), wf.ID)
	assert.ErrorIs(t, err, repository.ErrNoSession)
}

func TestStopInteractiveSession(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeClient{}
	m := NewRunManager(repo, client, logging.NewLogger())
	wf := testWorkflow()

	_, err := m.StartInteractiveSession(context.Background(), wf, models.SessionTypeJupyter, "")
	require.NoError(t, err)

	session, err := repo.GetWorkflowSession(context.Background(), wf.ID)
	require.NoError(t, err)

	require.NoError(t, m.StopInteractiveSession(context.Background(), session))
	assert.Equal(t, []string{session.PodName}, client.tornDown)
	_, err = repo.GetWorkflowSession(context.Background(), wf.ID)
	assert.ErrorIs(t, err, repository.ErrNoSession)
}

func TestStopInteractiveSession_TeardownFailureKeepsRecord(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeClient{teardownErr: errors.New("pod vanished")}
	m := NewRunManager(repo, client, logging.NewLogger())
	wf := testWorkflow()

	_, err := m.StartInteractiveSession(context.Background(), wf, models.SessionTypeJupyter, "")
	require.NoError(t, err)

	session, err := repo.GetWorkflowSession(context.Background(), wf.ID)
	require.NoError(t, err)

	err = m.StopInteractiveSession(context.Background(), session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pod vanished")

	// The record remains so a later close can retry.
	_, err = repo.GetWorkflowSession(context.Background(), wf.ID)
	assert.NoError(t, err)
}
