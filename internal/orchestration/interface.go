package orchestration

import (
	"context"

	"github.com/google/uuid"

	"workflow-controller/pkg/models"
)

// ProvisionSpec describes the interactive session to be provisioned by the
// orchestrator.
type ProvisionSpec struct {
	SessionID   uuid.UUID                     `json:"session_id"`
	SessionName string                        `json:"session_name"`
	Type        models.InteractiveSessionType `json:"type"`
	// Image optionally replaces the default container image for the session
	// type. Empty means the orchestrator's default.
	Image     string `json:"image,omitempty"`
	Workspace string `json:"workspace"`
	// PodName is the backend resource name the orchestrator must create the
	// session under. It is assigned here, before provisioning, so the session
	// record and the backend resource can never disagree about the name used
	// for teardown.
	PodName    string `json:"pod_name"`
	AccessPath string `json:"access_path"`
}

// Client is the interface to the orchestration service that runs the compute
// resources backing interactive sessions.
type Client interface {
	// Provision starts the session described by spec under spec.PodName.
	// Blocking; inherits whatever timeout semantics the orchestrator offers
	// via ctx.
	Provision(ctx context.Context, spec ProvisionSpec) error
	// Teardown stops the named session resource.
	Teardown(ctx context.Context, podName string) error
}
