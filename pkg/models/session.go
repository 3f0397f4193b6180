package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InteractiveSessionType enumerates the supported kinds of interactive
// sessions. The set is closed: requests naming anything else are rejected at
// the boundary.
type InteractiveSessionType string

const (
	SessionTypeJupyter InteractiveSessionType = "jupyter"
)

// InteractiveSessionTypes returns the full catalog of supported session
// types. The listing is used both for validation and for building the
// diagnostic message shown to clients.
func InteractiveSessionTypes() []InteractiveSessionType {
	return []InteractiveSessionType{SessionTypeJupyter}
}

// ParseInteractiveSessionType validates a raw string against the catalog.
func ParseInteractiveSessionType(raw string) (InteractiveSessionType, error) {
	for _, t := range InteractiveSessionTypes() {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported interactive session type %q", raw)
}

// SessionTypeNames renders the catalog as a bracketed list, e.g. "[jupyter]".
func SessionTypeNames() string {
	names := make([]string, 0, len(InteractiveSessionTypes()))
	for _, t := range InteractiveSessionTypes() {
		names = append(names, string(t))
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// SessionStatus represents the lifecycle state of an interactive session.
type SessionStatus string

const (
	SessionStatusCreated    SessionStatus = "created"
	SessionStatusRunning    SessionStatus = "running"
	SessionStatusTerminated SessionStatus = "terminated"
)

// InteractiveSession represents one running interactive environment attached
// to a workflow's workspace.
type InteractiveSession struct {
	ID         uuid.UUID              `json:"id" db:"id"`
	Name       string                 `json:"name" db:"name"`
	Type       InteractiveSessionType `json:"type" db:"type"`
	WorkflowID uuid.UUID              `json:"workflow_id" db:"workflow_id"`
	// Path is the opaque routable path assigned at creation; clients reach
	// the session through it.
	Path   string        `json:"path" db:"path"`
	Status SessionStatus `json:"status" db:"status"`
	// PodName is the backend resource identifier needed for teardown.
	PodName   string    `json:"pod_name" db:"pod_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
