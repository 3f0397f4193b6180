// Package models defines the domain models for the workflow controller.
package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the run state of a workflow.
type RunStatus string

const (
	RunStatusCreated  RunStatus = "created"
	RunStatusQueued   RunStatus = "queued"
	RunStatusPending  RunStatus = "pending"
	RunStatusRunning  RunStatus = "running"
	RunStatusFinished RunStatus = "finished"
	RunStatusFailed   RunStatus = "failed"
	RunStatusStopped  RunStatus = "stopped"
	// RunStatusDeleted is terminal: the workspace has been reclaimed and no
	// further operations are allowed against the workflow.
	RunStatusDeleted RunStatus = "deleted"
)

// Workflow represents one run of a user's workflow together with the
// workspace it owns. A workflow has at most one interactive session at any
// time.
type Workflow struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	Status    RunStatus `json:"status" db:"status"`
	Workspace string    `json:"workspace" db:"workspace"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
