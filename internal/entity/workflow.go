package entity

import "time"

type WorkflowStatus string

// Workflow status of the single generation pipeline
const (
	WorkflowStatusIdle      WorkflowStatus = "IDLE"
	WorkflowStatusRunning   WorkflowStatus = "RUNNING"
	WorkflowStatusSucceeded WorkflowStatus = "SUCCEEDED"
	WorkflowStatusFailed    WorkflowStatus = "FAILED"
)

// WorkflowState is replaced as a whole on every transition. Project is set
// while running once the project step finished, and on success. Icon is only
// ever set on success.
type WorkflowState struct {
	Status     WorkflowStatus     `json:"status"`
	RunID      string             `json:"run_id,omitempty"`
	URL        string             `json:"url,omitempty"`
	Project    *ProjectDescriptor `json:"project,omitempty"`
	Icon       *IconAsset         `json:"icon,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	Warning    string             `json:"warning,omitempty"`
	StartedAt  *time.Time         `json:"started_at,omitempty"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
}

func IdleState() *WorkflowState {
	return &WorkflowState{Status: WorkflowStatusIdle}
}

// Clone returns a copy that shares nothing mutable with the receiver
func (s *WorkflowState) Clone() *WorkflowState {
	c := *s
	if s.Project != nil {
		p := *s.Project
		c.Project = &p
	}
	if s.Icon != nil {
		i := *s.Icon
		c.Icon = &i
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}

func (s *WorkflowState) IsRunning() bool {
	return s.Status == WorkflowStatusRunning
}

// ArchiveAvailable reports whether both the descriptor and the icon are present
func (s *WorkflowState) ArchiveAvailable() bool {
	return s.Status == WorkflowStatusSucceeded && s.Project != nil && s.Icon != nil
}
