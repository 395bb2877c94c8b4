package models

import "time"

// IssueStatus represents the lifecycle state of a grievance.
type IssueStatus string

const (
	IssueStatusSubmitted  IssueStatus = "submitted"
	IssueStatusInProgress IssueStatus = "in-progress"
	IssueStatusCompleted  IssueStatus = "completed"
)

// IssueUrgency is the submitter-chosen priority of a grievance.
type IssueUrgency string

const (
	IssueUrgencyLow    IssueUrgency = "low"
	IssueUrgencyMedium IssueUrgency = "medium"
	IssueUrgencyHigh   IssueUrgency = "high"
)

// Valid reports whether u is one of the known urgency levels.
func (u IssueUrgency) Valid() bool {
	switch u {
	case IssueUrgencyLow, IssueUrgencyMedium, IssueUrgencyHigh:
		return true
	}
	return false
}

// Issue is a citizen-submitted grievance routed to a department.
type Issue struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Department   string          `json:"department"`
	Location     string          `json:"location"`
	Urgency      IssueUrgency    `json:"urgency"`
	Status       IssueStatus     `json:"status"`
	ContactPhone string          `json:"contact_phone,omitempty"`
	Images       []UploadedImage `json:"images"`
	CreatedAt    time.Time       `json:"created_at"`
}
