package domain

import "time"

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Status is the closed set of task states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Task is a unit of work assigned to UserID and authored by CreatedBy.
type Task struct {
	ID          int
	Title       string
	Description *string
	Deadline    time.Time
	Priority    Priority
	Status      Status
	UserID      int
	CreatedBy   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch carries the fields present in an update request. Nil means
// "not submitted".
type TaskPatch struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	Priority    *Priority
	Status      *Status
	UserID      *int
}
