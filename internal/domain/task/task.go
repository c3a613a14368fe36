package task

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("task not found")

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       Status     `json:"status"`
	AssignedUser *string    `json:"assignedUser,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	OwnerID      string     `json:"owner"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Owner is the denormalized slice of the owning user returned by listings.
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskWithOwner expands the raw owner reference into name/email.
// The embedded OwnerID is shadowed by the Owner field on marshal.
type TaskWithOwner struct {
	Task
	Owner Owner `json:"owner"`
}

type CreateTaskRequest struct {
	Title        string     `json:"title" binding:"required,min=1,max=100"`
	Description  string     `json:"description" binding:"omitempty,max=500"`
	Status       Status     `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
	AssignedUser *string    `json:"assignedUser" binding:"omitempty,uuid"`
	DueDate      *time.Time `json:"dueDate" binding:"omitempty"`
}

// with pointers if optional, it will be nil
type ListFilter struct {
	Status  *Status
	DueDate *time.Time
}

// NewFromCreateRequest builds the task to persist. The owner is fixed
// here, at creation, from the authenticated identity and is never
// touched by updates.
func NewFromCreateRequest(ownerID string, req CreateTaskRequest) Task {
	now := time.Now().UTC()

	status := req.Status
	if status == "" {
		status = StatusPending
	}

	return Task{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Status:       status,
		AssignedUser: req.AssignedUser,
		DueDate:      req.DueDate,
		OwnerID:      ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
