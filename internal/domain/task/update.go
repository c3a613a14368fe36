package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyUpdate  = errors.New("update body is empty")
	ErrUnknownField = errors.New("field is not updatable")
)

// The only fields an owner may change. Anything else rejects the
// entire request before a single field is applied.
var allowedUpdateFields = map[string]struct{}{
	"title":        {},
	"description":  {},
	"status":       {},
	"assignedUser": {},
	"dueDate":      {},
}

// UpdateTaskRequest carries a partial update; nil means "leave as is".
type UpdateTaskRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=100"`
	Description  *string    `json:"description" validate:"omitempty,max=500"`
	Status       *Status    `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	AssignedUser *string    `json:"assignedUser" validate:"omitempty,uuid"`
	DueDate      *time.Time `json:"dueDate"`
}

var validate = validator.New()

// ParseUpdate decodes and validates an update payload in two passes:
// first the key whitelist over the raw JSON, then the field
// constraints on whatever was provided.
func ParseUpdate(body []byte) (UpdateTaskRequest, error) {
	var raw map[string]json.RawMessage

	if err := json.Unmarshal(body, &raw); err != nil {
		return UpdateTaskRequest{}, fmt.Errorf("decode update: %w", err)
	}

	if len(raw) == 0 {
		return UpdateTaskRequest{}, ErrEmptyUpdate
	}

	for key := range raw {
		if _, ok := allowedUpdateFields[key]; !ok {
			return UpdateTaskRequest{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
	}

	var req UpdateTaskRequest

	if err := json.Unmarshal(body, &req); err != nil {
		return UpdateTaskRequest{}, fmt.Errorf("decode update: %w", err)
	}

	// validator skips dereferenced empty strings under omitempty, so
	// explicitly provided empty values need their own checks
	if req.Title != nil && *req.Title == "" {
		return UpdateTaskRequest{}, errors.New("title must be between 1 and 100 characters")
	}

	if req.Status != nil && !req.Status.Valid() {
		return UpdateTaskRequest{}, errors.New("status must be one of: pending, in-progress, completed")
	}

	if err := validate.Struct(req); err != nil {
		return UpdateTaskRequest{}, err
	}

	return req, nil
}

// Apply copies the provided fields onto t and bumps UpdatedAt.
// Ownership is deliberately untouchable here.
func (r UpdateTaskRequest) Apply(t *Task) {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Status != nil {
		t.Status = *r.Status
	}
	if r.AssignedUser != nil {
		t.AssignedUser = r.AssignedUser
	}
	if r.DueDate != nil {
		t.DueDate = r.DueDate
	}
	t.UpdatedAt = time.Now().UTC()
}
