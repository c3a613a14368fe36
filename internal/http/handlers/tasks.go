package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type TaskStore interface {
	Create(ctx context.Context, ownerID string, req task.CreateTaskRequest) (task.Task, error)
	ListByOwner(ctx context.Context, ownerID string, filter task.ListFilter) ([]task.TaskWithOwner, error)
	UpdateOwned(ctx context.Context, ownerID, taskID string, req task.UpdateTaskRequest) (task.Task, error)
	DeleteOwned(ctx context.Context, ownerID, taskID string) error
}

type TasksHandler struct {
	tasks TaskStore
}

func NewTasksHandler(tasks TaskStore) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate.")
		return
	}

	var req task.CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	t, err := h.tasks.Create(cctx, u.ID, req)

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Task created",
		"task":    t,
	})
}

func (h *TasksHandler) ListTasks(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate.")
		return
	}

	filter, ok := parseListFilter(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	tasks, err := h.tasks.ListByOwner(cctx, u.ID, filter)

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func (h *TasksHandler) UpdateTask(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate.")
		return
	}

	body, err := ctx.GetRawData()

	if err != nil {
		RespondBadRequest(ctx, "Request body is required.", nil)
		return
	}

	if len(body) == 0 {
		RespondBadRequest(ctx, "Request body is required.", nil)
		return
	}

	req, err := task.ParseUpdate(body)

	if err != nil {
		respondUpdateParseError(ctx, err)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	t, err := h.tasks.UpdateOwned(cctx, u.ID, ctx.Param("id"), req)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found.")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Task updated",
		"task":    t,
	})
}

func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.tasks.DeleteOwned(cctx, u.ID, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found.")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func respondUpdateParseError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, task.ErrEmptyUpdate):
		RespondBadRequest(ctx, "Request body is required.", nil)
	case errors.Is(err, task.ErrUnknownField):
		// one bad key rejects the whole payload, valid fields included
		RespondBadRequest(ctx, "Invalid updates!", nil)
	default:
		var validatorErrs validator.ValidationErrors

		if errors.As(err, &validatorErrs) {
			RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": ViolationsFrom(validatorErrs)})
			return
		}

		RespondBadRequest(ctx, "Invalid request body", gin.H{"reason": err.Error()})
	}
}

func parseListFilter(ctx *gin.Context) (task.ListFilter, bool) {
	var filter task.ListFilter

	if raw := ctx.Query("status"); raw != "" {
		status := task.Status(raw)

		if !status.Valid() {
			RespondBadRequest(ctx, "Status must be one of: pending, in-progress, completed", nil)
			return task.ListFilter{}, false
		}

		filter.Status = &status
	}

	if raw := ctx.Query("dueDate"); raw != "" {
		due, err := parseDate(raw)

		if err != nil {
			RespondBadRequest(ctx, "dueDate must be an RFC 3339 timestamp or YYYY-MM-DD date", nil)
			return task.ListFilter{}, false
		}

		filter.DueDate = &due
	}

	return filter, true
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", raw)
}
