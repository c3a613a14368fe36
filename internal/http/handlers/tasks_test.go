package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Fake store implementation of the handlers.TaskStore interface

type fakeTaskStore struct {
	createFn func(ctx context.Context, ownerID string, req task.CreateTaskRequest) (task.Task, error)
	listFn   func(ctx context.Context, ownerID string, filter task.ListFilter) ([]task.TaskWithOwner, error)
	updateFn func(ctx context.Context, ownerID, taskID string, req task.UpdateTaskRequest) (task.Task, error)
	deleteFn func(ctx context.Context, ownerID, taskID string) error
}

func (f *fakeTaskStore) Create(ctx context.Context, ownerID string, req task.CreateTaskRequest) (task.Task, error) {
	if f.createFn != nil {
		return f.createFn(ctx, ownerID, req)
	}
	return task.Task{}, nil
}

func (f *fakeTaskStore) ListByOwner(ctx context.Context, ownerID string, filter task.ListFilter) ([]task.TaskWithOwner, error) {
	if f.listFn != nil {
		return f.listFn(ctx, ownerID, filter)
	}
	return []task.TaskWithOwner{}, nil
}

func (f *fakeTaskStore) UpdateOwned(ctx context.Context, ownerID, taskID string, req task.UpdateTaskRequest) (task.Task, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, ownerID, taskID, req)
	}
	return task.Task{}, nil
}

func (f *fakeTaskStore) DeleteOwned(ctx context.Context, ownerID, taskID string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, ownerID, taskID)
	}
	return nil
}

var testIdentity = user.User{ID: "owner-1", Name: "Ann", Email: "ann@x.com"}

// mounts a handler behind a stand-in gate that injects the identity
func setupAuthedRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, func(c *gin.Context) {
		middlewares.SetCurrentUser(c, testIdentity)
		c.Next()
	}, h)

	return r
}

func TestCreateTaskHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		storeSetup     func(*fakeTaskStore)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"title":"Write spec","status":"pending"}`,
			storeSetup: func(f *fakeTaskStore) {
				f.createFn = func(ctx context.Context, ownerID string, req task.CreateTaskRequest) (task.Task, error) {
					if ownerID != testIdentity.ID {
						t.Fatalf("owner %q did not come from the authenticated identity", ownerID)
					}
					return task.NewFromCreateRequest(ownerID, req), nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "empty_body",
			body:           ``,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "empty_title",
			body:           `{"title":""}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "status_out_of_enum",
			body:           `{"title":"Write spec","status":"archived"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"title":"Write spec"}`,
			storeSetup: func(f *fakeTaskStore) {
				f.createFn = func(ctx context.Context, ownerID string, req task.CreateTaskRequest) (task.Task, error) {
					return task.Task{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeTaskStore{}

			if tt.storeSetup != nil {
				tt.storeSetup(store)
			}

			h := handlers.NewTasksHandler(store)
			r := setupAuthedRouter(http.MethodPost, "/api/tasks", h.CreateTask)

			w := doJSON(r, http.MethodPost, "/api/tasks", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestCreateTaskDefaultsStatusAndSetsOwner(t *testing.T) {
	store := &fakeTaskStore{
		createFn: func(ctx context.Context, ownerID string, req task.CreateTaskRequest) (task.Task, error) {
			return task.NewFromCreateRequest(ownerID, req), nil
		},
	}

	h := handlers.NewTasksHandler(store)
	r := setupAuthedRouter(http.MethodPost, "/api/tasks", h.CreateTask)

	w := doJSON(r, http.MethodPost, "/api/tasks", `{"title":"Write spec"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Task task.Task `json:"task"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Task.Status != task.StatusPending {
		t.Fatalf("got status %q, want pending", resp.Task.Status)
	}

	if resp.Task.OwnerID != testIdentity.ID {
		t.Fatalf("got owner %q, want %q", resp.Task.OwnerID, testIdentity.ID)
	}
}

func TestListTasksHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		url            string
		storeSetup     func(*fakeTaskStore)
		wantStatusCode int
	}{
		{
			name: "success_no_filters",
			url:  "/api/tasks",
			storeSetup: func(f *fakeTaskStore) {
				f.listFn = func(ctx context.Context, ownerID string, filter task.ListFilter) ([]task.TaskWithOwner, error) {
					if filter.Status != nil || filter.DueDate != nil {
						return nil, errors.New("unexpected filters")
					}
					return []task.TaskWithOwner{
						{
							Task:  task.Task{ID: "t-1", Title: "Write spec", Status: task.StatusPending, OwnerID: ownerID, CreatedAt: now, UpdatedAt: now},
							Owner: task.Owner{ID: ownerID, Name: "Ann", Email: "ann@x.com"},
						},
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "status_filter_passed_through",
			url:  "/api/tasks?status=completed",
			storeSetup: func(f *fakeTaskStore) {
				f.listFn = func(ctx context.Context, ownerID string, filter task.ListFilter) ([]task.TaskWithOwner, error) {
					if filter.Status == nil || *filter.Status != task.StatusCompleted {
						return nil, errors.New("status filter not passed")
					}
					return []task.TaskWithOwner{}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "due_date_filter_passed_through",
			url:  "/api/tasks?dueDate=2025-10-05",
			storeSetup: func(f *fakeTaskStore) {
				f.listFn = func(ctx context.Context, ownerID string, filter task.ListFilter) ([]task.TaskWithOwner, error) {
					want := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)
					if filter.DueDate == nil || !filter.DueDate.Equal(want) {
						return nil, errors.New("dueDate filter not passed")
					}
					return []task.TaskWithOwner{}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid_status_filter",
			url:            "/api/tasks?status=archived",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid_due_date_filter",
			url:            "/api/tasks?dueDate=next-tuesday",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			url:  "/api/tasks",
			storeSetup: func(f *fakeTaskStore) {
				f.listFn = func(ctx context.Context, ownerID string, filter task.ListFilter) ([]task.TaskWithOwner, error) {
					return nil, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeTaskStore{}

			if tt.storeSetup != nil {
				tt.storeSetup(store)
			}

			h := handlers.NewTasksHandler(store)
			r := setupAuthedRouter(http.MethodGet, "/api/tasks", h.ListTasks)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestListTasksExpandsOwner(t *testing.T) {
	store := &fakeTaskStore{
		listFn: func(ctx context.Context, ownerID string, filter task.ListFilter) ([]task.TaskWithOwner, error) {
			return []task.TaskWithOwner{
				{
					Task:  task.Task{ID: "t-1", Title: "Write spec", Status: task.StatusPending, OwnerID: ownerID},
					Owner: task.Owner{ID: ownerID, Name: "Ann", Email: "ann@x.com"},
				},
			}, nil
		},
	}

	h := handlers.NewTasksHandler(store)
	r := setupAuthedRouter(http.MethodGet, "/api/tasks", h.ListTasks)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp []struct {
		Owner struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"owner"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if len(resp) != 1 {
		t.Fatalf("got %d tasks, want 1", len(resp))
	}

	if resp[0].Owner.Name != "Ann" || resp[0].Owner.Email != "ann@x.com" {
		t.Fatalf("owner not expanded: %+v", resp[0].Owner)
	}
}

func TestUpdateTaskHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		storeSetup     func(*fakeTaskStore)
		wantStatusCode int
		wantMessage    string
	}{
		{
			name: "success",
			body: `{"title":"New title"}`,
			storeSetup: func(f *fakeTaskStore) {
				f.updateFn = func(ctx context.Context, ownerID, taskID string, req task.UpdateTaskRequest) (task.Task, error) {
					return task.Task{ID: taskID, Title: *req.Title, Status: task.StatusPending, OwnerID: ownerID}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantMessage:    "Task updated",
		},
		{
			name:           "empty_body",
			body:           ``,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Request body is required.",
		},
		{
			name:           "empty_object",
			body:           `{}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Request body is required.",
		},
		{
			// a single unknown key rejects the request wholesale
			name:           "non_whitelisted_field",
			body:           `{"title":"Fine","priority":"high"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Invalid updates!",
		},
		{
			name:           "owner_not_updatable",
			body:           `{"owner":"someone-else"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Invalid updates!",
		},
		{
			name: "not_found_or_not_owned",
			body: `{"title":"New title"}`,
			storeSetup: func(f *fakeTaskStore) {
				f.updateFn = func(ctx context.Context, ownerID, taskID string, req task.UpdateTaskRequest) (task.Task, error) {
					return task.Task{}, task.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "Task not found.",
		},
		{
			name: "repo_error",
			body: `{"title":"New title"}`,
			storeSetup: func(f *fakeTaskStore) {
				f.updateFn = func(ctx context.Context, ownerID, taskID string, req task.UpdateTaskRequest) (task.Task, error) {
					return task.Task{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeTaskStore{}

			if tt.storeSetup != nil {
				tt.storeSetup(store)
			}

			h := handlers.NewTasksHandler(store)
			r := setupAuthedRouter(http.MethodPut, "/api/tasks/:id", h.UpdateTask)

			w := doJSON(r, http.MethodPut, "/api/tasks/t-1", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantMessage != "" {
				var resp struct {
					Message string `json:"message"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Message != tt.wantMessage {
					t.Fatalf("got message %q, want %q", resp.Message, tt.wantMessage)
				}
			}
		})
	}
}

func TestDeleteTaskHandler(t *testing.T) {
	tests := []struct {
		name           string
		storeSetup     func(*fakeTaskStore)
		wantStatusCode int
	}{
		{
			name: "success",
			storeSetup: func(f *fakeTaskStore) {
				f.deleteFn = func(ctx context.Context, ownerID, taskID string) error {
					if ownerID != testIdentity.ID {
						t.Fatalf("delete not scoped to the authenticated owner")
					}
					return nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found_or_not_owned",
			storeSetup: func(f *fakeTaskStore) {
				f.deleteFn = func(ctx context.Context, ownerID, taskID string) error {
					return task.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "repo_error",
			storeSetup: func(f *fakeTaskStore) {
				f.deleteFn = func(ctx context.Context, ownerID, taskID string) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeTaskStore{}

			if tt.storeSetup != nil {
				tt.storeSetup(store)
			}

			h := handlers.NewTasksHandler(store)
			r := setupAuthedRouter(http.MethodDelete, "/api/tasks/:id", h.DeleteTask)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/tasks/t-1", nil))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
