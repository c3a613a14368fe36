package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/taskhub/internal/domain/task"
)

type TasksRepo struct {
	mu    sync.RWMutex
	items map[string]task.Task
	users *UsersRepo
}

// NewTasksRepo needs the users store to expand owners on listing,
// mirroring the store-level join of the postgres repo.
func NewTasksRepo(users *UsersRepo) *TasksRepo {
	return &TasksRepo{
		items: make(map[string]task.Task),
		users: users,
	}
}

func (r *TasksRepo) Create(ctx context.Context, ownerID string, req task.CreateTaskRequest) (task.Task, error) {
	t := task.NewFromCreateRequest(ownerID, req)

	r.mu.Lock()
	r.items[t.ID] = t
	r.mu.Unlock()

	return t, nil
}

func (r *TasksRepo) ListByOwner(ctx context.Context, ownerID string, filter task.ListFilter) ([]task.TaskWithOwner, error) {
	r.mu.RLock()

	matched := make([]task.Task, 0)

	for _, t := range r.items {
		if t.OwnerID != ownerID {
			continue
		}

		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}

		// exact match on the stored value, same as the SQL filter
		if filter.DueDate != nil {
			if t.DueDate == nil || !t.DueDate.Equal(*filter.DueDate) {
				continue
			}
		}

		matched = append(matched, t)
	}

	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	// post-fetch enrichment with the owner's name and email
	out := make([]task.TaskWithOwner, 0, len(matched))

	for _, t := range matched {
		owner, err := r.users.GetByID(ctx, t.OwnerID)

		if err != nil {
			return nil, err
		}

		out = append(out, task.TaskWithOwner{
			Task: t,
			Owner: task.Owner{
				ID:    owner.ID,
				Name:  owner.Name,
				Email: owner.Email,
			},
		})
	}

	return out, nil
}

func (r *TasksRepo) UpdateOwned(ctx context.Context, ownerID, taskID string, req task.UpdateTaskRequest) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[taskID]

	if !ok || t.OwnerID != ownerID {
		return task.Task{}, task.ErrNotFound
	}

	req.Apply(&t)
	r.items[taskID] = t

	return t, nil
}

func (r *TasksRepo) DeleteOwned(ctx context.Context, ownerID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[taskID]

	if !ok || t.OwnerID != ownerID {
		return task.ErrNotFound
	}

	delete(r.items, taskID)

	return nil
}
