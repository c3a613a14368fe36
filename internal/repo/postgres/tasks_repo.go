package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TasksRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom
}

func NewTasksRepo(pool *pgxpool.Pool, metrics *observability.Prom) *TasksRepo {
	return &TasksRepo{pool: pool, metrics: metrics}
}

func (r *TasksRepo) Create(ctx context.Context, ownerID string, req task.CreateTaskRequest) (task.Task, error) {
	t := task.NewFromCreateRequest(ownerID, req)

	err := r.metrics.ObserveDB("tasks.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO tasks (id, title, description, status, assigned_user, due_date, owner_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID, t.Title, t.Description, t.Status, t.AssignedUser, t.DueDate, t.OwnerID, t.CreatedAt, t.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return task.Task{}, err
	}

	return t, nil
}

// ListByOwner returns the owner's tasks with the owner's name and email
// joined in. The dueDate filter is an exact match on the stored value.
func (r *TasksRepo) ListByOwner(ctx context.Context, ownerID string, filter task.ListFilter) ([]task.TaskWithOwner, error) {
	baseQuery := `SELECT t.id,
		t.title,
		t.description,
		t.status,
		t.assigned_user,
		t.due_date,
		t.owner_id,
		t.created_at,
		t.updated_at,
		u.name,
		u.email
	FROM tasks t
	JOIN users u ON u.id = t.owner_id
	WHERE t.owner_id = $1`

	args := []interface{}{ownerID}
	argsPosition := 2

	var conds []string

	if filter.Status != nil {
		conds = append(conds, fmt.Sprintf("t.status = $%d", argsPosition))
		args = append(args, *filter.Status)
		argsPosition++
	}

	if filter.DueDate != nil {
		conds = append(conds, fmt.Sprintf("t.due_date = $%d", argsPosition))
		args = append(args, *filter.DueDate)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " AND " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY t.created_at ASC, t.id ASC"

	var out []task.TaskWithOwner

	err := r.metrics.ObserveDB("tasks.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]task.TaskWithOwner, 0)

		for rows.Next() {
			var t task.TaskWithOwner

			err = rows.Scan(
				&t.ID,
				&t.Title,
				&t.Description,
				&t.Status,
				&t.AssignedUser,
				&t.DueDate,
				&t.OwnerID,
				&t.CreatedAt,
				&t.UpdatedAt,
				&t.Owner.Name,
				&t.Owner.Email,
			)

			if err != nil {
				return err
			}

			t.Owner.ID = t.OwnerID
			out = append(out, t)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// UpdateOwned applies a partial update. Ownership is folded into the
// predicate so a task owned by someone else reads as not found.
func (r *TasksRepo) UpdateOwned(ctx context.Context, ownerID, taskID string, req task.UpdateTaskRequest) (task.Task, error) {
	var sets []string
	var args []interface{}

	argsPosition := 1

	appendSet := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argsPosition))
		args = append(args, val)
		argsPosition++
	}

	if req.Title != nil {
		appendSet("title", *req.Title)
	}
	if req.Description != nil {
		appendSet("description", *req.Description)
	}
	if req.Status != nil {
		appendSet("status", *req.Status)
	}
	if req.AssignedUser != nil {
		appendSet("assigned_user", *req.AssignedUser)
	}
	if req.DueDate != nil {
		appendSet("due_date", *req.DueDate)
	}

	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(
		`UPDATE tasks
		 SET %s
		 WHERE id = $%d AND owner_id = $%d
		 RETURNING id, title, description, status, assigned_user, due_date, owner_id, created_at, updated_at`,
		strings.Join(sets, ", "), argsPosition, argsPosition+1,
	)

	args = append(args, taskID, ownerID)

	var t task.Task

	err := r.metrics.ObserveDB("tasks.update_owned", func() error {
		return r.pool.QueryRow(ctx, query, args...).Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.AssignedUser,
			&t.DueDate,
			&t.OwnerID,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}

		return task.Task{}, err
	}

	return t, nil
}

// DeleteOwned removes the task under the same ownership-folded lookup.
func (r *TasksRepo) DeleteOwned(ctx context.Context, ownerID, taskID string) error {
	var affected int64

	err := r.metrics.ObserveDB("tasks.delete_owned", func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
			taskID, ownerID,
		)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return task.ErrNotFound
	}

	return nil
}
