package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TasksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTasksRepo(pool *pgxpool.Pool, prom *observability.Prom) *TasksRepo {
	return &TasksRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *TasksRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *TasksRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	err := r.observe("todos.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO todos (id, user_id, title, due_date, is_completed, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, t.UserID, t.Title, t.DueDate, t.IsCompleted, t.CreatedAt, t.UpdatedAt)
		return err
	})

	if err != nil {
		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) ListByOwner(ctx context.Context, userID string) ([]task.Task, error) {
	output := make([]task.Task, 0)

	err := r.observe("todos.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, user_id, title, due_date, is_completed, created_at, updated_at
			 FROM todos
			 WHERE user_id = $1`,
			userID)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var t task.Task

			err = rows.Scan(&t.ID, &t.UserID, &t.Title, &t.DueDate, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt)

			if err != nil {
				return err
			}

			output = append(output, t)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *TasksRepo) GetByID(ctx context.Context, id string) (task.Task, error) {
	var t task.Task

	err := r.observe("todos.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, user_id, title, due_date, is_completed, created_at, updated_at
			 FROM todos
			 WHERE id = $1`,
			id).Scan(&t.ID, &t.UserID, &t.Title, &t.DueDate, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}

		return task.Task{}, err
	}

	return t, nil
}

// Update replaces the mutable fields in a single statement; two concurrent
// updates to the same row are last-writer-wins.
func (r *TasksRepo) Update(ctx context.Context, id string, t task.Task) (task.Task, error) {
	var out task.Task

	err := r.observe("todos.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE todos
				SET title = $2,
						due_date = $3,
						is_completed = $4,
						updated_at = NOW()
			WHERE id = $1
			RETURNING id, user_id, title, due_date, is_completed, created_at, updated_at`,
			id,
			t.Title,
			t.DueDate,
			t.IsCompleted,
		).Scan(
			&out.ID,
			&out.UserID,
			&out.Title,
			&out.DueDate,
			&out.IsCompleted,
			&out.CreatedAt,
			&out.UpdatedAt,
		)
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}

		return task.Task{}, err
	}

	return out, nil
}

func (r *TasksRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("todos.delete", func() error {
		tag, err := r.pool.Exec(ctx, `
			DELETE FROM todos WHERE id = $1
		`, id)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()

		return nil
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if affected == 0 {
		return task.ErrNotFound
	}

	return nil
}
