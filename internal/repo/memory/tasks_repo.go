package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
)

type TasksRepo struct {
	mu    sync.RWMutex
	items map[string]task.Task
}

func NewTasksRepo() *TasksRepo {
	return &TasksRepo{
		items: make(map[string]task.Task),
	}
}

func (r *TasksRepo) Create(_ context.Context, t task.Task) (task.Task, error) {
	r.mu.Lock()
	r.items[t.ID] = t
	r.mu.Unlock()

	return t, nil
}

func (r *TasksRepo) ListByOwner(_ context.Context, userID string) ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]task.Task, 0)

	for _, t := range r.items {
		if t.UserID == userID {
			out = append(out, t)
		}
	}

	return out, nil
}

func (r *TasksRepo) GetByID(_ context.Context, id string) (task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]

	if !ok {
		return task.Task{}, task.ErrNotFound
	}

	return t, nil
}

func (r *TasksRepo) Update(_ context.Context, id string, t task.Task) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[id]

	if !ok {
		return task.Task{}, task.ErrNotFound
	}

	existing.Title = t.Title
	existing.DueDate = t.DueDate
	existing.IsCompleted = t.IsCompleted
	existing.UpdatedAt = time.Now().UTC()

	r.items[id] = existing

	return existing, nil
}

func (r *TasksRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]

	if !ok {
		return task.ErrNotFound
	}

	delete(r.items, id)

	return nil
}
