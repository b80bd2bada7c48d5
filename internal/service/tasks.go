package service

import (
	"context"

	"github.com/geocoder89/taskhub/internal/domain/task"
)

type TaskStore interface {
	Create(ctx context.Context, t task.Task) (task.Task, error)
	ListByOwner(ctx context.Context, userID string) ([]task.Task, error)
	GetByID(ctx context.Context, id string) (task.Task, error)
	Update(ctx context.Context, id string, t task.Task) (task.Task, error)
	Delete(ctx context.Context, id string) error
}

type TaskService struct {
	tasks TaskStore
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) List(ctx context.Context, userID string) ([]task.Task, error) {
	return s.tasks.ListByOwner(ctx, userID)
}

func (s *TaskService) Create(ctx context.Context, userID string, req task.CreateTaskRequest) (task.Task, error) {
	return s.tasks.Create(ctx, task.New(userID, req))
}

// Update loads the task and checks ownership before touching anything. A task
// owned by someone else is reported as task.ErrNotFound, same as a missing
// one.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, req task.UpdateTaskRequest) (task.Task, error) {
	existing, err := s.ownedTask(ctx, userID, taskID)

	if err != nil {
		return task.Task{}, err
	}

	existing.Title = req.Title
	existing.DueDate = req.DueDate
	existing.IsCompleted = req.IsCompleted

	return s.tasks.Update(ctx, taskID, existing)
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	_, err := s.ownedTask(ctx, userID, taskID)

	if err != nil {
		return err
	}

	return s.tasks.Delete(ctx, taskID)
}

func (s *TaskService) ownedTask(ctx context.Context, userID, taskID string) (task.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)

	if err != nil {
		return task.Task{}, err
	}

	if t.UserID != userID {
		return task.Task{}, task.ErrNotFound
	}

	return t, nil
}
