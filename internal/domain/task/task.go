package task

import (
	"errors"
	"time"
)

// ErrNotFound also covers tasks owned by someone else: ownership failures are
// indistinguishable from missing rows so ids cannot be enumerated.
var ErrNotFound = errors.New("task not found")

type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	DueDate     time.Time `json:"dueDate"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title   string    `json:"title" binding:"required,min=1,max=200"`
	DueDate time.Time `json:"dueDate" binding:"omitempty"`
}

// Full replacement of the three mutable fields; id and owner never change.
type UpdateTaskRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
	IsCompleted bool      `json:"isCompleted"`
}
