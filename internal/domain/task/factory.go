package task

import (
	"time"

	"github.com/google/uuid"
)

// New builds a Task for an owner from a create request. A zero dueDate
// defaults to the creation time.
func New(userID string, req CreateTaskRequest) Task {
	now := time.Now().UTC()

	due := req.DueDate

	if due.IsZero() {
		due = now
	}

	return Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		DueDate:     due,
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
