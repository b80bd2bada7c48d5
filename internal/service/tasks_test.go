package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/repo/memory"
	"github.com/geocoder89/taskhub/internal/service"
)

func TestCreateTask_Defaults(t *testing.T) {
	svc := service.NewTaskService(memory.NewTasksRepo())
	ctx := context.Background()

	before := time.Now().UTC()

	created, err := svc.Create(ctx, "user-a", task.CreateTaskRequest{Title: "Buy milk"})

	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == "" {
		t.Fatalf("expected a generated id")
	}

	if created.UserID != "user-a" {
		t.Fatalf("owner mismatch: %q", created.UserID)
	}

	if created.IsCompleted {
		t.Fatalf("new task must start open")
	}

	// omitted dueDate defaults to creation time
	if created.DueDate.Before(before) || created.DueDate.After(time.Now().UTC().Add(time.Second)) {
		t.Fatalf("dueDate not defaulted to now: %v", created.DueDate)
	}
}

func TestCreateTask_ExplicitDueDate(t *testing.T) {
	svc := service.NewTaskService(memory.NewTasksRepo())
	ctx := context.Background()

	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	created, err := svc.Create(ctx, "user-a", task.CreateTaskRequest{Title: "X", DueDate: due})

	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !created.DueDate.Equal(due) {
		t.Fatalf("dueDate mismatch: got %v want %v", created.DueDate, due)
	}

	listed, err := svc.List(ctx, "user-a")

	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(listed) != 1 || listed[0].Title != "X" || !listed[0].DueDate.Equal(due) || listed[0].IsCompleted {
		t.Fatalf("round-trip mismatch: %+v", listed)
	}
}

func TestList_OnlyOwnersTasks(t *testing.T) {
	svc := service.NewTaskService(memory.NewTasksRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-a", task.CreateTaskRequest{Title: "mine"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, "user-b", task.CreateTaskRequest{Title: "theirs"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	listed, err := svc.List(ctx, "user-a")

	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(listed) != 1 || listed[0].Title != "mine" {
		t.Fatalf("expected only user-a's task, got %+v", listed)
	}
}

func TestUpdate_OwnershipCollapsesToNotFound(t *testing.T) {
	svc := service.NewTaskService(memory.NewTasksRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-a", task.CreateTaskRequest{Title: "mine"})

	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req := task.UpdateTaskRequest{Title: "stolen", DueDate: created.DueDate, IsCompleted: true}

	// another user touching the task: indistinguishable from a missing id
	_, err = svc.Update(ctx, "user-b", created.ID, req)

	if !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("foreign update: got %v, want ErrNotFound", err)
	}

	_, err = svc.Update(ctx, "user-a", "no-such-id", req)

	if !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("missing id: got %v, want ErrNotFound", err)
	}

	// the owner's update succeeds
	updated, err := svc.Update(ctx, "user-a", created.ID, req)

	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}

	if updated.Title != "stolen" || !updated.IsCompleted {
		t.Fatalf("update not applied: %+v", updated)
	}

	if updated.UserID != "user-a" || updated.ID != created.ID {
		t.Fatalf("immutable fields changed: %+v", updated)
	}
}

func TestUpdate_ToggleIsIdempotent(t *testing.T) {
	svc := service.NewTaskService(memory.NewTasksRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-a", task.CreateTaskRequest{Title: "X"})

	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req := task.UpdateTaskRequest{Title: "X", DueDate: created.DueDate, IsCompleted: true}

	for i := 0; i < 2; i++ {
		updated, err := svc.Update(ctx, "user-a", created.ID, req)

		if err != nil {
			t.Fatalf("update %d failed: %v", i+1, err)
		}

		if !updated.IsCompleted {
			t.Fatalf("update %d: task should stay completed", i+1)
		}
	}

	// and back to open
	req.IsCompleted = false

	updated, err := svc.Update(ctx, "user-a", created.ID, req)

	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	if updated.IsCompleted {
		t.Fatalf("task should be open again")
	}
}

func TestDelete_OwnershipAndRemoval(t *testing.T) {
	svc := service.NewTaskService(memory.NewTasksRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-a", task.CreateTaskRequest{Title: "X"})

	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, "user-b", created.ID); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("foreign delete: got %v, want ErrNotFound", err)
	}

	if err := svc.Delete(ctx, "user-a", created.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	listed, err := svc.List(ctx, "user-a")

	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(listed) != 0 {
		t.Fatalf("task still listed after delete: %+v", listed)
	}

	// second delete: the record is gone
	if err := svc.Delete(ctx, "user-a", created.ID); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
