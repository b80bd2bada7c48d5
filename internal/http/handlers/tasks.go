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
)

type TaskProvider interface {
	List(ctx context.Context, userID string) ([]task.Task, error)
	Create(ctx context.Context, userID string, req task.CreateTaskRequest) (task.Task, error)
	Update(ctx context.Context, userID, taskID string, req task.UpdateTaskRequest) (task.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}

type TasksHandler struct {
	svc TaskProvider
}

func NewTasksHandler(svc TaskProvider) *TasksHandler {
	return &TasksHandler{svc: svc}
}

func (h *TasksHandler) ListTasks(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	tasks, err := h.svc.List(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list tasks")
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req task.CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	t, err := h.svc.Create(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create task")
		return
	}

	ctx.JSON(http.StatusCreated, t)
}

func (h *TasksHandler) UpdateTask(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id := ctx.Param("id")

	var req task.UpdateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	_, err := h.svc.Update(cctx, userID, id, req)

	if err != nil {
		// missing and foreign-owned tasks look identical here
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}

		RespondInternal(ctx, "Could not update task")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.svc.Delete(cctx, userID, id)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}

		RespondInternal(ctx, "Could not delete task")
		return
	}

	ctx.Status(http.StatusNoContent)
}
